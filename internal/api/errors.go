package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lusolearn/lusolearn-api/internal/api/shared"
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/domain/frequency"
	"github.com/lusolearn/lusolearn-api/internal/service"
	"github.com/lusolearn/lusolearn-api/internal/service/auth"
	"github.com/lusolearn/lusolearn-api/internal/service/review"
	"github.com/lusolearn/lusolearn-api/internal/study"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the error itself.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrFolderNotFound),
		errors.Is(err, service.ErrSortJobNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrDefaultFolderImmutable),
		errors.Is(err, service.ErrSortJobNotReady),
		errors.Is(err, service.ErrSortJobApplied),
		errors.Is(err, review.ErrSessionIdle),
		errors.Is(err, review.ErrNoCardDue),
		errors.Is(err, review.ErrStaleAnswer):
		return http.StatusConflict

	case errors.Is(err, service.ErrSmartSortUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrCardTermEmpty),
		errors.Is(err, domain.ErrFolderNameEmpty),
		errors.Is(err, frequency.ErrUnknownBucket),
		errors.Is(err, study.ErrUnknownMode),
		errors.Is(err, service.ErrUnknownCardStatus),
		errors.Is(err, service.ErrInvalidStatsRange),
		errors.Is(err, service.ErrIncompleteBackup),
		errors.Is(err, service.ErrInvalidBackup),
		errors.Is(err, service.ErrUnsupportedFormat),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, domain.ErrFolderNotFound):
		return "Folder not found"
	case errors.Is(err, service.ErrSortJobNotFound):
		return "Sort job not found"

	case errors.Is(err, domain.ErrDefaultFolderImmutable):
		return "The default folder cannot be deleted"
	case errors.Is(err, service.ErrSortJobNotReady):
		return "Sort job has no suggestions to apply"
	case errors.Is(err, service.ErrSortJobApplied):
		return "Sort job was already applied"
	case errors.Is(err, review.ErrSessionIdle):
		return "No study session in progress"
	case errors.Is(err, review.ErrNoCardDue):
		return "No card is due"
	case errors.Is(err, review.ErrStaleAnswer):
		return "The answered card is no longer current"

	case errors.Is(err, service.ErrSmartSortUnavailable):
		return "Smart sort is not configured"

	case errors.Is(err, domain.ErrCardTermEmpty):
		return "Card term is required"
	case errors.Is(err, domain.ErrFolderNameEmpty):
		return "Folder name is required"
	case errors.Is(err, frequency.ErrUnknownBucket):
		return "Unknown frequency bucket"
	case errors.Is(err, study.ErrUnknownMode):
		return "Unknown study mode"
	case errors.Is(err, service.ErrUnknownCardStatus):
		return "Unknown card status"
	case errors.Is(err, service.ErrInvalidStatsRange):
		return "Stats range must be 7 or 30 days"
	case errors.Is(err, service.ErrIncompleteBackup):
		return "Backup must contain cards, user and folders"
	case errors.Is(err, service.ErrInvalidBackup):
		return "Backup contains invalid data"
	case errors.Is(err, service.ErrUnsupportedFormat):
		return "Unsupported backup format"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyContent):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "dive":
		return "invalid item"
	default:
		return "validation failed"
	}
}

// HandleAPIError responds with the status and safe message for err. A
// non-empty fallback replaces the generic message of unmapped errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// decodeAndValidate reads a JSON body into req and validates it. It writes
// the error response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err, "")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
