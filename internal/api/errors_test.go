package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lusolearn/lusolearn-api/internal/api/shared"
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/domain/frequency"
	"github.com/lusolearn/lusolearn-api/internal/service"
	"github.com/lusolearn/lusolearn-api/internal/service/auth"
	"github.com/lusolearn/lusolearn-api/internal/service/review"
	"github.com/lusolearn/lusolearn-api/internal/study"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err     error
		status  int
		message string
	}{
		{auth.ErrExpiredToken, http.StatusUnauthorized, "Token expired"},
		{auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{domain.ErrCardNotFound, http.StatusNotFound, "Card not found"},
		{domain.ErrFolderNotFound, http.StatusNotFound, "Folder not found"},
		{service.ErrSortJobNotFound, http.StatusNotFound, "Sort job not found"},
		{domain.ErrDefaultFolderImmutable, http.StatusConflict, "The default folder cannot be deleted"},
		{service.ErrSortJobApplied, http.StatusConflict, "Sort job was already applied"},
		{service.ErrSortJobNotReady, http.StatusConflict, "Sort job has no suggestions to apply"},
		{review.ErrSessionIdle, http.StatusConflict, "No study session in progress"},
		{review.ErrStaleAnswer, http.StatusConflict, "The answered card is no longer current"},
		{review.ErrNoCardDue, http.StatusConflict, "No card is due"},
		{service.ErrSmartSortUnavailable, http.StatusServiceUnavailable, "Smart sort is not configured"},
		{domain.ErrCardTermEmpty, http.StatusBadRequest, "Card term is required"},
		{domain.ErrFolderNameEmpty, http.StatusBadRequest, "Folder name is required"},
		{frequency.ErrUnknownBucket, http.StatusBadRequest, "Unknown frequency bucket"},
		{study.ErrUnknownMode, http.StatusBadRequest, "Unknown study mode"},
		{service.ErrInvalidStatsRange, http.StatusBadRequest, "Stats range must be 7 or 30 days"},
		{service.ErrInvalidBackup, http.StatusBadRequest, "Backup contains invalid data"},
		{service.ErrIncompleteBackup, http.StatusBadRequest, "Backup must contain cards, user and folders"},
		{shared.ErrEmptyBody, http.StatusBadRequest, "Request body is required"},
		{domain.ErrEmptyContent, http.StatusBadRequest, "Invalid request data"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			t.Parallel()

			wrapped := service.NewServiceError("op", "msg", fmt.Errorf("context: %w", tc.err))
			assert.Equal(t, tc.status, MapErrorToStatusCode(wrapped))
			assert.Equal(t, tc.message, GetSafeErrorMessage(wrapped))
		})
	}

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(FolderRequest{})
	assert.Equal(t, "Invalid Name: required field", SanitizeValidationError(err))

	err = shared.ValidateRequest(StartSessionRequest{Mode: "cram"})
	assert.Equal(t, "Invalid Mode: invalid value", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
