package api

import (
	"log/slog"
	"net/http"

	"github.com/lusolearn/lusolearn-api/internal/api/shared"
	"github.com/lusolearn/lusolearn-api/internal/domain/frequency"
	"github.com/lusolearn/lusolearn-api/internal/platform/logger"
	"github.com/lusolearn/lusolearn-api/internal/service/review"
	"github.com/lusolearn/lusolearn-api/internal/study"
)

// StudyHandler handles the study session endpoints.
type StudyHandler struct {
	reviewService review.Service
	logger        *slog.Logger
}

// NewStudyHandler creates a new StudyHandler
func NewStudyHandler(reviewService review.Service, logger *slog.Logger) *StudyHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil for StudyHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "study_handler")),
	}
}

// GetSession handles GET /api/study/session
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.reviewService.Session(r.Context()))
}

// StartSession handles POST /api/study/session
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	mode, err := study.ParseMode(req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	buckets := frequency.AllSet()
	if len(req.Buckets) > 0 {
		if buckets, err = frequency.ParseSet(req.Buckets); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
	}

	view, err := h.reviewService.Start(r.Context(), review.StartOptions{
		Mode:     mode,
		Buckets:  buckets,
		FolderID: req.FolderID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// StopSession handles DELETE /api/study/session
func (h *StudyHandler) StopSession(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.reviewService.Stop(r.Context()))
}

// FocusCard handles POST /api/study/focus/{id}
func (h *StudyHandler) FocusCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	view, err := h.reviewService.Focus(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to focus card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// SetShuffle handles PUT /api/study/shuffle
func (h *StudyHandler) SetShuffle(w http.ResponseWriter, r *http.Request) {
	var req ShuffleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.reviewService.SetShuffle(r.Context(), *req.Enabled))
}

// SetFolder handles PUT /api/study/folder
func (h *StudyHandler) SetFolder(w http.ResponseWriter, r *http.Request) {
	var req SetFolderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.reviewService.SetFolder(r.Context(), req.FolderID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to change folder")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// NextCard handles GET /api/study/next. An exhausted session answers 204.
func (h *StudyHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	next, err := h.reviewService.Next(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next card")
		return
	}

	if next.Card == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NextCardResponse{
		Session: next.Session,
		Card:    cardToResponse(next.Card),
	})
}

// SubmitAnswer handles POST /api/study/answer
func (h *StudyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req AnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.reviewService.Answer(r.Context(), *req.Success, req.CardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("answer recorded",
		slog.String("card_id", result.Card.ID),
		slog.Bool("success", *req.Success))
	shared.RespondWithJSON(w, r, http.StatusOK, AnswerResponse{
		Card:    cardToResponse(result.Card),
		Profile: profileToResponse(result.Profile),
		Session: result.Session,
	})
}
