package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lusolearn/lusolearn-api/internal/api/shared"
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/service"
)

// SortHandler handles the smart sort endpoints.
type SortHandler struct {
	sortService service.SortService
	logger      *slog.Logger
}

// NewSortHandler creates a new SortHandler
func NewSortHandler(sortService service.SortService, logger *slog.Logger) *SortHandler {
	if sortService == nil {
		panic("sortService cannot be nil for SortHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for SortHandler")
	}

	return &SortHandler{
		sortService: sortService,
		logger:      logger.With(slog.String("component", "sort_handler")),
	}
}

// RequestSort handles POST /api/sort
func (h *SortHandler) RequestSort(w http.ResponseWriter, r *http.Request) {
	job, err := h.sortService.Request(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start smart sort")
		return
	}

	w.Header().Set("Location", "/api/sort/"+job.ID.String())
	shared.RespondWithJSON(w, r, http.StatusAccepted, SortJobCreatedResponse{JobID: job.ID})
}

// GetJob handles GET /api/sort/{id}
func (h *SortHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathJobID(w, r)
	if !ok {
		return
	}

	job, err := h.sortService.Job(r.Context(), jobID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get sort job")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sortJobToResponse(job))
}

// ApplyJob handles POST /api/sort/{id}/apply
func (h *SortHandler) ApplyJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathJobID(w, r)
	if !ok {
		return
	}

	var req ApplySortRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.sortService.Apply(r.Context(), jobID, req.CardIDs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to apply sort job")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

func pathJobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, domain.ErrInvalidID, "")
		return uuid.Nil, false
	}
	return id, true
}
