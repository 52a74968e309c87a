package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lusolearn/lusolearn-api/internal/api/shared"
	"github.com/lusolearn/lusolearn-api/internal/service"
	"github.com/lusolearn/lusolearn-api/internal/store"
)

// NoticeSource reports problems found while loading stored data.
type NoticeSource interface {
	Notices() []store.Notice
}

// LibraryHandler serves the profile, stats and load notices.
type LibraryHandler struct {
	cardService service.CardService
	notices     NoticeSource
	logger      *slog.Logger
}

// NewLibraryHandler creates a new LibraryHandler
func NewLibraryHandler(cardService service.CardService, notices NoticeSource, logger *slog.Logger) *LibraryHandler {
	if cardService == nil || notices == nil {
		panic("dependencies cannot be nil for LibraryHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for LibraryHandler")
	}

	return &LibraryHandler{
		cardService: cardService,
		notices:     notices,
		logger:      logger.With(slog.String("component", "library_handler")),
	}
}

// GetProfile handles GET /api/profile
func (h *LibraryHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(h.cardService.Profile(r.Context())))
}

// GetStats handles GET /api/stats?days=7|30. Days defaults to 7.
func (h *LibraryHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			HandleAPIError(w, r, service.ErrInvalidStatsRange, "")
			return
		}
		days = n
	}

	report, err := h.cardService.Stats(r.Context(), days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// GetNotices handles GET /api/notices
func (h *LibraryHandler) GetNotices(w http.ResponseWriter, r *http.Request) {
	notices := h.notices.Notices()
	if notices == nil {
		notices = []store.Notice{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NoticesResponse{Notices: notices})
}
