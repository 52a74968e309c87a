package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lusolearn/lusolearn-api/internal/api/shared"
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/platform/logger"
	"github.com/lusolearn/lusolearn-api/internal/service"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if cardService == nil {
		panic("cardService cannot be nil for CardHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// ListCards handles GET /api/cards?folder=&status=
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	status, err := service.ParseCardStatus(r.URL.Query().Get("status"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), service.CardFilter{
		FolderID: r.URL.Query().Get("folder"),
		Status:   status,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// CreateCards handles POST /api/cards
func (h *CardHandler) CreateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCardsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inputs := make([]service.NewCardInput, len(req.Cards))
	for i, c := range req.Cards {
		inputs[i] = service.NewCardInput{
			OriginalTerm: c.OriginalTerm,
			Translation:  c.Translation,
			Frequency:    c.Frequency,
			FolderIDs:    c.FolderIDs,
		}
	}

	cards, err := h.cardService.CreateCards(r.Context(), inputs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create cards")
		return
	}

	log.Debug("cards created", slog.Int("count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardsToResponse(cards))
}

// UpdateCard handles PUT /api/cards/{id}
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), cardID, service.CardUpdate{
		OriginalTerm: req.OriginalTerm,
		Translation:  req.Translation,
		Frequency:    req.Frequency,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /api/cards/{id}
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleFolder handles POST /api/cards/{id}/folders/{folderID}
func (h *CardHandler) ToggleFolder(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	folderID, ok := pathParam(w, r, "folderID")
	if !ok {
		return
	}

	card, err := h.cardService.ToggleFolder(r.Context(), cardID, folderID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to change card folders")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// pathParam returns a non-blank URL parameter or writes a 400 response.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		HandleAPIError(w, r, domain.ErrInvalidID, "")
		return "", false
	}
	return value, true
}
