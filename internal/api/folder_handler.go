package api

import (
	"log/slog"
	"net/http"

	"github.com/lusolearn/lusolearn-api/internal/api/shared"
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/service"
)

// FolderHandler handles folder-related HTTP requests
type FolderHandler struct {
	folderService service.FolderService
	cardService   service.CardService
	logger        *slog.Logger
}

// NewFolderHandler creates a new FolderHandler
func NewFolderHandler(folderService service.FolderService, cardService service.CardService, logger *slog.Logger) *FolderHandler {
	if folderService == nil || cardService == nil {
		panic("services cannot be nil for FolderHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for FolderHandler")
	}

	return &FolderHandler{
		folderService: folderService,
		cardService:   cardService,
		logger:        logger.With(slog.String("component", "folder_handler")),
	}
}

// ListFolders handles GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cardService.ListCards(r.Context(), service.CardFilter{FolderID: domain.AllFoldersID})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list folders")
		return
	}

	counts := make(map[string]int)
	for _, c := range cards {
		for _, id := range c.FolderIDs {
			counts[id]++
		}
	}

	folders := h.folderService.ListFolders(r.Context())
	out := make([]FolderResponse, len(folders))
	for i, f := range folders {
		out[i] = FolderResponse{
			ID:        f.ID,
			Name:      f.Name,
			CardCount: counts[f.ID],
			IsDefault: f.ID == domain.DefaultFolderID,
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// CreateFolder handles POST /api/folders. An existing folder with the same
// name is returned with 200 instead of 201.
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	folder, created, err := h.folderService.CreateFolder(r.Context(), req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create folder")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	shared.RespondWithJSON(w, r, status, FolderResponse{
		ID:        folder.ID,
		Name:      folder.Name,
		IsDefault: folder.ID == domain.DefaultFolderID,
	})
}

// RenameFolder handles PUT /api/folders/{id}
func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	folderID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	var req FolderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	folder, err := h.folderService.RenameFolder(r.Context(), folderID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to rename folder")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FolderResponse{
		ID:        folder.ID,
		Name:      folder.Name,
		IsDefault: folder.ID == domain.DefaultFolderID,
	})
}

// DeleteFolder handles DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	folderID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), folderID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete folder")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
