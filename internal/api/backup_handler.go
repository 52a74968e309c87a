package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/api/shared"
	"github.com/lusolearn/lusolearn-api/internal/platform/logger"
	"github.com/lusolearn/lusolearn-api/internal/service"
)

const maxBackupBytes = 32 << 20

// BackupHandler exports and imports the whole library.
type BackupHandler struct {
	syncService service.SyncService
	now         func() time.Time
	logger      *slog.Logger
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(syncService service.SyncService, now func() time.Time, logger *slog.Logger) *BackupHandler {
	if syncService == nil {
		panic("syncService cannot be nil for BackupHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for BackupHandler")
	}
	if now == nil {
		now = time.Now
	}

	return &BackupHandler{
		syncService: syncService,
		now:         now,
		logger:      logger.With(slog.String("component", "backup_handler")),
	}
}

// Export handles GET /api/backup?format=json|yaml
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := service.ParseBackupFormat(r.URL.Query().Get("format"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var buf bytes.Buffer
	if err := service.EncodeBackup(&buf, h.syncService.Export(r.Context()), format); err != nil {
		HandleAPIError(w, r, err, "Failed to export backup")
		return
	}

	w.Header().Set("Content-Type", backupContentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", service.BackupFileName(h.now(), format)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("failed to write backup",
			slog.String("error", err.Error()))
	}
}

// Import handles POST /api/backup. YAML bodies are recognized by
// Content-Type or ?format=yaml.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	format, err := service.ParseBackupFormat(importFormat(r))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	doc, err := service.DecodeBackup(http.MaxBytesReader(w, r.Body, maxBackupBytes), format)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid backup")
		return
	}

	if err := h.syncService.Import(r.Context(), doc); err != nil {
		HandleAPIError(w, r, err, "Failed to import backup")
		return
	}

	log.Info("backup imported", slog.Int("cards", len(doc.Cards)), slog.Int("folders", len(doc.Folders)))
	shared.RespondWithJSON(w, r, http.StatusOK, ImportResponse{
		Cards:   len(doc.Cards),
		Folders: len(doc.Folders),
	})
}

func importFormat(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return string(service.BackupFormatYAML)
	default:
		return ""
	}
}

func backupContentType(format service.BackupFormat) string {
	if format == service.BackupFormatYAML {
		return "application/yaml"
	}
	return "application/json"
}
