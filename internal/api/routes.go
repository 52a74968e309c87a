package api

import (
	"github.com/go-chi/chi/v5"
)

// Handlers groups the handlers mounted under /api.
type Handlers struct {
	Cards   *CardHandler
	Folders *FolderHandler
	Library *LibraryHandler
	Study   *StudyHandler
	Backup  *BackupHandler
	Sort    *SortHandler
}

// RegisterRoutes mounts every API endpoint on r. Callers add the
// authentication middleware to r beforehand when it is enabled.
func RegisterRoutes(r chi.Router, h Handlers) {
	r.Get("/notices", h.Library.GetNotices)
	r.Get("/profile", h.Library.GetProfile)
	r.Get("/stats", h.Library.GetStats)

	r.Route("/cards", func(r chi.Router) {
		r.Get("/", h.Cards.ListCards)
		r.Post("/", h.Cards.CreateCards)
		r.Put("/{id}", h.Cards.UpdateCard)
		r.Delete("/{id}", h.Cards.DeleteCard)
		r.Post("/{id}/folders/{folderID}", h.Cards.ToggleFolder)
	})

	r.Route("/folders", func(r chi.Router) {
		r.Get("/", h.Folders.ListFolders)
		r.Post("/", h.Folders.CreateFolder)
		r.Put("/{id}", h.Folders.RenameFolder)
		r.Delete("/{id}", h.Folders.DeleteFolder)
	})

	r.Route("/study", func(r chi.Router) {
		r.Get("/session", h.Study.GetSession)
		r.Post("/session", h.Study.StartSession)
		r.Delete("/session", h.Study.StopSession)
		r.Post("/focus/{id}", h.Study.FocusCard)
		r.Put("/shuffle", h.Study.SetShuffle)
		r.Put("/folder", h.Study.SetFolder)
		r.Get("/next", h.Study.NextCard)
		r.Post("/answer", h.Study.SubmitAnswer)
	})

	r.Get("/backup", h.Backup.Export)
	r.Post("/backup", h.Backup.Import)

	r.Route("/sort", func(r chi.Router) {
		r.Post("/", h.Sort.RequestSort)
		r.Get("/{id}", h.Sort.GetJob)
		r.Post("/{id}/apply", h.Sort.ApplyJob)
	})
}
