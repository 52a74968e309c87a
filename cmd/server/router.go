package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lusolearn/lusolearn-api/internal/api"
	apiMiddleware "github.com/lusolearn/lusolearn-api/internal/api/middleware"
	"github.com/rs/cors"
)

// setupRouter creates the router with the standard middleware, the health and
// metrics endpoints and the API under /api.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	handlers := api.Handlers{
		Cards:   api.NewCardHandler(app.cardService, app.logger),
		Folders: api.NewFolderHandler(app.folderService, app.cardService, app.logger),
		Library: api.NewLibraryHandler(app.cardService, app.library, app.logger),
		Study:   api.NewStudyHandler(app.reviewService, app.logger),
		Backup:  api.NewBackupHandler(app.syncService, time.Now, app.logger),
		Sort:    api.NewSortHandler(app.sortService, app.logger),
	}

	r.Route("/api", func(r chi.Router) {
		if app.jwtService != nil {
			r.Use(apiMiddleware.NewAuthMiddleware(app.jwtService).Authenticate)
		}
		api.RegisterRoutes(r, handlers)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return app.corsHandler(r)
}

func (app *application) corsHandler(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		ExposedHeaders:   []string{"Content-Disposition", "Location"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(next)
}
