package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)

	// health probe without authorization, so clients can detect
	// connectivity before presenting a token
	router.Group(func(r chi.Router) {
		r.Use(h.withLogging)
		r.Use(withGZip)
		r.Head("/api/health", h.health)
		r.Get("/api/health", h.health)
	})

	// live change feed: the connection is hijacked during the upgrade,
	// so it must not pass through the response-rewriting middleware
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/sync/changes", h.syncChanges)
	})

	// scoped record API
	router.Group(func(r chi.Router) {
		r.Use(h.withLogging)
		r.Use(withGZip)
		r.Use(h.auth)
		r.Get("/api/{collection}", h.listRecords)
		r.Get("/api/{collection}/{id}", h.getRecord)
		r.Put("/api/{collection}/{id}", h.putRecord)
		r.Delete("/api/{collection}/{id}", h.deleteRecord)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
