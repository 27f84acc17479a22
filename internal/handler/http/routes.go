package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer, withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getServerVersion)
		r.Get("/api/health", h.checkHealth)
	})

	// sync routes: the principal comes from the bearer token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/sync/pull", h.pull)
		r.Post("/api/sync/push", h.push)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
