package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bdamokos/travel-tracker/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
	})

	// versioned entity documents, one collection per kind
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/travels/{id}", func(r chi.Router) {
			r.Get("/", h.getEntity(models.KindTravel))
			r.Put("/", h.putEntity(models.KindTravel))
			r.Patch("/", h.patchEntity(models.KindTravel))
		})

		r.Route("/api/costs/{id}", func(r chi.Router) {
			r.Get("/", h.getEntity(models.KindCost))
			r.Put("/", h.putEntity(models.KindCost))
			r.Patch("/", h.patchEntity(models.KindCost))
		})
	})

	return router
}
