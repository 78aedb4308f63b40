package lightweb

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter configures all lighting panel routes
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(noCache)

	// Public routes
	r.Get("/login", h.HandleLoginForm)
	r.Post("/login", h.HandleLogin)
	r.Get("/logout", h.HandleLogout)
	r.Get("/register", h.HandleRegisterForm)
	r.Post("/register", h.HandleRegister)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(h.sessions))

		r.Get("/", h.HandleIndex)
		r.Get("/group/{id}", h.HandleGroup)
		r.Get("/light/{id}", h.HandleLight)
		r.Post("/light/{id}", h.HandleLight)
		r.Post("/control/{id}", h.HandleControl)
		r.Get("/account", h.HandleAccountForm)
		r.Post("/account", h.HandleAccount)
	})

	return r
}
