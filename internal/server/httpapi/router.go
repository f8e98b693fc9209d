package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/requestid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the account routes. Profile and password change go
// through the gate; signup, login, refresh and delete do not.
func NewRouter(h *Handlers, gate Authenticator, l logging.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(LogRequests(l))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireIdentity(gate, l))
		r.Get("/single/users", h.Profile)
		r.Patch("/users", h.ChangePassword)
	})

	r.Delete("/users", h.DeleteAccount)

	return r
}
