// Package server exposes the session layer over a chi REST API. Handlers
// only talk to the state stores; they never reach into the repositories
// except through the session's pass-through query surface.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/spendbook/backend/internal/auth"
	"github.com/spendbook/backend/internal/log"
	"github.com/spendbook/backend/internal/session"
)

// Server wires the HTTP handlers to the session manager.
type Server struct {
	sessions *session.Manager
	logger   *log.Logger
}

// New creates a server over the given session manager.
func New(sessions *session.Manager, logger *log.Logger) *Server {
	return &Server{
		sessions: sessions,
		logger:   logger.WithComponent("server"),
	}
}

// Router builds the chi router. The auth middlewares guard everything under
// /v1; the health endpoint stays public.
func (s *Server) Router(authMiddlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(log.Middleware(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/v1", func(r chi.Router) {
		for _, mw := range authMiddlewares {
			r.Use(mw)
		}

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.listProfiles)
			r.Post("/", s.createProfile)
			r.Post("/refresh", s.refreshProfiles)
			r.Patch("/{profileID}", s.updateProfile)
			r.Delete("/{profileID}", s.deleteProfile)
			r.Post("/{profileID}/activate", s.activateProfile)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.listExpenses)
			r.Post("/", s.createExpense)
			r.Patch("/{expenseID}", s.updateExpense)
			r.Delete("/{expenseID}", s.deleteExpense)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/payment-methods", s.paymentMethodStats)
			r.Get("/top-category", s.topCategory)
			r.Get("/monthly", s.monthlyTotal)
			r.Get("/monthly-comparison", s.monthlyComparison)
		})

		r.Post("/session/logout", s.logout)
	})

	return r
}

// getSession resolves the caller's session from the verified claims.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s.sessions.Get(r.Context(), claims), true
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	s.sessions.End(claims.UID)
	w.WriteHeader(http.StatusNoContent)
}
