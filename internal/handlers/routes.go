package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	// WebSocket stays outside the timeout so connections are not cut
	r.Get("/ws", h.Hub.ServeWs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/health", h.handleHealth)

		// Lottery (public)
		r.Get("/api/lottery/status", h.handleGetStatus)
		r.Get("/api/lottery/winners", h.handleGetWinners)
		r.Get("/api/lottery/winners/{id}/qr", h.handleWinnerQR)
		r.Get("/api/lottery/multi-win-config", h.handleGetMultiWinConfig)
		r.Get("/api/lottery/multi-win-stats", h.handleGetMultiWinStats)
		r.Get("/api/lottery/system-config", h.handleGetSystemConfig)
		r.Get("/api/awards", h.handleGetAwards)
		r.Get("/api/participants", h.handleGetParticipants)

		// Auth (public)
		r.Post("/api/admin/login", h.handleLogin)
		r.Post("/api/admin/logout", h.handleLogout)

		// Admin API (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)

			// Draws and rounds
			r.Post("/api/lottery/draw", h.handleDraw)
			r.Post("/api/lottery/next-round", h.handleNextRound)
			r.Post("/api/lottery/close-round", h.handleCloseRound)
			r.Post("/api/lottery/open-round", h.handleOpenRound)
			r.Post("/api/lottery/reset", h.handleReset)
			r.Delete("/api/lottery/winners/{id}", h.handleRevokeWinner)

			// Settings
			r.Put("/api/lottery/multi-win-config", h.handleUpdateMultiWinConfig)
			r.Put("/api/lottery/system-config", h.handleUpdateSystemConfig)

			// Roster
			r.Post("/api/awards", h.handleCreateAward)
			r.Post("/api/participants", h.handleCreateParticipant)
		})
	})

	return r
}
