package handlers

import (
	"net/http"

	"github.com/abrezinsky/prizedraw/internal/auth"
)

// handleLogin checks the admin password and issues a session token, both
// as a cookie for the browser and in the body for API clients
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	token, err := h.Auth.Login(req.Password)
	if err != nil {
		h.Log.Warn("Failed admin login", "remote_addr", r.RemoteAddr)
		h.respondError(w, r, Unauthorized("Invalid password"))
		return
	}

	h.Auth.SetSessionCookie(w, token)
	respondOK(w, LoginResponse{Token: token, ExpiresIn: h.Auth.TTLSeconds()})
}

// handleLogout revokes the session and clears the cookie
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		h.Auth.Logout(token)
	}
	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}
