package handler

import (
	"net/http"

	"clothing-store/internal/auth"
	"clothing-store/internal/model"

	"github.com/rs/zerolog"
)

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Message string         `json:"message"`
	User    model.UserView `json:"user"`
}

// VerifyResponse reports whether the caller holds a valid session.
type VerifyResponse struct {
	Authenticated bool `json:"authenticated"`
}

// AuthHandler handles login, logout and session checks.
type AuthHandler struct {
	service auth.Service
	cookies auth.CookieOptions
	errors  errorWriter
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service auth.Service, cookies auth.CookieOptions, exposeDetails bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: cookies,
		errors: errorWriter{
			exposeDetails: exposeDetails,
			logger:        logger.With().Str("handler", "auth").Logger(),
		},
	}
}

// Login handles POST /api/auth/login and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.writeError(w, r, err)
		return
	}

	http.SetCookie(w, h.cookies.SessionCookie(result.Token))
	writeJSON(w, http.StatusOK, LoginResponse{Message: "Login successful", User: result.User})
}

// Logout handles POST /api/auth/logout. It always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookies.ClearedCookie())
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// Verify handles GET /api/auth/verify. It never fails; an absent or invalid
// token is reported as unauthenticated.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r, h.cookies.Name)
	writeJSON(w, http.StatusOK, VerifyResponse{Authenticated: h.service.Verify(token)})
}
