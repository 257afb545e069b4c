package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/daily-diet-api/internal/auth"
	"github.com/sakif/daily-diet-api/internal/service"
)

// AuthHandler manages registration, login, and logout.
//
// It owns the HTTP half of the session flow: decode the body, call the
// service, set or clear the session cookie. The service never touches
// cookies and the handler never touches password hashes.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a user account and logs it straight in.
//
// HTTP: POST /users
// Body: {"name": "...", "email": "...", "password": "..."}
// Success: 201 with the created user (no hash) and the session cookie set.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("register: invalid JSON body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, result.SessionID)
	writeJSON(w, http.StatusCreated, result.User)
}

// HandleLogin validates credentials and rotates the session cookie.
//
// HTTP: POST /login
// Body: {"email": "...", "password": "..."}
// Failure is always a 401 with the same message, whichever half was wrong.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("login: invalid JSON body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, result.SessionID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged in"})
}

// HandleLogout clears the stored session and the cookie.
//
// HTTP: DELETE /login
// Auth: required (RequireSession resolved the cookie to a user already).
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireSession, but don't assume.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "a valid session is required",
		})
		return
	}

	if err := h.authService.Logout(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	auth.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
