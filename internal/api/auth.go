package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/davisrp/timingboard/internal/auth"
	"github.com/davisrp/timingboard/internal/storage"
)

// ProfileResponse represents a profile in API responses.
type ProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func profileResponse(p *storage.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// CredentialsRequest is the request body for signup and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignUp registers a new profile with the default user role
// POST /api/auth/signup
// Body: {"email": "...", "password": "..."}
func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}

	profile, err := h.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			WriteError(w, http.StatusConflict, ErrCodeEmailTaken, "Email is already registered")
		case errors.Is(err, auth.ErrBadEmail), errors.Is(err, auth.ErrWeakPassword):
			WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		default:
			h.logger.Error("signup failed", "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
		}
		return
	}

	h.logger.Info("profile created", "profile_id", profile.ID)
	writeJSON(w, http.StatusCreated, profileResponse(profile))
}

// LoginResponse carries the session token and the authenticated profile.
type LoginResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// HandleLogin exchanges credentials for a session token
// POST /api/auth/login
// Body: {"email": "...", "password": "..."}
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}

	profile, token, err := h.auth.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid email or password")
			return
		}
		h.logger.Error("login failed", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:   token,
		Profile: profileResponse(profile),
	})
}

// SessionResponse describes the identity behind the current session token.
type SessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// HandleSession returns the identity for the presented session token
// GET /api/auth/session
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		UserID: identity.UserID,
		Email:  identity.Email,
		Role:   string(identity.Role),
	})
}
