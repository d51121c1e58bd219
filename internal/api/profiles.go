package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davisrp/timingboard/internal/storage"
)

// HandleListProfiles returns all registered profiles
// GET /api/profiles
func (h *Handler) HandleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.ListProfiles(r.Context())
	if err != nil {
		h.logger.Error("failed to list profiles", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
		return
	}

	resp := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = profileResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// SetRoleRequest is the request body for POST /api/profiles/{id}/role.
// When role is omitted the current role is toggled between admin and user.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// HandleSetProfileRole changes a profile's role
// POST /api/profiles/{id}/role
// Body: {"role": "admin"} or {} to toggle
func (h *Handler) HandleSetProfileRole(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "id")

	var req SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}

	role := storage.Role(req.Role)
	if req.Role == "" {
		profile, err := h.store.GetProfile(r.Context(), profileID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Profile not found")
				return
			}
			h.logger.Error("failed to load profile", "profile_id", profileID, "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
			return
		}
		role = storage.RoleAdmin
		if profile.Role == storage.RoleAdmin {
			role = storage.RoleUser
		}
	}
	if !role.Valid() {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Role must be admin or user")
		return
	}

	if err := h.store.SetProfileRole(r.Context(), profileID, role); err != nil {
		switch {
		case errors.Is(err, storage.ErrNoPermission):
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Profile not found")
		default:
			h.logger.Error("failed to set role", "profile_id", profileID, "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
		}
		return
	}

	h.logger.Info("profile role changed", "profile_id", profileID, "role", role)
	writeJSON(w, http.StatusOK, map[string]string{
		"id":   profileID,
		"role": string(role),
	})
}
