package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davisrp/timingboard/internal/cooldown"
	"github.com/davisrp/timingboard/internal/directory"
	"github.com/davisrp/timingboard/internal/storage"
)

// ZoneResponse represents a zone in API responses, annotated with the
// cooldown state at the time the response was built.
type ZoneResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	PhotoURL      string `json:"photo_url"`
	LastClaimedAt string `json:"last_claimed_at"`
	CreatedAt     string `json:"created_at"`
	Expired       bool   `json:"expired"`
	ExpiresAt     string `json:"expires_at"`
	Remaining     string `json:"remaining"`
}

func zoneResponse(z *storage.Zone, now time.Time) ZoneResponse {
	status := cooldown.At(z.LastClaimedAt, now)
	return ZoneResponse{
		ID:            z.ID,
		Title:         z.Title,
		Description:   z.Description,
		PhotoURL:      z.PhotoURL,
		LastClaimedAt: z.LastClaimedAt.UTC().Format(time.RFC3339),
		CreatedAt:     z.CreatedAt.UTC().Format(time.RFC3339),
		Expired:       status.Expired,
		ExpiresAt:     status.ExpiresAt.UTC().Format(time.RFC3339),
		Remaining:     cooldown.Remaining(z.LastClaimedAt, now),
	}
}

// ZoneGroupResponse is one title group in zone list responses.
type ZoneGroupResponse struct {
	Key   string         `json:"key"`
	Zones []ZoneResponse `json:"zones"`
}

// ListZonesResponse carries the filtered zone list plus its title grouping.
type ListZonesResponse struct {
	Zones  []ZoneResponse      `json:"zones"`
	Groups []ZoneGroupResponse `json:"groups"`
}

// HandleListZones returns the zone collection, optionally filtered
// GET /api/zones?q=...
func (h *Handler) HandleListZones(w http.ResponseWriter, r *http.Request) {
	zones := h.dir.Filter(r.URL.Query().Get("q"))
	now := time.Now()

	resp := ListZonesResponse{
		Zones:  make([]ZoneResponse, len(zones)),
		Groups: []ZoneGroupResponse{},
	}
	for i, z := range zones {
		resp.Zones[i] = zoneResponse(z, now)
	}
	for _, g := range directory.GroupByTitle(zones) {
		group := ZoneGroupResponse{Key: g.Key, Zones: make([]ZoneResponse, len(g.Zones))}
		for i, z := range g.Zones {
			group.Zones[i] = zoneResponse(z, now)
		}
		resp.Groups = append(resp.Groups, group)
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateZoneRequest is the request body for POST /api/zones
type CreateZoneRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PhotoURL    string `json:"photo_url"`
	ClaimedAt   string `json:"claimed_at"` // RFC 3339
}

// HandleCreateZone creates a zone with its initial claim time
// POST /api/zones
// Body: {"title": "...", "description": "...", "photo_url": "...", "claimed_at": "..."}
func (h *Handler) HandleCreateZone(w http.ResponseWriter, r *http.Request) {
	var req CreateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Title is required")
		return
	}

	var claimedAt time.Time
	if req.ClaimedAt != "" {
		var err error
		claimedAt, err = time.Parse(time.RFC3339, req.ClaimedAt)
		if err != nil {
			WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "claimed_at must be RFC 3339")
			return
		}
	}

	zone, err := h.dir.CreateZone(r.Context(), req.Title, req.Description, req.PhotoURL, claimedAt)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrDescriptionRequired):
			WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Description is required")
		case errors.Is(err, directory.ErrClaimTimeRequired):
			WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Claim time is required")
		default:
			h.logger.Error("failed to create zone", "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
		}
		return
	}

	h.logger.Info("zone created", "zone_id", zone.ID, "title", zone.Title)
	writeJSON(w, http.StatusCreated, zoneResponse(zone, time.Now()))
}

// ClaimZoneRequest is the request body for POST /api/zones/{id}/claim.
// The clock time is combined with today's date.
type ClaimZoneRequest struct {
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Second int    `json:"second"`
	Period string `json:"period"` // AM or PM
}

// HandleClaimZone records a new claim time for a zone
// POST /api/zones/{id}/claim
// Body: {"hour": 3, "minute": 15, "second": 0, "period": "PM"}
func (h *Handler) HandleClaimZone(w http.ResponseWriter, r *http.Request) {
	zoneID := chi.URLParam(r, "id")

	var req ClaimZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}

	tod := directory.TimeOfDay{
		Hour:   req.Hour,
		Minute: req.Minute,
		Second: req.Second,
		Period: req.Period,
	}
	claimedAt, err := tod.On(time.Now())
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	if err := h.dir.RecordClaim(r.Context(), zoneID, claimedAt); err != nil {
		h.writeZoneMutationError(w, "claim", zoneID, err)
		return
	}

	h.logger.Info("zone claimed", "zone_id", zoneID, "claimed_at", claimedAt)
	writeJSON(w, http.StatusOK, map[string]string{
		"id":              zoneID,
		"last_claimed_at": claimedAt.UTC().Format(time.RFC3339),
	})
}

// HandleDeleteZone removes a zone
// DELETE /api/zones/{id}
func (h *Handler) HandleDeleteZone(w http.ResponseWriter, r *http.Request) {
	zoneID := chi.URLParam(r, "id")

	if err := h.dir.DeleteZone(r.Context(), zoneID); err != nil {
		h.writeZoneMutationError(w, "delete", zoneID, err)
		return
	}

	h.logger.Info("zone deleted", "zone_id", zoneID)
	w.WriteHeader(http.StatusNoContent)
}

// writeZoneMutationError maps store errors from zone mutations onto API responses.
func (h *Handler) writeZoneMutationError(w http.ResponseWriter, op, zoneID string, err error) {
	switch {
	case errors.Is(err, directory.ErrClaimTimeRequired):
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Claim time is required")
	case errors.Is(err, storage.ErrNotFound):
		WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Zone not found")
	case errors.Is(err, storage.ErrNoPermission):
		WriteError(w, http.StatusForbidden, ErrCodeNoPermission, "Store refused the mutation")
	default:
		h.logger.Error("zone mutation failed", "op", op, "zone_id", zoneID, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
	}
}
