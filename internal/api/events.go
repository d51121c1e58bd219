package api

import (
	"encoding/json"
	"net/http"

	"github.com/davisrp/timingboard/internal/metrics"
)

// HandleEvents streams zone change notifications as server-sent events
// GET /api/events (text/event-stream)
//
// Each event carries a JSON object: {"op":"insert|update|delete","zone_id":"..."}.
// Consumers treat any event as a signal to refetch the zone list.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Streaming unsupported")
		return
	}

	events := h.broker.Subscribe(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	metrics.SSESubscriberConnected(1)
	defer metrics.SSESubscriberConnected(-1)

	// Tell the client the stream is live before the first change arrives
	if _, err := w.Write([]byte("event: ready\ndata: {}\n\n")); err != nil {
		return
	}
	flusher.Flush()

	enc := json.NewEncoder(w)
	for ev := range events {
		if r.Context().Err() != nil {
			return
		}
		if _, err := w.Write([]byte("data: ")); err != nil {
			return
		}
		if err := enc.Encode(ev); err != nil {
			return
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return
		}
		flusher.Flush()
	}
}
