package web

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hpungsan/indotrip/internal/live"
	"github.com/hpungsan/indotrip/internal/ops"
)

const eventsRoute = "/api/trips/{id}/events"

// writeEvent writes one Server-Sent Event frame.
func writeEvent(w io.Writer, name string, data []byte) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}

// HandleEvents handles GET /api/trips/{id}/events. The stream opens with a
// ping, repeats it every keepalive interval and carries a trip-update frame
// with the full snapshot after every committed mutation. Clients that
// reconnect must re-fetch the trip; nothing is replayed.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	view, err := ops.GetTrip(r.Context(), h.store, ops.GetTripInput{ID: mux.Vars(r)["id"]})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	sub := h.hub.Subscribe(view.ID)
	defer sub.Close()
	h.log.Debug().Str("trip_id", view.ID).Int("subscribers", h.hub.Subscribers(view.ID)).Msg("event stream opened")

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	send := func(name string, data []byte) bool {
		if err := writeEvent(w, name, data); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	if !send("ping", []byte("{}")) {
		return
	}

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			if !send(live.EventTripUpdate, msg) {
				return
			}
		case <-keepalive.C:
			if !send("ping", []byte("{}")) {
				return
			}
		}
	}
}
