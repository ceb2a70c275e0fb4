package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/couchcryptid/covid-stats-dashboard/internal/state"
	"github.com/couchcryptid/covid-stats-dashboard/internal/view"
)

// handleEvents streams committed state changes as Server-Sent Events. The
// first event carries the current dashboard so clients need no separate fetch.
// Streams end when the client goes away or the server shuts down.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		s.logger.Debug("cannot clear write deadline", "error", err)
	}

	changes, unsubscribe := s.state.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "snapshot", view.Build(s.state.Snapshot())); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		s.logger.Warn("sse flush failed", "error", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := writeEvent(w, "change", changeEvent(c)); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

type changePayload struct {
	Changed   []string       `json:"changed"`
	Dashboard view.Dashboard `json:"dashboard"`
}

func changeEvent(c state.Change) changePayload {
	return changePayload{Changed: c.Kinds.Names(), Dashboard: view.Build(c.Selection)}
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
