package rest

import (
	"context"
	"net/http"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

// handleHealth - reports whether session storage is reachable.
func (that *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if that.pinger != nil {
		if err := that.pinger.Ping(r.Context()); err != nil {
			that.logger.Error("storage is not reachable", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
