package handlers

import (
	"net/http"
	"time"

	"github.com/snapserve/snapserve/internal/server/response"
)

var startTime = time.Now()

// HandleHealth reports process liveness and live connection counts.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"status":      "ok",
		"uptime":      time.Since(startTime).Round(time.Second).String(),
		"connections": h.hub.ClientCount(),
	})
}
