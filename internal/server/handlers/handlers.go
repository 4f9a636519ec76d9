// Package handlers provides HTTP request handlers for the SnapServe API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/snapserve/snapserve/internal/ai"
	"github.com/snapserve/snapserve/internal/server/cache"
	"github.com/snapserve/snapserve/internal/server/response"
	"github.com/snapserve/snapserve/internal/server/ws"
	"github.com/snapserve/snapserve/internal/storage"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	store     storage.Store
	assistant ai.Assistant
	hub       *ws.Hub
	cache     *cache.Cache
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
}

// New creates a new Handlers instance.
func New(
	store storage.Store,
	assistant ai.Assistant,
	hub *ws.Hub,
	responseCache *cache.Cache,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		store:     store,
		assistant: assistant,
		hub:       hub,
		cache:     responseCache,
		upgrader:  upgrader,
		logger:    logger,
	}
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}

// pathID extracts the trailing integer id from a URL path.
func pathID(path, prefix string) (int, bool) {
	raw := strings.TrimPrefix(path, prefix)
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// badID writes the standard response for a malformed id path segment.
func badID(w http.ResponseWriter) {
	response.BadRequest(w, "Invalid id", "The id path segment must be a positive integer")
}
