// Package ws provides the real-time push channel for staff and admin
// dashboards: a WebSocket hub that tracks live connections and their claimed
// identity, and fans domain events out to role-scoped targets.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/events"
	"github.com/snapserve/snapserve/internal/server/metrics"
)

// Target selects which live connections receive a published event:
// every open connection, or only those authenticated with a given role.
type Target struct {
	all  bool
	role domain.Role
}

// ToRole targets connections authenticated with the given role.
func ToRole(role domain.Role) Target {
	return Target{role: role}
}

// ToAll targets every live connection regardless of authentication state.
func ToAll() Target {
	return Target{all: true}
}

// String describes the target for logging.
func (t Target) String() string {
	if t.all {
		return "all"
	}
	return "role:" + string(t.role)
}

// matches reports whether the client should receive events for this target.
func (t Target) matches(c *Client) bool {
	if t.all {
		return true
	}
	userRole, authenticated := c.roleState()
	return authenticated && userRole == t.role
}

// identity is an in-flight identity binding for a registered connection.
type identity struct {
	connID string
	userID int
	role   domain.Role
}

// delivery is one serialized event paired with its targeting rule.
type delivery struct {
	kind   events.Kind
	target Target
	data   []byte
}

// Hub maintains the authoritative set of live connections and fans events
// out to them. It is the only owner of the connection registry; all
// mutations flow through its run loop.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	identify   chan identity
	outbound   chan delivery
	mu         sync.RWMutex
	logger     *zerolog.Logger
	metrics    *metrics.Metrics
}

// NewHub creates a new hub. Metrics may be nil.
func NewHub(logger *zerolog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		identify:   make(chan identity, 16),
		outbound:   make(chan delivery, 256),
		logger:     logger,
		metrics:    m,
	}
}

// Run starts the hub's main loop. Should be called in a goroutine.
// The hub runs until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.logger.Info().Msg("WebSocket hub shut down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()
			if h.metrics != nil {
				h.metrics.Connections.Inc()
			}
			h.logger.Info().
				Str("conn_id", client.id).
				Int("total_clients", total).
				Msg("WebSocket client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client.id]
			if ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			// Removing an already-absent id is not an error.
			if !ok {
				continue
			}
			if h.metrics != nil {
				h.metrics.Connections.Dec()
			}
			h.logger.Info().
				Str("conn_id", client.id).
				Int("total_clients", total).
				Msg("WebSocket client disconnected")

		case id := <-h.identify:
			h.mu.RLock()
			client, ok := h.clients[id.connID]
			h.mu.RUnlock()
			// The connection may close between accept and authentication;
			// binding to a missing id is silently ignored.
			if !ok {
				continue
			}
			client.setIdentity(id.userID, id.role)
			h.logger.Info().
				Str("conn_id", id.connID).
				Int("user_id", id.userID).
				Str("role", string(id.role)).
				Msg("WebSocket client authenticated")

		case d := <-h.outbound:
			h.deliver(d)
		}
	}
}

// deliver fans one serialized event out to every matching open connection.
// Best-effort, at-most-once per connection: a connection that is mid-close
// or has a full buffer is skipped without aborting the rest of the fan-out.
func (h *Hub) deliver(d delivery) {
	h.mu.RLock()
	matched := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		if d.target.matches(client) {
			matched = append(matched, client)
		}
	}
	h.mu.RUnlock()

	var full []*Client
	delivered := 0
	for _, client := range matched {
		if !client.open() {
			continue
		}
		select {
		case client.send <- d.data:
			delivered++
		default:
			// Buffer full: the consumer stopped draining. Skip it now and
			// evict it so the write pump closes the socket.
			full = append(full, client)
			if h.metrics != nil {
				h.metrics.SendsDropped.Inc()
			}
		}
	}

	if len(full) > 0 {
		h.mu.Lock()
		for _, client := range full {
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
				if h.metrics != nil {
					h.metrics.Connections.Dec()
				}
				h.logger.Warn().
					Str("conn_id", client.id).
					Msg("WebSocket client evicted, send buffer full")
			}
		}
		h.mu.Unlock()
	}

	h.logger.Debug().
		Str("event_type", string(d.kind)).
		Str("target", d.target.String()).
		Int("delivered", delivered).
		Msg("Event broadcasted")
}

// Register adds a connection to the registry.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a connection from the registry. Idempotent.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SetIdentity attaches a user id and role to a registered connection.
// A no-op when the connection id is no longer present.
func (h *Hub) SetIdentity(connID string, userID int, role domain.Role) {
	h.identify <- identity{connID: connID, userID: userID, role: role}
}

// Publish serializes one event and delivers it to every connection selected
// by the target. Fire-and-forget: a full event queue drops the event rather
// than blocking the caller, and failures never propagate to the domain
// action that triggered the publish.
func (h *Hub) Publish(event events.Envelope, target Target) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).
			Str("event_type", string(event.Type)).
			Msg("Failed to marshal event")
		return
	}

	if h.metrics != nil {
		h.metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()
	}

	select {
	case h.outbound <- delivery{kind: event.Type, target: target, data: data}:
	default:
		h.logger.Warn().
			Str("event_type", string(event.Type)).
			Msg("Event queue full, event dropped")
	}
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoleCount returns the number of connections authenticated with role.
func (h *Hub) RoleCount(role domain.Role) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, client := range h.clients {
		userRole, authenticated := client.roleState()
		if authenticated && userRole == role {
			n++
		}
	}
	return n
}
