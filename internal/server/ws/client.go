package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/events"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Inbound traffic is only the
	// small AUTH control message.
	maxMessageSize = 1024
)

// Client represents one live WebSocket connection and its claimed identity.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu            sync.RWMutex
	userID        int
	role          domain.Role
	authenticated bool
	// handshakeBound is set when identity came from the upgrade request's
	// authenticated session rather than an in-band claim. A later AUTH frame
	// may only confirm it.
	handshakeBound bool

	closing atomic.Bool
}

// NewClient creates a client for an accepted connection, assigning a fresh
// connection id. Ids are unique for the process lifetime and never reused.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// ID returns the connection id assigned at accept time.
func (c *Client) ID() string {
	return c.id
}

// BindIdentity attaches identity resolved from the upgrade request's session
// context. Must be called before the client is registered; identity bound
// here takes precedence over any in-band AUTH claim.
func (c *Client) BindIdentity(userID int, role domain.Role) {
	c.mu.Lock()
	c.userID = userID
	c.role = role
	c.authenticated = true
	c.handshakeBound = true
	c.mu.Unlock()
}

// Identity returns the bound user id and role, with ok false while the
// connection is unauthenticated.
func (c *Client) Identity() (userID int, role domain.Role, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID, c.role, c.authenticated
}

// setIdentity is called from the hub's run loop.
func (c *Client) setIdentity(userID int, role domain.Role) {
	c.mu.Lock()
	c.userID = userID
	c.role = role
	c.authenticated = true
	c.mu.Unlock()
}

// roleState returns the current role and whether the client authenticated.
func (c *Client) roleState() (domain.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.role, c.authenticated
}

// open reports whether the connection is still eligible for sends.
func (c *Client) open() bool {
	return !c.closing.Load()
}

// ReadPump pumps inbound frames from the connection, interpreting AUTH
// control messages. Runs until the connection closes, then unregisters.
func (c *Client) ReadPump() {
	defer func() {
		c.closing.Store(true)
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.hub.logger.Error().Err(err).Str("conn_id", c.id).Msg("WebSocket read error")
			}
			return
		}
		c.handleInbound(data)
	}
}

// handleInbound interprets one inbound frame. Only AUTH is meaningful;
// anything else, including unparseable payloads, is logged and ignored and
// never terminates the connection.
func (c *Client) handleInbound(data []byte) {
	var msg events.AuthMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.hub.logger.Warn().Err(err).Str("conn_id", c.id).Msg("Discarding malformed frame")
		return
	}

	if msg.Type != events.KindAuth {
		c.hub.logger.Debug().
			Str("conn_id", c.id).
			Str("type", string(msg.Type)).
			Msg("Ignoring non-auth inbound message")
		return
	}

	if !msg.Role.Valid() {
		c.hub.logger.Warn().
			Str("conn_id", c.id).
			Str("role", string(msg.Role)).
			Msg("Ignoring auth claim with unknown role")
		return
	}

	c.mu.RLock()
	bound := c.handshakeBound
	boundUser, boundRole := c.userID, c.role
	c.mu.RUnlock()

	if bound {
		// Identity was already derived from the session that opened the
		// channel; the in-band claim is a hint only.
		if msg.UserID != boundUser || msg.Role != boundRole {
			c.hub.logger.Warn().
				Str("conn_id", c.id).
				Int("claimed_user_id", msg.UserID).
				Str("claimed_role", string(msg.Role)).
				Msg("Ignoring auth claim conflicting with session identity")
		}
		return
	}

	c.hub.SetIdentity(c.id, msg.UserID, msg.Role)
}

// WritePump pumps serialized events from the hub to the connection and keeps
// it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.closing.Store(true)
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
