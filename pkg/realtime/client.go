// Package realtime is the client side of the SnapServe push channel: a
// WebSocket subscriber that authenticates in-band, reconnects with linear
// backoff, and turns order and feedback events into collection cache
// invalidations.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event kinds carried on the push channel. Mirrors the server's wire
// protocol; kept as strings so this package has no server dependency.
const (
	KindAuth             = "AUTH"
	KindNewOrder         = "NEW_ORDER"
	KindOrderUpdated     = "ORDER_UPDATED"
	KindNegativeFeedback = "NEGATIVE_FEEDBACK"
)

// Collections invalidated by push events.
const (
	CollectionOrders   = "orders"
	CollectionFeedback = "feedback"
)

// State is the connection lifecycle state.
type State int

// Connection lifecycle states.
const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
	StateClosed // permanently, by Disconnect or retry exhaustion
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Handler receives the raw JSON of one event.
type Handler func(message json.RawMessage)

// Options configures a Client.
type Options struct {
	// URL of the push endpoint, e.g. ws://host:8080/ws.
	URL string

	// UserID and Role are the credentials announced in-band after each
	// (re)connect. Zero UserID skips authentication; the session then
	// receives only events targeted at all connections.
	UserID int
	Role   string

	// MaxRetries bounds consecutive failed connection attempts before the
	// client gives up permanently. Zero selects the default of 5.
	MaxRetries int

	// RetryBase is the backoff unit: attempt n waits n × RetryBase.
	// Zero selects the default of 2s.
	RetryBase time.Duration

	// Cache, when set, is invalidated per event: order events drop the
	// orders collection, negative feedback drops the feedback collection.
	Cache *CollectionCache

	// Logger for connection lifecycle and protocol noise. Nil is allowed.
	Logger *zerolog.Logger
}

// envelope is the minimal shape every server frame shares.
type envelope struct {
	Type string `json:"type"`
}

// authMessage is the in-band credential announcement.
type authMessage struct {
	Type   string `json:"type"`
	UserID int    `json:"userId"`
	Role   string `json:"role"`
}

// Client maintains one logical subscription to the push channel across
// reconnects. Create with NewClient, start with Run, stop with Disconnect.
type Client struct {
	opts   Options
	logger zerolog.Logger

	mu       sync.RWMutex
	state    State
	handlers map[string][]Handler

	done     chan struct{}
	doneOnce sync.Once

	dial func(ctx context.Context, url string) (*websocket.Conn, error)
}

// NewClient creates a client. It does not connect until Run is called.
func NewClient(opts Options) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = 2 * time.Second
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		opts:     opts,
		logger:   logger,
		state:    StateDisconnected,
		handlers: make(map[string][]Handler),
		done:     make(chan struct{}),
		dial: func(ctx context.Context, url string) (*websocket.Conn, error) {
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
			return conn, err
		},
	}
}

// On registers a handler for an event kind. Must be called before Run.
func (c *Client) On(kind string, handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[kind] = append(c.handlers[kind], handler)
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// setState transitions the lifecycle state.
func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Disconnect permanently stops the client. No further reconnect attempts
// are made; a new Client is needed to subscribe again.
func (c *Client) Disconnect() {
	c.doneOnce.Do(func() { close(c.done) })
}

// nextDelay returns the wait before connection attempt n (1-based):
// linear in the attempt number, so repeated failures back off steadily
// without the long tail of an exponential schedule.
func (c *Client) nextDelay(attempt int) time.Duration {
	return time.Duration(attempt) * c.opts.RetryBase
}

// Run connects and consumes events until Disconnect is called, the context
// is cancelled, or MaxRetries consecutive attempts fail. It blocks.
//
// The retry counter resets only after a session that delivered at least one
// well-formed frame; a session that opens and dies immediately still counts
// against the budget, so a flapping server cannot hold the client in a tight
// connect loop forever.
func (c *Client) Run(ctx context.Context) error {
	attempt := 0
	for {
		select {
		case <-c.done:
			c.setState(StateClosed)
			return nil
		case <-ctx.Done():
			c.setState(StateClosed)
			return ctx.Err()
		default:
		}

		attempt++
		if attempt > c.opts.MaxRetries {
			c.setState(StateClosed)
			c.logger.Error().
				Int("attempts", c.opts.MaxRetries).
				Msg("Retry budget exhausted, giving up")
			return ErrRetriesExhausted
		}

		c.setState(StateConnecting)
		conn, err := c.dial(ctx, c.opts.URL)
		if err != nil {
			c.setState(StateDisconnected)
			delay := c.nextDelay(attempt)
			c.logger.Warn().Err(err).
				Int("attempt", attempt).
				Dur("retry_in", delay).
				Msg("Connection failed")
			if !c.sleep(ctx, delay) {
				c.setState(StateClosed)
				return ctx.Err()
			}
			continue
		}

		sawMessage := c.session(ctx, conn)
		if sawMessage {
			attempt = 0
		}
		c.setState(StateDisconnected)

		select {
		case <-c.done:
			c.setState(StateClosed)
			return nil
		case <-ctx.Done():
			c.setState(StateClosed)
			return ctx.Err()
		default:
		}

		delay := c.nextDelay(attempt + 1)
		c.logger.Info().
			Dur("retry_in", delay).
			Msg("Connection lost, reconnecting")
		if !c.sleep(ctx, delay) {
			c.setState(StateClosed)
			return ctx.Err()
		}
	}
}

// session consumes one open connection until it fails or the client stops.
// Reports whether at least one well-formed frame arrived.
func (c *Client) session(ctx context.Context, conn *websocket.Conn) bool {
	defer func() { _ = conn.Close() }()
	c.setState(StateOpen)

	// Credentials are replayed on every (re)connect: the server binds
	// identity per connection, not per client.
	if c.opts.UserID > 0 {
		auth := authMessage{Type: KindAuth, UserID: c.opts.UserID, Role: c.opts.Role}
		if err := conn.WriteJSON(auth); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to send auth message")
			return false
		}
	}

	// Close the socket when the client stops so ReadMessage unblocks.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-c.done:
			_ = conn.Close()
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	sawMessage := false
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !isStopped(c.done) && ctx.Err() == nil {
				c.logger.Warn().Err(err).Msg("Read failed")
			}
			return sawMessage
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
			c.logger.Warn().Msg("Malformed frame, ignoring")
			continue
		}
		sawMessage = true
		c.dispatch(env.Type, data)
	}
}

// dispatch routes one frame to cache invalidation and registered handlers.
// Unknown kinds are logged and dropped, so new server-side event types do
// not break older clients.
func (c *Client) dispatch(kind string, data json.RawMessage) {
	switch kind {
	case KindNewOrder, KindOrderUpdated:
		if c.opts.Cache != nil {
			c.opts.Cache.Invalidate(CollectionOrders)
		}
	case KindNegativeFeedback:
		if c.opts.Cache != nil {
			c.opts.Cache.Invalidate(CollectionFeedback)
		}
	default:
		c.logger.Debug().Str("event_type", kind).Msg("Unknown event type, dropped")
		return
	}

	c.mu.RLock()
	handlers := c.handlers[kind]
	c.mu.RUnlock()
	for _, handler := range handlers {
		handler(data)
	}
}

// sleep waits for d, returning false when the context or client stopped.
func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-c.done:
		return true
	case <-ctx.Done():
		return false
	}
}

// isStopped reports whether done is closed without blocking.
func isStopped(done chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}
