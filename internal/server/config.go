// Package server provides the SnapServe HTTP and WebSocket server: REST API,
// real-time event hub, response caching, and Prometheus metrics.
package server

import (
	"fmt"
	"time"
)

// Config holds the server configuration.
type Config struct {
	// Host to bind to (empty binds all interfaces).
	Host string

	// Port to listen on.
	Port int

	// ReadTimeout for incoming requests.
	ReadTimeout time.Duration

	// WriteTimeout for outgoing responses. WebSocket connections are
	// hijacked from the HTTP server and manage their own deadlines.
	WriteTimeout time.Duration

	// IdleTimeout for keep-alive connections.
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// RateLimit is the per-IP request budget per minute. Zero disables
	// rate limiting.
	RateLimit int

	// CacheTTL is the default lifetime of cached read responses.
	CacheTTL time.Duration

	// AllowedOrigins for CORS. Empty allows all.
	AllowedOrigins []string

	// GeminiAPIKey enables the Gemini-backed assistant. When empty the
	// server falls back to the built-in heuristic assistant.
	GeminiAPIKey string

	// GeminiModel overrides the default Gemini model.
	GeminiModel string

	// SeedPath points at a YAML seed fixture. Empty uses the embedded
	// demo fixture.
	SeedPath string
}

// DefaultConfig returns a server configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RateLimit:       120,
		CacheTTL:        5 * time.Minute,
	}
}

// Address returns the host:port string to listen on.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the configuration for obvious mistakes.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("invalid cache TTL: %s", c.CacheTTL)
	}
	return nil
}
