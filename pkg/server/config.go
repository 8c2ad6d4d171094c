package server

import (
	"log/slog"
	"net/http"
	"time"
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address (default "localhost:8080").
	Addr string

	// MetricsPath serves Prometheus metrics (default "/metrics"). An
	// empty Gatherer disables the endpoint.
	MetricsPath string

	// ReadHeaderTimeout bounds reading request headers (default 10s).
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration

	// CheckOrigin validates websocket origins. Defaults to same-origin.
	CheckOrigin func(r *http.Request) bool

	// Logger is the server logger (default slog.Default()).
	Logger *slog.Logger
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Addr:              "localhost:8080",
		MetricsPath:       "/metrics",
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		d.Logger = slog.Default()
		return d
	}
	out := *c
	if out.Addr == "" {
		out.Addr = d.Addr
	}
	if out.MetricsPath == "" {
		out.MetricsPath = d.MetricsPath
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
