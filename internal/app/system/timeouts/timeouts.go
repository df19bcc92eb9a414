// Package timeouts provides centralized timeout values for startup and
// request-time I/O.
//
// Every blocking call made while booting (the secret fetch, the datastore
// connection) is bounded by one of these values, so a stalled network call
// fails the stage instead of hanging the process.
//
// Timeouts can be configured at startup using Configure(). If not configured,
// the defaults below are used.
//
// Guidelines for choosing a timeout:
//   - SecretFetch: the remote secret store call during configuration loading
//   - Connect: establishing and verifying the datastore connection
//   - Ping: health checks and connectivity verification
//   - ReadHeader: reading request headers on the HTTP listener
//   - Shutdown: graceful server shutdown and releasing the datastore
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultSecretFetch = 10 * time.Second
	DefaultConnect     = 10 * time.Second
	DefaultPing        = 2 * time.Second
	DefaultReadHeader  = 5 * time.Second
	DefaultShutdown    = 15 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	secretFetch = DefaultSecretFetch
	connect     = DefaultConnect
	ping        = DefaultPing
	readHeader  = DefaultReadHeader
	shutdown    = DefaultShutdown
)

// SecretFetch returns the timeout for fetching the secret bundle.
func SecretFetch() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return secretFetch
}

// Connect returns the timeout for the single datastore connection attempt.
func Connect() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return connect
}

// Ping returns the timeout for health checks and connectivity verification.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// ReadHeader returns the HTTP server's ReadHeaderTimeout.
func ReadHeader() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return readHeader
}

// Shutdown returns the timeout for graceful shutdown.
func Shutdown() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return shutdown
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	SecretFetch time.Duration
	Connect     time.Duration
	Ping        time.Duration
	ReadHeader  time.Duration
	Shutdown    time.Duration
}

// Configure sets custom timeout values. Zero or negative values in cfg are
// ignored, keeping the current (or default) values. Call it once at startup
// before Run.
//
// Example:
//
//	timeouts.Configure(timeouts.Config{
//	    SecretFetch: 30 * time.Second,
//	    Connect:     20 * time.Second,
//	})
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.SecretFetch > 0 {
		secretFetch = cfg.SecretFetch
	}
	if cfg.Connect > 0 {
		connect = cfg.Connect
	}
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.ReadHeader > 0 {
		readHeader = cfg.ReadHeader
	}
	if cfg.Shutdown > 0 {
		shutdown = cfg.Shutdown
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	secretFetch = DefaultSecretFetch
	connect = DefaultConnect
	ping = DefaultPing
	readHeader = DefaultReadHeader
	shutdown = DefaultShutdown
}

// Current returns the current timeout configuration, for logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{
		SecretFetch: secretFetch,
		Connect:     connect,
		Ping:        ping,
		ReadHeader:  readHeader,
		Shutdown:    shutdown,
	}
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context ended because the deadline was exceeded.
//
// Example:
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.SecretFetch(), logger, "secret fetch")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
