// Package timeouts holds the per-operation deadlines used across the server.
//
// The values start at the defaults below and are replaced once at startup by
// Configure with whatever the operator put in the app config.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing    = 2 * time.Second
	DefaultQuery   = 5 * time.Second
	DefaultExport  = 30 * time.Second
	DefaultRequest = 30 * time.Second
)

// Config is one set of deadlines. Zero fields keep their current value.
type Config struct {
	Ping    time.Duration // health probes
	Query   time.Duration // single store reads and writes outside a request
	Export  time.Duration // CSV export of the activity log
	Request time.Duration // whole-request budget applied by the router
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Config {
	return Config{
		Ping:    DefaultPing,
		Query:   DefaultQuery,
		Export:  DefaultExport,
		Request: DefaultRequest,
	}
}

// Configure overrides the non-zero fields of c.
func Configure(c Config) {
	mu.Lock()
	defer mu.Unlock()
	if c.Ping > 0 {
		current.Ping = c.Ping
	}
	if c.Query > 0 {
		current.Query = c.Query
	}
	if c.Export > 0 {
		current.Export = c.Export
	}
	if c.Request > 0 {
		current.Request = c.Request
	}
}

// Reset restores the defaults. Tests use it.
func Reset() {
	mu.Lock()
	current = defaults()
	mu.Unlock()
}

// Current returns a copy of the active deadlines.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Ping() time.Duration    { return Current().Ping }
func Query() time.Duration   { return Current().Query }
func Export() time.Duration  { return Current().Export }
func Request() time.Duration { return Current().Request }

// WithTimeout derives a context bounded by d. When the deadline is what ends
// the operation, the cancel func logs it under the given operation name.
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	if log == nil {
		return ctx, cancel
	}
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && parent.Err() == nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", d))
		}
		cancel()
	}
}
