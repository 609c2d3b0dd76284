// Package events publishes domain notifications for other services (mail
// relays, dashboards, cache invalidation) to subscribe to.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subjects.
const (
	SubjectContactReceived     = "site.contact.received"
	SubjectTestimonialReceived = "site.testimonial.received"
	SubjectActivityAppended    = "site.activity.appended"
	SubjectSettingsUpdated     = "site.settings.updated"
)

// Publisher sends JSON-encoded events to a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close() error
}

// NATSPublisher publishes to a NATS server.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to url and keeps reconnecting after drops.
func NewNATSPublisher(url, name string, logger *zap.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSPublisher{conn: nc}, nil
}

// Publish marshals event and publishes it on subject.
func (p *NATSPublisher) Publish(_ context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	return p.conn.Publish(subject, data)
}

// Flush waits until the server has processed everything published so far.
func (p *NATSPublisher) Flush() error {
	return p.conn.Flush()
}

// Ping reports whether the connection is up and the server answers a flush.
func (p *NATSPublisher) Ping(ctx context.Context) error {
	if !p.conn.IsConnected() {
		return fmt.Errorf("nats: %s", p.conn.Status())
	}
	return p.conn.FlushWithContext(ctx)
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// NoopPublisher discards events. Used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }

// Emit publishes event and logs (rather than returns) a failure. Events are
// best effort; the request that produced them has already succeeded.
func Emit(ctx context.Context, p Publisher, logger *zap.Logger, subject string, event any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, event); err != nil {
		logger.Warn("event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
