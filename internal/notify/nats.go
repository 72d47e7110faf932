package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/gtmdocs/internal/config"
	"git.home.luguber.info/inful/gtmdocs/internal/logfields"
)

// NATSPublisher publishes completion events on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSPublisher connects to cfg.NATSURL.
func NewNATSPublisher(cfg config.NotifyConfig) (*NATSPublisher, error) {
	if cfg.NATSURL == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	if cfg.Subject == "" {
		return nil, fmt.Errorf("nats subject is required")
	}

	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("gtmdocs"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p := &NATSPublisher{conn: conn, subject: cfg.Subject}
	if cfg.JetStream {
		js, err := jetstream.New(conn)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create JetStream context: %w", err)
		}
		p.js = js
	}

	slog.Info("NATS publisher initialized",
		logfields.URL(cfg.NATSURL),
		slog.String("subject", cfg.Subject),
		slog.Bool("jetstream", cfg.JetStream))
	return p, nil
}

// Encode returns the wire form of an event.
func Encode(event *ExportCompletedEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

// Publish sends event. With JetStream it waits for the stream ack;
// otherwise it flushes the connection so the event is on the wire before
// returning.
func (p *NATSPublisher) Publish(ctx context.Context, event *ExportCompletedEvent) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}

	if p.js != nil {
		if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
			return fmt.Errorf("failed to publish event: %w", err)
		}
	} else {
		if err := p.conn.Publish(p.subject, data); err != nil {
			return fmt.Errorf("failed to publish event: %w", err)
		}
		flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := p.conn.FlushWithContext(flushCtx); err != nil {
			return fmt.Errorf("failed to flush event: %w", err)
		}
	}

	slog.Debug("Published export event", logfields.RunID(event.RunID), slog.String("outcome", event.Outcome))
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
