package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"resto_pos_terminal/pkg/utils"
)

// NATSPublisher publishes JSON encoded events on a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to url. The connection reconnects on its own.
func NewNATSPublisher(url, clientName string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			utils.LogError(err, "NATS disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			utils.LogInfo("NATS reconnected", map[string]interface{}{"url": c.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, event interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event for %s: %w", topic, err)
	}
	return p.conn.Publish(topic, payload)
}

// Close drains pending messages before closing.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// LogPublisher writes events to the debug log. Used when no NATS URL is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, topic string, event interface{}) error {
	utils.LogDebug("Domain event", map[string]interface{}{"topic": topic, "event": event})
	return nil
}

func (LogPublisher) Close() error { return nil }
