package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

var natsConnect = func(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name("clipvault"), nats.MaxReconnects(-1))
}

// NatsPublisher sends JSON-encoded events on core NATS subjects.
type NatsPublisher struct {
	nc      *nats.Conn
	publish func(subject string, data []byte) error
}

var _ Publisher = (*NatsPublisher)(nil)

func NewNatsPublisher(url string) (*NatsPublisher, error) {
	nc, err := natsConnect(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to NATS: %w", err)
	}
	return &NatsPublisher{nc: nc, publish: nc.Publish}, nil
}

func (p *NatsPublisher) Publish(ctx context.Context, subject string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NatsPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
