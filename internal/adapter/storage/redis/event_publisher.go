package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"hydrogen-credit-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// EventPublisher implements ports.EventPublisher over Redis pub/sub. Each
// event is published as JSON on one channel.
type EventPublisher struct {
	client  goredis.UniversalClient
	channel string
}

// NewEventPublisher creates a publisher for channel.
func NewEventPublisher(client goredis.UniversalClient, channel string) *EventPublisher {
	return &EventPublisher{client: client, channel: channel}
}

func (p *EventPublisher) Name() string {
	return "redis"
}

// Publish sends ev to the channel. Events published while nobody is
// subscribed are dropped by Redis.
func (p *EventPublisher) Publish(ctx context.Context, ev domain.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", ev.Type, err)
	}
	return nil
}
