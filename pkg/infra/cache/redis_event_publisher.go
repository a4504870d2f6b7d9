package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/channel"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/event"
)

type redisEventPublisher struct {
	cache Client
}

func NewRedisEventPublisher(cache Client) EventPublisher {
	return &redisEventPublisher{
		cache: cache,
	}
}

func (p *redisEventPublisher) Publish(ctx context.Context, ch channel.Channel, ev event.Event) error {
	data, err := EncodeMessage(ev)
	if err != nil {
		return err
	}
	if err := p.cache.RedisClient().Publish(ctx, string(ch), data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", ev.Type(), err)
	}
	return nil
}

// EncodeMessage wraps ev in the RedisMessage envelope.
func EncodeMessage(ev event.Event) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	envelope := RedisMessage{
		Type:  ev.Type(),
		Event: b,
	}
	return json.Marshal(envelope)
}
