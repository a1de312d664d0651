package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

// EventPublisher fans lifecycle events out to the shared feed channel and to
// the owning task's channel. It satisfies lifecycle.Publisher.
type EventPublisher struct {
	ps *PubSub
}

func NewEventPublisher(ps *PubSub) *EventPublisher {
	return &EventPublisher{ps: ps}
}

func (p *EventPublisher) Publish(ctx context.Context, e *domain.TaskEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("redis.EventPublisher.Publish: marshal: %w", err)
	}

	if err := p.ps.Publish(ctx, FeedChannel, payload); err != nil {
		return fmt.Errorf("redis.EventPublisher.Publish: feed: %w", err)
	}
	if err := p.ps.Publish(ctx, TaskChannel(e.TaskID), payload); err != nil {
		return fmt.Errorf("redis.EventPublisher.Publish: task channel: %w", err)
	}

	return nil
}
