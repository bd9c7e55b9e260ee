package events

import (
	"context"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/providers"
)

// NoopEventBus discards all events. Used when Redis is unavailable so the
// API keeps serving requests without real-time updates.
type NoopEventBus struct{}

// NewNoopEventBus creates an event bus that drops everything
func NewNoopEventBus() providers.EventBus {
	return &NoopEventBus{}
}

func (b *NoopEventBus) Publish(ctx context.Context, channel string, event *entities.DeliveryEvent) error {
	return nil
}

func (b *NoopEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DeliveryEvent, error) {
	ch := make(chan *entities.DeliveryEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (b *NoopEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *NoopEventBus) Close() error { return nil }
