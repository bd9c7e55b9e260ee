package providers

import (
	"context"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// delivery events
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel
	Publish(ctx context.Context, channel string, event *entities.DeliveryEvent) error

	// Subscribe subscribes to events on a channel; the subscription lives
	// until ctx is cancelled
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DeliveryEvent, error)

	// Unsubscribe drops all subscribers of a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// Channel naming. A "room" is a per-user addressable channel, not a
// hospital room.
const (
	// EventChannelDeliveryUpdates is the firehose channel carrying every
	// delivery event; manager sessions subscribe here
	EventChannelDeliveryUpdates = "deliveries:updates"

	// eventChannelUserPrefix is the prefix for per-user channels
	eventChannelUserPrefix = "user:"
)

// GetUserChannel returns the channel name for a specific user id.
func GetUserChannel(userID string) string {
	return eventChannelUserPrefix + userID
}
