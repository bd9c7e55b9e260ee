package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/providers"
)

// NotificationService fans delivery events out to the users affected by a
// change: the per-user channels of the assignees and the manager firehose.
// Delivery is best-effort and at-most-once per connected session; publish
// failures are logged, never surfaced, and clients reconcile missed events
// by refetching their delivery list.
type NotificationService struct {
	bus providers.EventBus
}

// NewNotificationService creates a new notification service
func NewNotificationService(bus providers.EventBus) *NotificationService {
	return &NotificationService{bus: bus}
}

// NotifyPreparationTask tells a pantry user a delivery was created for them.
// Task events carry the full denormalized delivery so the client can prepend
// the row without a refetch.
func (n *NotificationService) NotifyPreparationTask(ctx context.Context, view *entities.DeliveryView) {
	event := &entities.DeliveryEvent{
		ID:         uuid.New().String(),
		EventType:  entities.EventNewPreparationTask,
		DeliveryID: view.ID,
		Delivery:   view,
		Timestamp:  time.Now(),
	}
	n.publish(ctx, event, providers.GetUserChannel(view.AssignedToPantry.ID))
}

// NotifyDeliveryTask tells a delivery user they were assigned a ready meal.
func (n *NotificationService) NotifyDeliveryTask(ctx context.Context, view *entities.DeliveryView) {
	if view.AssignedToDelivery == nil {
		return
	}
	event := &entities.DeliveryEvent{
		ID:         uuid.New().String(),
		EventType:  entities.EventNewDeliveryTask,
		DeliveryID: view.ID,
		Delivery:   view,
		Timestamp:  time.Now(),
	}
	n.publish(ctx, event, providers.GetUserChannel(view.AssignedToDelivery.ID))
}

// NotifyPreparationStatus announces a preparation_status change to the
// pantry assignee and the manager audience.
func (n *NotificationService) NotifyPreparationStatus(ctx context.Context, delivery *entities.Delivery) {
	event := &entities.DeliveryEvent{
		ID:         uuid.New().String(),
		EventType:  entities.EventPreparationStatusUpdated,
		DeliveryID: delivery.ID,
		Field:      "preparation_status",
		Status:     string(delivery.PreparationStatus),
		Timestamp:  time.Now(),
	}
	n.publish(ctx, event, providers.GetUserChannel(delivery.AssignedToPantry))
}

// NotifyDeliveryStatus announces a delivery_status change to both assignees
// and the manager audience.
func (n *NotificationService) NotifyDeliveryStatus(ctx context.Context, delivery *entities.Delivery) {
	event := &entities.DeliveryEvent{
		ID:         uuid.New().String(),
		EventType:  entities.EventDeliveryStatusUpdated,
		DeliveryID: delivery.ID,
		Field:      "delivery_status",
		Status:     string(delivery.DeliveryStatus),
		Timestamp:  time.Now(),
	}

	channels := []string{providers.GetUserChannel(delivery.AssignedToPantry)}
	if delivery.AssignedToDelivery != nil {
		channels = append(channels, providers.GetUserChannel(*delivery.AssignedToDelivery))
	}
	n.publish(ctx, event, channels...)
}

// publish sends the event to the given channels plus the manager firehose.
func (n *NotificationService) publish(ctx context.Context, event *entities.DeliveryEvent, channels ...string) {
	for _, channel := range append(channels, providers.EventChannelDeliveryUpdates) {
		if err := n.bus.Publish(ctx, channel, event); err != nil {
			log.Warn().Err(err).Str("channel", channel).
				Str("event_type", string(event.EventType)).
				Str("delivery_id", event.DeliveryID).
				Msg("failed to publish delivery event")
		}
	}
}
