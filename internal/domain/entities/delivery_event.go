package entities

import (
	"time"
)

// DeliveryEventType identifies a real-time delivery event
type DeliveryEventType string

const (
	// EventNewPreparationTask is sent to a pantry user when a delivery is
	// created with them as the pantry assignee
	EventNewPreparationTask DeliveryEventType = "new_preparation_task"

	// EventNewDeliveryTask is sent to a delivery user when they are
	// assigned to a ready meal
	EventNewDeliveryTask DeliveryEventType = "new_delivery_task"

	// EventPreparationStatusUpdated is sent when preparation_status changes
	EventPreparationStatusUpdated DeliveryEventType = "preparation_status_updated"

	// EventDeliveryStatusUpdated is sent when delivery_status changes
	EventDeliveryStatusUpdated DeliveryEventType = "delivery_status_updated"
)

// DeliveryEvent is the payload fanned out to subscribed sessions. Status
// events carry only the id, the changed field and its new value; task events
// carry the full denormalized delivery so clients can prepend the row
// without a refetch.
type DeliveryEvent struct {
	ID         string            `json:"id"`
	EventType  DeliveryEventType `json:"event_type"`
	DeliveryID string            `json:"delivery_id"`
	Field      string            `json:"field,omitempty"`
	Status     string            `json:"status,omitempty"`
	Delivery   *DeliveryView     `json:"delivery,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}
