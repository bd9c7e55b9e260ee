package entities

import (
	"time"
)

// PreparationStatus represents the pantry-side readiness of a meal
type PreparationStatus string

const (
	PreparationStatusPending   PreparationStatus = "pending"
	PreparationStatusPreparing PreparationStatus = "preparing"
	PreparationStatusReady     PreparationStatus = "ready"
)

// Valid reports whether the status is a known preparation status.
func (s PreparationStatus) Valid() bool {
	switch s {
	case PreparationStatusPending, PreparationStatusPreparing, PreparationStatusReady:
		return true
	}
	return false
}

func (s PreparationStatus) rank() int {
	switch s {
	case PreparationStatusPending:
		return 0
	case PreparationStatusPreparing:
		return 1
	case PreparationStatusReady:
		return 2
	}
	return -1
}

// DeliveryStatus represents the courier-side fulfillment state of a meal
type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "pending"
	DeliveryStatusInProgress DeliveryStatus = "in_progress"
	DeliveryStatusDelivered  DeliveryStatus = "delivered"
)

// Valid reports whether the status is a known delivery status.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusInProgress, DeliveryStatusDelivered:
		return true
	}
	return false
}

func (s DeliveryStatus) rank() int {
	switch s {
	case DeliveryStatusPending:
		return 0
	case DeliveryStatusInProgress:
		return 1
	case DeliveryStatusDelivered:
		return 2
	}
	return -1
}

// Delivery is the central workflow entity: one meal moving through
// preparation and then fulfillment. Version is the optimistic-concurrency
// counter bumped on every update.
type Delivery struct {
	ID                 string            `json:"id" db:"id"`
	DietChartID        string            `json:"diet_chart_id" db:"diet_chart_id"`
	PreparationStatus  PreparationStatus `json:"preparation_status" db:"preparation_status"`
	DeliveryStatus     DeliveryStatus    `json:"delivery_status" db:"delivery_status"`
	AssignedToPantry   string            `json:"assigned_to_pantry" db:"assigned_to_pantry"`
	AssignedToDelivery *string           `json:"assigned_to_delivery" db:"assigned_to_delivery"`
	DeliveredAt        *time.Time        `json:"delivered_at" db:"delivered_at"`
	Version            int64             `json:"version" db:"version"`
	CreatedAt          time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at" db:"updated_at"`
}

// CanTransitionPreparation reports whether moving preparation_status to
// target is permitted. Forward-only unless allowRevert; reverting is never
// allowed once delivery staff has been assigned.
func (d *Delivery) CanTransitionPreparation(target PreparationStatus, allowRevert bool) bool {
	from, to := d.PreparationStatus.rank(), target.rank()
	if to < 0 {
		return false
	}
	if to == from+1 {
		return true
	}
	if allowRevert && to < from {
		return d.AssignedToDelivery == nil
	}
	return false
}

// CanTransitionDelivery reports whether moving delivery_status to target is
// permitted. The delivered state is terminal, and a delivery cannot leave
// pending before delivery staff is assigned.
func (d *Delivery) CanTransitionDelivery(target DeliveryStatus, allowRevert bool) bool {
	if d.DeliveryStatus == DeliveryStatusDelivered {
		return false
	}
	if d.AssignedToDelivery == nil {
		return false
	}
	from, to := d.DeliveryStatus.rank(), target.rank()
	if to < 0 {
		return false
	}
	if to == from+1 {
		return true
	}
	return allowRevert && to < from
}

// DeliveryView is the denormalized delivery shape returned by list/read
// endpoints and carried in task events.
type DeliveryView struct {
	ID                 string            `json:"id"`
	PreparationStatus  PreparationStatus `json:"preparation_status"`
	DeliveryStatus     DeliveryStatus    `json:"delivery_status"`
	DeliveredAt        *time.Time        `json:"delivered_at"`
	DietChart          DietChartRef      `json:"diet_chart"`
	AssignedToPantry   UserRef           `json:"assigned_to_pantry"`
	AssignedToDelivery *UserRef          `json:"assigned_to_delivery,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}
