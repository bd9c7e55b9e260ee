package repositories

import (
	"context"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
)

// DeliveryRepository defines the interface for delivery operations. Any
// durable keyed store with read-after-write consistency satisfies it.
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entities.Delivery) error

	GetByID(ctx context.Context, id string) (*entities.Delivery, error)

	// GetViewByID returns the denormalized shape (diet chart, patient and
	// assignee references resolved) used by list responses and task events.
	GetViewByID(ctx context.Context, id string) (*entities.DeliveryView, error)

	// ListForUser returns the deliveries visible to a user: pantry staff see
	// deliveries where they are the pantry assignee, delivery staff those
	// where they are the delivery assignee, managers see all.
	ListForUser(ctx context.Context, role entities.Role, userID string) ([]*entities.DeliveryView, error)

	// Update persists the delivery's mutable fields guarded by its Version;
	// it fails with a conflict error when another writer got there first,
	// and bumps delivery.Version on success.
	Update(ctx context.Context, delivery *entities.Delivery) error
}
