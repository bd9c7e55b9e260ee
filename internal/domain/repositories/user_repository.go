package repositories

import (
	"context"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
)

// UserRepository defines the interface for user operations.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	ListByRole(ctx context.Context, role entities.Role) ([]*entities.User, error)
}
