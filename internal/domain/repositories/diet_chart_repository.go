package repositories

import (
	"context"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
)

// DietChartRepository defines the interface for diet-chart operations.
// Charts are immutable after creation.
type DietChartRepository interface {
	Create(ctx context.Context, chart *entities.DietChart) error
	GetByID(ctx context.Context, id string) (*entities.DietChart, error)
	List(ctx context.Context) ([]*entities.DietChart, error)
}
