package repositories

import (
	"context"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
)

// PatientRepository defines the interface for patient operations. Patients
// are created and mutated by managers only and never deleted.
type PatientRepository interface {
	Create(ctx context.Context, patient *entities.Patient) error
	GetByID(ctx context.Context, id string) (*entities.Patient, error)
	Update(ctx context.Context, patient *entities.Patient) error
	List(ctx context.Context) ([]*entities.Patient, error)
}
