package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/repositories"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

// PatientService manages the patient roster. Creation and mutation are
// manager-only; reads are open to any authenticated role since pantry and
// delivery staff see patient details on their tasks.
type PatientService struct {
	patientRepo repositories.PatientRepository
}

// NewPatientService creates a new patient service
func NewPatientService(patientRepo repositories.PatientRepository) *PatientService {
	return &PatientService{patientRepo: patientRepo}
}

// PatientInput is the manager-supplied patient record.
type PatientInput struct {
	Name             string   `json:"name"`
	Diseases         []string `json:"diseases"`
	Allergies        []string `json:"allergies"`
	RoomNumber       string   `json:"room_number"`
	BedNumber        string   `json:"bed_number"`
	FloorNumber      string   `json:"floor_number"`
	Age              int      `json:"age"`
	Gender           string   `json:"gender"`
	ContactNumber    string   `json:"contact_number"`
	EmergencyContact string   `json:"emergency_contact"`
}

func (in *PatientInput) validate() error {
	if in.Name == "" {
		return apperrors.NewValidationError("name is required")
	}
	if in.RoomNumber == "" || in.BedNumber == "" {
		return apperrors.NewValidationError("room_number and bed_number are required")
	}
	if in.Age < 0 {
		return apperrors.NewValidationError("age must not be negative")
	}
	return nil
}

// Create admits a new patient. Manager-only.
func (s *PatientService) Create(ctx context.Context, input PatientInput, actor *auth.Principal) (*entities.Patient, error) {
	if actor.Role != entities.RoleManager {
		return nil, apperrors.NewForbiddenError("only managers can create patients")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	patient := &entities.Patient{
		ID:               uuid.New().String(),
		Name:             input.Name,
		Diseases:         input.Diseases,
		Allergies:        input.Allergies,
		RoomNumber:       input.RoomNumber,
		BedNumber:        input.BedNumber,
		FloorNumber:      input.FloorNumber,
		Age:              input.Age,
		Gender:           input.Gender,
		ContactNumber:    input.ContactNumber,
		EmergencyContact: input.EmergencyContact,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Update replaces a patient's details. Manager-only.
func (s *PatientService) Update(ctx context.Context, id string, input PatientInput, actor *auth.Principal) (*entities.Patient, error) {
	if actor.Role != entities.RoleManager {
		return nil, apperrors.NewForbiddenError("only managers can update patients")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patient.Name = input.Name
	patient.Diseases = input.Diseases
	patient.Allergies = input.Allergies
	patient.RoomNumber = input.RoomNumber
	patient.BedNumber = input.BedNumber
	patient.FloorNumber = input.FloorNumber
	patient.Age = input.Age
	patient.Gender = input.Gender
	patient.ContactNumber = input.ContactNumber
	patient.EmergencyContact = input.EmergencyContact
	patient.UpdatedAt = time.Now()

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Get returns one patient by id.
func (s *PatientService) Get(ctx context.Context, id string) (*entities.Patient, error) {
	return s.patientRepo.GetByID(ctx, id)
}

// List returns all patients, newest first.
func (s *PatientService) List(ctx context.Context) ([]*entities.Patient, error) {
	return s.patientRepo.List(ctx)
}
