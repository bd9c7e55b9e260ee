package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/repositories"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

// DietChartService creates diet charts. A chart and its delivery are one
// logical operation: every chart starts a pending preparation task for the
// assigned pantry user.
type DietChartService struct {
	chartRepo    repositories.DietChartRepository
	patientRepo  repositories.PatientRepository
	userRepo     repositories.UserRepository
	deliveryRepo repositories.DeliveryRepository
	notifier     *NotificationService
}

// NewDietChartService creates a new diet-chart service
func NewDietChartService(
	chartRepo repositories.DietChartRepository,
	patientRepo repositories.PatientRepository,
	userRepo repositories.UserRepository,
	deliveryRepo repositories.DeliveryRepository,
	notifier *NotificationService,
) *DietChartService {
	return &DietChartService{
		chartRepo:    chartRepo,
		patientRepo:  patientRepo,
		userRepo:     userRepo,
		deliveryRepo: deliveryRepo,
		notifier:     notifier,
	}
}

// CreateDietChartInput is the manager-supplied chart definition.
type CreateDietChartInput struct {
	PatientID        string
	Date             time.Time
	MealType         entities.MealType
	Ingredients      []string
	Instructions     string
	AssignedToPantry string
}

// CreateWithDelivery creates the chart and its delivery and notifies the
// pantry assignee of the new preparation task. Manager-only.
func (s *DietChartService) CreateWithDelivery(
	ctx context.Context,
	input CreateDietChartInput,
	actor *auth.Principal,
) (*entities.DietChart, *entities.DeliveryView, error) {
	if actor.Role != entities.RoleManager {
		return nil, nil, apperrors.NewForbiddenError("only managers can create diet charts")
	}
	if input.PatientID == "" {
		return nil, nil, apperrors.NewValidationError("patient_id is required")
	}
	if !input.MealType.Valid() {
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("unknown meal type %q", input.MealType))
	}
	if input.AssignedToPantry == "" {
		return nil, nil, apperrors.NewValidationError("assigned_to_pantry is required")
	}

	if _, err := s.patientRepo.GetByID(ctx, input.PatientID); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf("patient %s does not exist", input.PatientID))
		}
		return nil, nil, err
	}

	pantryUser, err := s.userRepo.GetByID(ctx, input.AssignedToPantry)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf("user %s does not exist", input.AssignedToPantry))
		}
		return nil, nil, err
	}
	if pantryUser.Role != entities.RolePantryStaff {
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("user %s is not pantry staff", input.AssignedToPantry))
	}

	now := time.Now()
	chart := &entities.DietChart{
		ID:               uuid.New().String(),
		PatientID:        input.PatientID,
		Date:             input.Date,
		MealType:         input.MealType,
		Ingredients:      input.Ingredients,
		Instructions:     input.Instructions,
		AssignedToPantry: pantryUser.ID,
		CreatedAt:        now,
	}
	if err := s.chartRepo.Create(ctx, chart); err != nil {
		return nil, nil, err
	}

	delivery := &entities.Delivery{
		ID:                uuid.New().String(),
		DietChartID:       chart.ID,
		PreparationStatus: entities.PreparationStatusPending,
		DeliveryStatus:    entities.DeliveryStatusPending,
		AssignedToPantry:  pantryUser.ID,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
		return nil, nil, err
	}

	view, err := s.deliveryRepo.GetViewByID(ctx, delivery.ID)
	if err != nil {
		return nil, nil, err
	}

	s.notifier.NotifyPreparationTask(ctx, view)
	return chart, view, nil
}

// List returns all diet charts, newest first. Manager-only.
func (s *DietChartService) List(ctx context.Context, actor *auth.Principal) ([]*entities.DietChart, error) {
	if actor.Role != entities.RoleManager {
		return nil, apperrors.NewForbiddenError("only managers can list diet charts")
	}
	return s.chartRepo.List(ctx)
}
