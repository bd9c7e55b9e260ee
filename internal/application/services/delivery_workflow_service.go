package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/repositories"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

// DeliveryWorkflowService validates and applies the meal workflow:
// preparation transitions by the assigned pantry user, delivery-staff
// assignment once a meal is ready, and delivery transitions by the assigned
// delivery user. Transitions are forward-only (pending, preparing, ready and
// pending, in_progress, delivered) unless allowRevert is configured; events
// are published after the store confirms the write.
type DeliveryWorkflowService struct {
	deliveryRepo repositories.DeliveryRepository
	userRepo     repositories.UserRepository
	notifier     *NotificationService
	allowRevert  bool
}

// NewDeliveryWorkflowService creates a new delivery workflow service
func NewDeliveryWorkflowService(
	deliveryRepo repositories.DeliveryRepository,
	userRepo repositories.UserRepository,
	notifier *NotificationService,
	allowRevert bool,
) *DeliveryWorkflowService {
	return &DeliveryWorkflowService{
		deliveryRepo: deliveryRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		allowRevert:  allowRevert,
	}
}

// ListForUser returns the deliveries visible to the actor's role and id.
func (s *DeliveryWorkflowService) ListForUser(ctx context.Context, role entities.Role, userID string) ([]*entities.DeliveryView, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", role))
	}
	return s.deliveryRepo.ListForUser(ctx, role, userID)
}

// TransitionPreparation moves a delivery's preparation_status. Only the
// assigned pantry user may transition it. Re-applying the current status is
// an idempotent no-op: nothing is written and no event is published.
func (s *DeliveryWorkflowService) TransitionPreparation(
	ctx context.Context,
	deliveryID string,
	newStatus entities.PreparationStatus,
	actor *auth.Principal,
) (*entities.Delivery, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown preparation status %q", newStatus))
	}
	if actor.Role != entities.RolePantryStaff {
		return nil, apperrors.NewForbiddenError("only pantry staff can update preparation status")
	}

	delivery, err := s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if delivery.AssignedToPantry != actor.UserID {
		return nil, apperrors.NewForbiddenError("delivery is assigned to another pantry user")
	}

	if delivery.PreparationStatus == newStatus {
		return delivery, nil
	}

	if !delivery.CanTransitionPreparation(newStatus, s.allowRevert) {
		return nil, apperrors.NewPreconditionFailedError(fmt.Sprintf(
			"cannot move preparation status from %s to %s", delivery.PreparationStatus, newStatus,
		))
	}

	delivery.PreparationStatus = newStatus
	if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
		return nil, err
	}

	s.notifier.NotifyPreparationStatus(ctx, delivery)
	return delivery, nil
}

// AssignDeliveryStaff assigns a delivery user to a ready meal. Pantry staff
// and managers may assign; the chosen user must hold the delivery role, the
// meal must be ready, and no delivery user may already be assigned.
func (s *DeliveryWorkflowService) AssignDeliveryStaff(
	ctx context.Context,
	deliveryID string,
	staffID string,
	actor *auth.Principal,
) (*entities.Delivery, error) {
	if staffID == "" {
		return nil, apperrors.NewValidationError("assigned_to_delivery is required")
	}
	if actor.Role != entities.RolePantryStaff && actor.Role != entities.RoleManager {
		return nil, apperrors.NewForbiddenError("only pantry staff or managers can assign delivery staff")
	}

	delivery, err := s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if delivery.PreparationStatus != entities.PreparationStatusReady {
		return nil, apperrors.NewPreconditionFailedError("meal is not ready for delivery assignment")
	}
	if delivery.AssignedToDelivery != nil {
		return nil, apperrors.NewPreconditionFailedError("delivery staff is already assigned")
	}

	staff, err := s.userRepo.GetByID(ctx, staffID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("user %s does not exist", staffID))
		}
		return nil, err
	}
	if staff.Role != entities.RoleDeliveryStaff {
		return nil, apperrors.NewValidationError(fmt.Sprintf("user %s is not delivery staff", staffID))
	}

	delivery.AssignedToDelivery = &staff.ID
	if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
		return nil, err
	}

	if view, err := s.deliveryRepo.GetViewByID(ctx, delivery.ID); err == nil {
		s.notifier.NotifyDeliveryTask(ctx, view)
	}
	return delivery, nil
}

// TransitionDelivery moves a delivery's delivery_status. Only the assigned
// delivery user may transition it; delivered is terminal and stamps
// delivered_at.
func (s *DeliveryWorkflowService) TransitionDelivery(
	ctx context.Context,
	deliveryID string,
	newStatus entities.DeliveryStatus,
	actor *auth.Principal,
) (*entities.Delivery, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown delivery status %q", newStatus))
	}
	if actor.Role != entities.RoleDeliveryStaff {
		return nil, apperrors.NewForbiddenError("only delivery staff can update delivery status")
	}

	delivery, err := s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if delivery.AssignedToDelivery == nil {
		return nil, apperrors.NewPreconditionFailedError("no delivery staff assigned yet")
	}
	if *delivery.AssignedToDelivery != actor.UserID {
		return nil, apperrors.NewForbiddenError("delivery is assigned to another delivery user")
	}

	if delivery.DeliveryStatus == newStatus {
		return delivery, nil
	}

	if !delivery.CanTransitionDelivery(newStatus, s.allowRevert) {
		return nil, apperrors.NewPreconditionFailedError(fmt.Sprintf(
			"cannot move delivery status from %s to %s", delivery.DeliveryStatus, newStatus,
		))
	}

	delivery.DeliveryStatus = newStatus
	if newStatus == entities.DeliveryStatusDelivered {
		now := time.Now()
		delivery.DeliveredAt = &now
	}

	if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
		return nil, err
	}

	s.notifier.NotifyDeliveryStatus(ctx, delivery)
	return delivery, nil
}
