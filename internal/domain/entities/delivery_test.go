package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
)

func TestDelivery_CanTransitionPreparation(t *testing.T) {
	staffID := "delivery-staff-1"

	tests := []struct {
		name        string
		current     entities.PreparationStatus
		target      entities.PreparationStatus
		allowRevert bool
		assigned    *string
		want        bool
	}{
		{name: "pending to preparing", current: entities.PreparationStatusPending, target: entities.PreparationStatusPreparing, want: true},
		{name: "preparing to ready", current: entities.PreparationStatusPreparing, target: entities.PreparationStatusReady, want: true},
		{name: "pending to ready skips a step", current: entities.PreparationStatusPending, target: entities.PreparationStatusReady, want: false},
		{name: "ready back to pending forward-only", current: entities.PreparationStatusReady, target: entities.PreparationStatusPending, want: false},
		{name: "ready back to pending with revert", current: entities.PreparationStatusReady, target: entities.PreparationStatusPending, allowRevert: true, want: true},
		{name: "no revert after staff assigned", current: entities.PreparationStatusReady, target: entities.PreparationStatusPreparing, allowRevert: true, assigned: &staffID, want: false},
		{name: "unknown status", current: entities.PreparationStatusPending, target: entities.PreparationStatus("done"), want: false},
		{name: "same status", current: entities.PreparationStatusPreparing, target: entities.PreparationStatusPreparing, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &entities.Delivery{
				PreparationStatus:  tt.current,
				AssignedToDelivery: tt.assigned,
			}
			assert.Equal(t, tt.want, d.CanTransitionPreparation(tt.target, tt.allowRevert))
		})
	}
}

func TestDelivery_CanTransitionDelivery(t *testing.T) {
	staffID := "delivery-staff-1"

	tests := []struct {
		name        string
		current     entities.DeliveryStatus
		target      entities.DeliveryStatus
		allowRevert bool
		assigned    *string
		want        bool
	}{
		{name: "pending to in_progress", current: entities.DeliveryStatusPending, target: entities.DeliveryStatusInProgress, assigned: &staffID, want: true},
		{name: "in_progress to delivered", current: entities.DeliveryStatusInProgress, target: entities.DeliveryStatusDelivered, assigned: &staffID, want: true},
		{name: "cannot leave pending unassigned", current: entities.DeliveryStatusPending, target: entities.DeliveryStatusInProgress, want: false},
		{name: "delivered is terminal", current: entities.DeliveryStatusDelivered, target: entities.DeliveryStatusInProgress, allowRevert: true, assigned: &staffID, want: false},
		{name: "pending to delivered skips a step", current: entities.DeliveryStatusPending, target: entities.DeliveryStatusDelivered, assigned: &staffID, want: false},
		{name: "in_progress back to pending with revert", current: entities.DeliveryStatusInProgress, target: entities.DeliveryStatusPending, allowRevert: true, assigned: &staffID, want: true},
		{name: "in_progress back to pending forward-only", current: entities.DeliveryStatusInProgress, target: entities.DeliveryStatusPending, assigned: &staffID, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &entities.Delivery{
				DeliveryStatus:     tt.current,
				AssignedToDelivery: tt.assigned,
			}
			assert.Equal(t, tt.want, d.CanTransitionDelivery(tt.target, tt.allowRevert))
		})
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, entities.RoleManager.Valid())
	assert.True(t, entities.RolePantryStaff.Valid())
	assert.True(t, entities.RoleDeliveryStaff.Valid())
	assert.False(t, entities.Role("admin").Valid())
}

func TestMealType_Valid(t *testing.T) {
	assert.True(t, entities.MealTypeMorning.Valid())
	assert.False(t, entities.MealType("lunch").Valid())
}
