package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/mealroute/hospital-meal-service/internal/application/services"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/providers"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

type stubPatientRepo struct {
	patients map[string]*entities.Patient
}

func (s *stubPatientRepo) Create(ctx context.Context, patient *entities.Patient) error { return nil }

func (s *stubPatientRepo) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	if p, ok := s.patients[id]; ok {
		return p, nil
	}
	return nil, apperrors.NewNotFoundError("patient not found")
}

func (s *stubPatientRepo) Update(ctx context.Context, patient *entities.Patient) error { return nil }

func (s *stubPatientRepo) List(ctx context.Context) ([]*entities.Patient, error) { return nil, nil }

type stubChartRepo struct {
	created []*entities.DietChart
}

func (s *stubChartRepo) Create(ctx context.Context, chart *entities.DietChart) error {
	s.created = append(s.created, chart)
	return nil
}

func (s *stubChartRepo) GetByID(ctx context.Context, id string) (*entities.DietChart, error) {
	return nil, apperrors.NewNotFoundError("diet chart not found")
}

func (s *stubChartRepo) List(ctx context.Context) ([]*entities.DietChart, error) {
	return s.created, nil
}

func chartInput() services.CreateDietChartInput {
	return services.CreateDietChartInput{
		PatientID:        "patient-1",
		Date:             time.Now(),
		MealType:         entities.MealTypeMorning,
		Ingredients:      []string{"oats", "milk"},
		Instructions:     "no sugar",
		AssignedToPantry: pantryID,
	}
}

func newChartFixture(users *mockUserRepo) (*services.DietChartService, *stubChartRepo, *fakeDeliveryRepo, *fakeEventBus) {
	patients := &stubPatientRepo{patients: map[string]*entities.Patient{
		"patient-1": {ID: "patient-1", Name: "Ravi Kumar", RoomNumber: "101", BedNumber: "A"},
	}}
	charts := &stubChartRepo{}
	deliveries := newFakeDeliveryRepo()
	bus := newFakeEventBus()
	service := services.NewDietChartService(charts, patients, users, deliveries, services.NewNotificationService(bus))
	return service, charts, deliveries, bus
}

func TestDietChartService_CreateWithDelivery(t *testing.T) {
	t.Run("creates chart with a pending preparation task", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("GetByID", mock.Anything, pantryID).
			Return(&entities.User{ID: pantryID, Role: entities.RolePantryStaff}, nil)
		service, charts, deliveries, bus := newChartFixture(users)

		chart, view, err := service.CreateWithDelivery(context.Background(), chartInput(), managerActor())
		require.NoError(t, err)
		require.Len(t, charts.created, 1)
		assert.Equal(t, pantryID, chart.AssignedToPantry)

		delivery, err := deliveries.GetByID(context.Background(), view.ID)
		require.NoError(t, err)
		assert.Equal(t, chart.ID, delivery.DietChartID)
		assert.Equal(t, entities.PreparationStatusPending, delivery.PreparationStatus)
		assert.Equal(t, entities.DeliveryStatusPending, delivery.DeliveryStatus)
		assert.Equal(t, pantryID, delivery.AssignedToPantry)
		assert.Nil(t, delivery.AssignedToDelivery)

		events := bus.published(providers.GetUserChannel(pantryID))
		require.Len(t, events, 1)
		assert.Equal(t, entities.EventNewPreparationTask, events[0].EventType)
		assert.NotNil(t, events[0].Delivery)
	})

	t.Run("only managers may create", func(t *testing.T) {
		service, charts, _, _ := newChartFixture(new(mockUserRepo))

		_, _, err := service.CreateWithDelivery(context.Background(), chartInput(), pantryActor())
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
		assert.Empty(t, charts.created)
	})

	t.Run("rejects an unknown patient", func(t *testing.T) {
		service, _, _, _ := newChartFixture(new(mockUserRepo))

		input := chartInput()
		input.PatientID = "missing"
		_, _, err := service.CreateWithDelivery(context.Background(), input, managerActor())
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("rejects a non-pantry assignee", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("GetByID", mock.Anything, courierID).
			Return(&entities.User{ID: courierID, Role: entities.RoleDeliveryStaff}, nil)
		service, _, _, _ := newChartFixture(users)

		input := chartInput()
		input.AssignedToPantry = courierID
		_, _, err := service.CreateWithDelivery(context.Background(), input, managerActor())
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("rejects an unknown meal type", func(t *testing.T) {
		service, _, _, _ := newChartFixture(new(mockUserRepo))

		input := chartInput()
		input.MealType = entities.MealType("brunch")
		_, _, err := service.CreateWithDelivery(context.Background(), input, managerActor())
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestDietChartService_List(t *testing.T) {
	service, _, _, _ := newChartFixture(new(mockUserRepo))

	_, err := service.List(context.Background(), courierActor())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	charts, err := service.List(context.Background(), managerActor())
	require.NoError(t, err)
	assert.Empty(t, charts)
}
