package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mealroute/hospital-meal-service/internal/api/handlers"
	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

type stubWorkflowService struct {
	listResult []*entities.DeliveryView
	delivery   *entities.Delivery
	err        error

	lastRole   entities.Role
	lastUserID string
}

func (s *stubWorkflowService) ListForUser(ctx context.Context, role entities.Role, userID string) ([]*entities.DeliveryView, error) {
	s.lastRole = role
	s.lastUserID = userID
	return s.listResult, s.err
}

func (s *stubWorkflowService) TransitionPreparation(ctx context.Context, deliveryID string, newStatus entities.PreparationStatus, actor *auth.Principal) (*entities.Delivery, error) {
	return s.delivery, s.err
}

func (s *stubWorkflowService) AssignDeliveryStaff(ctx context.Context, deliveryID, staffID string, actor *auth.Principal) (*entities.Delivery, error) {
	return s.delivery, s.err
}

func (s *stubWorkflowService) TransitionDelivery(ctx context.Context, deliveryID string, newStatus entities.DeliveryStatus, actor *auth.Principal) (*entities.Delivery, error) {
	return s.delivery, s.err
}

func authedRequest(method, target, body string, principal *auth.Principal) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if principal != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), principal))
	}
	return req
}

func TestDeliveryHandler_ListDeliveries(t *testing.T) {
	t.Run("returns own deliveries", func(t *testing.T) {
		service := &stubWorkflowService{listResult: []*entities.DeliveryView{{ID: "d1"}}}
		handler := handlers.NewDeliveryHandler(service)

		principal := &auth.Principal{UserID: "pantry-1", Role: entities.RolePantryStaff}
		req := authedRequest("GET", "/api/deliveries/pantry_staff/pantry-1", "", principal)
		req.SetPathValue("role", "pantry_staff")
		req.SetPathValue("id", "pantry-1")
		w := httptest.NewRecorder()

		handler.ListDeliveries(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, entities.RolePantryStaff, service.lastRole)
		assert.Equal(t, "pantry-1", service.lastUserID)

		var views []*entities.DeliveryView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		require.Len(t, views, 1)
		assert.Equal(t, "d1", views[0].ID)
	})

	t.Run("rejects another user's list", func(t *testing.T) {
		handler := handlers.NewDeliveryHandler(&stubWorkflowService{})

		principal := &auth.Principal{UserID: "pantry-1", Role: entities.RolePantryStaff}
		req := authedRequest("GET", "/api/deliveries/pantry_staff/pantry-2", "", principal)
		req.SetPathValue("role", "pantry_staff")
		req.SetPathValue("id", "pantry-2")
		w := httptest.NewRecorder()

		handler.ListDeliveries(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("manager may query any user", func(t *testing.T) {
		service := &stubWorkflowService{}
		handler := handlers.NewDeliveryHandler(service)

		principal := &auth.Principal{UserID: "manager-1", Role: entities.RoleManager}
		req := authedRequest("GET", "/api/deliveries/delivery/courier-1", "", principal)
		req.SetPathValue("role", "delivery")
		req.SetPathValue("id", "courier-1")
		w := httptest.NewRecorder()

		handler.ListDeliveries(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, entities.RoleDeliveryStaff, service.lastRole)
	})

	t.Run("rejects unknown role in path", func(t *testing.T) {
		handler := handlers.NewDeliveryHandler(&stubWorkflowService{})

		principal := &auth.Principal{UserID: "manager-1", Role: entities.RoleManager}
		req := authedRequest("GET", "/api/deliveries/admin/u1", "", principal)
		req.SetPathValue("role", "admin")
		req.SetPathValue("id", "u1")
		w := httptest.NewRecorder()

		handler.ListDeliveries(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeliveryHandler_UpdatePreparationStatus(t *testing.T) {
	principal := &auth.Principal{UserID: "pantry-1", Role: entities.RolePantryStaff}

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ok", nil, http.StatusOK},
		{"validation", apperrors.NewValidationError("unknown preparation status"), http.StatusBadRequest},
		{"forbidden", apperrors.NewForbiddenError("not yours"), http.StatusForbidden},
		{"not found", apperrors.NewNotFoundError("delivery not found"), http.StatusNotFound},
		{"precondition", apperrors.NewPreconditionFailedError("bad transition"), http.StatusConflict},
		{"conflict", apperrors.NewConflictError("concurrent update"), http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubWorkflowService{
				delivery: &entities.Delivery{ID: "d1", PreparationStatus: entities.PreparationStatusPreparing},
				err:      tc.err,
			}
			handler := handlers.NewDeliveryHandler(service)

			req := authedRequest("PATCH", "/api/deliveries/d1/preparation_status",
				`{"preparation_status":"preparing"}`, principal)
			req.SetPathValue("id", "d1")
			w := httptest.NewRecorder()

			handler.UpdatePreparationStatus(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}

	t.Run("rejects malformed payload", func(t *testing.T) {
		handler := handlers.NewDeliveryHandler(&stubWorkflowService{})

		req := authedRequest("PATCH", "/api/deliveries/d1/preparation_status", "{not json", principal)
		req.SetPathValue("id", "d1")
		w := httptest.NewRecorder()

		handler.UpdatePreparationStatus(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unauthenticated request", func(t *testing.T) {
		handler := handlers.NewDeliveryHandler(&stubWorkflowService{})

		req := authedRequest("PATCH", "/api/deliveries/d1/preparation_status",
			`{"preparation_status":"preparing"}`, nil)
		req.SetPathValue("id", "d1")
		w := httptest.NewRecorder()

		handler.UpdatePreparationStatus(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDeliveryHandler_AssignDelivery(t *testing.T) {
	principal := &auth.Principal{UserID: "pantry-1", Role: entities.RolePantryStaff}

	t.Run("returns updated delivery", func(t *testing.T) {
		assignee := "courier-1"
		service := &stubWorkflowService{
			delivery: &entities.Delivery{ID: "d1", AssignedToDelivery: &assignee},
		}
		handler := handlers.NewDeliveryHandler(service)

		req := authedRequest("PATCH", "/api/deliveries/d1/assign_delivery",
			`{"assigned_to_delivery":"courier-1"}`, principal)
		req.SetPathValue("id", "d1")
		w := httptest.NewRecorder()

		handler.AssignDelivery(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var delivery entities.Delivery
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &delivery))
		require.NotNil(t, delivery.AssignedToDelivery)
		assert.Equal(t, "courier-1", *delivery.AssignedToDelivery)
	})

	t.Run("maps not-ready to 409", func(t *testing.T) {
		service := &stubWorkflowService{err: apperrors.NewPreconditionFailedError("meal is not ready")}
		handler := handlers.NewDeliveryHandler(service)

		req := authedRequest("PATCH", "/api/deliveries/d1/assign_delivery",
			`{"assigned_to_delivery":"courier-1"}`, principal)
		req.SetPathValue("id", "d1")
		w := httptest.NewRecorder()

		handler.AssignDelivery(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestDeliveryHandler_UpdateDeliveryStatus(t *testing.T) {
	principal := &auth.Principal{UserID: "courier-1", Role: entities.RoleDeliveryStaff}

	t.Run("returns updated delivery", func(t *testing.T) {
		service := &stubWorkflowService{
			delivery: &entities.Delivery{ID: "d1", DeliveryStatus: entities.DeliveryStatusInProgress},
		}
		handler := handlers.NewDeliveryHandler(service)

		req := authedRequest("PATCH", "/api/deliveries/d1/delivery_status",
			`{"delivery_status":"in_progress"}`, principal)
		req.SetPathValue("id", "d1")
		w := httptest.NewRecorder()

		handler.UpdateDeliveryStatus(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var delivery entities.Delivery
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &delivery))
		assert.Equal(t, entities.DeliveryStatusInProgress, delivery.DeliveryStatus)
	})

	t.Run("hides internal error details", func(t *testing.T) {
		service := &stubWorkflowService{err: apperrors.NewInternalError("db exploded", nil)}
		handler := handlers.NewDeliveryHandler(service)

		req := authedRequest("PATCH", "/api/deliveries/d1/delivery_status",
			`{"delivery_status":"in_progress"}`, principal)
		req.SetPathValue("id", "d1")
		w := httptest.NewRecorder()

		handler.UpdateDeliveryStatus(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db exploded")
	})
}
