package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

// DeliveryWorkflowService defines the workflow operations used by the handler.
type DeliveryWorkflowService interface {
	ListForUser(ctx context.Context, role entities.Role, userID string) ([]*entities.DeliveryView, error)
	TransitionPreparation(ctx context.Context, deliveryID string, newStatus entities.PreparationStatus, actor *auth.Principal) (*entities.Delivery, error)
	AssignDeliveryStaff(ctx context.Context, deliveryID, staffID string, actor *auth.Principal) (*entities.Delivery, error)
	TransitionDelivery(ctx context.Context, deliveryID string, newStatus entities.DeliveryStatus, actor *auth.Principal) (*entities.Delivery, error)
}

// DeliveryHandler handles delivery queries and workflow updates.
type DeliveryHandler struct {
	service DeliveryWorkflowService
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(service DeliveryWorkflowService) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

// ListDeliveries handles GET /api/deliveries/{role}/{id}.
// The path must name the caller unless the caller is a manager.
func (h *DeliveryHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	role := entities.Role(r.PathValue("role"))
	userID := r.PathValue("id")
	if !role.Valid() {
		respondWithError(w, http.StatusBadRequest, "unknown role in path")
		return
	}

	if principal.Role != entities.RoleManager && (role != principal.Role || userID != principal.UserID) {
		respondWithError(w, http.StatusForbidden, "cannot view another user's deliveries")
		return
	}

	deliveries, err := h.service.ListForUser(r.Context(), role, userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, deliveries)
}

type preparationStatusRequest struct {
	PreparationStatus string `json:"preparation_status"`
}

// UpdatePreparationStatus handles PATCH /api/deliveries/{id}/preparation_status
func (h *DeliveryHandler) UpdatePreparationStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload preparationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	delivery, err := h.service.TransitionPreparation(
		r.Context(),
		r.PathValue("id"),
		entities.PreparationStatus(payload.PreparationStatus),
		principal,
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, delivery)
}

type deliveryStatusRequest struct {
	DeliveryStatus string `json:"delivery_status"`
}

// UpdateDeliveryStatus handles PATCH /api/deliveries/{id}/delivery_status
func (h *DeliveryHandler) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload deliveryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	delivery, err := h.service.TransitionDelivery(
		r.Context(),
		r.PathValue("id"),
		entities.DeliveryStatus(payload.DeliveryStatus),
		principal,
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, delivery)
}

type assignDeliveryRequest struct {
	AssignedToDelivery string `json:"assigned_to_delivery"`
}

// AssignDelivery handles PATCH /api/deliveries/{id}/assign_delivery
func (h *DeliveryHandler) AssignDelivery(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload assignDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	delivery, err := h.service.AssignDeliveryStaff(
		r.Context(),
		r.PathValue("id"),
		payload.AssignedToDelivery,
		principal,
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, delivery)
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the application error taxonomy to HTTP status
// codes. Internal errors never leak their message to clients.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type != apperrors.ErrorTypeInternal {
		respondWithError(w, appErrorStatus(appErr.Type), appErr.Message)
		return
	}

	log.Error().Err(err).Msg("unhandled error in request")
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}

func appErrorStatus(errType apperrors.ErrorType) int {
	switch errType {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeForbidden:
		return http.StatusForbidden
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypePreconditionFailed, apperrors.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
