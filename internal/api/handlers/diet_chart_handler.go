package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mealroute/hospital-meal-service/internal/application/services"
	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
)

// DietChartService defines the diet-chart operations used by the handler.
type DietChartService interface {
	CreateWithDelivery(ctx context.Context, input services.CreateDietChartInput, actor *auth.Principal) (*entities.DietChart, *entities.DeliveryView, error)
	List(ctx context.Context, actor *auth.Principal) ([]*entities.DietChart, error)
}

// DietChartHandler handles diet chart requests.
type DietChartHandler struct {
	service DietChartService
}

// NewDietChartHandler creates a new diet-chart handler
func NewDietChartHandler(service DietChartService) *DietChartHandler {
	return &DietChartHandler{service: service}
}

type createDietChartRequest struct {
	PatientID        string   `json:"patient_id"`
	Date             string   `json:"date"`
	MealType         string   `json:"meal_type"`
	Ingredients      []string `json:"ingredients"`
	Instructions     string   `json:"instructions"`
	AssignedToPantry string   `json:"assigned_to_pantry"`
}

type createDietChartResponse struct {
	DietChart *entities.DietChart    `json:"diet_chart"`
	Delivery  *entities.DeliveryView `json:"delivery"`
}

// CreateDietChart handles POST /api/diet-charts
func (h *DietChartHandler) CreateDietChart(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload createDietChartRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	date, err := parseChartDate(payload.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD or RFC 3339")
		return
	}

	chart, delivery, err := h.service.CreateWithDelivery(r.Context(), services.CreateDietChartInput{
		PatientID:        payload.PatientID,
		Date:             date,
		MealType:         entities.MealType(payload.MealType),
		Ingredients:      payload.Ingredients,
		Instructions:     payload.Instructions,
		AssignedToPantry: payload.AssignedToPantry,
	}, principal)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, createDietChartResponse{
		DietChart: chart,
		Delivery:  delivery,
	})
}

// ListDietCharts handles GET /api/diet-charts
func (h *DietChartHandler) ListDietCharts(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	charts, err := h.service.List(r.Context(), principal)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, charts)
}

func parseChartDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
