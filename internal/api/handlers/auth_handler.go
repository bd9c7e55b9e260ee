package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mealroute/hospital-meal-service/internal/application/services"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
)

// AuthenticationService defines the login operation used by the handler.
type AuthenticationService interface {
	Login(ctx context.Context, email, password string, role entities.Role) (*services.LoginResult, error)
}

// AuthHandler handles authentication requests.
type AuthHandler struct {
	service AuthenticationService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service AuthenticationService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.service.Login(r.Context(), payload.Email, payload.Password, entities.Role(payload.Role))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
