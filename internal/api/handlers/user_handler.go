package handlers

import (
	"context"
	"net/http"

	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
)

// UserLister defines the user lookup used by the handler.
type UserLister interface {
	ListByRole(ctx context.Context, role entities.Role) ([]*entities.User, error)
}

// UserHandler handles staff directory requests.
type UserHandler struct {
	users UserLister
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserLister) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers handles GET /api/users?role=delivery. Pantry staff use it to
// pick an assignee; delivery staff have no business browsing the directory.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if principal.Role != entities.RoleManager && principal.Role != entities.RolePantryStaff {
		respondWithError(w, http.StatusForbidden, "insufficient role")
		return
	}

	role := entities.Role(r.URL.Query().Get("role"))
	if !role.Valid() {
		respondWithError(w, http.StatusBadRequest, "unknown role")
		return
	}

	users, err := h.users.ListByRole(r.Context(), role)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}
