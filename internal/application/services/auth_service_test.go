package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mealroute/hospital-meal-service/internal/application/services"
	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

type stubUserDirectory struct {
	byEmail map[string]*entities.User
}

func (s *stubUserDirectory) Create(ctx context.Context, user *entities.User) error { return nil }

func (s *stubUserDirectory) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *stubUserDirectory) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *stubUserDirectory) ListByRole(ctx context.Context, role entities.Role) ([]*entities.User, error) {
	return nil, nil
}

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*services.AuthService, *entities.User) {
	t.Helper()

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	user := &entities.User{
		ID:           "pantry-1",
		Email:        "pantry@hospital.com",
		PasswordHash: hash,
		FullName:     "Priya Pantry",
		Role:         entities.RolePantryStaff,
	}
	repo := &stubUserDirectory{byEmail: map[string]*entities.User{user.Email: user}}
	return services.NewAuthService(repo, testSecret, time.Hour), user
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues a token carrying the stored identity", func(t *testing.T) {
		service, user := newAuthFixture(t)

		result, err := service.Login(context.Background(), "Pantry@Hospital.com ", "correct horse", entities.RolePantryStaff)
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)
		assert.Equal(t, user.ID, result.User.ID)

		principal, err := auth.ParseToken(result.Token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, user.ID, principal.UserID)
		assert.Equal(t, entities.RolePantryStaff, principal.Role)
		assert.Equal(t, "Priya Pantry", principal.FullName)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		service, _ := newAuthFixture(t)

		_, err := service.Login(context.Background(), "pantry@hospital.com", "wrong", entities.RolePantryStaff)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})

	t.Run("rejects an unknown email without leaking existence", func(t *testing.T) {
		service, _ := newAuthFixture(t)

		_, err := service.Login(context.Background(), "nobody@hospital.com", "correct horse", entities.RolePantryStaff)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})

	t.Run("rejects a role mismatch", func(t *testing.T) {
		service, _ := newAuthFixture(t)

		_, err := service.Login(context.Background(), "pantry@hospital.com", "correct horse", entities.RoleManager)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		service, _ := newAuthFixture(t)

		_, err := service.Login(context.Background(), "", "correct horse", entities.RolePantryStaff)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

		_, err = service.Login(context.Background(), "pantry@hospital.com", "correct horse", entities.Role("admin"))
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}
