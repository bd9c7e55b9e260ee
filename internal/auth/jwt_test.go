package auth_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
)

const testSecret = "test-secret"

func testUser() *entities.User {
	return &entities.User{
		ID:       "user-1",
		FullName: "Priya Sharma",
		Role:     entities.RolePantryStaff,
	}
}

func TestIssueAndParseToken(t *testing.T) {
	token, err := auth.IssueToken(testUser(), testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := auth.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.UserID)
	assert.Equal(t, "Priya Sharma", principal.FullName)
	assert.Equal(t, entities.RolePantryStaff, principal.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.IssueToken(testUser(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := auth.IssueToken(testUser(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, testSecret)
	assert.Error(t, err)
}

func TestIssueToken_EmptySecret(t *testing.T) {
	_, err := auth.IssueToken(testUser(), "", time.Hour)
	assert.Error(t, err)
}

func TestParseFromRequest(t *testing.T) {
	token, err := auth.IssueToken(testUser(), testSecret, time.Hour)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/deliveries", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		principal, err := auth.ParseFromRequest(req, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "user-1", principal.UserID)
	})

	t.Run("token query parameter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/stream/users/user-1?token="+token, nil)

		principal, err := auth.ParseFromRequest(req, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "user-1", principal.UserID)
	})

	t.Run("missing credentials", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/deliveries", nil)

		_, err := auth.ParseFromRequest(req, testSecret)
		assert.Error(t, err)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/deliveries", nil)
		req.Header.Set("Authorization", "Token abc")

		_, err := auth.ParseFromRequest(req, testSecret)
		assert.Error(t, err)
	})
}
