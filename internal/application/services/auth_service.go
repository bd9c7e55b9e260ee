package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/repositories"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

// AuthService verifies credentials and issues tokens. The role posted at
// login must match the stored role; clients never get a token for a role
// they do not hold.
type AuthService struct {
	userRepo repositories.UserRepository
	secret   string
	tokenTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// LoginResult carries the signed token and the authenticated user.
type LoginResult struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}

// Login checks email, password and role and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string, role entities.Role) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", role))
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}
	if user.Role != role {
		return nil, apperrors.NewUnauthorizedError("invalid credentials for this role")
	}

	token, err := auth.IssueToken(user, s.secret, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}
