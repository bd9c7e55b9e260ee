package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	apperrors "github.com/mealroute/hospital-meal-service/pkg/errors"
)

// Principal is the authenticated caller extracted from a JWT. Role and id
// always come from the verified token, never from client-supplied payloads.
type Principal struct {
	UserID   string
	FullName string
	Role     entities.Role
}

type principalKey struct{}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from context (if any).
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

type claims struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the user.
func IssueToken(user *entities.User, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", apperrors.NewInternalError("jwt secret is empty", nil)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		FullName: user.FullName,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", apperrors.NewInternalError("failed to sign token", err)
	}
	return signed, nil
}

// ParseToken validates a token string and returns its principal.
func ParseToken(tokenStr, secret string) (*Principal, error) {
	if secret == "" {
		return nil, apperrors.NewInternalError("jwt secret is empty", nil)
	}

	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenStr, c, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, apperrors.NewUnauthorizedError("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}

	role := entities.Role(c.Role)
	if c.Subject == "" || !role.Valid() {
		return nil, apperrors.NewUnauthorizedError("invalid claims")
	}

	return &Principal{
		UserID:   c.Subject,
		FullName: c.FullName,
		Role:     role,
	}, nil
}

// ParseFromRequest extracts a token from the Authorization header, or from
// the token query parameter for EventSource clients that cannot set headers.
func ParseFromRequest(r *http.Request, secret string) (*Principal, error) {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return nil, apperrors.NewUnauthorizedError("invalid authorization header")
		}
		return ParseToken(strings.TrimSpace(parts[1]), secret)
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return ParseToken(token, secret)
	}

	return nil, apperrors.NewUnauthorizedError("missing authorization")
}
