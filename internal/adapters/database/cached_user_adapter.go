package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/providers"
	"github.com/mealroute/hospital-meal-service/internal/domain/repositories"
)

// Cache TTLs (in seconds). Staff rosters change rarely; short TTLs keep the
// assignment dropdowns fresh without hammering Postgres on every render.
const (
	userByIDTTL    = 300
	usersByRoleTTL = 60
)

// CachedUserAdapter wraps a UserRepository with read-through caching
type CachedUserAdapter struct {
	adapter repositories.UserRepository
	cache   providers.CacheProvider
}

// NewCachedUserAdapter creates a new cached user adapter
func NewCachedUserAdapter(adapter repositories.UserRepository, cache providers.CacheProvider) repositories.UserRepository {
	return &CachedUserAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

func userCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func usersByRoleCacheKey(role entities.Role) string {
	return fmt.Sprintf("users:role:%s", role)
}

// Create creates a user and drops the role list from cache
func (a *CachedUserAdapter) Create(ctx context.Context, user *entities.User) error {
	if err := a.adapter.Create(ctx, user); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, usersByRoleCacheKey(user.Role)); err != nil {
		log.Warn().Err(err).Str("role", string(user.Role)).Msg("failed to invalidate role list cache")
	}
	return nil
}

// GetByID retrieves a user by ID with caching
func (a *CachedUserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	cacheKey := userCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var user entities.User
		if err := json.Unmarshal(cached, &user); err == nil {
			return &user, nil
		}
	}

	user, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.store(cacheKey, user, userByIDTTL)
	return user, nil
}

// GetByEmail is not cached: it is only used on login, where a stale password
// hash would be worse than one extra query.
func (a *CachedUserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.adapter.GetByEmail(ctx, email)
}

// ListByRole retrieves users by role with caching
func (a *CachedUserAdapter) ListByRole(ctx context.Context, role entities.Role) ([]*entities.User, error) {
	cacheKey := usersByRoleCacheKey(role)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var users []*entities.User
		if err := json.Unmarshal(cached, &users); err == nil {
			return users, nil
		}
	}

	users, err := a.adapter.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	a.store(cacheKey, users, usersByRoleTTL)
	return users, nil
}

// store updates the cache in the background so responses are not blocked.
func (a *CachedUserAdapter) store(key string, value interface{}, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	go func() {
		if err := a.cache.Set(context.Background(), key, data, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache user data")
		}
	}()
}
