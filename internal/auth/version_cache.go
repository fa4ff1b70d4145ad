// File: internal/auth/version_cache.go
package auth

import (
	"context"
	"time"

	"localpro_backend/internal/shared"
	"localpro_backend/internal/user"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// tokenVersionCacheTTL bounds how long a revoked token can still pass the
// auth gate after a password reset bumps the stored version.
const tokenVersionCacheTTL = 30 * time.Second

// CachedVersionChecker answers token version lookups from a short-TTL
// in-memory cache in front of the user repository, so the auth gate does
// not hit the database on every request.
type CachedVersionChecker struct {
	users user.Repository
	cache *cache.Cache
}

var _ shared.TokenVersionChecker = (*CachedVersionChecker)(nil)

// NewCachedVersionChecker creates a version checker backed by the user store.
func NewCachedVersionChecker(users user.Repository) *CachedVersionChecker {
	return &CachedVersionChecker{
		users: users,
		cache: cache.New(tokenVersionCacheTTL, 2*tokenVersionCacheTTL),
	}
}

// CurrentTokenVersion returns the version stored for the user, consulting
// the cache first.
func (s *CachedVersionChecker) CurrentTokenVersion(ctx context.Context, userID uuid.UUID) (int, error) {
	key := userID.String()
	if v, found := s.cache.Get(key); found {
		if version, ok := v.(int); ok {
			return version, nil
		}
	}

	usr, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.cache.Set(key, usr.TokenVersion, cache.DefaultExpiration)
	return usr.TokenVersion, nil
}

// Invalidate drops the cached version for a user. Called when a reset bumps
// the stored version so the stale entry does not outlive the revocation.
func (s *CachedVersionChecker) Invalidate(userID uuid.UUID) {
	s.cache.Delete(userID.String())
}
