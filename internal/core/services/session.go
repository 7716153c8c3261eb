// internal/core/services/session.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

// SessionService resolves opaque session tokens into tenant-scoped
// identities. First contact mints a token and a user id; later requests
// with the same token land on the same user. Unknown pre-issued tokens
// are bound to a fresh user on first sight, SetNX makes concurrent first
// sights agree on a single binding.
type SessionService struct {
	cache  ports.CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

// Statically assert that *SessionService implements the IdentityResolver interface.
var _ ports.IdentityResolver = (*SessionService)(nil)

// NewSessionService creates a new session service
func NewSessionService(cache ports.CacheRepository, ttl time.Duration, logger *slog.Logger) *SessionService {
	return &SessionService{
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("service", "session")),
	}
}

func sessionKey(appID, token string) string {
	return fmt.Sprintf("session:%s:%s", appID, token)
}

// Resolve maps (appID, token) to a session, minting token and identity as
// needed. The returned token replaces the caller's; clients must echo it
// on subsequent requests.
func (s *SessionService) Resolve(ctx context.Context, appID, token string) (domain.Session, string, error) {
	if appID == "" {
		appID = domain.DefaultAppID
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return s.mint(ctx, appID)
	}

	key := sessionKey(appID, token)

	var userID string
	err := s.cache.Get(ctx, key, &userID)
	if err == nil && userID != "" {
		return domain.Session{UserID: userID, AppID: appID}, token, nil
	}
	if err != nil && !errors.Is(err, ports.ErrCacheMiss) {
		return domain.Session{}, "", fmt.Errorf("failed to look up session: %w", err)
	}

	// Pre-issued token we have never seen. Bind a fresh identity to it;
	// if a concurrent request binds first, adopt its binding.
	candidate := uuid.NewString()
	ok, err := s.cache.SetNX(ctx, key, candidate, s.ttl)
	if err != nil {
		return domain.Session{}, "", fmt.Errorf("failed to bind session: %w", err)
	}
	if !ok {
		if err := s.cache.Get(ctx, key, &userID); err != nil || userID == "" {
			return domain.Session{}, "", fmt.Errorf("failed to read bound session: %w", err)
		}
		return domain.Session{UserID: userID, AppID: appID}, token, nil
	}

	s.logger.InfoContext(ctx, "bound new identity to token",
		slog.String("app_id", appID),
		slog.String("user_id", candidate))

	return domain.Session{UserID: candidate, AppID: appID}, token, nil
}

func (s *SessionService) mint(ctx context.Context, appID string) (domain.Session, string, error) {
	token := uuid.NewString()
	userID := uuid.NewString()

	ok, err := s.cache.SetNX(ctx, sessionKey(appID, token), userID, s.ttl)
	if err != nil {
		return domain.Session{}, "", fmt.Errorf("failed to store session: %w", err)
	}
	if !ok {
		// A fresh random token colliding means the keyspace is corrupt.
		return domain.Session{}, "", fmt.Errorf("session token collision")
	}

	s.logger.InfoContext(ctx, "minted new session",
		slog.String("app_id", appID),
		slog.String("user_id", userID))

	return domain.Session{UserID: userID, AppID: appID}, token, nil
}
