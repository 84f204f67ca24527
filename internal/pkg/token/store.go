package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/watchhubtv/watchhub/internal/pkg/cache"
)

const (
	keyPrefix  = "auth_token:"
	resetKey   = "password_reset:"
	DefaultTTL = 24 * time.Hour
	ResetTTL   = 1 * time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Store issues and introspects opaque bearer tokens backed by Redis.
// Tokens map to a user id and carry a sliding TTL so active sessions
// stay alive while idle ones expire.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a token store on the shared cache client.
func NewStore() *Store {
	return &Store{client: cache.GetClient(), ttl: DefaultTTL}
}

// NewStoreWithClient creates a token store on an explicit client, used by tests.
func NewStoreWithClient(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

// Issue creates a new opaque token for the given user.
func (s *Store) Issue(ctx context.Context, userID uint) (string, error) {
	if userID == 0 {
		return "", errors.New("user id is required")
	}
	tok := uuid.New().String()
	if err := s.client.Set(ctx, keyPrefix+tok, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return tok, nil
}

// Introspect resolves a bearer token to its user id and refreshes the TTL.
func (s *Store) Introspect(ctx context.Context, tok string) (uint, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, ErrInvalidToken
	}
	val, err := s.client.Get(ctx, keyPrefix+tok).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrInvalidToken
		}
		return 0, fmt.Errorf("token lookup failed: %w", err)
	}
	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}

	// Sliding expiration, best-effort
	_ = s.client.Expire(ctx, keyPrefix+tok, s.ttl).Err()

	return uint(userID), nil
}

// Revoke invalidates a token (logout).
func (s *Store) Revoke(ctx context.Context, tok string) error {
	if strings.TrimSpace(tok) == "" {
		return nil
	}
	return s.client.Del(ctx, keyPrefix+tok).Err()
}

// IssueResetToken creates a short-lived password reset token for a user.
func (s *Store) IssueResetToken(ctx context.Context, userID uint) (string, error) {
	if userID == 0 {
		return "", errors.New("user id is required")
	}
	tok := uuid.New().String()
	if err := s.client.Set(ctx, resetKey+tok, userID, ResetTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return tok, nil
}

// ConsumeResetToken resolves and invalidates a password reset token.
func (s *Store) ConsumeResetToken(ctx context.Context, tok string) (uint, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, ErrInvalidToken
	}
	val, err := s.client.GetDel(ctx, resetKey+tok).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrInvalidToken
		}
		return 0, fmt.Errorf("reset token lookup failed: %w", err)
	}
	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}
