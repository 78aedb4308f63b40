package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// TTL is how long a session stays valid without re-login
	TTL = 24 * time.Hour

	// CookieName is the session cookie used by both applications
	CookieName = "session_id"

	keyPrefix = "session:"
)

// Store keeps server-side sessions in Redis, mapping session id -> user id
type Store struct {
	rdb *redis.Client
}

// NewStore creates a session Store backed by the given Redis client
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Create stores a new session bound to userID and returns the session id
func (s *Store) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	sid := uuid.New().String()
	if err := s.rdb.Set(ctx, keyPrefix+sid, userID.String(), TTL).Err(); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return sid, nil
}

// Get returns the user id bound to a session, or uuid.Nil when the session
// does not exist or has expired.
func (s *Store) Get(ctx context.Context, sid string) (uuid.UUID, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+sid).Result()
	if err == redis.Nil {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get session: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt session value: %w", err)
	}
	return userID, nil
}

// Destroy removes a session
func (s *Store) Destroy(ctx context.Context, sid string) error {
	if err := s.rdb.Del(ctx, keyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
