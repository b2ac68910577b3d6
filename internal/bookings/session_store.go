package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"skybook/internal/shared/constants"
)

// SessionStore persists in-progress booking sessions. Redis is the
// authoritative store here, not a cache: a session exists only in
// Redis until it is submitted, and the TTL is the abandonment cutoff.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, sessionID uuid.UUID) (*Session, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

// Save writes the full session JSON, resetting the TTL. Every step
// change goes through here, so an active session keeps sliding its
// expiry forward.
func (s *redisSessionStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := constants.BuildSessionKey(session.ID.String())
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	key := constants.BuildSessionKey(sessionID.String())
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	key := constants.BuildSessionKey(sessionID.String())
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
