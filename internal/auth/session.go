package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=../mock/session_store_mock.go -package=mock github.com/spec-kit/quote-service/internal/auth SessionStore

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record behind a session cookie.
type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore persists sessions keyed by an opaque id.
type SessionStore interface {
	Create(ctx context.Context, userID string) (*Session, error)
	// Get loads a session and extends its expiry.
	Get(ctx context.Context, id string) (*Session, error)
	Destroy(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions in Redis with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore builds the store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return "sess:" + id
}

func (s *RedisSessionStore) Create(ctx context.Context, userID string) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.client.GetEx(ctx, sessionKey(id), s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	session.ID = id
	return &session, nil
}

func (s *RedisSessionStore) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
