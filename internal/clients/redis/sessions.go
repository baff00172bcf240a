package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/diperi/dugout-backend/internal/platform/logger"
)

// Session is a selected profile. Selection is trust-based: holding a token
// just means "this device picked this profile", the same contract the SPA
// kept in browser localStorage.
type Session struct {
	Token     string    `json:"token"`
	ProfileID uuid.UUID `json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionStore interface {
	Create(ctx context.Context, profileID uuid.UUID, ttl time.Duration) (*Session, error)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	Close() error
}

type sessionStore struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewSessionStore(log *logger.Logger) (SessionStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &sessionStore{
		log: log.With("client", "RedisSessionStore"),
		rdb: rdb,
	}, nil
}

func sessionKey(token string) string { return "session:" + token }

func (s *sessionStore) Create(ctx context.Context, profileID uuid.UUID, ttl time.Duration) (*Session, error) {
	session := &Session{
		Token:     uuid.New().String(),
		ProfileID: profileID,
		CreatedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, sessionKey(session.Token), raw, ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

func (s *sessionStore) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *sessionStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}

func (s *sessionStore) Close() error {
	return s.rdb.Close()
}
