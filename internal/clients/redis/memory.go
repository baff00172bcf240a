package redis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memorySessionStore backs sessions with a process-local map when no redis
// is configured. Sessions then do not survive restarts, which matches the
// single-home-server deployment this exists for.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

type memorySession struct {
	session   Session
	expiresAt time.Time
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]memorySession)}
}

func (s *memorySessionStore) Create(ctx context.Context, profileID uuid.UUID, ttl time.Duration) (*Session, error) {
	session := Session{
		Token:     uuid.New().String(),
		ProfileID: profileID,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = memorySession{
		session:   session,
		expiresAt: time.Now().Add(ttl),
	}
	return &session, nil
}

func (s *memorySessionStore) Get(ctx context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, token)
		return nil, nil
	}
	session := entry.session
	return &session, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *memorySessionStore) Close() error { return nil }
