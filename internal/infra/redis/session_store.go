package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"timed-quiz-service/internal/logging"
	"timed-quiz-service/internal/quiz"
)

// SessionStore is a Redis-aware registry of hosted quiz sessions.
// Sessions themselves live in process; Redis only carries a liveness marker per
// session so other instances (or operators) can see what is running.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*quiz.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*quiz.Session),
	}
}

func (s *SessionStore) Register(id string, session *quiz.Session) {
	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()
	s.mark(context.Background(), id)
}

// Touch refreshes the liveness marker of a registered session (best effort).
func (s *SessionStore) Touch(id string) {
	s.mu.RLock()
	_, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		s.mark(context.Background(), id)
	}
}

// RefreshAll re-marks every registered session.
func (s *SessionStore) RefreshAll(ctx context.Context) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	for _, id := range ids {
		s.mark(ctx, id)
	}
}

// KeepAlive refreshes all markers well inside the TTL until ctx is done, so a
// session stays visible for as long as its socket is open.
func (s *SessionStore) KeepAlive(ctx context.Context) {
	interval := s.ttl / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshAll(ctx)
		}
	}
}

func (s *SessionStore) mark(ctx context.Context, id string) {
	if err := s.client.Set(ctx, s.key(id), "1", s.ttl).Err(); err != nil {
		logging.L().WithError(err).WithField("session_id", id).Debug("failed to mark session live")
	}
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CloseAll closes every session and clears their markers.
func (s *SessionStore) CloseAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*quiz.Session)
	s.mu.Unlock()
	for id, session := range sessions {
		session.Close()
		_ = s.client.Del(context.Background(), s.key(id)).Err()
	}
}

func (s *SessionStore) key(id string) string {
	return "quiz:session:" + id
}
