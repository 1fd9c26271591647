package memory

import (
	"sync"

	"timed-quiz-service/internal/quiz"
)

// SessionStore is an in-memory registry of hosted quiz sessions.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*quiz.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*quiz.Session),
	}
}

func (s *SessionStore) Register(id string, session *quiz.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = session
}

// Touch is a no-op; in-process sessions need no liveness marker.
func (s *SessionStore) Touch(string) {}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports how many sessions are live.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CloseAll closes and forgets every registered session.
func (s *SessionStore) CloseAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*quiz.Session)
	s.mu.Unlock()
	for _, session := range sessions {
		session.Close()
	}
}
