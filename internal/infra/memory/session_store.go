package memory

import (
	"sync"

	"classquiz-service/internal/play"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions are keyed per student per quiz; no state is shared between them.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*play.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*play.Session),
	}
}

func (s *SessionStore) Put(session *play.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key(session.QuizID(), session.UserID())] = session
}

func (s *SessionStore) Get(quizID, userID string) (*play.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[key(quizID, userID)]
	return session, ok
}

func (s *SessionStore) Delete(quizID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key(quizID, userID))
}

func key(quizID, userID string) string {
	return quizID + "/" + userID
}
