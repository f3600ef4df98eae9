package redis

import (
	"context"
	"sync"
	"time"

	"classquiz-service/internal/play"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Play sessions own live timers, so the session objects themselves stay
//     in-process; Redis marks session liveness per student per quiz.
//   - For true distribution you'd pair this with sticky routing so the same
//     instance keeps serving a student's session.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*play.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*play.Session),
	}
}

func (s *SessionStore) Put(session *play.Session) {
	k := key(session.QuizID(), session.UserID())

	s.mu.Lock()
	s.sessions[k] = session
	s.mu.Unlock()

	// best-effort liveness marker
	_ = s.client.Set(context.Background(), "quiz:session:"+k, "1", s.ttl).Err()
}

func (s *SessionStore) Get(quizID, userID string) (*play.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[key(quizID, userID)]
	return session, ok
}

func (s *SessionStore) Delete(quizID, userID string) {
	k := key(quizID, userID)

	s.mu.Lock()
	delete(s.sessions, k)
	s.mu.Unlock()

	_ = s.client.Del(context.Background(), "quiz:session:"+k).Err()
}

func key(quizID, userID string) string {
	return quizID + "/" + userID
}
