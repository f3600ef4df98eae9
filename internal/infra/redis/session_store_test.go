package redis

import (
	"testing"
	"time"

	"classquiz-service/internal/domain"
	"classquiz-service/internal/play"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsLivenessKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	session, err := play.BeginWithDelay("quiz-1", "u1", []domain.Question{
		{
			ID:        "q1",
			Statement: "Pick one",
			Alternatives: []domain.Alternative{
				{ID: "a1", Text: "right", IsCorrect: true},
				{ID: "a2", Text: "wrong"},
			},
		},
	}, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}
	defer session.Close()

	store.Put(session)
	if !mr.Exists("quiz:session:quiz-1/u1") {
		t.Fatalf("expected redis liveness key to be set")
	}
	if got, ok := store.Get("quiz-1", "u1"); !ok || got != session {
		t.Fatalf("expected stored session back")
	}

	store.Delete("quiz-1", "u1")
	if mr.Exists("quiz:session:quiz-1/u1") {
		t.Fatalf("expected redis liveness key to be removed")
	}
	if _, ok := store.Get("quiz-1", "u1"); ok {
		t.Fatalf("expected session removed")
	}
}
