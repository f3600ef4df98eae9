package redis

import (
	"context"
	"testing"
	"time"

	"classquiz-service/internal/app"
	"classquiz-service/internal/domain"
	"classquiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	repo := memory.NewQuizRepository()
	quiz, _ := repo.CreateQuiz(ctx, domain.Quiz{Title: "Math"})
	if err := repo.SaveQuestions(ctx, quiz.ID, sampleQuestions()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	counting := &countingRepository{QuizRepository: repo}
	cache := NewQuestionCache(newClient(mr), counting, time.Minute)

	if _, err := cache.GetQuestions(ctx, quiz.ID); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if counting.calls != 1 {
		t.Fatalf("expected backing store called once, got %d", counting.calls)
	}
	if !mr.Exists("quiz:" + quiz.ID + ":questions") {
		t.Fatalf("expected redis cache key to be set")
	}

	// Second call should hit redis, backing store not incremented.
	questions, err := cache.GetQuestions(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if counting.calls != 1 {
		t.Fatalf("expected cache hit, calls=%d", counting.calls)
	}
	if len(questions) != 1 || questions[0].Statement != "What is 2 + 2?" {
		t.Fatalf("cache round-trip lost data: %+v", questions)
	}
}

func TestQuestionCacheDropsKeyOnSaveAndDelete(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	repo := memory.NewQuizRepository()
	quiz, _ := repo.CreateQuiz(ctx, domain.Quiz{Title: "Math"})
	if err := repo.SaveQuestions(ctx, quiz.ID, sampleQuestions()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cache := NewQuestionCache(newClient(mr), repo, time.Minute)
	key := "quiz:" + quiz.ID + ":questions"

	if _, err := cache.GetQuestions(ctx, quiz.ID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if !mr.Exists(key) {
		t.Fatalf("expected warm cache key")
	}

	if err := cache.SaveQuestions(ctx, quiz.ID, sampleQuestions()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if mr.Exists(key) {
		t.Fatalf("expected cache key dropped after save")
	}

	if _, err := cache.GetQuestions(ctx, quiz.ID); err != nil {
		t.Fatalf("re-warm cache: %v", err)
	}
	if err := cache.DeleteQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists(key) {
		t.Fatalf("expected cache key dropped after delete")
	}
}

type countingRepository struct {
	app.QuizRepository
	calls int
}

func (r *countingRepository) GetQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	r.calls++
	return r.QuizRepository.GetQuestions(ctx, quizID)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Statement: "What is 2 + 2?",
			Points:    10,
			Alternatives: []domain.Alternative{
				{Text: "3"},
				{Text: "4", IsCorrect: true},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
