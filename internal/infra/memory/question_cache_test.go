package memory

import (
	"context"
	"testing"
	"time"

	"classquiz-service/internal/app"
	"classquiz-service/internal/domain"
)

func TestQuestionCacheHitsBackingStoreOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()
	quiz, _ := repo.CreateQuiz(ctx, domain.Quiz{Title: "Math"})
	if err := repo.SaveQuestions(ctx, quiz.ID, sampleQuestions()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	counting := &countingRepository{QuizRepository: repo}
	cache := NewQuestionCache(counting, time.Minute)

	if _, err := cache.GetQuestions(ctx, quiz.ID); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if counting.calls != 1 {
		t.Fatalf("expected backing store called once, got %d", counting.calls)
	}

	if _, err := cache.GetQuestions(ctx, quiz.ID); err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if counting.calls != 1 {
		t.Fatalf("expected cache hit, calls=%d", counting.calls)
	}
}

func TestQuestionCacheInvalidatesOnSave(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()
	quiz, _ := repo.CreateQuiz(ctx, domain.Quiz{Title: "Math"})
	if err := repo.SaveQuestions(ctx, quiz.ID, sampleQuestions()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	counting := &countingRepository{QuizRepository: repo}
	cache := NewQuestionCache(counting, time.Minute)

	if _, err := cache.GetQuestions(ctx, quiz.ID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	updated := sampleQuestions()
	updated[0].Statement = "What is 3 + 3?"
	if err := cache.SaveQuestions(ctx, quiz.ID, updated); err != nil {
		t.Fatalf("save through cache: %v", err)
	}

	questions, err := cache.GetQuestions(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if questions[0].Statement != "What is 3 + 3?" {
		t.Fatalf("stale cache after save: %+v", questions[0])
	}
	if counting.calls != 2 {
		t.Fatalf("expected reload from backing store, calls=%d", counting.calls)
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
