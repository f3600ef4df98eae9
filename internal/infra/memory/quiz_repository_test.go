package memory

import (
	"context"
	"testing"

	"classquiz-service/internal/domain"
)

func TestQuizLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()

	quiz, err := repo.CreateQuiz(ctx, domain.Quiz{Title: "Math", CreatedBy: "t1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if quiz.ID == "" || quiz.CreatedAt.IsZero() {
		t.Fatalf("expected assigned id and timestamp, got %+v", quiz)
	}

	listed, err := repo.ListQuizzes(ctx, domain.QuizFilter{CreatedBy: "t1"})
	if err != nil || len(listed) != 1 {
		t.Fatalf("list: %v %+v", err, listed)
	}
	if listed, _ := repo.ListQuizzes(ctx, domain.QuizFilter{CreatedBy: "someone-else"}); len(listed) != 0 {
		t.Fatalf("filter should exclude other owners: %+v", listed)
	}

	if err := repo.DeleteQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteQuiz(ctx, quiz.ID); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestSaveQuestionsAssignsIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()

	quiz, _ := repo.CreateQuiz(ctx, domain.Quiz{Title: "Math"})
	err := repo.SaveQuestions(ctx, quiz.ID, []domain.Question{
		{
			Statement: "What is 2 + 2?",
			Points:    10,
			Alternatives: []domain.Alternative{
				{Text: "3"},
				{Text: "4", IsCorrect: true},
			},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	questions, err := repo.GetQuestions(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(questions) != 1 || questions[0].ID == "" {
		t.Fatalf("expected stored question with id, got %+v", questions)
	}
	for _, alt := range questions[0].Alternatives {
		if alt.ID == "" {
			t.Fatalf("expected assigned alternative id, got %+v", questions[0].Alternatives)
		}
	}

	// a second save keeps the assigned identity
	questions[0].Statement = "What is 2 + 2, really?"
	if err := repo.SaveQuestions(ctx, quiz.ID, questions); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	reloaded, _ := repo.GetQuestions(ctx, quiz.ID)
	if reloaded[0].ID != questions[0].ID {
		t.Fatalf("question identity changed across edits")
	}
}

func TestGetQuestionsUnknownQuiz(t *testing.T) {
	repo := NewQuizRepository()
	if _, err := repo.GetQuestions(context.Background(), "nope"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}
