package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"classquiz-service/internal/domain"
)

// QuizRepository is an in-memory persistence implementation, useful for
// tests and for running the server without Postgres.
type QuizRepository struct {
	mu        sync.RWMutex
	quizzes   map[string]domain.Quiz
	questions map[string][]domain.Question
	seq       int
	clock     func() time.Time
}

func NewQuizRepository() *QuizRepository {
	return &QuizRepository{
		quizzes:   make(map[string]domain.Quiz),
		questions: make(map[string][]domain.Question),
		clock:     time.Now,
	}
}

func (r *QuizRepository) CreateQuiz(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if quiz.ID == "" {
		r.seq++
		quiz.ID = fmt.Sprintf("quiz-%d", r.seq)
	}
	quiz.CreatedAt = r.clock()
	r.quizzes[quiz.ID] = quiz
	return quiz, nil
}

func (r *QuizRepository) ListQuizzes(_ context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Quiz, 0, len(r.quizzes))
	for _, quiz := range r.quizzes {
		if filter.CreatedBy != "" && quiz.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Title != "" && quiz.Title != filter.Title {
			continue
		}
		if filter.Theme != "" && quiz.Theme != filter.Theme {
			continue
		}
		out = append(out, quiz)
	}
	return out, nil
}

func (r *QuizRepository) DeleteQuiz(_ context.Context, quizID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.quizzes[quizID]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(r.quizzes, quizID)
	delete(r.questions, quizID)
	return nil
}

func (r *QuizRepository) GetQuestions(_ context.Context, quizID string) ([]domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.quizzes[quizID]; !ok {
		return nil, domain.ErrQuizNotFound
	}
	questions := r.questions[quizID]
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out, nil
}

// SaveQuestions replaces the quiz's question list. Questions and
// alternatives without an ID are assigned one, so identity persists across
// later edits.
func (r *QuizRepository) SaveQuestions(_ context.Context, quizID string, questions []domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.quizzes[quizID]; !ok {
		return domain.ErrQuizNotFound
	}

	stored := make([]domain.Question, len(questions))
	copy(stored, questions)
	for i := range stored {
		if stored[i].ID == "" {
			r.seq++
			stored[i].ID = fmt.Sprintf("q-%d", r.seq)
		}
		alts := make([]domain.Alternative, len(questions[i].Alternatives))
		copy(alts, questions[i].Alternatives)
		for j := range alts {
			if alts[j].ID == "" {
				r.seq++
				alts[j].ID = fmt.Sprintf("a-%d", r.seq)
			}
		}
		stored[i].Alternatives = alts
	}
	r.questions[quizID] = stored
	return nil
}
