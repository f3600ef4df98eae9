package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"classquiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuizStore persists quizzes in Postgres. Quiz metadata lives in columns,
// the question list as JSONB.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

func (s *QuizStore) CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	if quiz.ID == "" {
		quiz.ID = newID()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO quizzes (id, title, class_name, theme, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		quiz.ID, quiz.Title, quiz.ClassName, quiz.Theme, quiz.CreatedBy,
	).Scan(&quiz.CreatedAt)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

func (s *QuizStore) ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	query := `SELECT id, title, class_name, theme, created_by, created_at FROM quizzes WHERE 1=1`
	args := []interface{}{}
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		query += fmt.Sprintf(" AND created_by=$%d", len(args))
	}
	if filter.Title != "" {
		args = append(args, filter.Title)
		query += fmt.Sprintf(" AND title=$%d", len(args))
	}
	if filter.Theme != "" {
		args = append(args, filter.Theme)
		query += fmt.Sprintf(" AND theme=$%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []domain.Quiz
	for rows.Next() {
		var quiz domain.Quiz
		if err := rows.Scan(&quiz.ID, &quiz.Title, &quiz.ClassName, &quiz.Theme, &quiz.CreatedBy, &quiz.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		out = append(out, quiz)
	}
	return out, rows.Err()
}

func (s *QuizStore) DeleteQuiz(ctx context.Context, quizID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE id=$1`, quizID)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *QuizStore) GetQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT questions FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return questions, nil
}

// SaveQuestions replaces the quiz's question list, assigning IDs to
// questions and alternatives that do not have one yet.
func (s *QuizStore) SaveQuestions(ctx context.Context, quizID string, questions []domain.Question) error {
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = newID()
		}
		for j := range questions[i].Alternatives {
			if questions[i].Alternatives[j].ID == "" {
				questions[i].Alternatives[j].ID = newID()
			}
		}
	}

	raw, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE quizzes SET questions=$2 WHERE id=$1`, quizID, raw)
	if err != nil {
		return fmt.Errorf("save questions: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func newID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
