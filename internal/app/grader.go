package app

import (
	"context"
	"fmt"

	"classquiz-service/internal/domain"
)

// LocalGrader grades submissions against the questions held by the quiz
// repository. Each answer is graded independently; a bad item becomes a
// per-item error and never blocks the rest of the batch.
type LocalGrader struct {
	quizzes QuizRepository
}

func NewLocalGrader(quizzes QuizRepository) *LocalGrader {
	return &LocalGrader{quizzes: quizzes}
}

// SubmitAnswers grades one batch. A correct answer scores +points, a wrong
// one -penalty. successCount+errorCount always equals len(answers).
func (g *LocalGrader) SubmitAnswers(ctx context.Context, quizID string, answers []domain.Answer) (domain.SubmitQuizResult, error) {
	questions, err := g.quizzes.GetQuestions(ctx, quizID)
	if err != nil {
		return domain.SubmitQuizResult{}, fmt.Errorf("load questions for grading: %w", err)
	}

	byID := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	result := domain.SubmitQuizResult{
		Answers: make([]domain.AnswerResult, 0, len(answers)),
	}
	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			result.Errors = append(result.Errors, domain.AnswerError{
				QuestionID:    answer.QuestionID,
				AlternativeID: answer.AlternativeID,
				Error:         "question does not belong to this quiz",
				Status:        "not_found",
			})
			continue
		}

		var selected *domain.Alternative
		for i := range question.Alternatives {
			if question.Alternatives[i].ID == answer.AlternativeID {
				selected = &question.Alternatives[i]
				break
			}
		}
		if selected == nil {
			result.Errors = append(result.Errors, domain.AnswerError{
				QuestionID:    answer.QuestionID,
				AlternativeID: answer.AlternativeID,
				Error:         "alternative does not belong to this question",
				Status:        "invalid",
			})
			continue
		}

		scoreChange := -question.Penalty
		if selected.IsCorrect {
			scoreChange = question.Points
		}
		result.Answers = append(result.Answers, domain.AnswerResult{
			QuestionID:      answer.QuestionID,
			AlternativeID:   answer.AlternativeID,
			AlternativeText: answer.AlternativeText,
			Correct:         selected.IsCorrect,
			ScoreChange:     scoreChange,
		})
		result.TotalScoreChange += scoreChange
	}

	result.SuccessCount = len(result.Answers)
	result.ErrorCount = len(result.Errors)
	return result, nil
}
