package domain

import "time"

// Authoring bounds. A quiz is saved with 3 to 5 questions, each carrying
// 2 to 5 alternatives with exactly one marked correct.
const (
	MinQuestions    = 3
	MaxQuestions    = 5
	MinAlternatives = 2
	MaxAlternatives = 5
	MinStatementLen = 5
	DefaultPoints   = 10
)

// Alternative is one selectable option for a question.
type Alternative struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a gradable prompt with a bounded set of alternatives.
// Points are awarded on a correct answer, Penalty deducted on a wrong one.
type Question struct {
	ID           string        `json:"id,omitempty"`
	Statement    string        `json:"statement"`
	Points       int           `json:"points"`
	Penalty      int           `json:"penalty"`
	Alternatives []Alternative `json:"alternatives"`
}

// CorrectAlternative returns the alternative flagged correct, if any.
func (q Question) CorrectAlternative() (Alternative, bool) {
	for _, alt := range q.Alternatives {
		if alt.IsCorrect {
			return alt, true
		}
	}
	return Alternative{}, false
}

// Quiz is a named, owned collection of questions.
type Quiz struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	ClassName string    `json:"className"`
	Theme     string    `json:"theme"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// QuizFilter narrows a quiz listing. Zero-value fields match everything.
type QuizFilter struct {
	CreatedBy string
	Title     string
	Theme     string
}

// Answer is a student's recorded choice for one question.
type Answer struct {
	QuestionID      string `json:"questionId"`
	AlternativeID   string `json:"alternativeId"`
	AlternativeText string `json:"alternativeText"`
}

// AnswerResult is the graded outcome for one submitted answer.
type AnswerResult struct {
	QuestionID      string `json:"questionId"`
	AlternativeID   string `json:"alternativeId"`
	AlternativeText string `json:"alternativeText"`
	Correct         bool   `json:"correct"`
	ScoreChange     int    `json:"scoreChange"`
}

// AnswerError reports a per-item grading failure, independent of other items.
type AnswerError struct {
	QuestionID    string `json:"questionId"`
	AlternativeID string `json:"alternativeId"`
	Error         string `json:"error"`
	Status        string `json:"status"`
}

// SubmitQuizResult aggregates a graded submission. SuccessCount+ErrorCount
// equals the number of submitted answers; Answers holds exactly the
// successful items, Errors exactly the failed ones.
type SubmitQuizResult struct {
	TotalScoreChange int            `json:"totalScoreChange"`
	SuccessCount     int            `json:"successCount"`
	ErrorCount       int            `json:"errorCount"`
	Answers          []AnswerResult `json:"answers"`
	Errors           []AnswerError  `json:"errors,omitempty"`
}
