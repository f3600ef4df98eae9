// Package authoring keeps an editable quiz's question and alternative
// collections within structural bounds while they are being filled in.
package authoring

import (
	"errors"
	"strings"

	"classquiz-service/internal/domain"
)

// Mode controls how existing questions are loaded into an editor.
type Mode int

const (
	ModeEditable Mode = iota
	ModeReadOnly
)

var (
	// ErrQuestionLimit is returned when adding a question beyond the maximum.
	ErrQuestionLimit = errors.New("quiz already has the maximum number of questions")
	// ErrQuestionMinimum is returned when removing a question would drop the
	// quiz below the minimum.
	ErrQuestionMinimum = errors.New("quiz must keep the minimum number of questions")
	// ErrAlternativeLimit is returned when adding an alternative beyond the maximum.
	ErrAlternativeLimit = errors.New("question already has the maximum number of alternatives")
	// ErrAlternativeMinimum is returned when removing an alternative would drop
	// the question below the minimum.
	ErrAlternativeMinimum = errors.New("question must keep the minimum number of alternatives")
	// ErrIndexOutOfRange is returned for an index that does not address an
	// existing question or alternative.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrReadOnly rejects mutations on a read-only editor.
	ErrReadOnly = errors.New("editor is read-only")
)

// Editor holds the editable question sequence. All operations are
// synchronous single-caller mutations; boundary violations are refused with
// a sentinel error and leave the sequence unchanged.
type Editor struct {
	questions []domain.Question
	mode      Mode

	// noQuestions is set when a read-only editor loads an empty quiz.
	noQuestions bool
}

// NewEditor loads existing questions. In editable mode the input is truncated
// to the maximum, then padded with fresh empty questions up to the minimum.
// In read-only mode the input is shown as-is; an empty input only flags
// NoQuestions.
func NewEditor(existing []domain.Question, mode Mode) *Editor {
	e := &Editor{mode: mode}

	if len(existing) > domain.MaxQuestions {
		existing = existing[:domain.MaxQuestions]
	}
	e.questions = make([]domain.Question, len(existing))
	copy(e.questions, existing)
	for i := range e.questions {
		alts := make([]domain.Alternative, len(existing[i].Alternatives))
		copy(alts, existing[i].Alternatives)
		e.questions[i].Alternatives = alts
	}

	if mode == ModeReadOnly {
		e.noQuestions = len(e.questions) == 0
		return e
	}
	for len(e.questions) < domain.MinQuestions {
		e.questions = append(e.questions, newQuestion())
	}
	return e
}

func newQuestion() domain.Question {
	return domain.Question{
		Points:  domain.DefaultPoints,
		Penalty: 0,
		Alternatives: []domain.Alternative{
			{}, {}, {},
		},
	}
}

// NoQuestions reports whether a read-only editor loaded an empty quiz.
func (e *Editor) NoQuestions() bool { return e.noQuestions }

// Len returns the number of questions in the sequence.
func (e *Editor) Len() int { return len(e.questions) }

// Question returns a copy of the question at index, detached from the
// editor's own alternative storage.
func (e *Editor) Question(index int) (domain.Question, error) {
	if index < 0 || index >= len(e.questions) {
		return domain.Question{}, ErrIndexOutOfRange
	}
	q := e.questions[index]
	alts := make([]domain.Alternative, len(q.Alternatives))
	copy(alts, q.Alternatives)
	q.Alternatives = alts
	return q, nil
}

// SetStatement updates the statement of the question at index.
func (e *Editor) SetStatement(index int, statement string) error {
	if err := e.mutable(index); err != nil {
		return err
	}
	e.questions[index].Statement = statement
	return nil
}

// SetScoring updates points and penalty of the question at index.
func (e *Editor) SetScoring(index, points, penalty int) error {
	if err := e.mutable(index); err != nil {
		return err
	}
	e.questions[index].Points = points
	e.questions[index].Penalty = penalty
	return nil
}

// SetAlternativeText updates one alternative's text.
func (e *Editor) SetAlternativeText(questionIndex, altIndex int, text string) error {
	if err := e.mutableAlt(questionIndex, altIndex); err != nil {
		return err
	}
	e.questions[questionIndex].Alternatives[altIndex].Text = text
	return nil
}

// AddQuestion appends a fresh empty question unless the quiz is at capacity.
func (e *Editor) AddQuestion() error {
	if e.mode == ModeReadOnly {
		return ErrReadOnly
	}
	if len(e.questions) >= domain.MaxQuestions {
		return ErrQuestionLimit
	}
	e.questions = append(e.questions, newQuestion())
	return nil
}

// RemoveQuestion removes the question at index unless that would drop the
// quiz below the minimum.
func (e *Editor) RemoveQuestion(index int) error {
	if err := e.mutable(index); err != nil {
		return err
	}
	if len(e.questions) <= domain.MinQuestions {
		return ErrQuestionMinimum
	}
	e.questions = append(e.questions[:index], e.questions[index+1:]...)
	return nil
}

// AddAlternative appends an empty alternative to the question at index.
func (e *Editor) AddAlternative(questionIndex int) error {
	if err := e.mutable(questionIndex); err != nil {
		return err
	}
	if len(e.questions[questionIndex].Alternatives) >= domain.MaxAlternatives {
		return ErrAlternativeLimit
	}
	e.questions[questionIndex].Alternatives = append(e.questions[questionIndex].Alternatives, domain.Alternative{})
	return nil
}

// RemoveAlternative removes one alternative unless that would drop the
// question below the minimum.
func (e *Editor) RemoveAlternative(questionIndex, altIndex int) error {
	if err := e.mutableAlt(questionIndex, altIndex); err != nil {
		return err
	}
	alts := e.questions[questionIndex].Alternatives
	if len(alts) <= domain.MinAlternatives {
		return ErrAlternativeMinimum
	}
	e.questions[questionIndex].Alternatives = append(alts[:altIndex], alts[altIndex+1:]...)
	return nil
}

// SetCorrect toggles correctness with group-exclusive semantics: selecting an
// already-correct alternative clears correctness on the whole question,
// otherwise the target becomes the single correct alternative.
func (e *Editor) SetCorrect(questionIndex, altIndex int) error {
	if err := e.mutableAlt(questionIndex, altIndex); err != nil {
		return err
	}
	alts := e.questions[questionIndex].Alternatives
	wasCorrect := alts[altIndex].IsCorrect
	for i := range alts {
		alts[i].IsCorrect = !wasCorrect && i == altIndex
	}
	return nil
}

// Issue describes why one question is not savable. AltIndex is -1 when the
// problem is not tied to a single alternative.
type Issue struct {
	QuestionIndex int
	AltIndex      int
	Reason        string
}

// Validate reports every incomplete question. The quiz is savable only when
// the returned slice is empty.
func (e *Editor) Validate() []Issue {
	var issues []Issue
	for qi, q := range e.questions {
		if len(strings.TrimSpace(q.Statement)) < domain.MinStatementLen {
			issues = append(issues, Issue{QuestionIndex: qi, AltIndex: -1, Reason: "statement too short"})
		}
		if q.Points < 1 {
			issues = append(issues, Issue{QuestionIndex: qi, AltIndex: -1, Reason: "points must be at least 1"})
		}
		if q.Penalty < 0 {
			issues = append(issues, Issue{QuestionIndex: qi, AltIndex: -1, Reason: "penalty must not be negative"})
		}
		correct := 0
		for ai, alt := range q.Alternatives {
			if strings.TrimSpace(alt.Text) == "" {
				issues = append(issues, Issue{QuestionIndex: qi, AltIndex: ai, Reason: "alternative text is blank"})
			}
			if alt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			issues = append(issues, Issue{QuestionIndex: qi, AltIndex: -1, Reason: "exactly one alternative must be correct"})
		}
	}
	return issues
}

// Payload projects the sequence to the shape the persistence service
// consumes. The caller is expected to have validated first.
func (e *Editor) Payload() []domain.Question {
	out := make([]domain.Question, len(e.questions))
	copy(out, e.questions)
	for i := range out {
		alts := make([]domain.Alternative, len(e.questions[i].Alternatives))
		copy(alts, e.questions[i].Alternatives)
		out[i].Alternatives = alts
	}
	return out
}

func (e *Editor) mutable(index int) error {
	if e.mode == ModeReadOnly {
		return ErrReadOnly
	}
	if index < 0 || index >= len(e.questions) {
		return ErrIndexOutOfRange
	}
	return nil
}

func (e *Editor) mutableAlt(questionIndex, altIndex int) error {
	if err := e.mutable(questionIndex); err != nil {
		return err
	}
	if altIndex < 0 || altIndex >= len(e.questions[questionIndex].Alternatives) {
		return ErrIndexOutOfRange
	}
	return nil
}
