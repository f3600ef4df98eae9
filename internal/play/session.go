// Package play drives one student's pass through a quiz: questions are
// visited in load order exactly once each, every answer gets immediate
// feedback, and the accumulated answers are handed off for grading at the
// end.
package play

import (
	"errors"
	"sync"
	"time"

	"classquiz-service/internal/domain"
)

// FeedbackDuration is how long correctness feedback is shown before the
// session auto-advances to the next question.
const FeedbackDuration = 1500 * time.Millisecond

// State is the session's position in its lifecycle.
type State int

const (
	StateInProgress State = iota
	StateFeedback
	StateSubmitting
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateFeedback:
		return "feedback"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

var (
	// ErrNoCurrentQuestion rejects a selection when the session is not on a question.
	ErrNoCurrentQuestion = errors.New("no current question")
	// ErrFeedbackPending rejects a selection while the previous one's
	// feedback timer has not fired yet.
	ErrFeedbackPending = errors.New("feedback still pending")
	// ErrNotSubmitting rejects completion outside the Submitting state.
	ErrNotSubmitting = errors.New("session is not submitting")
	// ErrSessionClosed rejects any transition after teardown.
	ErrSessionClosed = errors.New("session closed")
)

// EventKind tags a session event.
type EventKind string

const (
	// EventQuestion announces the current question.
	EventQuestion EventKind = "question"
	// EventFeedback carries the correctness of the last answer.
	EventFeedback EventKind = "feedback"
	// EventSubmitting signals that all questions were visited and the
	// accumulated answers are ready for grading.
	EventSubmitting EventKind = "submitting"
	// EventCompleted carries the final grading result.
	EventCompleted EventKind = "completed"
)

// Event is one observable session transition.
type Event struct {
	Kind     EventKind
	Index    int
	Question domain.Question
	Correct  bool
	Answers  []domain.Answer
	Result   domain.SubmitQuizResult
}

// Session is the state machine for one student and one quiz. All methods are
// safe for the single caller plus the internal feedback timer.
type Session struct {
	quizID string
	userID string

	mu        sync.Mutex
	state     State
	questions []domain.Question
	index     int
	answers   map[string]domain.Answer
	timer     *time.Timer
	delay     time.Duration
	closed    bool
	result    domain.SubmitQuizResult

	events chan Event
}

// Begin starts a session over the loaded questions. An empty question list
// means the quiz is unavailable and no session is created.
func Begin(quizID, userID string, questions []domain.Question) (*Session, error) {
	return BeginWithDelay(quizID, userID, questions, FeedbackDuration)
}

// BeginWithDelay starts a session with a custom feedback window. Tests use
// short delays for deterministic timing.
func BeginWithDelay(quizID, userID string, questions []domain.Question, delay time.Duration) (*Session, error) {
	if len(questions) == 0 {
		return nil, domain.ErrQuizUnavailable
	}
	s := &Session{
		quizID:    quizID,
		userID:    userID,
		state:     StateInProgress,
		questions: questions,
		answers:   make(map[string]domain.Answer),
		delay:     delay,
		events:    make(chan Event, len(questions)*2+4),
	}
	s.events <- Event{Kind: EventQuestion, Index: 0, Question: questions[0]}
	return s, nil
}

// QuizID returns the quiz this session plays.
func (s *Session) QuizID() string { return s.quizID }

// UserID returns the student who owns this session.
func (s *Session) UserID() string { return s.userID }

// QuestionCount returns how many questions the session visits.
func (s *Session) QuestionCount() int { return len(s.questions) }

// Events returns the session's transition stream. The channel is closed when
// the session ends or is torn down.
func (s *Session) Events() <-chan Event { return s.events }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentQuestion returns the question the student is on.
func (s *Session) CurrentQuestion() (domain.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress || s.index >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.index], true
}

// SelectAnswer records the student's choice for the current question,
// reports immediate correctness, and schedules the auto-advance. A second
// selection while feedback is pending is rejected rather than scheduling a
// competing timer.
func (s *Session) SelectAnswer(alternativeID, alternativeText string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSessionClosed
	}
	if s.state == StateFeedback {
		return false, ErrFeedbackPending
	}
	if s.state != StateInProgress || s.index >= len(s.questions) {
		return false, ErrNoCurrentQuestion
	}

	question := s.questions[s.index]
	s.answers[question.ID] = domain.Answer{
		QuestionID:      question.ID,
		AlternativeID:   alternativeID,
		AlternativeText: alternativeText,
	}

	// Correctness is judged by alternative ID against the loaded question.
	correct := false
	for _, alt := range question.Alternatives {
		if alt.ID == alternativeID && alt.IsCorrect {
			correct = true
			break
		}
	}

	s.state = StateFeedback
	s.events <- Event{Kind: EventFeedback, Index: s.index, Correct: correct}
	s.timer = time.AfterFunc(s.delay, s.advance)
	return correct, nil
}

// advance is the single scheduled transition out of Feedback.
func (s *Session) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state != StateFeedback {
		return
	}
	s.timer = nil

	if s.index < len(s.questions)-1 {
		s.index++
		s.state = StateInProgress
		s.events <- Event{Kind: EventQuestion, Index: s.index, Question: s.questions[s.index]}
		return
	}
	s.state = StateSubmitting
	s.events <- Event{Kind: EventSubmitting, Answers: s.answersLocked()}
}

// Answers returns the recorded answers in question order. Questions the
// student never answered are omitted.
func (s *Session) Answers() []domain.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answersLocked()
}

func (s *Session) answersLocked() []domain.Answer {
	out := make([]domain.Answer, 0, len(s.answers))
	for _, q := range s.questions {
		if a, ok := s.answers[q.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Complete records the grading result and moves the session to its terminal
// state. It is only legal while Submitting, so a failed submission leaves
// the session retryable.
func (s *Session) Complete(result domain.SubmitQuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state != StateSubmitting {
		return ErrNotSubmitting
	}
	s.state = StateCompleted
	s.result = result
	s.events <- Event{Kind: EventCompleted, Result: result}
	close(s.events)
	s.closed = true
	return nil
}

// Result returns the final grading result once the session is completed.
func (s *Session) Result() (domain.SubmitQuizResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.state == StateCompleted
}

// Close tears the session down: the pending feedback timer is cancelled and
// no transition fires afterwards. Closing a session that is not completed
// aborts it.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = StateAborted
	s.closed = true
	close(s.events)
}
