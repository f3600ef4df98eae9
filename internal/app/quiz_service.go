package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"classquiz-service/internal/authoring"
	"classquiz-service/internal/domain"
	"classquiz-service/internal/identity"
	"classquiz-service/internal/notify"
	"classquiz-service/internal/play"
)

// QuizRepository is the persistence collaborator: it owns quiz and question
// storage (in-memory, Postgres, etc).
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
	ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error)
	DeleteQuiz(ctx context.Context, quizID string) error
	GetQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
	SaveQuestions(ctx context.Context, quizID string, questions []domain.Question) error
}

// Grader is the grading collaborator. It is authoritative on correctness
// and score changes.
type Grader interface {
	SubmitAnswers(ctx context.Context, quizID string, answers []domain.Answer) (domain.SubmitQuizResult, error)
}

// SessionRepository stores active play sessions, one per student per quiz.
type SessionRepository interface {
	Put(session *play.Session)
	Get(quizID, userID string) (*play.Session, bool)
	Delete(quizID, userID string)
}

// ErrQuizIncomplete refuses a save while any question fails validation.
var ErrQuizIncomplete = errors.New("quiz has incomplete questions")

// QuizService contains the quiz use cases: authoring on the teacher side,
// play and submission on the student side.
type QuizService struct {
	quizzes       QuizRepository
	grader        Grader
	sessions      SessionRepository
	notifier      *notify.Notifier
	feedbackDelay time.Duration
}

func NewQuizService(quizzes QuizRepository, grader Grader, sessions SessionRepository, notifier *notify.Notifier) *QuizService {
	return &QuizService{
		quizzes:       quizzes,
		grader:        grader,
		sessions:      sessions,
		notifier:      notifier,
		feedbackDelay: play.FeedbackDuration,
	}
}

// SetFeedbackDelay overrides how long feedback is shown before a session
// auto-advances. Zero or negative values are ignored.
func (s *QuizService) SetFeedbackDelay(d time.Duration) {
	if d > 0 {
		s.feedbackDelay = d
	}
}

// Notifier exposes the service's event stream for presentation layers.
func (s *QuizService) Notifier() *notify.Notifier { return s.notifier }

// CreateQuiz persists a new quiz owned by the caller. Only teachers create
// quizzes.
func (s *QuizService) CreateQuiz(ctx context.Context, caller identity.Session, quiz domain.Quiz) (domain.Quiz, error) {
	if !caller.CanAuthor() {
		return domain.Quiz{}, domain.ErrForbidden
	}
	if strings.TrimSpace(quiz.Title) == "" {
		return domain.Quiz{}, errors.New("quiz title is required")
	}
	quiz.CreatedBy = caller.UserID

	created, err := s.quizzes.CreateQuiz(ctx, quiz)
	if err != nil {
		s.notifier.Error("could not create quiz")
		return domain.Quiz{}, err
	}
	s.notifier.Success("quiz created")
	return created, nil
}

// ListQuizzes returns quizzes matching the filter.
func (s *QuizService) ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	return s.quizzes.ListQuizzes(ctx, filter)
}

// DeleteQuiz removes a quiz. Only teachers delete quizzes.
func (s *QuizService) DeleteQuiz(ctx context.Context, caller identity.Session, quizID string) error {
	if !caller.CanAuthor() {
		return domain.ErrForbidden
	}
	if err := s.quizzes.DeleteQuiz(ctx, quizID); err != nil {
		s.notifier.Error("could not delete quiz")
		return err
	}
	s.notifier.Success("quiz deleted")
	return nil
}

// OpenEditor loads a quiz's questions into an authoring editor. A quiz with
// no saved questions yet (empty list or not found) opens as an empty
// editable sequence, padded to the minimum.
func (s *QuizService) OpenEditor(ctx context.Context, caller identity.Session, quizID string, mode authoring.Mode) (*authoring.Editor, error) {
	if mode == authoring.ModeEditable && !caller.CanAuthor() {
		return nil, domain.ErrForbidden
	}

	questions, err := s.quizzes.GetQuestions(ctx, quizID)
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) || errors.Is(err, domain.ErrQuestionNotFound) {
			questions = nil
		} else {
			s.notifier.Error("could not load questions")
			return nil, err
		}
	}
	return authoring.NewEditor(questions, mode), nil
}

// SaveQuestions validates the editor's sequence and persists it. Validation
// failure refuses the whole save; there is no partial save.
func (s *QuizService) SaveQuestions(ctx context.Context, caller identity.Session, quizID string, editor *authoring.Editor) error {
	if !caller.CanAuthor() {
		return domain.ErrForbidden
	}
	if issues := editor.Validate(); len(issues) > 0 {
		s.notifier.Error("fill in every question and alternative before saving")
		return fmt.Errorf("%w: %d issue(s)", ErrQuizIncomplete, len(issues))
	}
	if err := s.quizzes.SaveQuestions(ctx, quizID, editor.Payload()); err != nil {
		s.notifier.Error("could not save questions")
		return err
	}
	s.notifier.Success("questions saved")
	return nil
}

// StartSession begins a play session for the caller over the quiz's
// questions. A load failure or an empty question list aborts the start; no
// partial play.
func (s *QuizService) StartSession(ctx context.Context, caller identity.Session, quizID string) (*play.Session, error) {
	questions, err := s.quizzes.GetQuestions(ctx, quizID)
	if err != nil || len(questions) == 0 {
		s.notifier.Error("quiz unavailable")
		return nil, domain.ErrQuizUnavailable
	}

	session, err := play.BeginWithDelay(quizID, caller.UserID, questions, s.feedbackDelay)
	if err != nil {
		s.notifier.Error("quiz unavailable")
		return nil, err
	}

	// A reconnect replaces the student's previous session; close it so its
	// pending feedback timer cannot fire.
	if old, ok := s.sessions.Get(quizID, caller.UserID); ok {
		old.Close()
	}
	s.sessions.Put(session)
	return session, nil
}

// Session returns the caller's active session for a quiz.
func (s *QuizService) Session(quizID, userID string) (*play.Session, error) {
	session, ok := s.sessions.Get(quizID, userID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// SubmitSession sends the session's accumulated answers to the grader and
// completes the session with the consolidated outcome. If the grading call
// itself fails the session stays in Submitting and the caller may retry.
func (s *QuizService) SubmitSession(ctx context.Context, session *play.Session) (play.Outcome, error) {
	answers := session.Answers()
	result, err := s.grader.SubmitAnswers(ctx, session.QuizID(), answers)
	if err != nil {
		s.notifier.Error("could not submit answers")
		return play.Outcome{}, err
	}

	outcome := play.Aggregate(answers, result)
	if result.ErrorCount > 0 {
		s.notifier.Warning(fmt.Sprintf("%d answer(s) failed during submission", result.ErrorCount))
		for _, msg := range outcome.ErrorMessages() {
			s.notifier.Error(msg)
		}
	}
	if result.SuccessCount > 0 {
		s.notifier.Success(fmt.Sprintf("%d answer(s) processed", result.SuccessCount))
	}

	if err := session.Complete(result); err != nil {
		return play.Outcome{}, err
	}
	s.detach(session)
	return outcome, nil
}

// EndSession tears a session down, cancelling any pending feedback timer.
// Only the given instance is removed from the store, so ending a stale
// session after a reconnect leaves the replacement untouched.
func (s *QuizService) EndSession(session *play.Session) {
	session.Close()
	s.detach(session)
}

// detach removes the session from the store only while it is still the
// registered instance for its student and quiz.
func (s *QuizService) detach(session *play.Session) {
	current, ok := s.sessions.Get(session.QuizID(), session.UserID())
	if ok && current == session {
		s.sessions.Delete(session.QuizID(), session.UserID())
	}
}
