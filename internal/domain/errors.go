package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizUnavailable is returned when a play session cannot start because
	// the quiz has no questions or its questions could not be retrieved.
	ErrQuizUnavailable = errors.New("quiz unavailable")
	// ErrQuestionNotFound indicates a submitted question ID is unknown.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAlternativeNotFound indicates a submitted alternative ID is unknown.
	ErrAlternativeNotFound = errors.New("alternative not found")
	// ErrSessionNotFound is returned when a play session has not been started.
	ErrSessionNotFound = errors.New("play session not found")
	// ErrForbidden is returned when the caller's role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted for role")
)
