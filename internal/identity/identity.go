// Package identity carries the caller's user id and role as an explicit,
// read-only value passed into any operation that needs it. There is no
// ambient session state.
package identity

// Role distinguishes quiz authors from quiz takers.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Session identifies the current caller.
type Session struct {
	UserID string
	Role   Role
}

// CanAuthor reports whether the caller may create, edit, and delete quizzes.
func (s Session) CanAuthor() bool {
	return s.Role == RoleTeacher
}
