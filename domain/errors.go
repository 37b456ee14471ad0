package domain

import "errors"

// Error taxonomy shared by services and the HTTP layer. Services wrap these with
// fmt.Errorf("%w: ...") and handlers map them with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("already exists")
	ErrUnauthenticated = errors.New("invalid credentials")
	ErrForbidden       = errors.New("permission denied")
	ErrNotFound        = errors.New("not found")
)

// ErrQueueEmpty is returned by a mail queue when no job arrived within the wait.
var ErrQueueEmpty = errors.New("queue empty")
