package service

import "errors"

var (
	// ErrUnauthenticated means no API key accompanied the request.
	ErrUnauthenticated = errors.New("no api token")
	// ErrInvalidCredential means the key matches no active user.
	ErrInvalidCredential = errors.New("invalid api token or not active")
	// ErrForbidden means the caller is authenticated but may not perform the action.
	ErrForbidden = errors.New("not allowed")
	// ErrNotFound means the query succeeded but matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput means a path parameter or body could not be interpreted.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConstraintViolation means the store refused a write on a uniqueness
	// or required-field constraint.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrInternal wraps unexpected store failures.
	ErrInternal = errors.New("internal error")
)

// reasonError attaches a user-facing reason to one of the sentinels above.
type reasonError struct {
	kind   error
	reason string
}

func (e *reasonError) Error() string { return e.kind.Error() + ": " + e.reason }

func (e *reasonError) Unwrap() error { return e.kind }

func withReason(kind error, reason string) error {
	return &reasonError{kind: kind, reason: reason}
}

// Reason returns the user-facing reason carried by err, if any.
func Reason(err error) string {
	var re *reasonError
	if errors.As(err, &re) {
		return re.reason
	}
	return ""
}

// InvalidInput reports a malformed parameter or body.
func InvalidInput(reason string) error {
	return withReason(ErrInvalidInput, reason)
}
