package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing row and a row that is not publicly
	// visible. The two cases are deliberately indistinguishable so that
	// unpublished listings do not leak their existence.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned by the authorization guard. It is never
	// retried automatically.
	ErrForbidden = errors.New("forbidden")

	// ErrAuth is the single failure mode of credential authentication;
	// unknown username and wrong password look the same to the caller.
	ErrAuth = errors.New("invalid username or password")
)

// ValidationError marks malformed input: missing required fields, out-of-range
// numbers, an empty rejection reason. Always correctable client-side.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InvalidTransitionError reports a status-machine violation. Current carries
// the committed status at the time of the attempt so the caller can refresh
// its view.
type InvalidTransitionError struct {
	Current Status
	Event   Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("event %q not allowed from status %s", e.Event, e.Current)
}

func IsInvalidTransition(err error) bool {
	var te *InvalidTransitionError
	return errors.As(err, &te)
}
