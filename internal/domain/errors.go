package domain

import "errors"

// Error kinds shared by every layer. Lower layers wrap them with context,
// the HTTP layer maps them to status codes with errors.Is.
var (
	// ErrValidation marks malformed input: non-positive price, unknown action, missing ids.
	ErrValidation = errors.New("validation error")

	// ErrTerminalState marks a transition attempted from DECLINED, WITHDRAWN,
	// or from ACCEPTED with anything but a trainer withdrawal.
	ErrTerminalState = errors.New("request is in a terminal state")

	// ErrInvalidState marks an action that is not allowed in the current non-terminal state.
	ErrInvalidState = errors.New("action not allowed in current state")

	// ErrConflict marks a lost race: the slot was taken or the row version moved on.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks an unknown request, training, trainer, topic or company.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied marks a caller acting on a request or training they do not own.
	ErrAccessDenied = errors.New("access denied")
)
