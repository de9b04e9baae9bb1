package domain

import "errors"

// Sentinel errors form the error taxonomy of the core. Services resolve all
// authorization and validation failures locally and return these typed
// results; the HTTP layer maps them to status codes in one place.
var (
	// Not found: the record genuinely does not exist. Out-of-scope existing
	// records return ErrForbidden instead, so existence never leaks through
	// the status code.
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrResponseNotFound   = errors.New("response not found")
	ErrProjectNotFound    = errors.New("product/project not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAttachmentNotFound = errors.New("no attachment found")

	// ErrForbidden: the principal lacks scope or role for the action on an
	// existing record.
	ErrForbidden = errors.New("access forbidden")

	// ErrValidation: malformed or out-of-range field. Wrapped with a field
	// message, e.g. fmt.Errorf("%w: invalid status value", ErrValidation).
	ErrValidation = errors.New("validation failed")

	// Conflicts.
	ErrResponseExists = errors.New("a response for this ticket already exists")
	ErrEmailTaken     = errors.New("email already in use")

	// ErrNoChange: an update was requested but no recognized field changed.
	// Reported distinctly from a successful update.
	ErrNoChange = errors.New("no changes made")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked")
)
