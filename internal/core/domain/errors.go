package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates a collaborator was not configured.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown enricher or handler type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Attachment Errors.

	// ErrNoHandler indicates no registered handler accepts the MIME type.
	// Callers should present it as "no preview available".
	ErrNoHandler = errors.New("no handler for mime type")

	// ErrMissingMIMEType indicates an attachment declared no MIME type,
	// so it cannot be dispatched.
	ErrMissingMIMEType = errors.New("attachment has no mime type")

	// ErrNoFrame indicates a video container holds no extractable frame.
	ErrNoFrame = errors.New("no video frame available")
)
