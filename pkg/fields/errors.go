package fields

import "errors"

var (
	// ErrUnknownField is returned when an identifier was not declared by the
	// form definition.
	ErrUnknownField = errors.New("fields: unknown field")
	// ErrKindMismatch is returned when a value's kind differs from the
	// declared kind.
	ErrKindMismatch = errors.New("fields: value kind mismatch")
	// ErrUnknownChoice is returned when a choice is not one of the declared
	// options.
	ErrUnknownChoice = errors.New("fields: unknown choice")
)
