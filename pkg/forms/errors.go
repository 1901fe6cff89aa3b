package forms

import "errors"

var (
	// ErrDuplicateForm is returned when two documents declare the same id.
	ErrDuplicateForm = errors.New("forms: duplicate form id")
	// ErrUnknownForm is returned when a form id is not in the set.
	ErrUnknownForm = errors.New("forms: unknown form")
)
