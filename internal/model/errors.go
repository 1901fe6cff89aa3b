package model

import "errors"

var (
	// ErrInvalidDefinition wraps every error returned by Builder.Build.
	ErrInvalidDefinition = errors.New("model builder: invalid definition")

	errIDMissing     = errors.New("form id is required")
	errPrefixMissing = errors.New("reference prefix is required")
	errNoSteps       = errors.New("at least one step is required")
)
