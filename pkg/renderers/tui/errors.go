package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrExited is returned when the user goes back from the first step.
	ErrExited = errors.New("tui: wizard exited")
	// ErrNoChoices is returned for choice fields without options.
	ErrNoChoices = errors.New("tui: choice field has no options")
)
