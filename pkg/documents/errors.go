package documents

import "errors"

var (
	// ErrUnknownSlot is returned for identifiers the form did not declare.
	ErrUnknownSlot = errors.New("documents: unknown slot")
	// ErrFileTooLarge is returned when a descriptor's known size exceeds the
	// slot ceiling. The slot is left unchanged.
	ErrFileTooLarge = errors.New("documents: file too large")
	// ErrUnsupportedType is returned when the content type is not accepted by
	// the slot.
	ErrUnsupportedType = errors.New("documents: unsupported file type")
	// ErrIndexOutOfRange is returned by Detach for a bad multi-file index.
	ErrIndexOutOfRange = errors.New("documents: index out of range")
	// ErrPickerCancelled signals the user dismissed the picker. It is not a
	// failure and never changes state.
	ErrPickerCancelled = errors.New("documents: picker cancelled")
	// ErrPickerFailed wraps errors from the file-selection collaborator.
	// Hosts surface it as a retryable notice.
	ErrPickerFailed = errors.New("documents: picker failed")
)
