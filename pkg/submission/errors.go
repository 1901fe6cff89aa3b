package submission

import "errors"

var (
	// ErrNotAuthenticated is returned when the auth status provider reports
	// no signed-in user. The backend is not called.
	ErrNotAuthenticated = errors.New("submission: not authenticated")
	// ErrSubmissionInProgress is returned to re-entrant submits while one is
	// outstanding for the same idempotency key.
	ErrSubmissionInProgress = errors.New("submission: already in progress")
	// ErrSubmissionFailed wraps every backend failure that survives retries.
	ErrSubmissionFailed = errors.New("submission: failed")
	// ErrTimeout is joined with ErrSubmissionFailed when the call deadline
	// expires.
	ErrTimeout = errors.New("submission: timed out")
	// ErrRejected marks a backend refusal that must not be retried.
	ErrRejected = errors.New("submission: rejected by backend")
	// ErrUnavailable marks a transient backend failure.
	ErrUnavailable = errors.New("submission: backend unavailable")
	// ErrInvalidPayload is returned when the payload does not match the form
	// schema.
	ErrInvalidPayload = errors.New("submission: invalid payload")
)
