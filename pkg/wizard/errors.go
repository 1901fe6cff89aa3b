package wizard

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/validation"
)

var (
	// ErrValidation is matched by every *StepError.
	ErrValidation = errors.New("wizard: step validation failed")
	// ErrSubmitted is returned by mutating calls once the form is submitted.
	ErrSubmitted = errors.New("wizard: form already submitted")
	// ErrSubmissionInProgress guards against re-entrant submission.
	ErrSubmissionInProgress = errors.New("wizard: submission in progress")
	// ErrNotAtFinalStep is returned by Submit before the last step.
	ErrNotAtFinalStep = errors.New("wizard: not at the final step")
	// ErrNoSubmitter is returned when the wizard was built without a Submitter.
	ErrNoSubmitter = errors.New("wizard: no submitter configured")
	// ErrNotEditable is returned by BeginEdit on forms without review-time editing.
	ErrNotEditable = errors.New("wizard: form does not support editing")
	// ErrNotAtReview is returned by BeginEdit away from the review step.
	ErrNotAtReview = errors.New("wizard: edit must start from the review step")
	// ErrInvalidStep reports a step index outside the editable range.
	ErrInvalidStep = errors.New("wizard: invalid step")
)

// StepError carries the failed validation result of a step.
type StepError struct {
	Step   int
	Result validation.Result
}

func (e *StepError) Error() string {
	return fmt.Sprintf("wizard: step %d: %s", e.Step, e.Result.Reason)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *StepError) Unwrap() error { return ErrValidation }
