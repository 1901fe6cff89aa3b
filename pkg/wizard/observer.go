package wizard

import (
	"time"

	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Observer receives wizard events. Calls happen after the wizard lock is
// released, so observers may read the wizard but should return quickly.
type Observer interface {
	StepAdvanced(form string, from, to int)
	StepFailed(form string, step int, res validation.Result)
	StepRetreated(form string, from, to int, exit bool)
	SubmissionStarted(form string)
	SubmissionFinished(form string, rec submission.Record, err error, elapsed time.Duration)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) StepAdvanced(string, int, int) {}
func (NopObserver) StepFailed(string, int, validation.Result) {}
func (NopObserver) StepRetreated(string, int, int, bool) {}
func (NopObserver) SubmissionStarted(string) {}
func (NopObserver) SubmissionFinished(string, submission.Record, error, time.Duration) {}

// Observers fans events out to several observers in order.
type Observers []Observer

func (o Observers) StepAdvanced(form string, from, to int) {
	for _, obs := range o {
		obs.StepAdvanced(form, from, to)
	}
}

func (o Observers) StepFailed(form string, step int, res validation.Result) {
	for _, obs := range o {
		obs.StepFailed(form, step, res)
	}
}

func (o Observers) StepRetreated(form string, from, to int, exit bool) {
	for _, obs := range o {
		obs.StepRetreated(form, from, to, exit)
	}
}

func (o Observers) SubmissionStarted(form string) {
	for _, obs := range o {
		obs.SubmissionStarted(form)
	}
}

func (o Observers) SubmissionFinished(form string, rec submission.Record, err error, elapsed time.Duration) {
	for _, obs := range o {
		obs.SubmissionFinished(form, rec, err, elapsed)
	}
}
