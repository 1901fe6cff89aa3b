package wizard

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/requirements"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Submitter hands a completed form to the backend. *submission.Service
// satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req submission.Request) (submission.Record, error)
}

// Option customises a Wizard.
type Option func(*Wizard)

// WithSubmitter sets the collaborator invoked from the last step.
func WithSubmitter(s Submitter) Option {
	return func(w *Wizard) {
		w.submitter = s
	}
}

// WithObserver registers an event observer. Repeated calls add observers.
func WithObserver(o Observer) Option {
	return func(w *Wizard) {
		if o != nil {
			w.observers = append(w.observers, o)
		}
	}
}

// WithLogger attaches a logger; it is also passed to the engine and the
// validator.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Wizard) {
		w.logger = logger
	}
}

// WithRequirementOptions forwards options to the requirement engine, such
// as a fixed clock in tests.
func WithRequirementOptions(opts ...requirements.Option) Option {
	return func(w *Wizard) {
		w.engineOpts = append(w.engineOpts, opts...)
	}
}

// WithValidationOptions forwards options to the step validator.
func WithValidationOptions(opts ...validation.Option) Option {
	return func(w *Wizard) {
		w.validatorOpts = append(w.validatorOpts, opts...)
	}
}

// WithChecks registers the named domain checks the form's steps reference.
func WithChecks(registry *validation.Registry) Option {
	return WithValidationOptions(validation.WithRegistry(registry))
}

// WithChoiceResolver resolves choiceSource options for the field store.
func WithChoiceResolver(resolver fields.ChoiceResolver) Option {
	return func(w *Wizard) {
		w.fieldOpts = append(w.fieldOpts, fields.WithChoiceResolver(resolver))
	}
}

// WithID labels the wizard instance, e.g. with a session identifier.
func WithID(id string) Option {
	return func(w *Wizard) {
		w.id = id
	}
}

// WithKeyFunc overrides how idempotency keys are generated.
func WithKeyFunc(fn func() string) Option {
	return func(w *Wizard) {
		if fn != nil {
			w.keyFunc = fn
		}
	}
}
