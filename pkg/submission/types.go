package submission

import (
	"context"
	"time"

	"github.com/goliatone/go-formwizard/pkg/documents"
)

// Request is the payload handed to a Backend.
type Request struct {
	FormID         string                            `json:"formId"`
	Prefix         string                            `json:"prefix"`
	IdempotencyKey string                            `json:"idempotencyKey"`
	Payload        map[string]any                    `json:"payload"`
	Files          map[string][]documents.Descriptor `json:"files,omitempty"`
}

// Receipt is what a Backend returns on success.
type Receipt struct {
	ReferenceID string `json:"referenceId"`
}

// Record is created once per successful submission and never mutated.
type Record struct {
	ReferenceID    string    `json:"referenceId"`
	FormID         string    `json:"formId"`
	IdempotencyKey string    `json:"idempotencyKey"`
	SubmittedAt    time.Time `json:"submittedAt"`
	Attempts       int       `json:"attempts"`
}

// Backend accepts a form submission.
type Backend interface {
	Submit(ctx context.Context, req Request) (Receipt, error)
}

// BackendFunc adapts a function into a Backend.
type BackendFunc func(ctx context.Context, req Request) (Receipt, error)

// Submit delegates to the underlying function.
func (fn BackendFunc) Submit(ctx context.Context, req Request) (Receipt, error) {
	return fn(ctx, req)
}

// AuthStatusProvider reports whether the current user may submit. It is
// queried synchronously before the backend is called.
type AuthStatusProvider interface {
	Authenticated(ctx context.Context) bool
}

// AuthFunc adapts a function into an AuthStatusProvider.
type AuthFunc func(ctx context.Context) bool

// Authenticated delegates to the underlying function.
func (fn AuthFunc) Authenticated(ctx context.Context) bool { return fn(ctx) }

// AllowAll treats every caller as authenticated. Hosts without a sign-in
// concept use it.
func AllowAll() AuthStatusProvider {
	return AuthFunc(func(context.Context) bool { return true })
}

// PayloadValidator checks a payload before it is sent.
type PayloadValidator func(formID string, payload map[string]any) error
