package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/forms"
	"github.com/goliatone/go-formwizard/pkg/openapi"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const maxBody = 1 << 20

type errorBody struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Target string `json:"target,omitempty"`
	Step   int    `json:"step,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusOf maps domain errors onto HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, wizard.ErrValidation),
		errors.Is(err, submission.ErrInvalidPayload),
		errors.Is(err, openapi.ErrInvalidPayload):
		return http.StatusUnprocessableEntity
	case errors.Is(err, submission.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, fields.ErrUnknownField),
		errors.Is(err, documents.ErrUnknownSlot),
		errors.Is(err, forms.ErrUnknownForm),
		errors.Is(err, openapi.ErrUnknownForm),
		errors.Is(err, errSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, fields.ErrKindMismatch),
		errors.Is(err, fields.ErrUnknownChoice),
		errors.Is(err, documents.ErrFileTooLarge),
		errors.Is(err, documents.ErrUnsupportedType),
		errors.Is(err, documents.ErrIndexOutOfRange),
		errors.Is(err, wizard.ErrInvalidStep):
		return http.StatusBadRequest
	case errors.Is(err, wizard.ErrSubmitted),
		errors.Is(err, wizard.ErrSubmissionInProgress),
		errors.Is(err, submission.ErrSubmissionInProgress),
		errors.Is(err, wizard.ErrNotAtFinalStep),
		errors.Is(err, wizard.ErrNotEditable),
		errors.Is(err, wizard.ErrNotAtReview),
		errors.Is(err, render.ErrNotSubmitted):
		return http.StatusConflict
	case errors.Is(err, submission.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, submission.ErrRejected),
		errors.Is(err, submission.ErrUnavailable),
		errors.Is(err, submission.ErrSubmissionFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// sanitizer strips markup from user supplied text.
type sanitizer struct {
	policy *bluemonday.Policy
}

func newSanitizer() sanitizer {
	return sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text removes every tag and returns plain text. The strict policy escapes
// entities, which are decoded again so "Ram & Sons" survives.
func (s sanitizer) Text(in string) string {
	return html.UnescapeString(s.policy.Sanitize(in))
}
