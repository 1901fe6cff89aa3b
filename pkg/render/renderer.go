package render

import (
	"errors"
	"io"
	"time"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const (
	ReviewTemplate          = "review"
	AcknowledgementTemplate = "acknowledgement"
)

// ErrNotSubmitted is returned when an acknowledgement is requested before a
// submission succeeded.
var ErrNotSubmitted = errors.New("render: form has not been submitted")

// Renderer renders wizard pages with the bundled templates, or with
// overrides from WithBaseDir.
type Renderer struct {
	engine   *Engine
	location *time.Location
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLocation sets the zone submission times are printed in.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithEngine replaces the default engine.
func WithEngine(engine *Engine) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// New returns a Renderer over the embedded templates.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{location: time.Local}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine == nil {
		engine, err := NewEngine(WithFS(Templates()))
		if err != nil {
			return nil, err
		}
		r.engine = engine
	}
	return r, nil
}

// Review renders the review page for snap.
func (r *Renderer) Review(def model.Definition, snap wizard.Snapshot, out ...io.Writer) (string, error) {
	return r.engine.RenderTemplate(ReviewTemplate, Summarize(def, snap), out...)
}

// Acknowledgement renders the receipt shown after a successful submission.
func (r *Renderer) Acknowledgement(def model.Definition, rec *submission.Record, out ...io.Writer) (string, error) {
	if rec == nil {
		return "", ErrNotSubmitted
	}
	data := map[string]any{
		"title":       def.Title,
		"formId":      def.ID,
		"referenceId": rec.ReferenceID,
		"submittedAt": rec.SubmittedAt.In(r.location).Format("02/01/2006 15:04"),
		"attempts":    rec.Attempts,
	}
	return r.engine.RenderTemplate(AcknowledgementTemplate, data, out...)
}
