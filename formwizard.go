package formwizard

import (
	"io/fs"

	"github.com/goliatone/go-formwizard/components/regions"
	"github.com/goliatone/go-formwizard/pkg/forms"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Snapshot aliases wizard.Snapshot for callers that only import the root
// package.
type Snapshot = wizard.Snapshot

// Record aliases submission.Record.
type Record = submission.Record

// Forms returns the bundled form definitions sorted by id.
func Forms() ([]model.Definition, error) {
	set, err := forms.Catalog()
	if err != nil {
		return nil, err
	}
	return set.List(), nil
}

// Open starts a wizard for the bundled form id. The defaults are the
// bundled cross-field checks, the state and UT list for choiceSource
// fields, and a submission service over a MockBackend. opts are applied
// after the defaults so any of them can be replaced.
func Open(formID string, opts ...wizard.Option) (*wizard.Wizard, error) {
	set, err := forms.Catalog()
	if err != nil {
		return nil, err
	}
	def, err := set.Lookup(formID)
	if err != nil {
		return nil, err
	}
	defaults := []wizard.Option{
		wizard.WithChecks(forms.Checks()),
		wizard.WithChoiceResolver(regions.New().Resolver()),
		wizard.WithSubmitter(submission.New(submission.NewMockBackend())),
	}
	return wizard.New(def, append(defaults, opts...)...), nil
}

// DefinitionsFS exposes the bundled YAML definitions so hosts can copy or
// extend them.
func DefinitionsFS() fs.FS {
	return forms.EmbeddedFS()
}

// EmbeddedTemplates exposes the built-in review and acknowledgement
// templates.
func EmbeddedTemplates() fs.FS {
	return render.Templates()
}
