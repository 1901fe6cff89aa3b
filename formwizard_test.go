package formwizard

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/goliatone/go-formwizard/pkg/forms"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func TestOpenBundledForm(t *testing.T) {
	t.Parallel()

	w, err := Open(forms.Aadhaar, wizard.WithID("root-test"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if w.Step() != 1 || w.ID() != "root-test" {
		t.Fatalf("unexpected wizard state: step %d id %q", w.Step(), w.ID())
	}
	if got := w.Definition().Prefix; got != "AADH" {
		t.Fatalf("prefix = %q", got)
	}
}

func TestOpenUnknownForm(t *testing.T) {
	t.Parallel()

	if _, err := Open("passport"); !errors.Is(err, forms.ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
}

func TestForms(t *testing.T) {
	t.Parallel()

	defs, err := Forms()
	if err != nil {
		t.Fatalf("Forms: %v", err)
	}
	if len(defs) != 11 {
		t.Fatalf("expected 11 bundled forms, got %d", len(defs))
	}
}

func TestEmbeddedFilesReadable(t *testing.T) {
	t.Parallel()

	if _, err := fs.ReadFile(EmbeddedTemplates(), "acknowledgement.tpl"); err != nil {
		t.Fatalf("expected acknowledgement template: %v", err)
	}
	if _, err := fs.ReadFile(DefinitionsFS(), "aadhaar.yaml"); err != nil {
		t.Fatalf("expected aadhaar definition: %v", err)
	}
}
