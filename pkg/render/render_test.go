package render_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/forms"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func ewsWizard(t *testing.T) (*wizard.Wizard, model.Definition) {
	t.Helper()
	set, err := forms.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	def, err := set.Lookup(forms.EWS)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	w := wizard.New(def, wizard.WithChecks(forms.Checks()))
	for id, raw := range map[string]string{
		"fullName":          "Meena Devi",
		"fatherName":        "Ram Prasad",
		"totalAnnualIncome": "799999",
		"address.pincode":   "560001",
	} {
		if err := w.SetFieldRaw(id, raw); err != nil {
			t.Fatalf("SetFieldRaw(%s): %v", id, err)
		}
	}
	size := int64(100 * 1024)
	if err := w.Attach("incomeProof", documents.Descriptor{Name: "salary.pdf", SizeBytes: &size, Location: "file:///tmp/salary.pdf"}); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return w, def
}

func TestSummarizeSkipsHiddenAndEmpty(t *testing.T) {
	t.Parallel()

	w, def := ewsWizard(t)
	summary := render.Summarize(def, w.Snapshot())

	if len(summary.Sections) != 2 {
		t.Fatalf("expected details and documents sections, got %d", len(summary.Sections))
	}
	details := summary.Sections[0]
	var ids []string
	for _, e := range details.Entries {
		ids = append(ids, e.ID)
	}
	want := []string{
		"fullName", "fatherName", "address.pincode", "totalAnnualIncome",
		"ownsAgriculturalLand", "ownsResidentialFlat", "ownsResidentialPlot",
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	docs := summary.Sections[1].Documents
	if len(docs) != 1 || docs[0].ID != "incomeProof" || docs[0].Files[0].Size != "100.0 KB" {
		t.Fatalf("unexpected documents %+v", docs)
	}
}

func TestRendererReview(t *testing.T) {
	t.Parallel()

	w, def := ewsWizard(t)
	r, err := render.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var sink strings.Builder
	out, err := r.Review(def, w.Snapshot(), &sink)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if sink.String() != out {
		t.Fatalf("writer should receive the rendered output")
	}
	for _, want := range []string{
		"EWS Certificate",
		"1. Income & Assets",
		"Father's Name: Ram Prasad",
		"Total Annual Family Income (INR): ₹7,99,999",
		"Family owns a residential flat: No",
		"salary.pdf (100.0 KB)",
		"Any section can still be edited",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("review missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Flat Area") {
		t.Fatalf("hidden fields must not be rendered:\n%s", out)
	}
}

func TestRendererAcknowledgement(t *testing.T) {
	t.Parallel()

	_, def := ewsWizard(t)
	r, err := render.New(render.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := r.Acknowledgement(def, nil); !errors.Is(err, render.ErrNotSubmitted) {
		t.Fatalf("expected ErrNotSubmitted, got %v", err)
	}

	rec := &submission.Record{
		ReferenceID: "EWS8K2J9Q1Z0A",
		FormID:      def.ID,
		SubmittedAt: time.Date(2026, 10, 17, 10, 30, 0, 0, time.UTC),
		Attempts:    1,
	}
	out, err := r.Acknowledgement(def, rec)
	if err != nil {
		t.Fatalf("Acknowledgement: %v", err)
	}
	for _, want := range []string{"Reference ID: EWS8K2J9Q1Z0A", "Submitted at: 17/10/2026 10:30"} {
		if !strings.Contains(out, want) {
			t.Fatalf("acknowledgement missing %q:\n%s", want, out)
		}
	}
}

func TestEngineOverrides(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"review.tpl": {Data: []byte("{{ title }} has {{ sections|length }} sections")},
	}
	engine, err := render.NewEngine(render.WithFS(files), render.WithGlobalData(map[string]any{"portal": "e-District"}))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	out, err := engine.RenderTemplate("review", render.Summary{Title: "Birth Certificate", Sections: []render.Section{{Step: 1}}})
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if out != "Birth Certificate has 1 sections" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = engine.RenderString("{{ portal }}: {{ amount|rupees }}", map[string]any{"amount": "12345678"})
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if out != "e-District: 1,23,45,678" {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := render.NewEngine(); err == nil {
		t.Fatalf("expected error without a template source")
	}
}

func TestGroupIndian(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		800000:     "8,00,000",
		1234567:    "12,34,567",
		2500000000: "2,50,00,00,000",
		-150000:    "-1,50,000",
	}
	for in, want := range cases {
		if got := render.GroupIndian(in); got != want {
			t.Fatalf("GroupIndian(%d) = %q, want %q", in, got, want)
		}
	}
}
