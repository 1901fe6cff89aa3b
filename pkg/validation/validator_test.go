package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/requirements"
)

func testDefinition(t *testing.T) model.Definition {
	t.Helper()
	def, err := model.NewBuilder().Build(model.Definition{
		ID:     "sample",
		Prefix: "SMP",
		Steps: []model.Step{
			{ID: "details", Checks: []string{"incomeCap"}},
			{ID: "documents"},
			{ID: "review", Review: true},
		},
		Fields: []model.Field{
			{ID: "fullName", Step: 1, Required: true},
			{ID: "aadhaarNumber", Step: 1, Required: true, Format: "aadhaar"},
			{ID: "mobile", Step: 1, Format: "mobile"},
			{ID: "panNumber", Step: 1, Format: "pan"},
			{ID: "dateOfBirth", Step: 1, Required: true, Format: "dob"},
			{ID: "timeOfBirth", Step: 1, Format: "time"},
			{ID: "annualIncome", Step: 1, Format: "amount"},
			{ID: "guardianName", Step: 1, VisibleWhen: "applicantMinor"},
			{ID: "finalConfirmation", Step: 3, Kind: model.FieldKindBool, Required: true},
		},
		Slots: []model.Slot{
			{ID: "photo", Step: 2, Required: true},
			{ID: "guardianAadhaarCard", Step: 2},
		},
		Derived: []model.Derived{{Name: "applicantMinor", Kind: model.DerivedMinor, From: "dateOfBirth"}},
		Requirements: []model.Requirement{{
			When:   "applicantMinor",
			Fields: []string{"guardianName"},
			Slots:  []string{"guardianAadhaarCard"},
			Reason: "Guardian details are required for applicants under 18",
		}},
	})
	if err != nil {
		t.Fatalf("build definition: %v", err)
	}
	return def
}

func newValidator(t *testing.T, def model.Definition, opts ...Option) *Validator {
	t.Helper()
	engine := requirements.New(def, requirements.WithClock(func() time.Time {
		return time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)
	}))
	registry := NewRegistry()
	registry.MustRegister("incomeCap", func(values map[string]any) error {
		raw, _ := values["annualIncome"].(string)
		if raw == "" {
			return nil
		}
		amount, err := ParseAmount(raw)
		if err != nil {
			return nil
		}
		if amount >= 800000 {
			return errors.New("Annual income must be below 8,00,000")
		}
		return nil
	})
	return New(def, engine, append([]Option{WithRegistry(registry)}, opts...)...)
}

func stores(def model.Definition) (*fields.Store, *documents.Store) {
	return fields.NewStore(def.Fields), documents.NewStore(def.Slots)
}

func set(t *testing.T, fs *fields.Store, id string, v fields.Value) {
	t.Helper()
	if err := fs.Set(fields.FieldID(id), v); err != nil {
		t.Fatalf("Set(%s): %v", id, err)
	}
}

func fillAdult(t *testing.T, fs *fields.Store) {
	set(t, fs, "fullName", fields.String("Asha Rao"))
	set(t, fs, "aadhaarNumber", fields.String("123456789012"))
	set(t, fs, "dateOfBirth", fields.String("01/01/1990"))
}

func TestValidateStepRequiresStaticFields(t *testing.T) {
	t.Parallel()

	def := testDefinition(t)
	v := newValidator(t, def)

	for _, missing := range []string{"fullName", "aadhaarNumber", "dateOfBirth"} {
		fs, ds := stores(def)
		fillAdult(t, fs)
		set(t, fs, missing, fields.String(""))

		res := v.ValidateStep(1, fs, ds)
		if res.OK {
			t.Fatalf("expected failure with %s empty", missing)
		}
		if res.Code != CodeRequired || res.Target != missing {
			t.Fatalf("expected required failure on %s, got %+v", missing, res)
		}
	}
}

func TestValidateStepGuardianRequiredOnlyForMinors(t *testing.T) {
	t.Parallel()

	def := testDefinition(t)
	v := newValidator(t, def)

	fs, ds := stores(def)
	fillAdult(t, fs)
	if res := v.ValidateStep(1, fs, ds); !res.OK {
		t.Fatalf("adult with empty guardian should pass, got %+v", res)
	}

	set(t, fs, "dateOfBirth", fields.String("17/10/2016"))
	res := v.ValidateStep(1, fs, ds)
	if res.OK || res.Target != "guardianName" {
		t.Fatalf("expected guardian failure for minor, got %+v", res)
	}
	if res.Reason != "Guardian details are required for applicants under 18" {
		t.Fatalf("unexpected reason %q", res.Reason)
	}

	set(t, fs, "guardianName", fields.String("Ravi Rao"))
	if res := v.ValidateStep(1, fs, ds); !res.OK {
		t.Fatalf("expected pass once guardian filled, got %+v", res)
	}
}

func TestValidateStepFormatsAreExact(t *testing.T) {
	t.Parallel()

	def := testDefinition(t)
	v := newValidator(t, def)

	cases := []struct {
		field string
		value string
		ok    bool
	}{
		{"aadhaarNumber", "123456789012", true},
		{"aadhaarNumber", "1234567890123", false},
		{"aadhaarNumber", "12345678901", false},
		{"aadhaarNumber", "12345678901a", false},
		{"mobile", "9876543210", true},
		{"mobile", "987654321", false},
		{"panNumber", "ABCDE1234F", true},
		{"panNumber", "ABCDE1234", false},
		{"panNumber", "abcde1234f", false},
		{"dateOfBirth", "31/02/1990", false},
		{"dateOfBirth", "1990-01-01", false},
		{"dateOfBirth", "18/10/2026", false},
		{"timeOfBirth", "23:59", true},
		{"timeOfBirth", "24:00", false},
		{"timeOfBirth", "9:30", false},
		{"annualIncome", "8,00,000", true},
		{"annualIncome", "eight lakh", false},
	}
	for _, tc := range cases {
		fs, ds := stores(def)
		fillAdult(t, fs)
		set(t, fs, tc.field, fields.String(tc.value))

		res := v.ValidateStep(1, fs, ds)
		if tc.ok {
			if !res.OK && res.Target == tc.field {
				t.Fatalf("%s=%q should pass, got %+v", tc.field, tc.value, res)
			}
			continue
		}
		if res.OK || res.Code != CodeFormat || res.Target != tc.field {
			t.Fatalf("%s=%q should fail format, got %+v", tc.field, tc.value, res)
		}
	}
}

func TestValidateStepRunsChecksAfterFormats(t *testing.T) {
	t.Parallel()

	def := testDefinition(t)
	v := newValidator(t, def)

	fs, ds := stores(def)
	fillAdult(t, fs)
	set(t, fs, "annualIncome", fields.String("800000"))
	res := v.ValidateStep(1, fs, ds)
	if res.OK || res.Code != CodeCheck || res.Target != "incomeCap" {
		t.Fatalf("expected income check failure, got %+v", res)
	}

	set(t, fs, "annualIncome", fields.String("799999"))
	if res := v.ValidateStep(1, fs, ds); !res.OK {
		t.Fatalf("expected 799999 to pass, got %+v", res)
	}
}

func TestValidateStepSlots(t *testing.T) {
	t.Parallel()

	def := testDefinition(t)
	v := newValidator(t, def)

	fs, ds := stores(def)
	fillAdult(t, fs)
	res := v.ValidateStep(2, fs, ds)
	if res.OK || res.Code != CodeSlotRequired || res.Target != "photo" {
		t.Fatalf("expected photo slot failure, got %+v", res)
	}

	if err := ds.Attach("photo", documents.Descriptor{Name: "me.jpg", Location: "content://me"}); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if res := v.ValidateStep(2, fs, ds); !res.OK {
		t.Fatalf("expected pass, got %+v", res)
	}

	set(t, fs, "dateOfBirth", fields.String("01/01/2015"))
	res = v.ValidateStep(2, fs, ds)
	if res.OK || res.Target != "guardianAadhaarCard" {
		t.Fatalf("expected conditional slot failure, got %+v", res)
	}
}

func TestValidateStepRequiresConfirmation(t *testing.T) {
	t.Parallel()

	def := testDefinition(t)
	v := newValidator(t, def)

	fs, ds := stores(def)
	res := v.ValidateStep(3, fs, ds)
	if res.OK || res.Target != "finalConfirmation" {
		t.Fatalf("expected confirmation failure, got %+v", res)
	}
	set(t, fs, "finalConfirmation", fields.Bool(true))
	if res := v.ValidateStep(3, fs, ds); !res.OK {
		t.Fatalf("expected pass, got %+v", res)
	}
}

func TestValidateStepFirstFailureWinsUnlessAggregated(t *testing.T) {
	t.Parallel()

	def := testDefinition(t)
	fs, ds := stores(def)
	set(t, fs, "mobile", fields.String("123"))

	first := newValidator(t, def).ValidateStep(1, fs, ds)
	if len(first.Issues) != 1 || first.Target != "fullName" {
		t.Fatalf("expected only the first failure, got %+v", first)
	}

	all := newValidator(t, def, WithAggregate()).ValidateStep(1, fs, ds)
	var targets []string
	for _, issue := range all.Issues {
		targets = append(targets, issue.Target)
	}
	want := []string{"fullName", "aadhaarNumber", "dateOfBirth", "mobile"}
	if diff := cmp.Diff(want, targets); diff != "" {
		t.Fatalf("aggregated targets mismatch (-want +got):\n%s", diff)
	}
	if all.Reason != first.Reason {
		t.Fatalf("aggregate reason %q differs from first failure %q", all.Reason, first.Reason)
	}
}

func TestValidateStepDoesNotMutateStores(t *testing.T) {
	t.Parallel()

	def := testDefinition(t)
	v := newValidator(t, def)
	fs, ds := stores(def)
	set(t, fs, "mobile", fields.String("123"))

	before := fs.Values()
	_ = v.ValidateStep(1, fs, ds)
	if diff := cmp.Diff(before, fs.Values()); diff != "" {
		t.Fatalf("validation mutated fields (-before +after):\n%s", diff)
	}
	if len(ds.Snapshot()) != 0 {
		t.Fatalf("validation mutated slots")
	}
}

func TestValidateThrough(t *testing.T) {
	t.Parallel()

	def := testDefinition(t)
	v := newValidator(t, def)
	fs, ds := stores(def)
	fillAdult(t, fs)
	set(t, fs, "finalConfirmation", fields.Bool(true))

	step, res := v.ValidateThrough(3, fs, ds)
	if step != 2 || res.Target != "photo" {
		t.Fatalf("expected step 2 photo failure, got step %d %+v", step, res)
	}
}

func TestValidateUnknownStepAndCheck(t *testing.T) {
	t.Parallel()

	def := testDefinition(t)
	fs, ds := stores(def)

	if res := newValidator(t, def).ValidateStep(7, fs, ds); res.OK || res.Code != CodeInternal {
		t.Fatalf("expected internal failure for missing step, got %+v", res)
	}

	bare := New(def, nil)
	fillAdult(t, fs)
	if res := bare.ValidateStep(1, fs, ds); res.OK || res.Code != CodeInternal {
		t.Fatalf("expected internal failure for unregistered check, got %+v", res)
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	good := map[string]int64{
		"0":          0,
		"799999":     799999,
		"8,00,000":   800000,
		" 8,00,000 ": 800000,
	}
	for in, want := range good {
		got, err := ParseAmount(in)
		if err != nil || got != want {
			t.Fatalf("ParseAmount(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "  ", ",100", "+100", "-5", "1.5", "1 000"} {
		if _, err := ParseAmount(in); err == nil {
			t.Fatalf("ParseAmount(%q) expected error", in)
		}
	}
}
