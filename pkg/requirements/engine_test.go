package requirements

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func fixedClock(year int, month time.Month, day int) Clock {
	return func() time.Time { return time.Date(year, month, day, 10, 0, 0, 0, time.UTC) }
}

func aadhaarLike() model.Definition {
	def, err := model.NewBuilder().Build(model.Definition{
		ID:     "aadhaar",
		Prefix: "AADH",
		Steps:  []model.Step{{ID: "details"}, {ID: "documents"}, {ID: "review", Review: true}},
		Fields: []model.Field{
			{ID: "fullName", Step: 1, Required: true},
			{ID: "dateOfBirth", Step: 1, Required: true, Format: "dob"},
			{ID: "guardianName", Step: 1, VisibleWhen: "applicantMinor"},
			{ID: "guardianAadhaar", Step: 1, Format: "aadhaar", VisibleWhen: "applicantMinor"},
			{ID: "registrationType", Step: 1, Choices: []string{"Timely", "Late"}},
			{ID: "delayReason", Step: 1},
		},
		Slots: []model.Slot{
			{ID: "proofOfAddress", Step: 2, Required: true},
			{ID: "guardianAadhaarCard", Step: 2},
			{ID: "affidavit", Step: 2},
		},
		Derived: []model.Derived{
			{Name: "applicantMinor", Kind: model.DerivedMinor, From: "dateOfBirth"},
			{Name: "applicantAge", Kind: model.DerivedAge, From: "dateOfBirth"},
		},
		Requirements: []model.Requirement{
			{When: "applicantMinor", Fields: []string{"guardianName", "guardianAadhaar"}, Slots: []string{"guardianAadhaarCard"}, Reason: "Guardian details are required for minors"},
			{When: `registrationType == "Late"`, Fields: []string{"delayReason"}, Slots: []string{"affidavit"}},
		},
	})
	if err != nil {
		panic(err)
	}
	return def
}

func TestRequiredFieldsFollowMinorStatus(t *testing.T) {
	t.Parallel()

	engine := New(aadhaarLike(), WithClock(fixedClock(2026, time.October, 17)))

	minor, err := engine.RequiredFields(map[string]any{"dateOfBirth": "17/10/2016"})
	if err != nil {
		t.Fatalf("RequiredFields returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"fullName", "dateOfBirth", "guardianName", "guardianAadhaar"}, minor.List()); diff != "" {
		t.Fatalf("minor required fields mismatch (-want +got):\n%s", diff)
	}

	adult, err := engine.RequiredFields(map[string]any{"dateOfBirth": "17/10/2008"})
	if err != nil {
		t.Fatalf("RequiredFields returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"fullName", "dateOfBirth"}, adult.List()); diff != "" {
		t.Fatalf("adult required fields mismatch (-want +got):\n%s", diff)
	}

	dayBefore, err := engine.RequiredSlots(map[string]any{"dateOfBirth": "18/10/2008"})
	if err != nil {
		t.Fatalf("RequiredSlots returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"proofOfAddress", "guardianAadhaarCard"}, dayBefore.List()); diff != "" {
		t.Fatalf("required slots mismatch (-want +got):\n%s", diff)
	}
}

func TestRequirementsReevaluateOnEveryCall(t *testing.T) {
	t.Parallel()

	engine := New(aadhaarLike(), WithClock(fixedClock(2026, time.October, 17)))
	values := map[string]any{"registrationType": "Late"}

	slots, err := engine.RequiredSlots(values)
	if err != nil {
		t.Fatalf("RequiredSlots returned error: %v", err)
	}
	if !slots.Has("affidavit") {
		t.Fatalf("expected affidavit for late registration")
	}

	values["registrationType"] = "Timely"
	slots, err = engine.RequiredSlots(values)
	if err != nil {
		t.Fatalf("RequiredSlots returned error: %v", err)
	}
	if slots.Has("affidavit") {
		t.Fatalf("expected affidavit to drop after toggling registration type")
	}
}

func TestContextDerivesValues(t *testing.T) {
	t.Parallel()

	engine := New(aadhaarLike(), WithClock(fixedClock(2026, time.October, 17)), WithExtras(map[string]any{"channel": "kiosk"}))

	ctx := engine.Context(map[string]any{"dateOfBirth": "18/10/2016"})
	if ctx.Values["applicantMinor"] != true || ctx.Values["applicantAge"] != 9 {
		t.Fatalf("unexpected derived values: %v", ctx.Values)
	}
	if ctx.Extras["channel"] != "kiosk" {
		t.Fatalf("expected extras to be passed through")
	}

	ctx = engine.Context(map[string]any{"dateOfBirth": "not a date"})
	if ctx.Values["applicantMinor"] != false || ctx.Values["applicantAge"] != nil {
		t.Fatalf("unexpected derived values for bad date: %v", ctx.Values)
	}
}

func TestVisibleAndReason(t *testing.T) {
	t.Parallel()

	engine := New(aadhaarLike(), WithClock(fixedClock(2026, time.October, 17)))

	vis, err := engine.Visible(map[string]any{"dateOfBirth": "01/01/1990"})
	if err != nil {
		t.Fatalf("Visible returned error: %v", err)
	}
	if vis.Fields.Has("guardianName") || vis.Fields.Has("guardianAadhaar") {
		t.Fatalf("guardian fields should be hidden for adults: %v", vis.Fields.List())
	}
	if !vis.Fields.Has("delayReason") || !vis.Slots.Has("guardianAadhaarCard") {
		t.Fatalf("items without reveal rules should be visible")
	}

	minorValues := map[string]any{"dateOfBirth": "01/01/2020"}
	vis, err = engine.Visible(minorValues)
	if err != nil {
		t.Fatalf("Visible returned error: %v", err)
	}
	if !vis.Fields.Has("guardianName") {
		t.Fatalf("guardian fields should be visible for minors")
	}
	if got := engine.ReasonFor(minorValues, "guardianAadhaarCard"); got != "Guardian details are required for minors" {
		t.Fatalf("unexpected reason %q", got)
	}
	if got := engine.ReasonFor(minorValues, "affidavit"); got != "" {
		t.Fatalf("expected no reason for inactive requirement, got %q", got)
	}
}
