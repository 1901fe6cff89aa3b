package tui

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type stubDriver struct {
	inputs   []string
	confirms []bool
	selects  []int
	infos    []string
	asked    []string
	inputErr error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted for " + cfg.Message)
	}
	v := s.inputs[0]
	s.inputs = s.inputs[1:]
	return v, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.asked = append(s.asked, cfg.Message)
	if len(s.confirms) == 0 {
		return false, errors.New("no confirm scripted for " + cfg.Message)
	}
	v := s.confirms[0]
	s.confirms = s.confirms[1:]
	return v, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.asked = append(s.asked, cfg.Message)
	if len(s.selects) == 0 {
		return 0, errors.New("no select scripted for " + cfg.Message)
	}
	v := s.selects[0]
	s.selects = s.selects[1:]
	return v, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func (s *stubDriver) saw(prefix string) int {
	n := 0
	for _, info := range s.infos {
		if strings.HasPrefix(info, prefix) {
			n++
		}
	}
	return n
}

func testDefinition(t *testing.T) model.Definition {
	t.Helper()
	def, err := model.NewBuilder().Build(model.Definition{
		ID:       "aadhaar",
		Prefix:   "AAD",
		Editable: true,
		Steps: []model.Step{
			{ID: "details"},
			{ID: "documents"},
			{ID: "review", Review: true},
		},
		Fields: []model.Field{
			{ID: "fullName", Step: 1, Required: true},
			{ID: "dateOfBirth", Step: 1, Required: true, Format: "dob"},
			{ID: "finalConfirmation", Step: 3, Kind: model.FieldKindBool, Required: true},
		},
		Slots: []model.Slot{
			{ID: "proofOfAddress", Label: "Proof of Address", Step: 2, Required: true},
		},
	})
	if err != nil {
		t.Fatalf("build definition: %v", err)
	}
	return def
}

func testWizard(t *testing.T) *wizard.Wizard {
	t.Helper()
	svc := submission.New(submission.NewMockBackend(submission.WithDelay(0)))
	return wizard.New(testDefinition(t), wizard.WithSubmitter(svc))
}

func TestRunWalksToSubmission(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs: []string{
			"", "01012000",
			"Asha Rao", "01/01/2000",
			"Asha R. Rao", "01/01/2000",
		},
		confirms: []bool{true, true},
		selects:  []int{0, 0, 0, 0, 1, 0, 0},
	}
	picks := 0
	picker := documents.PickerFunc(func(_ context.Context, req documents.Request) ([]documents.Descriptor, error) {
		picks++
		if picks == 1 {
			return nil, nil
		}
		return []documents.Descriptor{{Name: "address.pdf", SizeBytes: documents.Size(2048), Location: "file:///tmp/address.pdf"}}, nil
	})

	r, err := New(WithPromptDriver(driver), WithPicker(picker))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w := testWizard(t)
	rec, err := r.Run(context.Background(), w)
	if err != nil {
		t.Fatalf("Run: %v (infos %q)", err, driver.infos)
	}

	if !strings.HasPrefix(rec.ReferenceID, "AAD") || len(rec.ReferenceID) != 3+submission.DefaultSuffixLength {
		t.Fatalf("unexpected reference %q", rec.ReferenceID)
	}
	if got := w.Field("fullName").Text(); got != "Asha R. Rao" {
		t.Fatalf("fullName = %q", got)
	}
	if got := w.Field("dateOfBirth").Text(); got != "01/01/2000" {
		t.Fatalf("dateOfBirth = %q", got)
	}
	if picks != 2 {
		t.Fatalf("expected two picker calls, got %d", picks)
	}

	wantNotices := []string{
		"!! Full Name is required",
		"-- No file selected for Proof of Address",
		"!! Please upload Proof of Address",
		"-- Attached 1 file(s) to Proof of Address",
		"-- Submitting your application...",
	}
	for _, notice := range wantNotices {
		if !slices.Contains(driver.infos, notice) {
			t.Fatalf("missing notice %q in %q", notice, driver.infos)
		}
	}
	counts := map[string]int{
		"step1":  driver.saw("== Step 1 of 3: Details"),
		"step2":  driver.saw("== Step 2 of 3: Documents"),
		"review": driver.saw("== Step 3 of 3: Review"),
	}
	if diff := cmp.Diff(map[string]int{"step1": 3, "step2": 2, "review": 2}, counts); diff != "" {
		t.Fatalf("step headers mismatch (-want +got):\n%s", diff)
	}

	last := driver.infos[len(driver.infos)-1]
	if !strings.Contains(last, "Reference ID: "+rec.ReferenceID) {
		t.Fatalf("expected acknowledgement last, got %q", last)
	}
	if len(driver.inputs)+len(driver.confirms)+len(driver.selects) != 0 {
		t.Fatalf("script not consumed: %d inputs, %d confirms, %d selects left",
			len(driver.inputs), len(driver.confirms), len(driver.selects))
	}
}

func TestRunOffersEditActionsAtReview(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{confirms: []bool{true}, selects: []int{3}}
	var options []string
	capture := &captureDriver{stubDriver: driver, onSelect: func(cfg SelectConfig) { options = cfg.Options }}
	r, err := New(WithPromptDriver(capture))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := testWizard(t)
	for id, raw := range map[string]string{"fullName": "Asha Rao", "dateOfBirth": "01/01/2000"} {
		if err := w.SetFieldRaw(id, raw); err != nil {
			t.Fatalf("SetFieldRaw(%s): %v", id, err)
		}
	}
	if err := w.Attach("proofOfAddress", documents.Descriptor{Name: "address.pdf", SizeBytes: documents.Size(2048)}); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	for range 2 {
		if _, err := w.Advance(context.Background()); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	action, err := r.reviewStep(context.Background(), w, w.Definition())
	if err != nil {
		t.Fatalf("reviewStep: %v", err)
	}
	want := []string{actionSubmit, "Edit step 1: Details", "Edit step 2: Documents", actionBack}
	if diff := cmp.Diff(want, options); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	if action != actionBack {
		t.Fatalf("action = %q", action)
	}
	if len(driver.infos) != 1 || !strings.Contains(driver.infos[0], "Asha Rao") {
		t.Fatalf("expected the review page, got %q", driver.infos)
	}
}

type captureDriver struct {
	*stubDriver
	onSelect func(SelectConfig)
}

func (c *captureDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	c.onSelect(cfg)
	return c.stubDriver.Select(ctx, cfg)
}

func TestRunExitFromFirstStep(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{"Asha", ""}, selects: []int{1}}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w := testWizard(t)
	if _, err := r.Run(context.Background(), w); !errors.Is(err, ErrExited) {
		t.Fatalf("expected ErrExited, got %v", err)
	}
	if w.Step() != 1 {
		t.Fatalf("wizard moved to step %d", w.Step())
	}
}

func TestRunPropagatesAbort(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputErr: ErrAborted}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Run(context.Background(), testWizard(t)); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if diff := cmp.Diff([]string{"Full Name *"}, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Run(ctx, testWizard(t)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDefaultPickerAsksForPaths(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{" a.pdf , ,b.jpg "}}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	paths, err := r.askPaths(context.Background(), documents.Request{Label: "Photographs", Multiple: true, Accept: []string{"image/*"}})
	if err != nil {
		t.Fatalf("askPaths: %v", err)
	}
	if diff := cmp.Diff([]string{"a.pdf", "b.jpg"}, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Path to Photographs"}, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	def := testDefinition(t)
	dob, _ := def.Field("dateOfBirth")
	name, _ := def.Field("fullName")
	cases := []struct {
		field model.Field
		raw   string
		want  string
	}{
		{dob, "17102026", "17/10/2026"},
		{dob, "17/10/2026", "17/10/2026"},
		{name, "  Asha  ", "Asha"},
	}
	for _, tc := range cases {
		if got := normalize(tc.field, tc.raw); got != tc.want {
			t.Fatalf("normalize(%s, %q) = %q, want %q", tc.field.ID, tc.raw, got, tc.want)
		}
	}
}
