package fields

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func testDecls() []model.Field {
	return []model.Field{
		{ID: "fullName", Kind: model.FieldKindString},
		{ID: "isMigrant", Kind: model.FieldKindBool},
		{ID: "maritalStatus", Kind: model.FieldKindChoice, Choices: []string{"Single", "Married"}},
		{ID: "address.state", Kind: model.FieldKindChoice, ChoiceSource: "states"},
		{ID: "address.pincode", Kind: model.FieldKindString},
	}
}

func TestStoreGetReturnsEmptyDefaults(t *testing.T) {
	t.Parallel()

	store := NewStore(testDecls())

	if got := store.Get("fullName"); got.Kind() != model.FieldKindString || got.Text() != "" {
		t.Fatalf("unexpected default for string field: %v", got)
	}
	if got := store.Get("isMigrant"); got.Kind() != model.FieldKindBool || got.Bool() {
		t.Fatalf("unexpected default for bool field: %v", got)
	}
	if got := store.Get("maritalStatus"); got.Kind() != model.FieldKindChoice || !got.IsEmpty() {
		t.Fatalf("unexpected default for choice field: %v", got)
	}
	if got := store.Get("undeclared"); got != (Value{}) {
		t.Fatalf("expected zero value for undeclared field, got %v", got)
	}
}

func TestStoreSetIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewStore(testDecls())
	if err := store.Set("fullName", String("Asha Rao")); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	first := store.Values()
	if err := store.Set("fullName", String("Asha Rao")); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if diff := cmp.Diff(first, store.Values()); diff != "" {
		t.Fatalf("store changed after repeated Set (-first +second):\n%s", diff)
	}
}

func TestStoreRejectsUnknownFieldsAndKinds(t *testing.T) {
	t.Parallel()

	store := NewStore(testDecls())

	if err := store.Set("fullname", String("typo")); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := store.Set("isMigrant", String("yes")); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	if err := store.Set("maritalStatus", Choice("Widowed")); !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("expected ErrUnknownChoice, got %v", err)
	}
	if err := store.Set("maritalStatus", Choice("")); err != nil {
		t.Fatalf("clearing a choice returned error: %v", err)
	}
	if _, ok := store.Values()["fullname"]; ok {
		t.Fatalf("typo created a new field")
	}
}

func TestStoreChoiceResolverAndToggle(t *testing.T) {
	t.Parallel()

	store := NewStore(testDecls(), WithChoiceResolver(func(source string) []string {
		if source == "states" {
			return []string{"Kerala", "Goa"}
		}
		return nil
	}))

	if err := store.Set("address.state", Choice("Goa")); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Toggle("isMigrant"); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !store.Get("isMigrant").Bool() {
		t.Fatalf("expected toggle to set true")
	}
	if err := store.Toggle("fullName"); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch toggling a string, got %v", err)
	}
	if diff := cmp.Diff([]string{"Kerala", "Goa"}, store.Choices("address.state")); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreExports(t *testing.T) {
	t.Parallel()

	store := NewStore(testDecls())
	mustSet(t, store, "fullName", String("Asha Rao"))
	mustSet(t, store, "address.pincode", String("560001"))

	wantValues := map[string]any{
		"fullName":        "Asha Rao",
		"isMigrant":       false,
		"maritalStatus":   "",
		"address.state":   "",
		"address.pincode": "560001",
	}
	if diff := cmp.Diff(wantValues, store.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantNested := map[string]any{
		"fullName": "Asha Rao",
		"address":  map[string]any{"pincode": "560001"},
	}
	if diff := cmp.Diff(wantNested, store.Nested()); diff != "" {
		t.Fatalf("nested mismatch (-want +got):\n%s", diff)
	}

	store.Reset()
	if len(store.Filled()) != 0 {
		t.Fatalf("expected reset store to be empty, got %v", store.Filled())
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	boolField := model.Field{ID: "isMigrant", Kind: model.FieldKindBool}
	v, err := Parse(boolField, "Yes")
	if err != nil || !v.Bool() {
		t.Fatalf("Parse(yes) = %v, %v", v, err)
	}
	if _, err := Parse(boolField, "maybe"); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	v, err = Parse(model.Field{ID: "gender", Kind: model.FieldKindChoice}, " Female ")
	if err != nil || v.Kind() != model.FieldKindChoice || v.Text() != "Female" {
		t.Fatalf("Parse(choice) = %v, %v", v, err)
	}
	v, err = Parse(model.Field{ID: "totalAnnualIncome"}, "  500000 ")
	if err != nil || v.Text() != "500000" {
		t.Fatalf("Parse(text) = %q, %v", v.Text(), err)
	}
}

func TestStoreExportsTrimmedText(t *testing.T) {
	t.Parallel()

	store := NewStore(testDecls())
	mustSet(t, store, "address.pincode", String(" 560001 "))

	want := map[string]any{"address": map[string]any{"pincode": "560001"}}
	if diff := cmp.Diff(want, store.Nested()); diff != "" {
		t.Fatalf("nested mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatDateAndTime(t *testing.T) {
	t.Parallel()

	dates := map[string]string{
		"":            "",
		"0":           "0",
		"010":         "01/0",
		"0101":        "01/01",
		"01012000":    "01/01/2000",
		"01/01/2000":  "01/01/2000",
		"0101200099":  "01/01/2000",
		"01-Jan-2000": "01/20/00",
	}
	for in, want := range dates {
		if got := FormatDate(in); got != want {
			t.Fatalf("FormatDate(%q) = %q, want %q", in, got, want)
		}
	}

	times := map[string]string{
		"9":     "9",
		"093":   "09:3",
		"0930":  "09:30",
		"09:30": "09:30",
		"12345": "12:34",
	}
	for in, want := range times {
		if got := FormatTime(in); got != want {
			t.Fatalf("FormatTime(%q) = %q, want %q", in, got, want)
		}
	}
}

func mustSet(t *testing.T, store *Store, id FieldID, v Value) {
	t.Helper()
	if err := store.Set(id, v); err != nil {
		t.Fatalf("Set(%s) returned error: %v", id, err)
	}
}
