package builder

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/internal/model"
)

func sampleDefinition() model.Definition {
	return model.Definition{
		ID:     "sample",
		Title:  "Sample Application",
		Prefix: "SMP",
		Fields: []model.Field{
			{ID: "fullName", Kind: model.FieldKindString, Required: true},
			{ID: "aadhaarNumber", Kind: model.FieldKindString, Required: true, Rules: []model.Rule{
				{Kind: model.RuleDigits, Params: map[string]string{"length": "12"}},
			}},
			{ID: "panNumber", Kind: model.FieldKindString, Rules: []model.Rule{{Kind: model.RulePAN}}},
			{ID: "dateOfBirth", Kind: model.FieldKindString, Rules: []model.Rule{
				{Kind: model.RuleDate},
				{Kind: model.RuleNotFuture},
			}},
			{ID: "gender", Kind: model.FieldKindChoice, Choices: []string{"Male", "Female", "Other"}},
			{ID: "address.line1", Kind: model.FieldKindString, Required: true},
			{ID: "address.pincode", Kind: model.FieldKindString, Required: true, Rules: []model.Rule{
				{Kind: model.RuleDigits, Params: map[string]string{"length": "6"}},
			}},
			{ID: "finalConfirmation", Kind: model.FieldKindBool, Required: true},
		},
	}
}

func validPayload() map[string]any {
	return map[string]any{
		"fullName":      "Asha Verma",
		"aadhaarNumber": "123412341234",
		"panNumber":     "ABCDE1234F",
		"dateOfBirth":   "17/10/1990",
		"gender":        "Female",
		"address": map[string]any{
			"line1":   "12 MG Road",
			"pincode": "560001",
		},
		"finalConfirmation": true,
	}
}

func TestFormSchemaShape(t *testing.T) {
	t.Parallel()

	schema := FormSchema(sampleDefinition())

	if diff := cmp.Diff([]string{"fullName", "aadhaarNumber", "finalConfirmation"}, schema.Required); diff != "" {
		t.Fatalf("root required mismatch (-want +got):\n%s", diff)
	}

	address := schema.Properties["address"]
	if address == nil || address.Value == nil {
		t.Fatalf("expected nested address object")
	}
	if diff := cmp.Diff([]string{"line1", "pincode"}, address.Value.Required); diff != "" {
		t.Fatalf("address required mismatch (-want +got):\n%s", diff)
	}
	if got := address.Value.Properties["pincode"].Value.Pattern; got != "^[0-9]{6}$" {
		t.Fatalf("pincode pattern = %q", got)
	}

	dob := schema.Properties["dateOfBirth"].Value
	if dob.Pattern != datePattern || len(dob.AllOf) != 0 {
		t.Fatalf("date rules should collapse into one pattern, got %q with %d allOf", dob.Pattern, len(dob.AllOf))
	}

	gender := schema.Properties["gender"].Value
	if diff := cmp.Diff([]any{"Male", "Female", "Other"}, gender.Enum); diff != "" {
		t.Fatalf("gender enum mismatch (-want +got):\n%s", diff)
	}

	confirm := schema.Properties["finalConfirmation"].Value
	if !confirm.Type.Is(openapi3.TypeBoolean) {
		t.Fatalf("finalConfirmation type = %v", confirm.Type)
	}
}

func TestValidateAcceptsCompletePayload(t *testing.T) {
	t.Parallel()

	if err := Validate(FormSchema(sampleDefinition()), validPayload()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	t.Parallel()

	payload := validPayload()
	payload["aadhaarNumber"] = "1234"
	payload["panNumber"] = "abcde1234f"
	delete(payload, "fullName")

	err := Validate(FormSchema(sampleDefinition()), payload)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var multi openapi3.MultiError
	if !errors.As(err, &multi) {
		t.Fatalf("expected MultiError, got %T", err)
	}
	if len(multi) < 3 {
		t.Fatalf("expected at least 3 problems, got %d: %v", len(multi), err)
	}
}

func TestValidateRequiresConfirmation(t *testing.T) {
	t.Parallel()

	payload := validPayload()
	delete(payload, "finalConfirmation")

	if err := Validate(FormSchema(sampleDefinition()), payload); err == nil {
		t.Fatalf("expected missing confirmation to fail")
	}
}

func TestValidateNilSchema(t *testing.T) {
	t.Parallel()

	if err := Validate(nil, validPayload()); err == nil {
		t.Fatalf("expected error for nil schema")
	}
}

func TestDocumentPathsAndComponents(t *testing.T) {
	t.Parallel()

	doc := Document([]model.Definition{sampleDefinition()}, Info{
		Title:    "Form Wizard",
		Version:  "1.0.0",
		BasePath: "/api/v1",
	})

	item := doc.Paths.Find("/api/v1/submissions/sample")
	if item == nil || item.Post == nil {
		t.Fatalf("expected POST /api/v1/submissions/sample")
	}
	if got := item.Post.OperationID; got != "submit_sample" {
		t.Fatalf("operationId = %q", got)
	}
	if item.Post.Responses.Status(201) == nil {
		t.Fatalf("expected 201 response")
	}

	for _, name := range []string{"sample", "Receipt", "Error", "Descriptor"} {
		if _, ok := doc.Components.Schemas[name]; !ok {
			t.Fatalf("missing component schema %q", name)
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"$ref":"#/components/schemas/sample"`) {
		t.Fatalf("payload should reference the form schema: %s", raw)
	}
}
