package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formwizard/internal/openapi/builder"
	"github.com/goliatone/go-formwizard/pkg/model"
)

var (
	// ErrUnknownForm is returned for form ids absent from the catalog.
	ErrUnknownForm = errors.New("openapi: unknown form")
	// ErrInvalidPayload wraps schema violations.
	ErrInvalidPayload = errors.New("openapi: payload does not match form schema")
)

// Catalog is the subset of forms.Set the package needs.
type Catalog interface {
	Get(id string) (model.Definition, bool)
	List() []model.Definition
}

// Info labels an exported document.
type Info struct {
	Title    string
	Version  string
	BasePath string
}

// Validator checks submission payloads against per-form schemas. Schemas are
// built on first use and cached.
type Validator struct {
	catalog Catalog

	mu      sync.Mutex
	schemas map[string]*openapi3.Schema
}

// NewValidator returns a Validator backed by catalog.
func NewValidator(catalog Catalog) *Validator {
	return &Validator{catalog: catalog, schemas: make(map[string]*openapi3.Schema)}
}

// Validate reports whether payload satisfies the schema of formID. Its
// signature matches submission.PayloadValidator.
func (v *Validator) Validate(formID string, payload map[string]any) error {
	schema, err := v.schema(formID)
	if err != nil {
		return err
	}
	if err := builder.Validate(schema, payload); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, formID, err)
	}
	return nil
}

func (v *Validator) schema(formID string) (*openapi3.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.schemas[formID]; ok {
		return s, nil
	}
	def, ok := v.catalog.Get(formID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, formID)
	}
	s := builder.FormSchema(def)
	v.schemas[formID] = s
	return s, nil
}

// FormSchema renders the payload schema of def as JSON.
func FormSchema(def model.Definition) ([]byte, error) {
	return json.MarshalIndent(builder.FormSchema(def), "", "  ")
}

// Document renders the submission API of every form in catalog as an
// OpenAPI 3 JSON document.
func Document(catalog Catalog, info Info) ([]byte, error) {
	if info.Title == "" {
		info.Title = "Form Wizard Submissions"
	}
	if info.Version == "" {
		info.Version = "1.0.0"
	}
	doc := builder.Document(catalog.List(), builder.Info{
		Title:    info.Title,
		Version:  info.Version,
		BasePath: info.BasePath,
	})
	return json.MarshalIndent(doc, "", "  ")
}
