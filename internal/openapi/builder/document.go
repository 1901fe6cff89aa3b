package builder

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formwizard/internal/model"
)

// Info labels a generated document.
type Info struct {
	Title   string
	Version string
	// BasePath prefixes every submission path, e.g. /api/v1.
	BasePath string
}

// Document describes the submission endpoint of every form: one
// POST {BasePath}/submissions/{form} operation per definition, with the form
// payload schema registered under components.schemas.
func Document(defs []model.Definition, info Info) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: info.Title, Version: info.Version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Receipt":    openapi3.NewSchemaRef("", receiptSchema()),
				"Error":      openapi3.NewSchemaRef("", errorSchema()),
				"Descriptor": openapi3.NewSchemaRef("", descriptorSchema()),
			},
		},
	}

	for _, def := range defs {
		doc.Components.Schemas[def.ID] = openapi3.NewSchemaRef("", FormSchema(def))

		body := openapi3.NewObjectSchema()
		body.Properties["payload"] = openapi3.NewSchemaRef("#/components/schemas/"+def.ID, nil)
		files := openapi3.NewObjectSchema()
		files.AdditionalProperties = openapi3.AdditionalProperties{
			Schema: openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(descriptorSchema())),
		}
		body.Properties["files"] = openapi3.NewSchemaRef("", files)
		body.Required = []string{"payload"}

		op := openapi3.NewOperation()
		op.OperationID = "submit_" + def.ID
		op.Summary = "Submit " + def.Title
		op.Description = def.Description
		op.Tags = []string{"submissions"}
		op.Parameters = openapi3.Parameters{{
			Value: openapi3.NewHeaderParameter("Idempotency-Key").WithSchema(openapi3.NewStringSchema()),
		}}
		op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body)}
		op.Responses = openapi3.NewResponses(
			openapi3.WithStatus(http.StatusCreated, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Submission accepted").
					WithContent(openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/Receipt", nil))),
			}),
			openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Payload rejected").
					WithContent(openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/Error", nil))),
			}),
		)

		doc.Paths.Set(info.BasePath+"/submissions/"+def.ID, &openapi3.PathItem{Post: op})
	}
	return doc
}

func receiptSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().WithProperty("referenceId", openapi3.NewStringSchema())
	s.Required = []string{"referenceId"}
	return s
}

func errorSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().WithProperty("error", openapi3.NewStringSchema())
	s.Required = []string{"error"}
	return s
}

func descriptorSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("sizeBytes", openapi3.NewInt64Schema()).
		WithProperty("location", openapi3.NewStringSchema()).
		WithProperty("contentType", openapi3.NewStringSchema())
	s.Required = []string{"name", "location"}
	return s
}

// Validate checks payload against schema and reports every violation.
func Validate(schema *openapi3.Schema, payload map[string]any) error {
	if schema == nil {
		return errors.New("openapi builder: nil schema")
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if err := schema.VisitJSON(payload, openapi3.MultiErrors()); err != nil {
		var multi openapi3.MultiError
		if errors.As(err, &multi) {
			return fmt.Errorf("%d problems: %w", len(multi), err)
		}
		return err
	}
	return nil
}
