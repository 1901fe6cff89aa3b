package builder

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formwizard/internal/model"
)

const (
	datePattern   = `^[0-9]{2}/[0-9]{2}/[0-9]{4}$`
	timePattern   = `^([01][0-9]|2[0-3]):[0-5][0-9]$`
	panPattern    = `^[A-Z]{5}[0-9]{4}[A-Z]$`
	amountPattern = `^[0-9][0-9,]*$`
)

// FormSchema describes the submission payload of def: an object keyed by
// field id, with dotted ids nested into sub-objects. Statically required
// fields are required properties; conditional requirements are enforced by
// the step validator and are not expressed here.
func FormSchema(def model.Definition) *openapi3.Schema {
	root := openapi3.NewObjectSchema()
	root.Title = def.Title
	root.Description = def.Description

	for _, f := range def.Fields {
		segments := strings.Split(f.ID, ".")
		parent := root
		for _, segment := range segments[:len(segments)-1] {
			parent = child(parent, segment)
		}
		name := segments[len(segments)-1]
		parent.Properties[name] = openapi3.NewSchemaRef("", fieldSchema(f))
		if f.Required {
			parent.Required = appendUnique(parent.Required, name)
		}
	}
	return root
}

func child(parent *openapi3.Schema, name string) *openapi3.Schema {
	if ref, ok := parent.Properties[name]; ok && ref.Value != nil {
		return ref.Value
	}
	obj := openapi3.NewObjectSchema()
	parent.Properties[name] = openapi3.NewSchemaRef("", obj)
	return obj
}

func fieldSchema(f model.Field) *openapi3.Schema {
	var s *openapi3.Schema
	switch f.Kind {
	case model.FieldKindBool:
		s = openapi3.NewBoolSchema()
		if f.Required {
			s.WithEnum(true)
		}
	case model.FieldKindChoice:
		s = openapi3.NewStringSchema()
		if len(f.Choices) > 0 {
			values := make([]any, len(f.Choices))
			for i, c := range f.Choices {
				values[i] = c
			}
			s.WithEnum(values...)
		}
	default:
		s = openapi3.NewStringSchema()
		if f.Required {
			s.WithMinLength(1)
		}
		applyRules(s, f.Rules)
	}
	s.Title = f.Label
	s.Description = f.Help
	return s
}

// applyRules maps format rules onto string keywords. The first pattern goes
// on the schema itself and further ones are added as allOf members.
func applyRules(s *openapi3.Schema, rules []model.Rule) {
	addPattern := func(pattern string) {
		if s.Pattern == "" {
			s.WithPattern(pattern)
			return
		}
		if s.Pattern == pattern {
			return
		}
		extra := openapi3.NewStringSchema().WithPattern(pattern)
		s.AllOf = append(s.AllOf, openapi3.NewSchemaRef("", extra))
	}

	for _, r := range rules {
		switch r.Kind {
		case model.RuleDigits:
			if n := intParam(r, "length", "value"); n > 0 {
				addPattern(fmt.Sprintf("^[0-9]{%d}$", n))
			}
		case model.RulePAN:
			addPattern(panPattern)
		case model.RuleDate, model.RuleNotFuture:
			addPattern(datePattern)
		case model.RuleTime:
			addPattern(timePattern)
		case model.RuleNumber, model.RuleLessThan:
			addPattern(amountPattern)
		case model.RulePattern:
			if p := r.Params["pattern"]; p != "" {
				addPattern(p)
			}
		case model.RuleMinLength:
			if n := intParam(r, "value", "length"); n > 0 {
				s.WithMinLength(int64(n))
			}
		case model.RuleMaxLength:
			if n := intParam(r, "value", "length"); n > 0 {
				s.WithMaxLength(int64(n))
			}
		}
	}
}

func intParam(r model.Rule, keys ...string) int {
	for _, key := range keys {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(r.Params[key]), "%d", &n); err == nil {
			return n
		}
	}
	return 0
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
