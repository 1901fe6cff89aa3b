package fields

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// FieldID identifies a declared field. Dotted identifiers such as
// address.state group related fields when exported with Nested.
type FieldID string

// ChoiceResolver returns the options behind a field's choiceSource.
type ChoiceResolver func(source string) []string

// Option configures a Store.
type Option func(*Store)

// WithChoiceResolver supplies options for fields that declare choiceSource.
func WithChoiceResolver(resolver ChoiceResolver) Option {
	return func(s *Store) {
		s.resolver = resolver
	}
}

// Store holds the current value of every declared field. It performs no
// format validation. A Store is not safe for concurrent use; the wizard
// serializes access.
type Store struct {
	decls    map[FieldID]model.Field
	order    []FieldID
	values   map[FieldID]Value
	resolver ChoiceResolver
}

// NewStore creates an empty store for the given declarations.
func NewStore(decls []model.Field, opts ...Option) *Store {
	s := &Store{
		decls:  make(map[FieldID]model.Field, len(decls)),
		order:  make([]FieldID, 0, len(decls)),
		values: make(map[FieldID]Value, len(decls)),
	}
	for _, d := range decls {
		id := FieldID(d.ID)
		if _, dup := s.decls[id]; dup {
			continue
		}
		s.decls[id] = d
		s.order = append(s.order, id)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Declaration returns the field declaration for id.
func (s *Store) Declaration(id FieldID) (model.Field, bool) {
	d, ok := s.decls[id]
	return d, ok
}

// IDs returns the declared identifiers in declaration order.
func (s *Store) IDs() []FieldID {
	return slices.Clone(s.order)
}

// Set replaces the value of id unconditionally.
func (s *Store) Set(id FieldID, v Value) error {
	decl, ok := s.decls[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	if v.kind != decl.Kind {
		return fmt.Errorf("%w: field %q is %s, got %s", ErrKindMismatch, id, decl.Kind, v.kind)
	}
	if decl.Kind == model.FieldKindChoice && v.text != "" {
		if !slices.Contains(s.choices(decl), v.text) {
			return fmt.Errorf("%w: %q is not an option of %q", ErrUnknownChoice, v.text, id)
		}
	}
	s.values[id] = v
	return nil
}

// Get returns the current value of id, or the declared kind's empty default.
// Undeclared identifiers yield the zero Value.
func (s *Store) Get(id FieldID) Value {
	if v, ok := s.values[id]; ok {
		return v
	}
	if decl, ok := s.decls[id]; ok {
		return Empty(decl.Kind)
	}
	return Value{}
}

// Toggle flips a boolean field.
func (s *Store) Toggle(id FieldID) error {
	decl, ok := s.decls[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	if decl.Kind != model.FieldKindBool {
		return fmt.Errorf("%w: field %q is %s, not bool", ErrKindMismatch, id, decl.Kind)
	}
	return s.Set(id, Bool(!s.Get(id).Bool()))
}

// Choices returns the options a choice field accepts.
func (s *Store) Choices(id FieldID) []string {
	decl, ok := s.decls[id]
	if !ok || decl.Kind != model.FieldKindChoice {
		return nil
	}
	return s.choices(decl)
}

func (s *Store) choices(decl model.Field) []string {
	if len(decl.Choices) > 0 {
		return decl.Choices
	}
	if decl.ChoiceSource != "" && s.resolver != nil {
		return s.resolver(decl.ChoiceSource)
	}
	return nil
}

// Values exports every declared field, keyed by identifier, with its current
// value or empty default.
func (s *Store) Values() map[string]any {
	out := make(map[string]any, len(s.order))
	for _, id := range s.order {
		out[string(id)] = s.Get(id).Any()
	}
	return out
}

// Filled exports only non-empty values. Payloads are built from it.
func (s *Store) Filled() map[string]any {
	out := make(map[string]any)
	for _, id := range s.order {
		if v := s.Get(id); !v.IsEmpty() {
			out[string(id)] = v.Any()
		}
	}
	return out
}

// Nested exports non-empty values as nested maps, splitting dotted
// identifiers.
func (s *Store) Nested() map[string]any {
	out := make(map[string]any)
	for _, id := range s.order {
		v := s.Get(id)
		if v.IsEmpty() {
			continue
		}
		setPath(out, string(id), v.Any())
	}
	return out
}

// Snapshot returns a copy of the explicitly set values.
func (s *Store) Snapshot() map[FieldID]Value {
	out := make(map[FieldID]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Reset clears every value.
func (s *Store) Reset() {
	s.values = make(map[FieldID]Value, len(s.decls))
}

func setPath(root map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := current[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			current[segment] = child
		}
		current = child
	}
	current[segments[len(segments)-1]] = value
}
