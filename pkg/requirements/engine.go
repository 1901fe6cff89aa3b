package requirements

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formwizard/pkg/condition"
	"github.com/goliatone/go-formwizard/pkg/condition/expr"
	"github.com/goliatone/go-formwizard/pkg/model"
)

// Clock returns the current time. Tests pin it to exercise birthday
// boundaries.
type Clock func() time.Time

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithEvaluator replaces the default expr evaluator.
func WithEvaluator(evaluator condition.Evaluator) Option {
	return func(e *Engine) {
		if evaluator != nil {
			e.evaluator = evaluator
		}
	}
}

// WithExtras sets host context available to rules as extras.*.
func WithExtras(extras map[string]any) Option {
	return func(e *Engine) {
		e.extras = extras
	}
}

// WithLogger attaches a logger used for rule evaluation errors.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine computes which fields and slots are required for the current field
// values. It holds no result state: every call evaluates the rules afresh.
type Engine struct {
	def       model.Definition
	evaluator condition.Evaluator
	clock     Clock
	extras    map[string]any
	logger    zerolog.Logger
}

// New creates an Engine for def.
func New(def model.Definition, opts ...Option) *Engine {
	e := &Engine{
		def:       def,
		evaluator: expr.New(),
		clock:     time.Now,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Today returns the engine clock's calendar date.
func (e *Engine) Today() Date {
	return DateOf(e.clock())
}

// Context returns the evaluation context for values: the field values plus
// derived values such as applicantMinor.
func (e *Engine) Context(values map[string]any) condition.Context {
	merged := make(map[string]any, len(values)+len(e.def.Derived))
	for k, v := range values {
		merged[k] = v
	}
	today := e.Today()
	for _, d := range e.def.Derived {
		merged[d.Name] = derive(d, values[d.From], today)
	}
	return condition.Context{Values: merged, Extras: e.extras}
}

func derive(d model.Derived, source any, today Date) any {
	raw, _ := source.(string)
	birth, err := ParseDate(raw)
	switch d.Kind {
	case model.DerivedMinor:
		// An unparsable date is reported by the date format rule instead.
		return err == nil && IsMinor(birth, today)
	case model.DerivedAge:
		if err != nil {
			return nil
		}
		return AgeOn(birth, today)
	default:
		return nil
	}
}

// Set is an ordered set of identifiers.
type Set struct {
	order []string
	index map[string]bool
}

func newSet() *Set { return &Set{index: map[string]bool{}} }

func (s *Set) add(ids ...string) {
	for _, id := range ids {
		if !s.index[id] {
			s.index[id] = true
			s.order = append(s.order, id)
		}
	}
}

// Has reports membership.
func (s *Set) Has(id string) bool { return s != nil && s.index[id] }

// List returns members in insertion order.
func (s *Set) List() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Len returns the number of members.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// RequiredFields returns statically required fields followed by fields added
// by requirements whose condition holds.
func (e *Engine) RequiredFields(values map[string]any) (*Set, error) {
	set := newSet()
	for _, f := range e.def.Fields {
		if f.Required {
			set.add(f.ID)
		}
	}
	active, err := e.Active(values)
	if err != nil {
		return nil, err
	}
	for _, r := range active {
		set.add(r.Fields...)
	}
	return set, nil
}

// RequiredSlots mirrors RequiredFields for document slots.
func (e *Engine) RequiredSlots(values map[string]any) (*Set, error) {
	set := newSet()
	for _, s := range e.def.Slots {
		if s.Required {
			set.add(s.ID)
		}
	}
	active, err := e.Active(values)
	if err != nil {
		return nil, err
	}
	for _, r := range active {
		set.add(r.Slots...)
	}
	return set, nil
}

// Active returns the requirements whose condition holds for values.
func (e *Engine) Active(values map[string]any) ([]model.Requirement, error) {
	ctx := e.Context(values)
	var out []model.Requirement
	for _, r := range e.def.Requirements {
		ok, err := e.evaluator.Eval(r.When, ctx)
		if err != nil {
			e.logger.Error().Err(err).Str("form", e.def.ID).Str("rule", r.When).Msg("requirement rule failed")
			return nil, fmt.Errorf("requirements: rule %q: %w", r.When, err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// ReasonFor returns the reason of the first active requirement that adds id
// (a field or slot identifier), or "".
func (e *Engine) ReasonFor(values map[string]any, id string) string {
	active, err := e.Active(values)
	if err != nil {
		return ""
	}
	for _, r := range active {
		for _, f := range r.Fields {
			if f == id {
				return r.Reason
			}
		}
		for _, s := range r.Slots {
			if s == id {
				return r.Reason
			}
		}
	}
	return ""
}

// Visibility reports which fields and slots are revealed. Items without a
// visibleWhen rule are always visible; required items are visible even when
// their own rule does not hold.
type Visibility struct {
	Fields *Set
	Slots  *Set
}

// Visible evaluates the reveal rules for values.
func (e *Engine) Visible(values map[string]any) (Visibility, error) {
	ctx := e.Context(values)
	requiredFields, err := e.RequiredFields(values)
	if err != nil {
		return Visibility{}, err
	}
	requiredSlots, err := e.RequiredSlots(values)
	if err != nil {
		return Visibility{}, err
	}

	vis := Visibility{Fields: newSet(), Slots: newSet()}
	for _, f := range e.def.Fields {
		ok, err := e.evaluator.Eval(f.VisibleWhen, ctx)
		if err != nil {
			return Visibility{}, fmt.Errorf("requirements: field %q visibleWhen: %w", f.ID, err)
		}
		if ok || requiredFields.Has(f.ID) {
			vis.Fields.add(f.ID)
		}
	}
	for _, s := range e.def.Slots {
		ok, err := e.evaluator.Eval(s.VisibleWhen, ctx)
		if err != nil {
			return Visibility{}, fmt.Errorf("requirements: slot %q visibleWhen: %w", s.ID, err)
		}
		if ok || requiredSlots.Has(s.ID) {
			vis.Slots.add(s.ID)
		}
	}
	return vis, nil
}
