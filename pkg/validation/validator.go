package validation

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/requirements"
)

// Option configures a Validator.
type Option func(*Validator)

// WithRegistry supplies the named domain checks referenced by steps.
func WithRegistry(registry *Registry) Option {
	return func(v *Validator) {
		v.registry = registry
	}
}

// WithAggregate collects every failure of a step instead of stopping at the
// first one. Result.Reason still reports the first failure.
func WithAggregate() Option {
	return func(v *Validator) {
		v.aggregate = true
	}
}

// WithLogger attaches a logger for definition errors found while validating.
func WithLogger(logger zerolog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// Validator checks one step of a form against the field and slot stores.
// It never mutates either store.
type Validator struct {
	def       model.Definition
	engine    *requirements.Engine
	registry  *Registry
	aggregate bool
	logger    zerolog.Logger
}

// New creates a Validator. The engine supplies conditional requirements and
// the clock used for date rules.
func New(def model.Definition, engine *requirements.Engine, opts ...Option) *Validator {
	v := &Validator{
		def:      def,
		engine:   engine,
		registry: NewRegistry(),
		logger:   zerolog.Nop(),
	}
	if v.engine == nil {
		v.engine = requirements.New(def)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// ValidateStep runs, in order: presence of required visible fields, format
// rules of filled fields, the step's domain checks, and required slots.
// Unless aggregation is enabled the first unmet condition wins.
func (v *Validator) ValidateStep(step int, fs *fields.Store, ds *documents.Store) Result {
	s, ok := v.def.Step(step)
	if !ok {
		return resultOf([]Issue{{Step: step, Code: CodeInternal, Message: fmt.Sprintf("step %d does not exist", step)}})
	}

	c := &collector{step: step, aggregate: v.aggregate}
	values := fs.Values()

	requiredFields, err := v.engine.RequiredFields(values)
	if err != nil {
		return v.internal(step, err)
	}
	requiredSlots, err := v.engine.RequiredSlots(values)
	if err != nil {
		return v.internal(step, err)
	}
	vis, err := v.engine.Visible(values)
	if err != nil {
		return v.internal(step, err)
	}

	for _, id := range s.Fields {
		if c.done() {
			break
		}
		if !requiredFields.Has(id) || !vis.Fields.Has(id) {
			continue
		}
		if fs.Get(fields.FieldID(id)).IsEmpty() {
			c.add(id, CodeRequired, v.requiredMessage(values, id))
		}
	}

	today := v.engine.Today()
	for _, id := range s.Fields {
		if c.done() {
			break
		}
		if !vis.Fields.Has(id) {
			continue
		}
		value := fs.Get(fields.FieldID(id))
		if value.IsEmpty() || value.Kind() == model.FieldKindBool {
			continue
		}
		decl, _ := v.def.Field(id)
		for _, rule := range decl.Rules {
			msg, err := applyRule(rule, value.Text(), today)
			if err != nil {
				return v.internal(step, fmt.Errorf("field %q: %w", id, err))
			}
			if msg == "" {
				continue
			}
			if rule.Message != "" {
				msg = rule.Message
			}
			c.add(id, CodeFormat, decl.Label+" "+msg)
			break
		}
	}

	if !c.done() && len(s.Checks) > 0 {
		ctx := v.engine.Context(values)
		for _, name := range s.Checks {
			if c.done() {
				break
			}
			check, ok := v.registry.Lookup(name)
			if !ok {
				return v.internal(step, fmt.Errorf("unknown check %q", name))
			}
			if err := check(ctx.Values); err != nil {
				c.add(name, CodeCheck, err.Error())
			}
		}
	}

	for _, id := range s.Slots {
		if c.done() {
			break
		}
		if !requiredSlots.Has(id) || !vis.Slots.Has(id) {
			continue
		}
		if !ds.IsFilled(documents.SlotID(id)) {
			c.add(id, CodeSlotRequired, v.slotMessage(values, id))
		}
	}

	return resultOf(c.issues)
}

// ValidateThrough validates steps 1..last and returns the first failing
// result. Submission uses it so an edited earlier step cannot slip through.
func (v *Validator) ValidateThrough(last int, fs *fields.Store, ds *documents.Store) (int, Result) {
	for step := 1; step <= last && step <= v.def.TotalSteps(); step++ {
		if res := v.ValidateStep(step, fs, ds); !res.OK {
			return step, res
		}
	}
	return 0, Pass()
}

func (v *Validator) requiredMessage(values map[string]any, id string) string {
	if reason := v.engine.ReasonFor(values, id); reason != "" {
		return reason
	}
	decl, _ := v.def.Field(id)
	if decl.Kind == model.FieldKindBool {
		return "Please confirm: " + decl.Label
	}
	return decl.Label + " is required"
}

func (v *Validator) slotMessage(values map[string]any, id string) string {
	if reason := v.engine.ReasonFor(values, id); reason != "" {
		return reason
	}
	decl, _ := v.def.Slot(id)
	return "Please upload " + decl.Label
}

func (v *Validator) internal(step int, err error) Result {
	v.logger.Error().Err(err).Str("form", v.def.ID).Int("step", step).Msg("step validation failed")
	return resultOf([]Issue{{Step: step, Code: CodeInternal, Message: "This form cannot be validated right now"}})
}

type collector struct {
	step      int
	aggregate bool
	issues    []Issue
}

func (c *collector) add(target, code, message string) {
	c.issues = append(c.issues, Issue{Step: c.step, Target: target, Code: code, Message: message})
}

func (c *collector) done() bool {
	return !c.aggregate && len(c.issues) > 0
}
