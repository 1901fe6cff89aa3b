package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	identPattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	fieldPattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)*$`)
	formIDPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	prefixPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)
)

// Builder normalizes decoded form documents into Definitions and rejects
// documents whose steps, rules or identifiers do not line up.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.Compile != nil {
		opts.Compile = options.Compile
	}
	if options.DefaultMaxUploadMB > 0 {
		opts.DefaultMaxUploadMB = options.DefaultMaxUploadMB
	}
	return &Builder{opts: opts}
}

// Build returns a normalized copy of doc. Every problem found is reported;
// the returned error joins them and each one matches ErrInvalidDefinition.
func (b *Builder) Build(doc Definition) (Definition, error) {
	p := &problems{form: doc.ID}

	def := Definition{
		ID:          strings.TrimSpace(doc.ID),
		Title:       strings.TrimSpace(doc.Title),
		Description: strings.TrimSpace(doc.Description),
		Prefix:      strings.TrimSpace(doc.Prefix),
		Editable:    doc.Editable,
		MaxUploadMB: doc.MaxUploadMB,
		Source:      doc.Source,
	}

	switch {
	case def.ID == "":
		p.add("", errIDMissing)
	case !formIDPattern.MatchString(def.ID):
		p.addf("", "form id %q must be lowercase kebab-case", def.ID)
	}
	switch {
	case def.Prefix == "":
		p.add("", errPrefixMissing)
	case !prefixPattern.MatchString(def.Prefix):
		p.addf("", "prefix %q must be uppercase alphanumeric", def.Prefix)
	}
	if def.Title == "" {
		def.Title = b.opts.Labeler(def.ID)
	}
	if def.MaxUploadMB <= 0 {
		def.MaxUploadMB = b.opts.DefaultMaxUploadMB
	}

	def.Steps = b.buildSteps(doc.Steps, p)
	def.Fields = b.buildFields(doc.Fields, def.Steps, p)
	def.Slots = b.buildSlots(doc.Slots, def.Steps, def.MaxUploadMB, p)

	known := map[string]bool{}
	for _, f := range def.Fields {
		known[f.ID] = true
	}
	def.Derived = b.buildDerived(doc.Derived, def.Fields, known, p)
	for _, d := range def.Derived {
		known[d.Name] = true
	}

	for _, f := range def.Fields {
		b.checkRule("field "+f.ID+" visibleWhen", f.VisibleWhen, known, p)
	}
	for _, s := range def.Slots {
		b.checkRule("slot "+s.ID+" visibleWhen", s.VisibleWhen, known, p)
	}
	def.Requirements = b.buildRequirements(doc.Requirements, def, known, p)

	if err := p.err(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func (b *Builder) buildSteps(in []Step, p *problems) []Step {
	if len(in) == 0 {
		p.add("", errNoSteps)
		return nil
	}
	seen := map[string]bool{}
	steps := make([]Step, len(in))
	for i, s := range in {
		s.Index = i + 1
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			s.ID = fmt.Sprintf("step%d", s.Index)
		}
		if seen[s.ID] {
			p.addf("step "+s.ID, "duplicate step id")
		}
		seen[s.ID] = true
		if s.Title == "" {
			s.Title = b.opts.Labeler(s.ID)
		}
		s.Checks = append([]string(nil), s.Checks...)
		s.Fields = nil
		s.Slots = nil
		steps[i] = s
	}
	return steps
}

func (b *Builder) buildFields(in []Field, steps []Step, p *problems) []Field {
	seen := map[string]bool{}
	fields := make([]Field, 0, len(in))
	for _, f := range in {
		f.ID = strings.TrimSpace(f.ID)
		where := "field " + f.ID
		if !fieldPattern.MatchString(f.ID) {
			p.addf(where, "invalid field id")
			continue
		}
		if seen[f.ID] {
			p.addf(where, "duplicate field id")
			continue
		}
		seen[f.ID] = true

		if f.Kind == "" {
			f.Kind = FieldKindString
			if len(f.Choices) > 0 || f.ChoiceSource != "" {
				f.Kind = FieldKindChoice
			}
		}
		switch f.Kind {
		case FieldKindString, FieldKindBool:
		case FieldKindChoice:
			if len(f.Choices) == 0 && f.ChoiceSource == "" {
				p.addf(where, "choice field needs choices or choiceSource")
			}
		default:
			p.addf(where, "unknown kind %q", f.Kind)
		}
		if f.Label == "" {
			f.Label = b.opts.Labeler(f.ID)
		}
		if f.Step < 1 || f.Step > len(steps) {
			p.addf(where, "step %d out of range 1..%d", f.Step, len(steps))
		} else {
			steps[f.Step-1].Fields = append(steps[f.Step-1].Fields, f.ID)
		}

		var rules []Rule
		if f.Format != "" {
			expanded, err := expandFormat(f.Format)
			if err != nil {
				p.add(where, err)
			}
			rules = append(rules, expanded...)
		}
		for _, r := range f.Rules {
			if !ruleKinds[r.Kind] {
				p.addf(where, "unknown rule kind %q", r.Kind)
				continue
			}
			if r.Kind == RulePattern {
				if _, err := regexp.Compile(r.Params["pattern"]); err != nil {
					p.addf(where, "invalid pattern: %v", err)
					continue
				}
			}
			rules = append(rules, Rule{Kind: r.Kind, Params: cloneParams(r.Params), Message: r.Message})
		}
		f.Rules = rules
		f.Choices = append([]string(nil), f.Choices...)
		fields = append(fields, f)
	}
	return fields
}

func (b *Builder) buildSlots(in []Slot, steps []Step, maxMB float64, p *problems) []Slot {
	seen := map[string]bool{}
	slots := make([]Slot, 0, len(in))
	for _, s := range in {
		s.ID = strings.TrimSpace(s.ID)
		where := "slot " + s.ID
		if !identPattern.MatchString(s.ID) {
			p.addf(where, "invalid slot id")
			continue
		}
		if seen[s.ID] {
			p.addf(where, "duplicate slot id")
			continue
		}
		seen[s.ID] = true

		if s.Label == "" {
			s.Label = b.opts.Labeler(s.ID)
		}
		if s.MaxMB <= 0 {
			s.MaxMB = maxMB
		}
		s.MaxBytes = int64(s.MaxMB * bytesPerMB)
		if len(s.Accept) == 0 {
			s.Accept = append([]string(nil), defaultAccept...)
		}
		if s.Step < 1 || s.Step > len(steps) {
			p.addf(where, "step %d out of range 1..%d", s.Step, len(steps))
		} else {
			steps[s.Step-1].Slots = append(steps[s.Step-1].Slots, s.ID)
		}
		slots = append(slots, s)
	}
	return slots
}

func (b *Builder) buildDerived(in []Derived, fields []Field, known map[string]bool, p *problems) []Derived {
	byID := map[string]Field{}
	for _, f := range fields {
		byID[f.ID] = f
	}
	out := make([]Derived, 0, len(in))
	for _, d := range in {
		where := "derived " + d.Name
		if !identPattern.MatchString(d.Name) {
			p.addf(where, "invalid derived name")
			continue
		}
		if known[d.Name] {
			p.addf(where, "name collides with a field or derived value")
			continue
		}
		switch d.Kind {
		case DerivedMinor, DerivedAge:
		default:
			p.addf(where, "unknown kind %q", d.Kind)
			continue
		}
		if f, ok := byID[d.From]; !ok || f.Kind != FieldKindString {
			p.addf(where, "source %q must be a declared string field", d.From)
			continue
		}
		known[d.Name] = true
		out = append(out, d)
	}
	return out
}

func (b *Builder) buildRequirements(in []Requirement, def Definition, known map[string]bool, p *problems) []Requirement {
	out := make([]Requirement, 0, len(in))
	for i, r := range in {
		where := fmt.Sprintf("requirement %d", i+1)
		if strings.TrimSpace(r.When) == "" {
			p.addf(where, "when is required")
			continue
		}
		b.checkRule(where, r.When, known, p)
		for _, id := range r.Fields {
			if _, ok := def.Field(id); !ok {
				p.addf(where, "unknown field %q", id)
			}
		}
		for _, id := range r.Slots {
			if _, ok := def.Slot(id); !ok {
				p.addf(where, "unknown slot %q", id)
			}
		}
		if len(r.Fields) == 0 && len(r.Slots) == 0 {
			p.addf(where, "requirement adds nothing")
		}
		out = append(out, Requirement{
			When:   strings.TrimSpace(r.When),
			Fields: append([]string(nil), r.Fields...),
			Slots:  append([]string(nil), r.Slots...),
			Reason: r.Reason,
		})
	}
	return out
}

func (b *Builder) checkRule(where, rule string, known map[string]bool, p *problems) {
	if strings.TrimSpace(rule) == "" || b.opts.Compile == nil {
		return
	}
	idents, err := b.opts.Compile(rule)
	if err != nil {
		p.add(where, err)
		return
	}
	for _, ident := range idents {
		if strings.HasPrefix(strings.ToLower(ident), "extras.") {
			continue
		}
		if !known[ident] {
			p.addf(where, "rule references unknown identifier %q", ident)
		}
	}
}

type problems struct {
	form string
	list []error
}

func (p *problems) add(where string, err error) {
	prefix := "form " + p.form
	if where != "" {
		prefix += ": " + where
	}
	p.list = append(p.list, fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, prefix, err))
}

func (p *problems) addf(where, format string, args ...any) {
	p.add(where, fmt.Errorf(format, args...))
}

func (p *problems) err() error {
	return errors.Join(p.list...)
}
