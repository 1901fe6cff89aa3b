package model

// FieldKind is the value kind a field stores.
type FieldKind string

const (
	FieldKindString FieldKind = "string"
	FieldKindBool   FieldKind = "bool"
	FieldKindChoice FieldKind = "choice"
)

const (
	RuleRequired  = "required"
	RuleDigits    = "digits"
	RulePattern   = "pattern"
	RulePAN       = "pan"
	RuleDate      = "date"
	RuleTime      = "time"
	RuleNotFuture = "notFuture"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleNumber    = "number"
	RuleLessThan  = "lessThan"
)

// Rule is a single format constraint applied to a non-empty field value.
// Parameters are strings so definitions stay stable in YAML and JSON:
// digits and length rules read Params["length"] or Params["value"], pattern
// rules read Params["pattern"], lessThan reads Params["value"].
type Rule struct {
	Kind    string            `yaml:"kind" json:"kind"`
	Params  map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	Message string            `yaml:"message,omitempty" json:"message,omitempty"`
}

// Field declares one named input of a form.
type Field struct {
	ID           string    `yaml:"id" json:"id"`
	Label        string    `yaml:"label,omitempty" json:"label,omitempty"`
	Kind         FieldKind `yaml:"kind,omitempty" json:"kind"`
	Step         int       `yaml:"step" json:"step"`
	Required     bool      `yaml:"required,omitempty" json:"required,omitempty"`
	Format       string    `yaml:"format,omitempty" json:"format,omitempty"`
	Choices      []string  `yaml:"choices,omitempty" json:"choices,omitempty"`
	ChoiceSource string    `yaml:"choiceSource,omitempty" json:"choiceSource,omitempty"`
	Placeholder  string    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Help         string    `yaml:"help,omitempty" json:"help,omitempty"`
	VisibleWhen  string    `yaml:"visibleWhen,omitempty" json:"visibleWhen,omitempty"`
	Rules        []Rule    `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// Slot declares a named document placeholder.
type Slot struct {
	ID           string   `yaml:"id" json:"id"`
	Label        string   `yaml:"label,omitempty" json:"label,omitempty"`
	Step         int      `yaml:"step" json:"step"`
	Required     bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Multiple     bool     `yaml:"multiple,omitempty" json:"multiple,omitempty"`
	MaxMB        float64  `yaml:"maxMB,omitempty" json:"-"`
	MaxBytes     int64    `yaml:"-" json:"maxBytes"`
	Accept       []string `yaml:"accept,omitempty" json:"accept,omitempty"`
	MediaLibrary bool     `yaml:"mediaLibrary,omitempty" json:"mediaLibrary,omitempty"`
	VisibleWhen  string   `yaml:"visibleWhen,omitempty" json:"visibleWhen,omitempty"`
}

// Step groups fields and slots that are validated together. Index is 1-based
// and assigned by the builder; Fields and Slots keep declaration order.
type Step struct {
	Index  int      `yaml:"-" json:"index"`
	ID     string   `yaml:"id" json:"id"`
	Title  string   `yaml:"title,omitempty" json:"title,omitempty"`
	Review bool     `yaml:"review,omitempty" json:"review,omitempty"`
	Checks []string `yaml:"checks,omitempty" json:"checks,omitempty"`
	Fields []string `yaml:"-" json:"fields"`
	Slots  []string `yaml:"-" json:"slots"`
}

// Requirement adds required fields and slots while When holds.
type Requirement struct {
	When   string   `yaml:"when" json:"when"`
	Fields []string `yaml:"fields,omitempty" json:"fields,omitempty"`
	Slots  []string `yaml:"slots,omitempty" json:"slots,omitempty"`
	Reason string   `yaml:"reason,omitempty" json:"reason,omitempty"`
}

const (
	DerivedMinor = "minor"
	DerivedAge   = "age"
)

// Derived names a value computed from a field before rules are evaluated,
// such as applicantMinor from dateOfBirth.
type Derived struct {
	Name string `yaml:"name" json:"name"`
	Kind string `yaml:"kind" json:"kind"`
	From string `yaml:"from" json:"from"`
}

// Definition is the normalized description of one application form.
type Definition struct {
	ID           string        `yaml:"id" json:"id"`
	Title        string        `yaml:"title" json:"title"`
	Description  string        `yaml:"description,omitempty" json:"description,omitempty"`
	Prefix       string        `yaml:"prefix" json:"prefix"`
	Editable     bool          `yaml:"editable,omitempty" json:"editable,omitempty"`
	MaxUploadMB  float64       `yaml:"maxUploadMB,omitempty" json:"-"`
	Steps        []Step        `yaml:"steps" json:"steps"`
	Fields       []Field       `yaml:"fields" json:"fields"`
	Slots        []Slot        `yaml:"slots,omitempty" json:"slots,omitempty"`
	Requirements []Requirement `yaml:"requirements,omitempty" json:"requirements,omitempty"`
	Derived      []Derived     `yaml:"derived,omitempty" json:"derived,omitempty"`
	Source       string        `yaml:"-" json:"-"`
}

// TotalSteps returns the number of steps.
func (d Definition) TotalSteps() int { return len(d.Steps) }

// Step returns the 1-based step.
func (d Definition) Step(index int) (Step, bool) {
	if index < 1 || index > len(d.Steps) {
		return Step{}, false
	}
	return d.Steps[index-1], true
}

// Field looks up a field declaration by id.
func (d Definition) Field(id string) (Field, bool) {
	for _, f := range d.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// Slot looks up a slot declaration by id.
func (d Definition) Slot(id string) (Slot, bool) {
	for _, s := range d.Slots {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}

// ReviewStep returns the index of the review step, or the last step when no
// step is flagged as review.
func (d Definition) ReviewStep() int {
	for _, s := range d.Steps {
		if s.Review {
			return s.Index
		}
	}
	return len(d.Steps)
}
