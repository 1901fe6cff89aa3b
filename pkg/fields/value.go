package fields

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Value is a tagged field value. The zero Value has no kind and is only
// returned for undeclared fields.
type Value struct {
	kind model.FieldKind
	text string
	flag bool
}

// String builds a free-text value.
func String(s string) Value { return Value{kind: model.FieldKindString, text: s} }

// Bool builds a boolean value.
func Bool(b bool) Value { return Value{kind: model.FieldKindBool, flag: b} }

// Choice builds an enumerated value. Choice("") clears the selection.
func Choice(c string) Value { return Value{kind: model.FieldKindChoice, text: c} }

// Empty returns the empty default for kind.
func Empty(kind model.FieldKind) Value { return Value{kind: kind} }

// Kind reports the value kind.
func (v Value) Kind() model.FieldKind { return v.kind }

// Text returns the string or choice text; booleans render as "true"/"false".
func (v Value) Text() string {
	if v.kind == model.FieldKindBool {
		return strconv.FormatBool(v.flag)
	}
	return v.text
}

// Bool returns the boolean payload; non-boolean values report false.
func (v Value) Bool() bool { return v.kind == model.FieldKindBool && v.flag }

// IsEmpty reports whether the value equals its kind's empty default.
func (v Value) IsEmpty() bool {
	if v.kind == model.FieldKindBool {
		return !v.flag
	}
	return strings.TrimSpace(v.text) == ""
}

// Any exposes the value to rule evaluation and payload encoding. Text is
// trimmed, which is the form the step validator checks.
func (v Value) Any() any {
	if v.kind == model.FieldKindBool {
		return v.flag
	}
	return strings.TrimSpace(v.text)
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%s)", v.kind, v.Text())
}

// Parse converts raw host input into a Value of the field's kind. Text is
// trimmed; booleans accept true/false, yes/no and on/off.
func Parse(field model.Field, raw string) (Value, error) {
	switch field.Kind {
	case model.FieldKindBool:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "", "false", "no", "n", "off", "0":
			return Bool(false), nil
		case "true", "yes", "y", "on", "1":
			return Bool(true), nil
		}
		return Value{}, fmt.Errorf("%w: %q is not a boolean", ErrKindMismatch, raw)
	case model.FieldKindChoice:
		return Choice(strings.TrimSpace(raw)), nil
	default:
		return String(strings.TrimSpace(raw)), nil
	}
}
