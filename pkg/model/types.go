package model

import internalmodel "github.com/goliatone/go-formwizard/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindString = internalmodel.FieldKindString
	FieldKindBool   = internalmodel.FieldKindBool
	FieldKindChoice = internalmodel.FieldKindChoice
)

const (
	RuleRequired  = internalmodel.RuleRequired
	RuleDigits    = internalmodel.RuleDigits
	RulePattern   = internalmodel.RulePattern
	RulePAN       = internalmodel.RulePAN
	RuleDate      = internalmodel.RuleDate
	RuleTime      = internalmodel.RuleTime
	RuleNotFuture = internalmodel.RuleNotFuture
	RuleMinLength = internalmodel.RuleMinLength
	RuleMaxLength = internalmodel.RuleMaxLength
	RuleNumber    = internalmodel.RuleNumber
	RuleLessThan  = internalmodel.RuleLessThan
)

const (
	DerivedMinor = internalmodel.DerivedMinor
	DerivedAge   = internalmodel.DerivedAge
)

type (
	Rule        = internalmodel.Rule
	Field       = internalmodel.Field
	Slot        = internalmodel.Slot
	Step        = internalmodel.Step
	Requirement = internalmodel.Requirement
	Derived     = internalmodel.Derived
	Definition  = internalmodel.Definition
)

// ErrInvalidDefinition matches every error produced by a Builder.
var ErrInvalidDefinition = internalmodel.ErrInvalidDefinition

// Formats lists the named field formats (aadhaar, mobile, pan, ...).
func Formats() []string { return internalmodel.Formats() }
