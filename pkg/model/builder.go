package model

import (
	"github.com/goliatone/go-formwizard/internal/model"
	"github.com/goliatone/go-formwizard/pkg/condition/expr"
)

// Builder normalizes decoded form documents.
type Builder interface {
	Build(doc Definition) (Definition, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler     func(string) string
	maxUploadMB float64
	skipRules   bool
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithDefaultMaxUploadMB sets the slot ceiling used when neither the slot nor
// the form declares one.
func WithDefaultMaxUploadMB(mb float64) BuilderOption {
	return func(opts *builderOptions) {
		opts.maxUploadMB = mb
	}
}

// WithoutRuleChecks skips rule compilation, for tools that inspect partial
// documents.
func WithoutRuleChecks() BuilderOption {
	return func(opts *builderOptions) {
		opts.skipRules = true
	}
}

// NewBuilder returns a Builder backed by the internal implementation. Rules
// are compiled with the expr evaluator unless WithoutRuleChecks is given.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	internalOpts := model.Options{
		Labeler:            cfg.labeler,
		DefaultMaxUploadMB: cfg.maxUploadMB,
	}
	if !cfg.skipRules {
		internalOpts.Compile = compileRule
	}
	return model.New(internalOpts)
}

func compileRule(rule string) ([]string, error) {
	program, err := expr.Compile(rule)
	if err != nil {
		return nil, err
	}
	return program.Identifiers(), nil
}
