package condition

// Evaluator decides whether a rule holds for the current form values. Rules
// drive conditional requirements and which sections of a step are revealed.
type Evaluator interface {
	Eval(rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values carries field values plus
// derived values (for example applicantMinor) keyed by identifier. Extras lets
// hosts inject context such as the channel or feature flags, addressed with
// the `extras.` prefix.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(rule string, ctx Context) (bool, error) {
	return fn(rule, ctx)
}
