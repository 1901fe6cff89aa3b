package validation

import "strings"

// Issue codes.
const (
	CodeRequired     = "required"
	CodeFormat       = "format"
	CodeCheck        = "check"
	CodeSlotRequired = "slotRequired"
	CodeInternal     = "internal"
)

// Issue is a single unmet condition.
type Issue struct {
	Step    int    `json:"step"`
	Target  string `json:"target,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the outcome of validating a step. Reason carries the first unmet
// condition; Issues lists every failure when aggregation is enabled and
// otherwise holds only the first one.
type Result struct {
	OK     bool    `json:"ok"`
	Reason string  `json:"reason,omitempty"`
	Code   string  `json:"code,omitempty"`
	Target string  `json:"target,omitempty"`
	Issues []Issue `json:"issues,omitempty"`
}

// Pass is the successful Result.
func Pass() Result { return Result{OK: true} }

func resultOf(issues []Issue) Result {
	if len(issues) == 0 {
		return Pass()
	}
	first := issues[0]
	return Result{
		OK:     false,
		Reason: first.Message,
		Code:   first.Code,
		Target: first.Target,
		Issues: issues,
	}
}

// Messages returns the issue messages joined for display.
func (r Result) Messages() string {
	if r.OK {
		return ""
	}
	msgs := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		msgs = append(msgs, issue.Message)
	}
	return strings.Join(msgs, "; ")
}
