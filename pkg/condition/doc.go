// Package condition defines the evaluator contract used by conditional
// requirements and section reveals. Form definitions carry rules such as
// `applicantMinor` or `registrationType == "Late"`; the expr subpackage ships
// the default evaluator.
package condition
