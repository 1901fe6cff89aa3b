// Package model defines the form definition types shared by the wizard,
// validators and hosts. A Definition lists ordered steps, typed field
// declarations (string, bool, choice) with format rules, document slots with
// size ceilings, conditional requirements and derived values. Builders live
// in internal/model; this package re-exports their types and wires rule
// compilation so malformed conditions fail at load time.
package model
