// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package migerr implements the structured error kinds surfaced by the
// core migration-simulation packages.
package migerr

import "fmt"

// Kind identifies the family of a failure reported by the core.
type Kind int

// Error kinds.
const (
	// InvalidInput marks a non-positive thickness/D/k, an empty
	// multilayer, or a non-finite input value.
	InvalidInput Kind = iota
	// IncompatibleComposition marks an attempt to concatenate or chain
	// Results with mismatched mesh geometry or species.
	IncompatibleComposition
	// IntegrationFailure marks a solver that could not meet tolerance.
	IntegrationFailure
	// Cancelled marks a step-count budget or deadline exceeded.
	Cancelled
	// MassBalanceViolation marks an end-of-run mass-balance check that
	// exceeded tolerance.
	MassBalanceViolation
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case IncompatibleComposition:
		return "IncompatibleComposition"
	case IntegrationFailure:
		return "IntegrationFailure"
	case Cancelled:
		return "Cancelled"
	case MassBalanceViolation:
		return "MassBalanceViolation"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every core package. The
// Kind selects which of the kind-specific fields below are meaningful.
type Error struct {
	Kind Kind
	Msg  string

	// IntegrationFailure
	LastConvergedTime float64
	Residual          float64

	// Cancelled
	StepsTaken int

	// MassBalanceViolation
	RelativeError float64

	// IncompatibleComposition / chained runs
	FailingStep int
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is supports errors.Is comparisons against a bare Kind wrapped in an
// *Error with no other fields set, e.g. errors.Is(err, migerr.New(Cancelled, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds a plain *Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Invalid is a convenience constructor for InvalidInput errors.
func Invalid(format string, args ...interface{}) *Error {
	return New(InvalidInput, format, args...)
}

// Incompatible is a convenience constructor for IncompatibleComposition errors.
func Incompatible(format string, args ...interface{}) *Error {
	return New(IncompatibleComposition, format, args...)
}

// IntegrationFailed builds an IntegrationFailure error carrying the last
// converged time and the residual observed at failure.
func IntegrationFailed(lastT, residual float64, format string, args ...interface{}) *Error {
	e := New(IntegrationFailure, format, args...)
	e.LastConvergedTime = lastT
	e.Residual = residual
	return e
}

// CancelledAt builds a Cancelled error carrying the number of macro-steps
// completed before cancellation.
func CancelledAt(steps int, format string, args ...interface{}) *Error {
	e := New(Cancelled, format, args...)
	e.StepsTaken = steps
	return e
}

// MassBalanceFailed builds a MassBalanceViolation error carrying the
// observed relative error.
func MassBalanceFailed(relErr float64, format string, args ...interface{}) *Error {
	e := New(MassBalanceViolation, format, args...)
	e.RelativeError = relErr
	return e
}

// WithStep annotates an error with the failing step index of a chained run.
func WithStep(err error, step int) error {
	if e, ok := err.(*Error); ok {
		e.FailingStep = step
		return e
	}
	e := New(IntegrationFailure, "step %d: %v", step, err)
	e.FailingStep = step
	return e
}
