// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solve implements the ODE integrator driver (component C3): it
// advances the semi-discrete system assembled by package op in time
// using a stiff implicit solver and emits dense snapshots on a
// caller-supplied time grid.
package solve

import (
	"math"

	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/ode"

	"github.com/cpmech/packmig/migerr"
	"github.com/cpmech/packmig/op"
	"github.com/cpmech/packmig/snap"
)

// DefaultAtol and DefaultRtol are the tolerances used when Options leaves
// Atol/Rtol at their zero value.
const (
	DefaultAtol = 1e-8
	DefaultRtol = 1e-6
)

// Options configures one call to Integrate.
type Options struct {
	TimeGrid []float64 // strictly increasing, TimeGrid[0] is the initial time
	Atol     float64   // defaults to DefaultAtol when zero
	Rtol     float64   // defaults to DefaultRtol when zero
	MaxSteps int       // 0 means unlimited macro-steps (one per TimeGrid interval)
	Deadline func() bool
}

func (o Options) atol() float64 {
	if o.Atol > 0 {
		return o.Atol
	}
	return DefaultAtol
}

func (o Options) rtol() float64 {
	if o.Rtol > 0 {
		return o.Rtol
	}
	return DefaultRtol
}

// Integrate advances the coupled wall/medium system from (c0, cf0) across
// opts.TimeGrid, returning one Snapshot per grid point (including the
// initial one). It returns a *migerr.Error of kind IntegrationFailure if
// the solver cannot meet tolerance, or Cancelled if opts.MaxSteps or
// opts.Deadline is exceeded first.
func Integrate(operator *op.Operator, c0 []float64, cf0 float64, opts Options) (snap.Series, error) {
	n := operator.N()
	if len(c0) != n {
		return nil, migerr.Invalid("solve.Integrate: expected %d cell values, got %d", n, len(c0))
	}
	if len(opts.TimeGrid) < 2 {
		return nil, migerr.Invalid("solve.Integrate: time grid must have at least two points")
	}
	for i := 1; i < len(opts.TimeGrid); i++ {
		if opts.TimeGrid[i] <= opts.TimeGrid[i-1] {
			return nil, migerr.Invalid("solve.Integrate: time grid must be strictly increasing at index %d", i)
		}
	}

	// The system is autonomous (RHS/Jacobian do not depend explicitly on
	// time), so the solver can be driven in dimensionless time t' = t/tau
	// with tau = L^2/D_ref the characteristic diffusion time: scale the
	// evaluated derivative (and Jacobian, by the same chain-rule factor)
	// by tau and step the solver over the rescaled interval.
	tau := characteristicTime(operator)

	neq := operator.NEq()
	fcn := func(f []float64, dx, x float64, y []float64, args ...interface{}) error {
		operator.RHS(f, y)
		for i := range f {
			f[i] *= tau
		}
		return nil
	}
	jac := func(dfdy *la.Triplet, dx, x float64, y []float64, args ...interface{}) error {
		operator.Jacobian(dfdy, y, tau)
		return nil
	}

	var sol ode.Solver
	sol.Init("Radau5", neq, fcn, jac, nil, nil, true)
	sol.SetTol(opts.atol(), opts.rtol())
	sol.Distr = false // avoid MPI-distributed assumptions in single-process runs

	y := make([]float64, neq)
	copy(y, c0)
	y[n] = cf0

	out := make(snap.Series, 0, len(opts.TimeGrid))
	out = append(out, snap.Snapshot{T: opts.TimeGrid[0], C: append([]float64{}, c0...), CF: cf0})

	steps := 0
	for i := 1; i < len(opts.TimeGrid); i++ {
		if opts.Deadline != nil && opts.Deadline() {
			return nil, migerr.CancelledAt(steps, "deadline exceeded before reaching t=%v", opts.TimeGrid[i])
		}
		if opts.MaxSteps > 0 && steps >= opts.MaxSteps {
			return nil, migerr.CancelledAt(steps, "step budget of %d macro-steps exhausted before reaching t=%v", opts.MaxSteps, opts.TimeGrid[i])
		}

		t0, t1 := opts.TimeGrid[i-1], opts.TimeGrid[i]
		t0p, t1p := t0/tau, t1/tau
		if err := sol.Solve(y, t0p, t1p, t1p-t0p, false); err != nil {
			return nil, migerr.IntegrationFailed(t0, residualOf(operator, y), "stiff solver failed advancing to t=%v: %v", t1, err)
		}
		steps++

		c := make([]float64, n)
		copy(c, y[:n])
		out = append(out, snap.Snapshot{T: t1, C: c, CF: y[n]})
	}
	return out, nil
}

// characteristicTime returns tau = L^2/D_ref, the diffusion time scale
// used to nondimensionalize the solver's internal time step (D_ref is
// the contact-face cell's diffusivity, per the data model's convention
// of indexing the contact face at cell 0).
func characteristicTime(operator *op.Operator) float64 {
	L := operator.Mesh.TotalLength()
	dRef := operator.Mesh.D[0]
	if dRef <= 0 {
		return 1
	}
	return L * L / dRef
}

// residualOf returns the L2 norm of the operator's right-hand side at the
// last accepted state, reported alongside IntegrationFailure as a coarse
// diagnostic of how far from steady the solver was when it gave up.
func residualOf(operator *op.Operator, y []float64) float64 {
	f := make([]float64, operator.NEq())
	operator.RHS(f, y)
	var s float64
	for _, v := range f {
		s += v * v
	}
	return math.Sqrt(s)
}
