// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chain implements the scenario chainer (component C6): given an
// ordered sequence of contact steps, it runs each simulation so that run
// m+1 starts from run m's final wall profile, with a fresh medium and
// (optionally) a re-oriented contact face and rescaled geometry.
package chain

import (
	"github.com/cpmech/packmig/medium"
	"github.com/cpmech/packmig/mesh"
	"github.com/cpmech/packmig/migerr"
	"github.com/cpmech/packmig/op"
	"github.com/cpmech/packmig/result"
	"github.com/cpmech/packmig/solve"
	"github.com/cpmech/packmig/wall"
)

// Step describes one contact stage of a chained run.
type Step struct {
	Medium      medium.Medium  // the (fresh) medium in contact for this step
	Far         op.FarBoundary // far-boundary policy for this step
	TimeGrid    []float64      // strictly increasing, TimeGrid[0] == 0 (this step's local clock)
	Reorient    bool           // reverse the contact face before this step
	Description string         // carried into the step's Result metadata
}

// Options configures every step of a chained run.
type Options struct {
	NMin              int // minimum cells per layer, shared by every step's mesh
	Atol, Rtol        float64
	MassBalanceTol    float64
	StrictMassBalance bool
	MaxStepsPerRun    int
	Deadline          func() bool
}

// Chain holds the ordered per-step Results produced by Run. Each element
// keeps its own mesh/medium (spec.md §9: "any chain relationship becomes
// an ordered list maintained outside" rather than forcing incompatible
// geometries into a single concatenated Result).
type Chain struct {
	Steps []*result.Result
}

// TotalCF sums the concentration transferred into the medium across every
// step (each step's final CF minus its own initial CF), the invariant
// checked by spec.md scenario S4.
func (c Chain) TotalCF() float64 {
	var total float64
	for _, r := range c.Steps {
		series := r.Series()
		total += r.Last().CF - series[0].CF
	}
	return total
}

// FinalProfile returns the wall profile at the end of the last step.
func (c Chain) FinalProfile() (x, conc []float64, err error) {
	if len(c.Steps) == 0 {
		return nil, nil, migerr.Invalid("chain.FinalProfile: chain has no steps")
	}
	last := c.Steps[len(c.Steps)-1]
	return last.ProfileAt(last.Last().T)
}

// Run executes Steps in order, starting from the Multilayer's natural
// initial state, and returns the ordered per-step Results. Any
// integration failure aborts the chain and is annotated with the failing
// step index via migerr.WithStep.
func Run(ml wall.Multilayer, steps []Step, opts Options) (Chain, error) {
	if len(steps) == 0 {
		return Chain{}, migerr.Invalid("chain.Run: at least one step is required")
	}

	m, err := mesh.Build(ml, opts.NMin)
	if err != nil {
		return Chain{}, err
	}

	refConc := maxInitialConcentration(m.C0)

	out := Chain{Steps: make([]*result.Result, 0, len(steps))}
	var carryC []float64 // nil on the first step: use the mesh's natural initial state

	for i, step := range steps {
		if step.Reorient {
			m = m.Reversed()
			if carryC != nil {
				carryC = reversed(carryC)
			}
		}
		if carryC != nil {
			m, err = m.WithState(carryC)
			if err != nil {
				return Chain{}, migerr.WithStep(err, i)
			}
		}

		operator, err := op.Assemble(m, step.Medium, step.Far)
		if err != nil {
			return Chain{}, migerr.WithStep(err, i)
		}

		series, err := solve.Integrate(operator, m.C0, step.Medium.CF0, solve.Options{
			TimeGrid: step.TimeGrid,
			Atol:     opts.Atol,
			Rtol:     opts.Rtol,
			MaxSteps: opts.MaxStepsPerRun,
			Deadline: opts.Deadline,
		})
		if err != nil {
			return Chain{}, migerr.WithStep(err, i)
		}

		// Matches package solve's internal nondimensionalization (tau =
		// L^2/D_ref at this step's current, possibly reoriented, mesh),
		// so Result.Scales() reports the same tau the integrator used.
		scales := result.Scales{Length: m.TotalLength(), Concentration: refConc}
		if refD := m.D[0]; refD > 0 {
			scales.Time = scales.Length * scales.Length / refD
		}
		r, err := result.New(operator, series, scales, step.Description, opts.Atol, opts.Rtol, opts.MassBalanceTol, opts.StrictMassBalance)
		if err != nil {
			return Chain{}, migerr.WithStep(err, i)
		}

		out.Steps = append(out.Steps, r)
		carryC = r.Last().C
	}
	return out, nil
}

func maxInitialConcentration(c0 []float64) float64 {
	max := 0.0
	for _, v := range c0 {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return 1
	}
	return max
}

func reversed(xs []float64) []float64 {
	n := len(xs)
	out := make([]float64, n)
	for i, v := range xs {
		out[n-1-i] = v
	}
	return out
}
