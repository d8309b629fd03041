// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chain

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/packmig/medium"
	"github.com/cpmech/packmig/migerr"
	"github.com/cpmech/packmig/op"
	"github.com/cpmech/packmig/wall"
)

func twoLayerWall(tst *testing.T) wall.Multilayer {
	ml, err := wall.New(
		wall.Layer{Thickness: 50e-6, D: 1e-15, K: 1, C0: 0, NCells: 3, Tag: "PET"},
		wall.Layer{Thickness: 200e-6, D: 1e-13, K: 5, C0: 500, NCells: 3, Tag: "LDPE"},
	)
	if err != nil {
		tst.Fatalf("multilayer: %v", err)
	}
	return ml
}

func TestRunRejectsEmptySteps(tst *testing.T) {
	chk.PrintTitle("chain.Run rejects an empty step list")
	_, err := Run(twoLayerWall(tst), nil, Options{NMin: 1})
	if err == nil {
		tst.Fatal("expected an error for an empty step list")
	}
}

func TestRunTwoStepsCarriesProfileForward(tst *testing.T) {
	chk.PrintTitle("chain.Run: run 2 starts from run 1's final wall profile")
	ml := twoLayerWall(tst)
	steps := []Step{
		{
			Medium:   medium.Medium{Area: 0.02, Volume: 1e-3, KF: 1, CF0: 0},
			Far:      op.Impermeable,
			TimeGrid: []float64{0, 1e4, 1e5},
		},
		{
			Medium:   medium.Medium{Area: 0.02, Volume: 1e-3, KF: 1, CF0: 0},
			Far:      op.Impermeable,
			TimeGrid: []float64{0, 1e4, 1e5},
		},
	}
	c, err := Run(ml, steps, Options{NMin: 1, MassBalanceTol: 1e-2})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if len(c.Steps) != 2 {
		tst.Fatalf("expected 2 step results, got %d", len(c.Steps))
	}

	firstFinal := c.Steps[0].Last()
	secondInitial := c.Steps[1].Series()[0]
	for i := range firstFinal.C {
		chk.Scalar(tst, "carried-over cell concentration", 1e-9, secondInitial.C[i], firstFinal.C[i])
	}

	// The second run starts from a fresh medium (CF0=0), so it must
	// transfer additional mass even though the wall was already partly
	// loaded from run 1.
	if c.TotalCF() <= 0 {
		tst.Fatalf("expected positive cumulative CF transfer, got %v", c.TotalCF())
	}
}

func TestRunReorientReversesCarriedProfile(tst *testing.T) {
	chk.PrintTitle("chain.Run: Reorient flips both the mesh and the carried state")
	ml := twoLayerWall(tst)
	steps := []Step{
		{
			Medium:   medium.Medium{Area: 0.02, Volume: 1e-3, KF: 1, CF0: 0},
			Far:      op.Impermeable,
			TimeGrid: []float64{0, 1e3},
		},
		{
			Medium:   medium.Medium{Area: 0.02, Volume: 1e-3, KF: 1, CF0: 0},
			Far:      op.Impermeable,
			TimeGrid: []float64{0, 1e3},
			Reorient: true,
		},
	}
	c, err := Run(ml, steps, Options{NMin: 1, MassBalanceTol: 1})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	firstFinal := c.Steps[0].Last()
	secondInitial := c.Steps[1].Series()[0]
	n := len(firstFinal.C)
	for i := range firstFinal.C {
		chk.Scalar(tst, "reversed carried-over cell concentration", 1e-9, secondInitial.C[i], firstFinal.C[n-1-i])
	}
}

func TestRunSurfacesFailingStepIndex(tst *testing.T) {
	chk.PrintTitle("chain.Run annotates a failing step with its index")
	ml := twoLayerWall(tst)
	steps := []Step{
		{
			Medium:   medium.Medium{Area: 0.02, Volume: 1e-3, KF: 1, CF0: 0},
			Far:      op.Impermeable,
			TimeGrid: []float64{0, 1e3},
		},
		{
			// an invalid medium (zero volume) forces op.Assemble to fail
			// on the second step.
			Medium:   medium.Medium{Area: 0.02, Volume: 0, KF: 1, CF0: 0},
			Far:      op.Impermeable,
			TimeGrid: []float64{0, 1e3},
		},
	}
	_, err := Run(ml, steps, Options{NMin: 1, MassBalanceTol: 1})
	if err == nil {
		tst.Fatal("expected an error from the second step's invalid medium")
	}
	merr, ok := err.(*migerr.Error)
	if !ok {
		tst.Fatalf("expected *migerr.Error, got %T", err)
	}
	if merr.FailingStep != 1 {
		tst.Fatalf("expected FailingStep=1, got %d", merr.FailingStep)
	}
}

func TestFinalProfileMatchesLastStep(tst *testing.T) {
	chk.PrintTitle("chain.FinalProfile reads the last step's last snapshot")
	ml := twoLayerWall(tst)
	steps := []Step{
		{
			Medium:   medium.Medium{Area: 0.02, Volume: 1e-3, KF: 1, CF0: 0},
			Far:      op.Impermeable,
			TimeGrid: []float64{0, 1e3},
		},
	}
	c, err := Run(ml, steps, Options{NMin: 1, MassBalanceTol: 1})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	x, conc, err := c.FinalProfile()
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if len(x) != len(conc) || len(x) == 0 {
		tst.Fatalf("expected a non-empty profile, got x=%d conc=%d", len(x), len(conc))
	}
}
