// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package op

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/packmig/medium"
	"github.com/cpmech/packmig/mesh"
	"github.com/cpmech/packmig/wall"
)

func build(tst *testing.T, far FarBoundary) (*Operator, mesh.Mesh) {
	ml, err := wall.New(
		wall.Layer{Thickness: 50e-6, D: 1e-15, K: 1, C0: 0, NCells: 3},
		wall.Layer{Thickness: 100e-6, D: 1e-13, K: 5, C0: 200, NCells: 3},
	)
	if err != nil {
		tst.Fatalf("multilayer: %v", err)
	}
	m, err := mesh.Build(ml, 1)
	if err != nil {
		tst.Fatalf("mesh: %v", err)
	}
	med := medium.Medium{Area: 0.6, Volume: 1e-3, KF: 2, CF0: 0}
	o, err := Assemble(m, med, far)
	if err != nil {
		tst.Fatalf("assemble: %v", err)
	}
	return o, m
}

func TestConductancePositive(tst *testing.T) {
	chk.PrintTitle("op conductances are all positive")
	o, _ := build(tst, Impermeable)
	if o.aF <= 0 {
		tst.Fatalf("aF must be positive, got %v", o.aF)
	}
	for i, a := range o.aInt {
		if a <= 0 {
			tst.Fatalf("aInt[%d] must be positive, got %v", i, a)
		}
	}
}

func TestRHSUniformPotentialIsZero(tst *testing.T) {
	chk.PrintTitle("op.RHS: uniform potential gives zero interior rows")
	o, m := build(tst, Impermeable)
	n := o.N()
	y := make([]float64, n+1)
	phi := 3.5
	for i := 0; i < n; i++ {
		y[i] = phi * m.K[i]
	}
	y[n] = phi * o.Medium.KF
	f := make([]float64, n+1)
	o.RHS(f, y)
	for i := 0; i <= n; i++ {
		chk.Scalar(tst, "uniform-potential rhs", 1e-9, f[i], 0)
	}
}

func TestRHSMassConservativeDirection(tst *testing.T) {
	chk.PrintTitle("op.RHS: flux leaves the wall into an empty medium")
	o, m := build(tst, Impermeable)
	n := o.N()
	y := make([]float64, n+1)
	for i := 0; i < n; i++ {
		y[i] = m.C0[i]
	}
	y[n] = 0
	f := make([]float64, n+1)
	o.RHS(f, y)
	if f[n] < 0 {
		tst.Fatalf("medium concentration should not decrease while wall is loaded, got dCF/dt=%v", f[n])
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += m.Dx[i] * f[i]
	}
	total := sum + (o.Medium.Volume/o.Medium.Area)*f[n]
	chk.Scalar(tst, "sum of dMass/dt", 1e-12, total, 0)
}

func TestJacobianMatchesFiniteDifference(tst *testing.T) {
	chk.PrintTitle("op.Jacobian matches finite-difference approximation")
	o, m := build(tst, Periodic)
	n := o.N()
	neq := n + 1
	y := make([]float64, neq)
	for i := 0; i < n; i++ {
		y[i] = m.C0[i] + float64(i)
	}
	y[n] = 5

	var J la.Triplet
	o.Jacobian(&J, y)
	dense := J.ToMatrix(nil).ToDense()

	h := 1e-6
	f0 := make([]float64, neq)
	o.RHS(f0, y)
	for j := 0; j < neq; j++ {
		yp := append([]float64{}, y...)
		yp[j] += h
		fp := make([]float64, neq)
		o.RHS(fp, yp)
		for i := 0; i < neq; i++ {
			fd := (fp[i] - f0[i]) / h
			got := dense.Get(i, j)
			if math.Abs(fd-got) > 1e-3*(1+math.Abs(fd)) {
				tst.Fatalf("J[%d][%d]: analytic=%v finite-diff=%v", i, j, got, fd)
			}
		}
	}
}

func TestSymmetricEqualsImpermeableForSingleStack(tst *testing.T) {
	chk.PrintTitle("op.RHS: symmetric far boundary matches impermeable for one stack")
	oImp, m := build(tst, Impermeable)
	oSym, _ := build(tst, Symmetric)
	n := oImp.N()
	y := make([]float64, n+1)
	for i := 0; i < n; i++ {
		y[i] = m.C0[i]
	}
	f1 := make([]float64, n+1)
	f2 := make([]float64, n+1)
	oImp.RHS(f1, y)
	oSym.RHS(f2, y)
	for i := range f1 {
		chk.Scalar(tst, "symmetric==impermeable", 1e-15, f2[i], f1[i])
	}
}
