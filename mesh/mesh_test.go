// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/packmig/wall"
)

func sampleMultilayer(tst *testing.T) wall.Multilayer {
	ml, err := wall.New(
		wall.Layer{Thickness: 50e-6, D: 1e-15, K: 1, C0: 0, NCells: 2, Tag: "A"},
		wall.Layer{Thickness: 100e-6, D: 1e-13, K: 5, C0: 200, NCells: 1},
	)
	if err != nil {
		tst.Fatalf("setup failed: %v", err)
	}
	return ml
}

func TestBuildCellCounts(tst *testing.T) {
	chk.PrintTitle("mesh.Build respects n_min")
	ml := sampleMultilayer(tst)
	m, err := Build(ml, 4)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if m.N() != 8 {
		tst.Fatalf("expected 4+4=8 cells with n_min=4, got %d", m.N())
	}
	chk.Scalar(tst, "total length", 1e-18, m.TotalLength(), 150e-6)
	for i := 0; i < 4; i++ {
		chk.Scalar(tst, "layer 0 D", 1e-24, m.D[i], 1e-15)
	}
	for i := 4; i < 8; i++ {
		chk.Scalar(tst, "layer 1 D", 1e-20, m.D[i], 1e-13)
	}
}

func TestBuildCellCentersMonotone(tst *testing.T) {
	chk.PrintTitle("mesh.Build cell centers strictly increasing")
	ml := sampleMultilayer(tst)
	m, err := Build(ml, 1)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < m.N(); i++ {
		if m.X[i] <= m.X[i-1] {
			tst.Fatalf("cell centers not strictly increasing at %d: %v <= %v", i, m.X[i], m.X[i-1])
		}
	}
}

func TestReversedMapsArrays(tst *testing.T) {
	chk.PrintTitle("mesh.Reversed swaps D/k/C0 consistently")
	ml := sampleMultilayer(tst)
	m, err := Build(ml, 1)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	rev := m.Reversed()
	n := m.N()
	for i := 0; i < n; i++ {
		chk.Scalar(tst, "D reversed", 1e-24, rev.D[i], m.D[n-1-i])
		chk.Scalar(tst, "K reversed", 1e-15, rev.K[i], m.K[n-1-i])
		chk.Scalar(tst, "C0 reversed", 1e-15, rev.C0[i], m.C0[n-1-i])
	}
	chk.Scalar(tst, "total length preserved", 1e-18, rev.TotalLength(), m.TotalLength())
}

func TestWithStateLengthMismatch(tst *testing.T) {
	chk.PrintTitle("mesh.WithState rejects mismatched length")
	ml := sampleMultilayer(tst)
	m, err := Build(ml, 1)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	_, err = m.WithState([]float64{1, 2, 3})
	if err == nil {
		tst.Fatal("expected IncompatibleComposition error")
	}
}

func TestSameGeometry(tst *testing.T) {
	chk.PrintTitle("mesh.SameGeometry")
	ml := sampleMultilayer(tst)
	a, _ := Build(ml, 2)
	b, _ := Build(ml, 2)
	if !SameGeometry(a, b) {
		tst.Fatal("expected identical meshes to compare equal")
	}
	c, _ := Build(ml, 3)
	if SameGeometry(a, c) {
		tst.Fatal("expected different cell counts to compare unequal")
	}
}
