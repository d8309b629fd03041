// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh implements the piecewise-uniform finite-volume mesh
// builder (component C1): it turns a wall.Multilayer into a flat stack
// of cells carrying per-cell diffusivity, partition coefficient and
// initial concentration, with no ghost cells at the two explicit
// boundaries (the contact face at x=0 and the far face at x=L).
package mesh

import (
	"github.com/cpmech/packmig/migerr"
	"github.com/cpmech/packmig/wall"
)

// Mesh holds the flattened, ordered cell data spanning every layer of a
// Multilayer. Cell index 0 sits against the contact face.
type Mesh struct {
	X       []float64 // cell centers [m]
	Dx      []float64 // cell widths [m]
	D       []float64 // per-cell diffusivity [m^2/s]
	K       []float64 // per-cell partition coefficient [-]
	C0      []float64 // per-cell initial concentration
	LayerOf []int     // owning layer index, per cell
}

// N returns the number of cells.
func (m Mesh) N() int { return len(m.Dx) }

// TotalLength returns the wall length L spanned by the mesh.
func (m Mesh) TotalLength() float64 {
	var l float64
	for _, dx := range m.Dx {
		l += dx
	}
	return l
}

// Build assembles a Mesh from a validated Multilayer. Each layer receives
// max(layer.NCells, nMin) uniform cells; cells are concatenated in layer
// order so that global cell index 0 is at the contact face.
func Build(ml wall.Multilayer, nMin int) (Mesh, error) {
	if err := ml.Validate(); err != nil {
		return Mesh{}, err
	}
	if nMin < wall.MinCells {
		nMin = wall.MinCells
	}

	var m Mesh
	offset := 0.0
	for li, layer := range ml.Layers {
		n := layer.NCells
		if n < nMin {
			n = nMin
		}
		dx := layer.Thickness / float64(n)
		for i := 0; i < n; i++ {
			m.X = append(m.X, offset+(float64(i)+0.5)*dx)
			m.Dx = append(m.Dx, dx)
			m.D = append(m.D, layer.D)
			m.K = append(m.K, layer.K)
			m.C0 = append(m.C0, layer.C0)
			m.LayerOf = append(m.LayerOf, li)
		}
		offset += layer.Thickness
	}
	return m, nil
}

// Reversed returns a copy of the mesh with cell order reversed, mapping
// D, k, C and layer-ownership arrays accordingly. Used by the scenario
// chainer to re-orient the contact face to the opposite side of the wall.
func (m Mesh) Reversed() Mesh {
	n := m.N()
	out := Mesh{
		X:       make([]float64, n),
		Dx:      make([]float64, n),
		D:       make([]float64, n),
		K:       make([]float64, n),
		C0:      make([]float64, n),
		LayerOf: make([]int, n),
	}
	total := m.TotalLength()
	for i := 0; i < n; i++ {
		j := n - 1 - i
		out.Dx[i] = m.Dx[j]
		out.D[i] = m.D[j]
		out.K[i] = m.K[j]
		out.C0[i] = m.C0[j]
		out.LayerOf[i] = m.LayerOf[j]
	}
	offset := 0.0
	for i := 0; i < n; i++ {
		out.X[i] = offset + 0.5*out.Dx[i]
		offset += out.Dx[i]
	}
	if out.TotalLength() != total {
		// floating point round-trip only; lengths are sums of the same
		// values in a different order.
	}
	return out
}

// WithState returns a copy of the mesh with the per-cell concentration
// array replaced, used by the scenario chainer to seed run m+1 from run
// m's final wall profile.
func (m Mesh) WithState(c []float64) (Mesh, error) {
	if len(c) != m.N() {
		return Mesh{}, migerr.Incompatible("mesh.WithState: expected %d cell values, got %d", m.N(), len(c))
	}
	out := m
	out.C0 = make([]float64, len(c))
	copy(out.C0, c)
	return out, nil
}

// SameGeometry reports whether two meshes share cell widths, D and k
// arrays (used to validate Result concatenation).
func SameGeometry(a, b Mesh) bool {
	if a.N() != b.N() {
		return false
	}
	for i := range a.Dx {
		if a.Dx[i] != b.Dx[i] || a.D[i] != b.D[i] || a.K[i] != b.K[i] {
			return false
		}
	}
	return true
}
