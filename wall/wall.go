// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wall implements the Layer and Multilayer data types: a
// contiguous stack of solid/semi-solid material slabs through which a
// migrant diffuses, index 0 being the contact face adjacent to the
// medium.
package wall

import (
	"math"

	"github.com/cpmech/packmig/migerr"
)

// MinCells is the smallest number of sub-cells the mesh builder will ever
// assign to a layer, regardless of the layer's own request.
const MinCells = 1

// Layer is a contiguous homogeneous material slab.
type Layer struct {
	Thickness float64 // l > 0 [m]
	D         float64 // diffusivity > 0 [m^2/s]
	K         float64 // Henry-like partition/solubility coefficient > 0 [-]
	C0        float64 // initial uniform concentration >= 0
	NCells    int     // desired number of sub-cells, >= 1
	Tag       string  // opaque identity/type tag, ignored by the core
}

// Validate checks the strict-positivity invariants from the data model.
func (l Layer) Validate() error {
	if !isFinitePositive(l.Thickness) {
		return migerr.Invalid("layer %q: thickness must be finite and positive, got %v", l.Tag, l.Thickness)
	}
	if !isFinitePositive(l.D) {
		return migerr.Invalid("layer %q: diffusivity D must be finite and positive, got %v", l.Tag, l.D)
	}
	if !isFinitePositive(l.K) {
		return migerr.Invalid("layer %q: partition coefficient k must be finite and positive, got %v", l.Tag, l.K)
	}
	if !isFiniteNonNegative(l.C0) {
		return migerr.Invalid("layer %q: initial concentration C0 must be finite and non-negative, got %v", l.Tag, l.C0)
	}
	if l.NCells < 1 {
		return migerr.Invalid("layer %q: n_cells must be >= 1, got %d", l.Tag, l.NCells)
	}
	return nil
}

// Multilayer is an ordered, non-empty sequence of Layers. Index 0 is the
// contact face adjacent to the medium.
type Multilayer struct {
	Layers []Layer
}

// New validates and wraps an ordered layer stack.
func New(layers ...Layer) (Multilayer, error) {
	ml := Multilayer{Layers: layers}
	if err := ml.Validate(); err != nil {
		return Multilayer{}, err
	}
	return ml, nil
}

// Validate checks the Multilayer invariants: non-empty, every layer valid.
func (ml Multilayer) Validate() error {
	if len(ml.Layers) == 0 {
		return migerr.Invalid("multilayer must contain at least one layer")
	}
	for i, l := range ml.Layers {
		if err := l.Validate(); err != nil {
			return migerr.Invalid("layer index %d: %v", i, err)
		}
	}
	return nil
}

// TotalThickness returns the sum of all layer thicknesses (the wall
// length L used to non-dimensionalize time).
func (ml Multilayer) TotalThickness() float64 {
	var l float64
	for _, layer := range ml.Layers {
		l += layer.Thickness
	}
	return l
}

// ContactDiffusivity returns D of the contact layer (index 0), used as
// D_ref for non-dimensionalization.
func (ml Multilayer) ContactDiffusivity() float64 {
	return ml.Layers[0].D
}

// Reversed returns a copy of the stack with layer order reversed, so that
// the former last layer becomes the contact face. The scenario chainer
// re-orients at the mesh level instead, with mesh.Mesh.Reversed.
func (ml Multilayer) Reversed() Multilayer {
	n := len(ml.Layers)
	out := make([]Layer, n)
	for i, l := range ml.Layers {
		out[n-1-i] = l
	}
	return Multilayer{Layers: out}
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
