// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package medium implements the Medium data type: the finite, well-mixed
// fluid compartment (the food simulant) in contact with the wall's
// contact face.
package medium

import (
	"math"

	"github.com/cpmech/packmig/migerr"
)

// Medium is the finite well-mixed receiving compartment.
type Medium struct {
	Area    float64  // A > 0 [m^2], contact surface area
	Volume  float64  // V > 0 [m^3]
	KF      float64  // k_F > 0, partition coefficient relative to the contact layer
	CF0     float64  // C_F(0) >= 0
	H       *float64 // optional external mass-transfer film coefficient; nil = perfect contact
	Species string   // opaque identity tag, ignored by the core
}

// Validate checks the strict-positivity invariants from the data model.
func (m Medium) Validate() error {
	if !isFinitePositive(m.Area) {
		return migerr.Invalid("medium: area A must be finite and positive, got %v", m.Area)
	}
	if !isFinitePositive(m.Volume) {
		return migerr.Invalid("medium: volume V must be finite and positive, got %v", m.Volume)
	}
	if !isFinitePositive(m.KF) {
		return migerr.Invalid("medium: partition coefficient k_F must be finite and positive, got %v", m.KF)
	}
	if !isFiniteNonNegative(m.CF0) {
		return migerr.Invalid("medium: initial concentration C_F0 must be finite and non-negative, got %v", m.CF0)
	}
	if m.H != nil && !isFinitePositive(*m.H) {
		return migerr.Invalid("medium: film coefficient h must be finite and positive when given, got %v", *m.H)
	}
	return nil
}

// WithFreshConcentration returns a copy of m with C_F0 replaced; m itself
// is left unchanged.
func (m Medium) WithFreshConcentration(cf0 float64) Medium {
	m2 := m
	m2.CF0 = cf0
	return m2
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
