// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package op implements the operator assembler (component C2): the
// sparse linear map L that enforces continuity of flux and the Henry
// jump C_left/k_left = C_right/k_right at every internal interface, plus
// the coupling row/column for the medium concentration C_F.
//
// The state vector is y = [C_0, ..., C_{N-1}, C_F] of length N+1, with
// C_F held in the last slot.
package op

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/packmig/medium"
	"github.com/cpmech/packmig/mesh"
	"github.com/cpmech/packmig/migerr"
)

// FarBoundary selects the policy applied at the far face (x=L), the
// outermost boundary of the wall, opposite the contact face.
type FarBoundary int

// Far-boundary policies.
const (
	// Impermeable is the default: zero flux through the outermost layer.
	Impermeable FarBoundary = iota
	// Symmetric mirrors the stack about the far face (setoff/stacking
	// contact). For a single run this is numerically identical to
	// Impermeable: the mirrored neighbor cell has identical D, k and C
	// to the real last cell, so the driving potential difference at the
	// face is always zero regardless of the (finite, positive) mirror
	// conductance. The distinct value is kept so callers and Result
	// metadata can record the intended physical scenario (see spec.md
	// S5) even though the assembled operator coincides with Impermeable.
	Symmetric
	// Periodic wraps the far face back onto the contact cell, adding a
	// direct conductance between cell N-1 and cell 0 alongside the
	// ordinary medium coupling at cell 0.
	Periodic
)

// Operator is the assembled tri-diagonal-plus-coupling linear map.
type Operator struct {
	Mesh   mesh.Mesh
	Medium medium.Medium
	Far    FarBoundary

	aInt []float64 // interior conductances, length N-1 (a_{i+1/2} for i=0..N-2)
	aF   float64   // contact-face conductance (medium <-> cell 0)
	aWrp float64   // far-face wrap conductance (cell N-1 <-> cell 0), only used if Periodic

	n int // number of cells
}

// conductance computes the Patankar harmonic-mean interface conductance
// between two half-cells, a_{i+1/2} = 1 / ( (dxL/2)/(DL kL) + (dxR/2)/(DR kR) ).
func conductance(dxL, DL, kL, dxR, DR, kR float64) float64 {
	return 1.0 / (0.5*dxL/(DL*kL) + 0.5*dxR/(DR*kR))
}

// Assemble builds the Operator's conductances from a Mesh and a Medium.
func Assemble(m mesh.Mesh, med medium.Medium, far FarBoundary) (*Operator, error) {
	if err := med.Validate(); err != nil {
		return nil, err
	}
	n := m.N()
	if n < 1 {
		return nil, migerr.Invalid("op.Assemble: mesh has no cells")
	}

	o := &Operator{Mesh: m, Medium: med, Far: far, n: n}
	o.aInt = make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		o.aInt[i] = conductance(m.Dx[i], m.D[i], m.K[i], m.Dx[i+1], m.D[i+1], m.K[i+1])
	}

	// contact-face conductance: 1/aF = 1/h + (dx0/2)/(D0 k0)
	halfCell := 0.5 * m.Dx[0] / (m.D[0] * m.K[0])
	if med.H != nil {
		o.aF = 1.0 / (1.0/(*med.H) + halfCell)
	} else {
		o.aF = 1.0 / halfCell
	}

	if far == Periodic && n > 1 {
		o.aWrp = conductance(m.Dx[n-1], m.D[n-1], m.K[n-1], m.Dx[0], m.D[0], m.K[0])
	}
	return o, nil
}

// N returns the number of wall cells (the state vector has N+1 entries,
// the last being C_F).
func (o *Operator) N() int { return o.n }

// NEq returns the size of the coupled state vector (N cells + C_F).
func (o *Operator) NEq() int { return o.n + 1 }

func (o *Operator) phi(y []float64, i int) float64 {
	if i == o.n {
		return y[o.n] / o.Medium.KF
	}
	return y[i] / o.Mesh.K[i]
}

// RHS evaluates dy/dt = L(y) into f, for y = [C_0..C_{N-1}, C_F].
func (o *Operator) RHS(f, y []float64) {
	n := o.n
	A, V := o.Medium.Area, o.Medium.Volume

	for i := 0; i < n; i++ {
		phiI := o.phi(y, i)

		var aL, phiL float64
		if i == 0 {
			aL, phiL = o.aF, o.phi(y, n)
		} else {
			aL, phiL = o.aInt[i-1], o.phi(y, i-1)
		}

		var aR, phiR float64
		if i == n-1 {
			if o.Far == Periodic && n > 1 {
				aR, phiR = o.aWrp, o.phi(y, 0)
			}
		} else {
			aR, phiR = o.aInt[i], o.phi(y, i+1)
		}

		f[i] = (aL*(phiL-phiI) - aR*(phiI-phiR)) / o.Mesh.Dx[i]
	}

	// periodic wrap also feeds back into cell 0's balance as a third
	// neighbor (conservative: equal and opposite to the term above).
	if o.Far == Periodic && n > 1 {
		f[0] += o.aWrp * (o.phi(y, n-1) - o.phi(y, 0)) / o.Mesh.Dx[0]
	}

	// medium balance: V dC_F/dt = -A aF (phiF - phi0)
	f[n] = (A / V) * o.aF * (o.phi(y, 0) - o.phi(y, n))
}

// Jacobian assembles the analytic Jacobian dF/dy into J, a sparse
// (N+1)x(N+1) triplet matching the structure RHS computes: tri-diagonal
// on the interior, one coupling row and column for C_F, and (for the
// Periodic far boundary) two corner entries linking cell N-1 and cell 0.
// An optional scale multiplies every entry (used by package solve to
// rescale the system into dimensionless time, J' = scale * dF/dy); it
// defaults to 1 when omitted.
func (o *Operator) Jacobian(J *la.Triplet, y []float64, scale ...float64) {
	s := 1.0
	if len(scale) > 0 {
		s = scale[0]
	}
	n := o.n
	neq := n + 1
	capacity := 3*n + 4
	if J.Max() < capacity {
		J.Init(neq, neq, capacity)
	}
	J.Start()

	kOf := func(i int) float64 {
		if i == n {
			return o.Medium.KF
		}
		return o.Mesh.K[i]
	}

	for i := 0; i < n; i++ {
		dx := o.Mesh.Dx[i]

		var condL float64
		var left int
		if i == 0 {
			condL, left = o.aF, n // medium concentration sits at index n
		} else {
			condL, left = o.aInt[i-1], i-1
		}

		var condR float64
		right := i + 1
		if i == n-1 {
			if o.Far == Periodic && n > 1 {
				condR = o.aWrp
				right = 0
			} else {
				condR = 0
				right = -1
			}
		} else {
			condR = o.aInt[i]
		}

		diag := -(condL + condR) / dx / kOf(i)
		J.Put(i, i, diag*s)
		J.Put(i, left, condL/dx/kOf(left)*s)
		if right >= 0 {
			J.Put(i, right, condR/dx/kOf(right)*s)
		}
	}

	if o.Far == Periodic && n > 1 {
		dx0 := o.Mesh.Dx[0]
		J.Put(0, 0, -o.aWrp/dx0/kOf(0)*s)
		J.Put(0, n-1, o.aWrp/dx0/kOf(n-1)*s)
	}

	// medium row: f[n] = (A/V) aF (phi0 - phiF)
	AV := o.Medium.Area / o.Medium.Volume
	J.Put(n, 0, AV*o.aF/kOf(0)*s)
	J.Put(n, n, -AV*o.aF/kOf(n)*s)
}

// TotalMass computes the discrete conserved quantity sum(dx_i C_i) +
// (V/A) C_F, used by the mass-balance invariant check.
func (o *Operator) TotalMass(y []float64) float64 {
	n := o.n
	var total float64
	for i := 0; i < n; i++ {
		total += o.Mesh.Dx[i] * y[i]
	}
	total += (o.Medium.Volume / o.Medium.Area) * y[n]
	return total
}
