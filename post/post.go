// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package post implements the post-processor (component C4): interface
// concentration reconstruction, the cumulative-desorbed-mass cross-check,
// and piecewise-cubic-in-time / piecewise-linear-in-x interpolation of
// profiles and CF(t).
package post

import (
	"gonum.org/v1/gonum/interp"

	"github.com/cpmech/packmig/mesh"
	"github.com/cpmech/packmig/migerr"
	"github.com/cpmech/packmig/op"
	"github.com/cpmech/packmig/snap"
)

// halfResistance is (Δx/2)/(D k), the half-cell diffusive resistance used
// throughout the interface-reconstruction algebra.
func halfResistance(m mesh.Mesh, i int) float64 {
	return 0.5 * m.Dx[i] / (m.D[i] * m.K[i])
}

// InterfaceValues reconstructs the two-sided concentration C^-, C^+ at
// every internal interface of the mesh (between cell i and cell i+1, for
// i = 0..N-2) from a single snapshot's cell values, via the continuous
// potential phi = C/k.
func InterfaceValues(m mesh.Mesh, c []float64) (cMinus, cPlus []float64) {
	n := m.N()
	if n < 2 {
		return nil, nil
	}
	cMinus = make([]float64, n-1)
	cPlus = make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		j := i + 1
		phiI, phiJ := c[i]/m.K[i], c[j]/m.K[j]
		halfI, halfJ := halfResistance(m, i), halfResistance(m, j)
		phiFace := (halfI*phiJ + halfJ*phiI) / (halfI + halfJ)
		cMinus[i] = m.K[i] * phiFace
		cPlus[i] = m.K[j] * phiFace
	}
	return cMinus, cPlus
}

// PeriodicWrapValues reconstructs the two-sided concentration at the
// wrapped far-face interface (between the last cell and cell 0), the
// periodic-boundary variant of InterfaceValues named in spec.md §4.4.
func PeriodicWrapValues(m mesh.Mesh, c []float64) (cMinus, cPlus float64) {
	n := m.N()
	last := n - 1
	phiLast, phi0 := c[last]/m.K[last], c[0]/m.K[0]
	halfLast, half0 := halfResistance(m, last), halfResistance(m, 0)
	phiFace := (halfLast*phi0 + half0*phiLast) / (halfLast + half0)
	return m.K[last] * phiFace, m.K[0] * phiFace
}

// CheckInterfaceJump verifies |C^-/k_left - C^+/k_right| <= atol at every
// internal interface (spec.md §8 property 5).
func CheckInterfaceJump(m mesh.Mesh, c []float64, atol float64) error {
	cMinus, cPlus := InterfaceValues(m, c)
	for i := range cMinus {
		jump := cMinus[i]/m.K[i] - cPlus[i]/m.K[i+1]
		if jump < 0 {
			jump = -jump
		}
		if jump > atol {
			return migerr.New(migerr.MassBalanceViolation, "interface %d: Henry jump %.3e exceeds atol %.3e", i, jump, atol)
		}
	}
	return nil
}

// CrossCheckCF integrates the contact-face flux (recomputed from the
// operator at every snapshot) via the trapezoidal rule and compares it
// against the CF(t) carried directly by the medium ODE state, as required
// by spec.md §4.4. It returns the largest absolute disagreement observed.
func CrossCheckCF(series snap.Series, operator *op.Operator) (maxAbsDiff float64, err error) {
	if len(series) == 0 {
		return 0, nil
	}
	neq := operator.NEq()
	f := make([]float64, neq)
	y := make([]float64, neq)

	dCFdt := func(s snap.Snapshot) float64 {
		copy(y, s.C)
		y[len(s.C)] = s.CF
		operator.RHS(f, y)
		return f[len(s.C)]
	}

	altCF := series[0].CF
	prevRate := dCFdt(series[0])
	for i := 1; i < len(series); i++ {
		rate := dCFdt(series[i])
		dt := series[i].T - series[i-1].T
		altCF += 0.5 * (prevRate + rate) * dt
		diff := altCF - series[i].CF
		if diff < 0 {
			diff = -diff
		}
		if diff > maxAbsDiff {
			maxAbsDiff = diff
		}
		prevRate = rate
	}
	return maxAbsDiff, nil
}

// CheckMassBalance evaluates the relative deviation of the conserved
// quantity sum(dx_i C_i) + (V/A) C_F from its initial value, the
// invariant of spec.md §8 property 1.
func CheckMassBalance(operator *op.Operator, initial, current snap.Snapshot) (relErr float64, err error) {
	yi := append(append([]float64{}, initial.C...), initial.CF)
	yc := append(append([]float64{}, current.C...), current.CF)
	m0 := operator.TotalMass(yi)
	m1 := operator.TotalMass(yc)
	if m0 == 0 {
		return 0, nil
	}
	relErr = (m1 - m0) / m0
	if relErr < 0 {
		relErr = -relErr
	}
	return relErr, nil
}

// cellTrajectory fits a piecewise-cubic curve through one cell's values
// across the snapshot series. With fewer than 3 points the fit degrades
// to the linear interpolant gonum's PiecewiseCubic already falls back to
// internally for short series.
func cellTrajectory(times []float64, values []float64) (*interp.PiecewiseCubic, error) {
	var pc interp.PiecewiseCubic
	if err := pc.Fit(times, values); err != nil {
		return nil, migerr.Invalid("post: cubic time-fit failed: %v", err)
	}
	return &pc, nil
}

// ProfileAt returns the wall profile (cell centers, interpolated
// concentrations) at time t by fitting a piecewise-cubic curve through
// each cell's time series independently and evaluating it at t.
func ProfileAt(series snap.Series, m mesh.Mesh, t float64) (x, c []float64, err error) {
	if len(series) < 2 {
		return nil, nil, migerr.Invalid("post.ProfileAt: need at least two snapshots")
	}
	n := m.N()
	times := make([]float64, len(series))
	for i, s := range series {
		times[i] = s.T
	}
	x = append([]float64{}, m.X...)
	c = make([]float64, n)
	values := make([]float64, len(series))
	for cell := 0; cell < n; cell++ {
		for i, s := range series {
			values[i] = s.C[cell]
		}
		pc, err := cellTrajectory(times, values)
		if err != nil {
			return nil, nil, err
		}
		c[cell] = pc.Predict(t)
	}
	return x, c, nil
}

// ValueAt returns the concentration at an arbitrary position x (0 <= x <=
// mesh length) and time t: piecewise-cubic in time (via ProfileAt's
// per-cell fits) then piecewise-linear in x between the two bracketing
// cell centers, per spec.md §4.4.
func ValueAt(series snap.Series, m mesh.Mesh, t, x float64) (float64, error) {
	_, c, err := ProfileAt(series, m, t)
	if err != nil {
		return 0, err
	}
	n := m.N()
	if x <= m.X[0] {
		return c[0], nil
	}
	if x >= m.X[n-1] {
		return c[n-1], nil
	}
	for i := 0; i < n-1; i++ {
		if x >= m.X[i] && x <= m.X[i+1] {
			frac := (x - m.X[i]) / (m.X[i+1] - m.X[i])
			return c[i] + frac*(c[i+1]-c[i]), nil
		}
	}
	return c[n-1], nil
}

// CFAt returns CF(t) via a piecewise-cubic fit through the series' medium
// concentrations.
func CFAt(series snap.Series, t float64) (float64, error) {
	if len(series) < 2 {
		return 0, migerr.Invalid("post.CFAt: need at least two snapshots")
	}
	times := make([]float64, len(series))
	values := make([]float64, len(series))
	for i, s := range series {
		times[i] = s.T
		values[i] = s.CF
	}
	pc, err := cellTrajectory(times, values)
	if err != nil {
		return 0, err
	}
	return pc.Predict(t), nil
}
