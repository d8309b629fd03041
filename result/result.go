// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package result implements the Result container (component C5): an
// immutable simulation outcome supporting concatenation of sequential
// runs, resume from the last snapshot, and a value-typed restart record.
package result

import (
	"encoding/json"

	"github.com/cpmech/packmig/medium"
	"github.com/cpmech/packmig/mesh"
	"github.com/cpmech/packmig/migerr"
	"github.com/cpmech/packmig/op"
	"github.com/cpmech/packmig/post"
	"github.com/cpmech/packmig/snap"
	"github.com/cpmech/packmig/solve"
)

// Scales holds the dimensional scales a dimensionless run was computed
// against: wall length, characteristic diffusion time, and a reference
// concentration.
type Scales struct {
	Length        float64 // L = total wall thickness [m]
	Time          float64 // tau = L^2/D_ref [s]
	Concentration float64 // reference concentration used for non-dimensionalization
}

// Metadata carries descriptive and diagnostic information about a run.
type Metadata struct {
	Description string   `json:"description"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Restart is a value-typed record sufficient to resume or re-derive a
// run: the last snapshot and the full parameter set, with no back
// reference to the Result that produced it (spec.md §9).
type Restart struct {
	Last   snap.Snapshot
	Mesh   mesh.Mesh
	Medium medium.Medium
	Far    op.FarBoundary
	Atol   float64
	Rtol   float64
}

// Result is the immutable outcome of one simulation run.
type Result struct {
	mesh   mesh.Mesh
	med    medium.Medium
	far    op.FarBoundary
	series snap.Series
	scales Scales
	meta   Metadata
	atol   float64
	rtol   float64
}

// New builds a Result from an assembled Operator and the snapshot series
// it produced. It evaluates the mass-balance invariant (spec.md §8
// property 1) between the first and last snapshot: by default a
// violation beyond massBalanceTol is recorded as a Result.Warnings entry;
// if strict is true it is returned as a MassBalanceViolation error
// instead.
func New(operator *op.Operator, series snap.Series, scales Scales, desc string, atol, rtol, massBalanceTol float64, strict bool) (*Result, error) {
	if len(series) == 0 {
		return nil, migerr.Invalid("result.New: empty snapshot series")
	}
	if !series.Monotone() {
		return nil, migerr.Invalid("result.New: snapshots must be strictly time-ordered")
	}

	meta := Metadata{Description: desc}
	relErr, err := post.CheckMassBalance(operator, series[0], series[len(series)-1])
	if err != nil {
		return nil, err
	}
	if relErr > massBalanceTol {
		if strict {
			return nil, migerr.MassBalanceFailed(relErr, "mass balance drifted by %.3e, exceeding tolerance %.3e", relErr, massBalanceTol)
		}
		meta.Warnings = append(meta.Warnings, migerr.MassBalanceFailed(relErr, "mass balance drifted by %.3e, exceeding tolerance %.3e", relErr, massBalanceTol).Error())
	}

	return &Result{
		mesh:   operator.Mesh,
		med:    operator.Medium,
		far:    operator.Far,
		series: series,
		scales: scales,
		meta:   meta,
		atol:   atol,
		rtol:   rtol,
	}, nil
}

// Times returns the time grid of the run.
func (r *Result) Times() []float64 {
	t := make([]float64, len(r.series))
	for i, s := range r.series {
		t[i] = s.T
	}
	return t
}

// CWall returns the wall concentration vector interpolated at time t.
func (r *Result) CWall(t float64) ([]float64, error) {
	_, c, err := post.ProfileAt(r.series, r.mesh, t)
	return c, err
}

// ProfileAt returns (x, C) ordered pairs for the wall profile at time t.
func (r *Result) ProfileAt(t float64) (x, c []float64, err error) {
	return post.ProfileAt(r.series, r.mesh, t)
}

// ValueAt returns the concentration at an arbitrary position and time.
func (r *Result) ValueAt(t, x float64) (float64, error) {
	return post.ValueAt(r.series, r.mesh, t, x)
}

// CF returns the medium concentration interpolated at time t.
func (r *Result) CF(t float64) (float64, error) {
	return post.CFAt(r.series, t)
}

// Warnings returns the non-fatal diagnostics attached to this Result
// (currently only mass-balance drift, when not run in strict mode).
func (r *Result) Warnings() []string {
	return append([]string{}, r.meta.Warnings...)
}

// Scales returns the dimensional scales (L, tau, C_ref) this run was
// computed against, the same tau = L^2/D_ref package solve uses
// internally to nondimensionalize time (spec.md §4.3).
func (r *Result) Scales() Scales {
	return r.scales
}

// TimesDimensionless returns the run's time grid in units of tau, the
// dimensionless companion to Times (spec.md §4.3: "Result exposes both
// dimensionless and dimensional views").
func (r *Result) TimesDimensionless() ([]float64, error) {
	if r.scales.Time <= 0 {
		return nil, migerr.Invalid("result.TimesDimensionless: Scales.Time must be positive, got %v", r.scales.Time)
	}
	t := r.Times()
	for i := range t {
		t[i] /= r.scales.Time
	}
	return t, nil
}

// ProfileDimensionless returns (x/L, C/C_ref) at dimensionless time t/tau.
func (r *Result) ProfileDimensionless(tDimensionless float64) (xPrime, cPrime []float64, err error) {
	if r.scales.Time <= 0 || r.scales.Length <= 0 || r.scales.Concentration <= 0 {
		return nil, nil, migerr.Invalid("result.ProfileDimensionless: Scales must be fully positive, got %+v", r.scales)
	}
	x, c, err := r.ProfileAt(tDimensionless * r.scales.Time)
	if err != nil {
		return nil, nil, err
	}
	xPrime = make([]float64, len(x))
	cPrime = make([]float64, len(c))
	for i := range x {
		xPrime[i] = x[i] / r.scales.Length
		cPrime[i] = c[i] / r.scales.Concentration
	}
	return xPrime, cPrime, nil
}

// CFDimensionless returns C_F/C_ref at dimensionless time t/tau.
func (r *Result) CFDimensionless(tDimensionless float64) (float64, error) {
	if r.scales.Time <= 0 || r.scales.Concentration <= 0 {
		return 0, migerr.Invalid("result.CFDimensionless: Scales must be fully positive, got %+v", r.scales)
	}
	cf, err := r.CF(tDimensionless * r.scales.Time)
	if err != nil {
		return 0, err
	}
	return cf / r.scales.Concentration, nil
}

// Mesh, Medium and Far expose the run-scoped geometry a Result was
// computed against, needed by the scenario chainer and by Resume/Concat.
func (r *Result) Mesh() mesh.Mesh         { return r.mesh }
func (r *Result) Medium() medium.Medium   { return r.med }
func (r *Result) Far() op.FarBoundary     { return r.far }
func (r *Result) Last() snap.Snapshot     { return r.series[len(r.series)-1].Clone() }
func (r *Result) Series() snap.Series     { return append(snap.Series{}, r.series...) }

// Savestate returns a value-typed restart record for the last snapshot.
func (r *Result) Savestate() Restart {
	return Restart{
		Last:   r.Last(),
		Mesh:   r.mesh,
		Medium: r.med,
		Far:    r.far,
		Atol:   r.atol,
		Rtol:   r.rtol,
	}
}

// Resume produces a fresh Result continuing from the last snapshot, using
// the same mesh, medium and far-boundary policy for an additional run out
// to TimeGrid's final entry (TimeGrid[0] must equal the last snapshot's
// time).
func (r *Result) Resume(opts solve.Options, massBalanceTol float64, strict bool) (*Result, error) {
	if len(opts.TimeGrid) == 0 || opts.TimeGrid[0] != r.Last().T {
		return nil, migerr.Invalid("result.Resume: time grid must start at the last snapshot's time %v", r.Last().T)
	}
	operator, err := op.Assemble(r.mesh, r.med, r.far)
	if err != nil {
		return nil, err
	}
	last := r.Last()
	series, err := solve.Integrate(operator, last.C, last.CF, opts)
	if err != nil {
		return nil, err
	}
	return New(operator, series, r.scales, r.meta.Description, r.atol, r.rtol, massBalanceTol, strict)
}

// Concat concatenates two compatible Results (same mesh geometry, per
// mesh.SameGeometry): times are shifted by R_A's final time and snapshots
// appended. R_B's initial CF must equal R_A's final CF unless rebaseCF is
// true, in which case R_B's CF series is shifted to start there.
func (a *Result) Concat(b *Result, rebaseCF bool) (*Result, error) {
	if !mesh.SameGeometry(a.mesh, b.mesh) {
		return nil, migerr.Incompatible("result.Concat: mesh geometries differ")
	}
	aLast := a.Last()
	bFirst := b.series[0]
	cfShift := 0.0
	if aLast.CF != bFirst.CF {
		if !rebaseCF {
			return nil, migerr.Incompatible("result.Concat: R_B initial CF (%v) does not match R_A final CF (%v); pass rebaseCF to shift it", bFirst.CF, aLast.CF)
		}
		cfShift = aLast.CF - bFirst.CF
	}

	merged := make(snap.Series, 0, len(a.series)+len(b.series)-1)
	merged = append(merged, a.series...)
	tShift := aLast.T
	for i, s := range b.series {
		if i == 0 {
			continue // the join point is a.series' last snapshot, not repeated
		}
		merged = append(merged, snap.Snapshot{T: s.T + tShift, C: append([]float64{}, s.C...), CF: s.CF + cfShift})
	}

	warnings := append(append([]string{}, a.meta.Warnings...), b.meta.Warnings...)
	return &Result{
		mesh:   a.mesh,
		med:    b.med,
		far:    b.far,
		series: merged,
		scales: a.scales,
		meta:   Metadata{Description: a.meta.Description, Warnings: warnings},
		atol:   a.atol,
		rtol:   a.rtol,
	}, nil
}

// doc is the on-disk JSON schema for a Result, field order per spec.md
// §6: times, Cxt matrix, CF vector, scales, metadata. Go's encoding/json
// marshals struct fields in declaration order, so this order is load
// bearing.
type doc struct {
	Times    []float64   `json:"times"`
	Cxt      [][]float64 `json:"cxt"`
	CF       []float64   `json:"cf"`
	Scales   Scales      `json:"scales"`
	Metadata Metadata    `json:"metadata"`
}

// MarshalJSON encodes the Result per the on-disk schema of spec.md §6.
func (r *Result) MarshalJSON() ([]byte, error) {
	d := doc{
		Times:    r.Times(),
		Cxt:      make([][]float64, len(r.series)),
		CF:       make([]float64, len(r.series)),
		Scales:   r.scales,
		Metadata: r.meta,
	}
	for i, s := range r.series {
		d.Cxt[i] = append([]float64{}, s.C...)
		d.CF[i] = s.CF
	}
	return json.Marshal(d)
}
