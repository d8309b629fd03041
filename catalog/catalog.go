// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package catalog implements an explicit, caller-owned registry of
// polymer/migrant parameter presets. There is no package-level registry:
// callers construct their own with NewRegistry and pass it wherever a
// preset lookup is needed, keeping the core free of init-time global
// state (spec.md §9).
package catalog

import (
	"math"

	"github.com/cpmech/packmig/migerr"
	"github.com/cpmech/packmig/wall"
)

// MaterialProps is the seam through which a property database (out of
// scope for the core) supplies temperature- and substance-dependent
// coefficients. The core never queries it directly; only FromCatalog
// does, at the point a Layer is constructed.
type MaterialProps interface {
	// D returns the diffusivity at temperature T [K].
	D(T float64) float64
	// K returns the partition coefficient at temperature T [K] for the
	// contact named by substance (Entry reads it as a simulant family).
	K(T float64, substance string) float64
}

// Entry is a tagged record describing one polymer/migrant preset: an
// Arrhenius-style diffusivity law and a table of partition coefficients
// per simulant family. Entry implements MaterialProps.
type Entry struct {
	Name string // polymer or migrant identity, e.g. "LDPE/toluene"

	// Arrhenius diffusivity: D(T) = D0 * exp(-Ea/(R*T))
	D0 float64 // pre-exponential factor [m^2/s]
	Ea float64 // activation energy [J/mol]

	// KBySimulant maps a simulant family name (e.g. "ethanol10",
	// "fatty", "aqueous") to its partition coefficient. A simulant family
	// with no entry falls back to KDefault.
	KBySimulant map[string]float64
	KDefault    float64
}

// gasConstant is the molar gas constant R [J/(mol K)].
const gasConstant = 8.314462618

// D implements MaterialProps using the Arrhenius law.
func (e Entry) D(T float64) float64 {
	if e.D0 <= 0 || T <= 0 {
		return 0
	}
	return e.D0 * math.Exp(-e.Ea/(gasConstant*T))
}

// K implements MaterialProps, falling back to KDefault for an unlisted
// simulant family.
func (e Entry) K(_ float64, substance string) float64 {
	if k, ok := e.KBySimulant[substance]; ok {
		return k
	}
	return e.KDefault
}

// Registry holds named presets. The zero value is not usable; construct
// one with NewRegistry.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds or replaces a named preset.
func (r *Registry) Register(name string, e Entry) {
	r.entries[name] = e
}

// Lookup retrieves a named preset.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// FromCatalog adapts a MaterialProps preset into a concrete wall.Layer at
// a given temperature, substance and geometry. This is the only place the
// core touches MaterialProps; everything downstream works with plain
// wall.Layer values.
func FromCatalog(props MaterialProps, T float64, substance string, thickness, c0 float64, nCells int) (wall.Layer, error) {
	l := wall.Layer{
		Thickness: thickness,
		D:         props.D(T),
		K:         props.K(T, substance),
		C0:        c0,
		NCells:    nCells,
	}
	if e, ok := props.(Entry); ok {
		l.Tag = e.Name
	}
	if err := l.Validate(); err != nil {
		return wall.Layer{}, migerr.Invalid("catalog.FromCatalog: %v", err)
	}
	return l, nil
}
