// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chain

import (
	"encoding/json"

	"github.com/cpmech/packmig/medium"
	"github.com/cpmech/packmig/migerr"
	"github.com/cpmech/packmig/op"
	"github.com/cpmech/packmig/wall"
)

// ScenarioFile is the on-disk JSON description of a chained run: a
// multilayer wall and an ordered list of contact steps, independent of
// the restart-record schema a Result marshals to (spec.md §6). It gives
// cmd/packmig and batch tooling a stable, human-editable input format.
type ScenarioFile struct {
	Layers  []LayerSpec `json:"layers"`
	Steps   []StepSpec  `json:"steps"`
	NMin    int         `json:"n_min,omitempty"`
	Atol    float64     `json:"atol,omitempty"`
	Rtol    float64     `json:"rtol,omitempty"`
	MassTol float64     `json:"mass_balance_tol,omitempty"`
	Strict  bool        `json:"strict_mass_balance,omitempty"`
}

// LayerSpec is the JSON-friendly twin of wall.Layer.
type LayerSpec struct {
	Tag       string  `json:"tag,omitempty"`
	Thickness float64 `json:"thickness"`
	D         float64 `json:"diffusivity"`
	K         float64 `json:"partition"`
	C0        float64 `json:"c0"`
	NCells    int     `json:"n_cells"`
}

// StepSpec is the JSON-friendly twin of Step.
type StepSpec struct {
	Area        float64   `json:"area"`
	Volume      float64   `json:"volume"`
	KF          float64   `json:"kf"`
	CF0         float64   `json:"cf0"`
	H           *float64  `json:"h,omitempty"`
	Species     string    `json:"species,omitempty"`
	Far         string    `json:"far_boundary"` // "impermeable", "symmetric" or "periodic"
	TimeGrid    []float64 `json:"time_grid"`
	Reorient    bool      `json:"reorient,omitempty"`
	Description string    `json:"description,omitempty"`
}

// ParseScenario decodes a ScenarioFile from JSON.
func ParseScenario(data []byte) (ScenarioFile, error) {
	var sf ScenarioFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return ScenarioFile{}, migerr.Invalid("chain.ParseScenario: %v", err)
	}
	return sf, nil
}

// Build converts a ScenarioFile into the Multilayer, Steps and Options
// Run expects.
func (sf ScenarioFile) Build() (wall.Multilayer, []Step, Options, error) {
	layers := make([]wall.Layer, len(sf.Layers))
	for i, ls := range sf.Layers {
		layers[i] = wall.Layer{
			Tag:       ls.Tag,
			Thickness: ls.Thickness,
			D:         ls.D,
			K:         ls.K,
			C0:        ls.C0,
			NCells:    ls.NCells,
		}
	}
	ml, err := wall.New(layers...)
	if err != nil {
		return wall.Multilayer{}, nil, Options{}, err
	}

	steps := make([]Step, len(sf.Steps))
	for i, ss := range sf.Steps {
		far, err := parseFarBoundary(ss.Far)
		if err != nil {
			return wall.Multilayer{}, nil, Options{}, migerr.Invalid("step %d: %v", i, err)
		}
		steps[i] = Step{
			Medium: medium.Medium{
				Area:    ss.Area,
				Volume:  ss.Volume,
				KF:      ss.KF,
				CF0:     ss.CF0,
				H:       ss.H,
				Species: ss.Species,
			},
			Far:         far,
			TimeGrid:    ss.TimeGrid,
			Reorient:    ss.Reorient,
			Description: ss.Description,
		}
	}

	opts := Options{
		NMin:              sf.NMin,
		Atol:              sf.Atol,
		Rtol:              sf.Rtol,
		MassBalanceTol:    sf.MassTol,
		StrictMassBalance: sf.Strict,
	}
	return ml, steps, opts, nil
}

func parseFarBoundary(s string) (op.FarBoundary, error) {
	switch s {
	case "", "impermeable":
		return op.Impermeable, nil
	case "symmetric":
		return op.Symmetric, nil
	case "periodic":
		return op.Periodic, nil
	default:
		return 0, migerr.Invalid("unknown far_boundary %q", s)
	}
}
