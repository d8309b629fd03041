// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestRegisterAndLookup(tst *testing.T) {
	chk.PrintTitle("catalog.Registry: register then look up a preset")
	r := NewRegistry()
	e := Entry{Name: "LDPE/toluene", D0: 1e-6, Ea: 40000, KDefault: 1, KBySimulant: map[string]float64{"fatty": 5}}
	r.Register("ldpe-toluene", e)

	got, ok := r.Lookup("ldpe-toluene")
	if !ok {
		tst.Fatal("expected preset to be found")
	}
	chk.Scalar(tst, "KDefault round-trips", 1e-12, got.KDefault, 1)

	if _, ok := r.Lookup("missing"); ok {
		tst.Fatal("expected lookup of an unregistered name to fail")
	}
}

func TestEntryArrheniusDiffusivity(tst *testing.T) {
	chk.PrintTitle("catalog.Entry.D follows the Arrhenius law and is monotone in T")
	e := Entry{D0: 1e-6, Ea: 40000}
	dLow := e.D(283)
	dHigh := e.D(323)
	if dHigh <= dLow {
		tst.Fatalf("expected diffusivity to increase with temperature, got D(283)=%v D(323)=%v", dLow, dHigh)
	}
}

func TestEntryKFallsBackToDefault(tst *testing.T) {
	chk.PrintTitle("catalog.Entry.K falls back to KDefault for an unlisted simulant")
	e := Entry{KDefault: 2, KBySimulant: map[string]float64{"fatty": 5}}
	chk.Scalar(tst, "listed simulant", 1e-12, e.K(298, "fatty"), 5)
	chk.Scalar(tst, "unlisted simulant falls back", 1e-12, e.K(298, "aqueous"), 2)
}

func TestFromCatalogBuildsValidLayer(tst *testing.T) {
	chk.PrintTitle("catalog.FromCatalog adapts a preset into a valid Layer")
	e := Entry{Name: "LDPE/toluene", D0: 1e-6, Ea: 40000, KDefault: 3}
	l, err := FromCatalog(e, 298, "ethanol10", 100e-6, 0, 4)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if l.Tag != "LDPE/toluene" {
		tst.Fatalf("expected tag to carry the entry name, got %q", l.Tag)
	}
	if l.D <= 0 || l.K != 3 {
		tst.Fatalf("expected positive D and K=3, got D=%v K=%v", l.D, l.K)
	}
}

func TestFromCatalogRejectsInvalidGeometry(tst *testing.T) {
	chk.PrintTitle("catalog.FromCatalog rejects a non-positive thickness")
	e := Entry{D0: 1e-6, Ea: 40000, KDefault: 1}
	_, err := FromCatalog(e, 298, "fatty", 0, 0, 4)
	if err == nil {
		tst.Fatal("expected an error for zero thickness")
	}
}
