// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package snap implements the Snapshot tuple shared by the integrator
// driver, the post-processor and the result container: (t, per-cell
// concentration, medium concentration).
package snap

// Snapshot is one instant of the simulation state.
type Snapshot struct {
	T  float64   // time [s] or dimensionless, per the caller's view
	C  []float64 // per-cell wall concentration
	CF float64   // medium concentration
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := make([]float64, len(s.C))
	copy(c, s.C)
	return Snapshot{T: s.T, C: c, CF: s.CF}
}

// Series is a strictly time-ordered stack of snapshots.
type Series []Snapshot

// Monotone reports whether the series is strictly increasing in time.
func (ss Series) Monotone() bool {
	for i := 1; i < len(ss); i++ {
		if ss[i].T <= ss[i-1].T {
			return false
		}
	}
	return true
}
