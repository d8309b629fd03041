// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx is a thin colored-console status logger for cmd/packmig,
// in the teacher's banner/error idiom (gosl/io's colored Pf* family)
// rather than a hand-rolled formatter.
package logx

import "github.com/cpmech/gosl/io"

// Banner prints the program banner in the teacher's style: a white
// title line followed by each of lines as a plain line.
func Banner(title string, lines ...string) {
	io.PfWhite("\n%s\n\n", title)
	for _, l := range lines {
		io.Pf("%s\n", l)
	}
}

// Info prints a plain informational line.
func Info(format string, args ...interface{}) {
	io.Pf(format+"\n", args...)
}

// Step prints a yellow progress line, used between chained runs.
func Step(format string, args ...interface{}) {
	io.Pfyel(format+"\n", args...)
}

// Error prints a red error line.
func Error(format string, args ...interface{}) {
	io.PfRed(format+"\n", args...)
}
