// Copyright 2024 The Packmig Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command packmig runs a wall/medium migration scenario described by a
// JSON scenario file and writes a JSON result archive alongside it.
package main

import (
	"encoding/json"
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/packmig/chain"
	"github.com/cpmech/packmig/internal/logx"
	"github.com/cpmech/packmig/migerr"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			logx.Error("ERROR: %v\n", err)
		}
	}()

	logx.Banner("packmig -- 1D food-packaging migration simulator",
		"Finite-volume diffusion with partitioning across a multilayer wall",
		"in contact with a finite well-mixed medium.")

	flag.Parse()
	if len(flag.Args()) < 1 {
		chk.Panic("please provide a scenario filename, e.g. packmig scenario.json")
	}
	scenfn := flag.Arg(0)
	outfn := scenfn + ".result.json"
	if len(flag.Args()) > 1 {
		outfn = flag.Arg(1)
	}

	if err := run(scenfn, outfn); err != nil {
		chk.Panic("%v", err)
	}
}

// run reads the scenario file at scenfn, executes its chain of contact
// steps, and writes the JSON result archive to outfn. Factored out of
// main so the CLI's end-to-end path is testable without a subprocess.
func run(scenfn, outfn string) error {
	buf, err := io.ReadFile(scenfn)
	if err != nil {
		return migerr.Invalid("cannot read scenario file %q: %v", scenfn, err)
	}

	sf, err := chain.ParseScenario(buf)
	if err != nil {
		return err
	}

	ml, steps, opts, err := sf.Build()
	if err != nil {
		return err
	}

	logx.Info("running %d step(s) over %d layer(s)", len(steps), len(ml.Layers))
	c, err := chain.Run(ml, steps, opts)
	if err != nil {
		return err
	}

	for i, r := range c.Steps {
		for _, w := range r.Warnings() {
			logx.Step("step %d: %s", i, w)
		}
	}
	logx.Info("total CF transferred across the chain: %.6g", c.TotalCF())

	out, err := json.MarshalIndent(c.Steps, "", "  ")
	if err != nil {
		return migerr.Invalid("cannot encode result archive: %v", err)
	}
	io.WriteFileV(outfn, out)
	logx.Info("wrote %s", outfn)
	return nil
}
