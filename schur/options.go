// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schur

import (
	"fmt"
	"time"
)

// Options is SchurOptions from spec §6: a single explicit struct whose
// recognized fields are enumerated here. Unlike gofem's JSON-driven
// inp.Simulation, there is no silent-unknown-field path — Options is a
// plain Go struct, so an unrecognized key can only arise from whatever
// the caller's own config-loading layer accepts, and that layer is
// responsible for rejecting it before populating Options (spec §9's
// "module-level option dictionary" note).
type Options struct {
	// Partition is pi, required, see spec §4.5/§3.
	Partition []int
	// SubproblemSolverName selects the registered linsolve.SparseSolver
	// factory for every worker's K_k; defaults to "gonum-lu".
	SubproblemSolverName    string
	SubproblemSolverOptions map[string]interface{}
	// DenseSolverName selects the registered linsolve.DenseSolver
	// factory for the Schur complement S; defaults to "gonum-lu".
	DenseSolverName    string
	DenseSolverOptions map[string]interface{}
	// PrintLevel is the minimum log level name ("DEBUG","INFO","WARN",
	// "ERROR"); ERROR silences all but error-level lines.
	PrintLevel string
	// MaxCPUTime is a soft wall-clock budget. SchurSolver does not
	// enforce it (spec §5: "no cancellation or timeouts"); it is
	// surfaced for the outer solver to consume.
	MaxCPUTime time.Duration
}

func (o *Options) setDefaults() {
	if o.SubproblemSolverName == "" {
		o.SubproblemSolverName = "gonum-lu"
	}
	if o.DenseSolverName == "" {
		o.DenseSolverName = "gonum-lu"
	}
}

func (o *Options) validate() error {
	if len(o.Partition) == 0 {
		return fmt.Errorf("%w: partition vector is missing or empty", ErrInvalidPartition)
	}
	return nil
}
