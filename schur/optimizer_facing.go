// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schur

import "fmt"

// OptimizerFacing adapts a SchurSolver to the optimizer-facing
// interface of spec §6 (input_type/factorize/solve/is_inertia/inertia/
// improve/introduce), keeping the outer interior-point solver's
// contract free of schur's internal types.
type OptimizerFacing struct {
	s *SchurSolver
}

// NewOptimizerFacing wraps s.
func NewOptimizerFacing(s *SchurSolver) *OptimizerFacing {
	return &OptimizerFacing{s: s}
}

// InputType reports the matrix type this solver consumes.
func (o *OptimizerFacing) InputType() string { return "csc-symmetric-lower" }

// Factorize refreshes and factorizes the bound KKT system.
func (o *OptimizerFacing) Factorize() error { return o.s.Factorize() }

// Solve solves the factorized system in place.
func (o *OptimizerFacing) Solve(rhsInPlace []float64) error { return o.s.Solve(rhsInPlace) }

// IsInertia always reports true; it does not query the inner solvers.
// An inner solver without inertia makes Inertia return an error
// wrapping ErrInertiaUnavailable.
func (o *OptimizerFacing) IsInertia() bool { return true }

// Inertia returns the (n+, n0, n-) triple.
func (o *OptimizerFacing) Inertia() (npos, nzero, nneg int, err error) { return o.s.Inertia() }

// Improve runs one iterative-refinement step across every block.
func (o *OptimizerFacing) Improve() (bool, error) { return o.s.Refine() }

// Introduce returns a human-readable description, per spec §6.
func (o *OptimizerFacing) Introduce() string {
	return fmt.Sprintf("Schur-complement KKT solver: %d partitions, border size %d", o.s.NumPartitions(), o.s.BorderSize())
}
