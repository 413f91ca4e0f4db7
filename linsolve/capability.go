// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linsolve declares the capability contracts expected of
// pluggable inner solvers (spec §6) and a name-keyed factory registry
// for them, mirroring gofem's la.GetSolver(name) / fem.solverallocators
// pattern in fem/solver.go and fem/domain.go: dispatch is resolved once
// at construction by name, never re-resolved per call.
package linsolve

import (
	"reflect"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/schurnlp/sparseview"
)

// SparseSolver is the capability contract expected of each
// SubproblemWorker's inner solver, bound to one diagonal block K_k.
type SparseSolver interface {
	// Factorize factorizes the bound matrix. It must return
	// ErrSingular (or an error wrapping it) if the matrix is singular.
	Factorize() error
	// Solve solves K_k x = x in place.
	Solve(x []float64) error
	// Inertia returns the (n+, n0, n-) triple, or an error if the
	// concrete solver does not support it.
	Inertia() (npos, nzero, nneg int, err error)
	// Refine performs one step of iterative refinement, returning
	// whether the residual improved.
	Refine() (bool, error)
	// Supports reports whether the solver accepts the given
	// floating-point kind (reflect.Float32 or reflect.Float64).
	Supports(kind reflect.Kind) bool
}

// DenseSolver is the capability contract expected of the top-level
// solver bound to the dense Schur complement S.
type DenseSolver interface {
	Factorize(s *mat.SymDense) error
	Solve(x []float64) error
	Inertia() (npos, nzero, nneg int, err error)
}

// ErrSingular is returned (or wrapped) by Factorize when the bound
// matrix is numerically singular.
var ErrSingular = chk.Err("linsolve: matrix is singular")

// ErrInertiaUnavailable is returned by Inertia when the concrete
// solver has no inertia capability.
var ErrInertiaUnavailable = chk.Err("linsolve: inertia not available")

// SparseSolverFactory builds a SparseSolver bound to k, honoring opts.
type SparseSolverFactory func(k *sparseview.CSC, opts map[string]interface{}) (SparseSolver, error)

// DenseSolverFactory builds a DenseSolver honoring opts.
type DenseSolverFactory func(opts map[string]interface{}) (DenseSolver, error)

var (
	mu              sync.Mutex
	sparseFactories = make(map[string]SparseSolverFactory)
	denseFactories  = make(map[string]DenseSolverFactory)
)

// RegisterSparseSolver registers a named sparse-solver factory. Called
// from package init() the way fem/solver.go populates
// solverallocators.
func RegisterSparseSolver(name string, f SparseSolverFactory) {
	mu.Lock()
	defer mu.Unlock()
	sparseFactories[name] = f
}

// RegisterDenseSolver registers a named dense-solver factory.
func RegisterDenseSolver(name string, f DenseSolverFactory) {
	mu.Lock()
	defer mu.Unlock()
	denseFactories[name] = f
}

// GetSparseSolverFactory looks up a registered sparse-solver factory
// by name.
func GetSparseSolverFactory(name string) (SparseSolverFactory, error) {
	mu.Lock()
	defer mu.Unlock()
	f, ok := sparseFactories[name]
	if !ok {
		return nil, chk.Err("linsolve: no sparse solver registered under name %q", name)
	}
	return f, nil
}

// GetDenseSolverFactory looks up a registered dense-solver factory by
// name.
func GetDenseSolverFactory(name string) (DenseSolverFactory, error) {
	mu.Lock()
	defer mu.Unlock()
	f, ok := denseFactories[name]
	if !ok {
		return nil, chk.Err("linsolve: no dense solver registered under name %q", name)
	}
	return f, nil
}
