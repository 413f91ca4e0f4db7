// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// gonumdense.go provides the "gonum-lu" SparseSolver/DenseSolver
// variants: the default, always-available backend for both the
// per-block sparse solver and the dense Schur solver, built on
// gonum.org/v1/gonum/mat (spec §9's "tagged variants for known
// implementations"; a MUMPS/MA57-style backend would register under a
// different name and swap in via SchurOptions without touching
// schur.SchurSolver).
package linsolve

import (
	"math"
	"reflect"

	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/schurnlp/sparseview"
)

const inertiaEps = 1e-10

func init() {
	RegisterSparseSolver("gonum-lu", newGonumSparseSolver)
	RegisterDenseSolver("gonum-lu", newGonumDenseSolver)
}

func rowMajor(dense [][]float64, n int) []float64 {
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		copy(data[i*n:(i+1)*n], dense[i])
	}
	return data
}

func signCounts(vals []float64) (npos, nzero, nneg int) {
	for _, v := range vals {
		switch {
		case v > inertiaEps:
			npos++
		case v < -inertiaEps:
			nneg++
		default:
			nzero++
		}
	}
	return
}

// gonumSparseSolver is a SparseSolver bound to one SubproblemWorker's
// K_k view. It densifies the (typically small) block once per
// Factorize call; larger deployments register a real sparse factory
// instead (MUMPS/MA57-style), per the pluggability contract of spec
// §6/§9.
type gonumSparseSolver struct {
	view *sparseview.CSC
	n    int
	lu   mat.LU
}

func newGonumSparseSolver(k *sparseview.CSC, opts map[string]interface{}) (SparseSolver, error) {
	if k.NRows != k.NCols {
		return nil, chk.Err("linsolve: gonum-lu sparse solver requires a square block, got %dx%d", k.NRows, k.NCols)
	}
	return &gonumSparseSolver{view: k, n: k.NRows}, nil
}

func (s *gonumSparseSolver) Factorize() error {
	a := mat.NewDense(s.n, s.n, rowMajor(s.view.ToDenseSymmetric(), s.n))
	s.lu.Factorize(a)
	if math.IsInf(s.lu.Cond(), 1) {
		return ErrSingular
	}
	return nil
}

func (s *gonumSparseSolver) Solve(x []float64) error {
	b := mat.NewDense(s.n, 1, append([]float64(nil), x...))
	var out mat.Dense
	if err := s.lu.SolveTo(&out, false, b); err != nil {
		return chk.Err("linsolve: %v", err)
	}
	for i := 0; i < s.n; i++ {
		x[i] = out.At(i, 0)
	}
	return nil
}

func (s *gonumSparseSolver) Inertia() (npos, nzero, nneg int, err error) {
	sym := mat.NewSymDense(s.n, rowMajor(s.view.ToDenseSymmetric(), s.n))
	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return 0, 0, 0, ErrInertiaUnavailable
	}
	p, z, n := signCounts(eig.Values(nil))
	return p, z, n, nil
}

func (s *gonumSparseSolver) Refine() (bool, error) {
	// the dense LU backend has no native refinement step; report "no
	// improvement" so callers fall back to whatever recourse they have
	// rather than being told a refinement happened that didn't.
	return false, nil
}

func (s *gonumSparseSolver) Supports(kind reflect.Kind) bool {
	return kind == reflect.Float64
}

// gonumDenseSolver is the default DenseSolver bound to S.
type gonumDenseSolver struct {
	n   int
	sym *mat.SymDense
	lu  mat.LU
}

func newGonumDenseSolver(opts map[string]interface{}) (DenseSolver, error) {
	return &gonumDenseSolver{}, nil
}

func (s *gonumDenseSolver) Factorize(sym *mat.SymDense) error {
	n, _ := sym.Dims()
	s.n = n
	s.sym = sym
	s.lu.Factorize(sym)
	if math.IsInf(s.lu.Cond(), 1) {
		return ErrSingular
	}
	return nil
}

func (s *gonumDenseSolver) Solve(x []float64) error {
	b := mat.NewDense(s.n, 1, append([]float64(nil), x...))
	var out mat.Dense
	if err := s.lu.SolveTo(&out, false, b); err != nil {
		return chk.Err("linsolve: %v", err)
	}
	for i := 0; i < s.n; i++ {
		x[i] = out.At(i, 0)
	}
	return nil
}

func (s *gonumDenseSolver) Inertia() (npos, nzero, nneg int, err error) {
	if s.sym == nil {
		return 0, 0, 0, ErrInertiaUnavailable
	}
	var eig mat.EigenSym
	if !eig.Factorize(s.sym, false) {
		return 0, 0, 0, ErrInertiaUnavailable
	}
	p, z, n := signCounts(eig.Values(nil))
	return p, z, n, nil
}
