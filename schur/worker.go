// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schur

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/schurnlp/linsolve"
	"github.com/cpmech/schurnlp/sparseview"
)

// SubproblemWorker owns one partition's diagonal block K_k, its
// coupling block B_k (rows V_k, columns V_0), a scratch vector, and a
// sparse direct solver bound to K_k (spec §3, §4.2).
type SubproblemWorker struct {
	id  int // partition number k (1-based)
	vk  []int
	kk  *sparseview.CSC
	gKk []int
	bk  *sparseview.CSC
	gBk []int

	nzCols []int // nz_cols(B_k), local column indices sorted ascending

	solver  linsolve.SparseSolver
	scratch []float64 // w_k, length |V_k|
	contribBuf []float64 // length n0, reused across updateSchur/contrib calls
}

func newSubproblemWorker(id int, vk []int, kk *sparseview.CSC, gKk []int, bk *sparseview.CSC, gBk []int, nzCols []int, solver linsolve.SparseSolver, n0 int) *SubproblemWorker {
	return &SubproblemWorker{
		id:      id,
		vk:      vk,
		kk:      kk,
		gKk:     gKk,
		bk:      bk,
		gBk:     gBk,
		nzCols:  nzCols,
		solver:  solver,
		scratch: make([]float64, len(vk)),
		contribBuf: make([]float64, n0),
	}
}

// refresh bulk-copies the gathered non-zeros from the parent KKT
// matrix into K_k and B_k. Pattern is constant; only values change.
func (w *SubproblemWorker) refresh(parentNzval []float64) error {
	if err := w.kk.Refresh(parentNzval, w.gKk); err != nil {
		return chk.Err("schur: partition %d: %v", w.id, err)
	}
	if err := w.bk.Refresh(parentNzval, w.gBk); err != nil {
		return chk.Err("schur: partition %d: %v", w.id, err)
	}
	return nil
}

// factorizeBlock factorizes K_k.
func (w *SubproblemWorker) factorizeBlock() error {
	if err := w.solver.Factorize(); err != nil {
		return fmt.Errorf("%w: partition %d: %v", ErrBlockSingular, w.id, err)
	}
	return nil
}

// updateSchur implements spec §4.2's update_schur: for each Schur
// column in colorCols that B_k actually touches, solve K_k y = B_k[:,j]
// and subtract B_k^T y from column j of s. The columns touched by this
// call must be disjoint from any column touched concurrently by
// another worker — guaranteed by ColoringSchedule's round/color
// assignment, not by any lock here.
func (w *SubproblemWorker) updateSchur(s *mat.Dense, colorCols []int) error {
	targets := intersectSorted(colorCols, w.nzCols)
	for _, j := range targets {
		for i := range w.scratch {
			w.scratch[i] = 0
		}
		for p := w.bk.Colptr[j]; p < w.bk.Colptr[j+1]; p++ {
			w.scratch[w.bk.Rowind[p]] = w.bk.Nzval[p]
		}
		if err := w.solver.Solve(w.scratch); err != nil {
			return fmt.Errorf("%w: partition %d: %v", ErrBlockSingular, w.id, err)
		}
		w.btMulInto(w.contribBuf)
		for i, v := range w.contribBuf {
			s.Set(i, j, s.At(i, j)-v)
		}
	}
	return nil
}

// forward scatters x[V_k] into the scratch vector and solves
// K_k w_k <- w_k in place (spec §4.2 "forward").
func (w *SubproblemWorker) forward(x []float64) error {
	for i, gidx := range w.vk {
		w.scratch[i] = x[gidx]
	}
	if err := w.solver.Solve(w.scratch); err != nil {
		return fmt.Errorf("%w: partition %d: %v", ErrBlockSingular, w.id, err)
	}
	return nil
}

// contrib updates w0 <- w0 - B_k^T w_k, using the scratch vector left
// behind by forward (spec §4.2 "contrib"). Must be called
// sequentially across workers — accumulating into the shared w0 would
// race (spec §4.4.2 step 3).
func (w *SubproblemWorker) contrib(w0 []float64) {
	w.btMulInto(w.contribBuf)
	for i, v := range w.contribBuf {
		w0[i] -= v
	}
}

// back computes w_k <- x[V_k] - B_k * w0, solves K_k w_k <- w_k, and
// writes the result back into x[V_k] (spec §4.2 "back"). w0 holds the
// border solution x_0, so this is x_k = K_k^-1 (b_k - B_k x_0).
func (w *SubproblemWorker) back(x []float64, w0 []float64) error {
	for i, gidx := range w.vk {
		w.scratch[i] = x[gidx]
	}
	for i := 0; i < w.bk.NCols; i++ {
		for p := w.bk.Colptr[i]; p < w.bk.Colptr[i+1]; p++ {
			w.scratch[w.bk.Rowind[p]] -= w.bk.Nzval[p] * w0[i]
		}
	}
	if err := w.solver.Solve(w.scratch); err != nil {
		return fmt.Errorf("%w: partition %d: %v", ErrBlockSingular, w.id, err)
	}
	for i, gidx := range w.vk {
		x[gidx] = w.scratch[i]
	}
	return nil
}

// btMulInto computes out <- B_k^T * w.scratch (out has length n0 ==
// B_k's column count), in a single pass over B_k's stored entries.
func (w *SubproblemWorker) btMulInto(out []float64) {
	for i := range out {
		out[i] = 0
	}
	for i := 0; i < w.bk.NCols; i++ {
		var sum float64
		for p := w.bk.Colptr[i]; p < w.bk.Colptr[i+1]; p++ {
			sum += w.bk.Nzval[p] * w.scratch[w.bk.Rowind[p]]
		}
		out[i] = sum
	}
}

// intersectSorted returns the sorted intersection of two ascending,
// duplicate-free int slices.
func intersectSorted(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
