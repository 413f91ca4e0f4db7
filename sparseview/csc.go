// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparseview implements SparseViewUtilities (spec §4.1): given
// a parent symmetric CSC matrix K (lower-triangular storage only,
// upper triangle implied) it derives symmetric and rectangular
// sub-matrix views that share K's non-zero storage rather than copying
// it, and that can be bulk-refreshed with a single gather whenever K's
// nzval changes but its pattern does not.
//
// The on-disk/in-memory layout mirrors the column-pointer/row-index/
// value triple used throughout the pack (github.com/james-bowman/sparse's
// CSC, gofem's la.CCMatrix) but is declared locally so view code can
// reach into colptr/rowind/nzval directly instead of going through an
// opaque At(i,j) accessor for every gathered entry.
package sparseview

import "github.com/cpmech/gosl/chk"

// CSC is a compressed-sparse-column matrix. Colptr has length NCols+1;
// Rowind and Nzval have length Colptr[NCols] (the number of stored
// entries).
type CSC struct {
	NRows, NCols int
	Colptr       []int
	Rowind       []int
	Nzval        []float64
}

// NewCSC constructs a CSC with the given dimensions and pattern. Nzval
// is allocated to match Rowind's length.
func NewCSC(nrows, ncols int, colptr, rowind []int) *CSC {
	return &CSC{
		NRows:  nrows,
		NCols:  ncols,
		Colptr: colptr,
		Rowind: rowind,
		Nzval:  make([]float64, len(rowind)),
	}
}

// NNZ returns the number of stored entries.
func (c *CSC) NNZ() int {
	if c == nil {
		return 0
	}
	return len(c.Nzval)
}

// Refresh performs the bulk gather `nzval <- parent[inds]` used by
// SubproblemWorker.refresh and SchurSolver.factorize's step 2 (spec
// §4.2, §4.4.1): inds holds, per stored position of c, the index into
// parent's Nzval to copy from, or -1 if the position has no
// corresponding parent entry (used for a view's implicit zero
// diagonal, never produced by SymmetricView/RectangularView but
// accepted for callers building synthetic views).
func (c *CSC) Refresh(parentNzval []float64, inds []int) error {
	if len(inds) != len(c.Nzval) {
		return chk.Err("sparseview: refresh index count %d does not match view size %d", len(inds), len(c.Nzval))
	}
	for k, idx := range inds {
		if idx < 0 {
			c.Nzval[k] = 0
			continue
		}
		c.Nzval[k] = parentNzval[idx]
	}
	return nil
}

// At returns the value at (i,j), scanning the column. Used by tests,
// not on any hot path.
func (c *CSC) At(i, j int) float64 {
	for k := c.Colptr[j]; k < c.Colptr[j+1]; k++ {
		if c.Rowind[k] == i {
			return c.Nzval[k]
		}
	}
	return 0
}

// ToDenseSymmetric expands a lower-triangular-stored symmetric CSC
// into a full n x n dense slice-of-slices, for use by the reference
// dense factorization in property tests (spec §8 property 2/3) and by
// the default gonum-backed solvers.
func (c *CSC) ToDenseSymmetric() [][]float64 {
	n := c.NRows
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	for j := 0; j < c.NCols; j++ {
		for k := c.Colptr[j]; k < c.Colptr[j+1]; k++ {
			i := c.Rowind[k]
			v := c.Nzval[k]
			out[i][j] = v
			if i != j {
				out[j][i] = v
			}
		}
	}
	return out
}

// ToDenseRect expands a rectangular CSC into a dense slice-of-slices.
func (c *CSC) ToDenseRect() [][]float64 {
	out := make([][]float64, c.NRows)
	for i := range out {
		out[i] = make([]float64, c.NCols)
	}
	for j := 0; j < c.NCols; j++ {
		for k := c.Colptr[j]; k < c.Colptr[j+1]; k++ {
			out[c.Rowind[k]][j] = c.Nzval[k]
		}
	}
	return out
}
