// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparseview

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// indexMap returns idx such that idx[global] = local for each position
// in the (assumed duplicate-free) slice ids.
func indexMap(ids []int) map[int]int {
	m := make(map[int]int, len(ids))
	for li, gi := range ids {
		m[gi] = li
	}
	return m
}

func colOf(parent *CSC) []int {
	out := make([]int, len(parent.Rowind))
	for j := 0; j < parent.NCols; j++ {
		for k := parent.Colptr[j]; k < parent.Colptr[j+1]; k++ {
			out[k] = j
		}
	}
	return out
}

func isSortedAscending(ids []int) bool {
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			return false
		}
	}
	return true
}

// SymmetricView extracts the lower-triangular symmetric sub-matrix of
// parent on index set V (spec §4.1's "symmetric view"). V must be
// sorted ascending. inds names the pool of parent storage positions
// still available for extraction; matched positions are removed from
// *inds so that K_0 and every K_k can be carved from the same parent
// without overlap. It returns the view and, in gatherInds, the parent
// position each view entry should be refreshed from (spec §3's view
// contract).
func SymmetricView(parent *CSC, V []int, inds *[]int) (view *CSC, gatherInds []int, err error) {
	if !isSortedAscending(V) {
		return nil, nil, chk.Err("sparseview: index set must be sorted ascending")
	}
	localIdx := indexMap(V)
	cols := colOf(parent)

	matched := make([]int, 0)
	remaining := make([]int, 0, len(*inds))
	for _, p := range *inds {
		i := parent.Rowind[p]
		j := cols[p]
		if _, iok := localIdx[i]; iok {
			if _, jok := localIdx[j]; jok {
				matched = append(matched, p)
				continue
			}
		}
		remaining = append(remaining, p)
	}
	*inds = remaining

	n := len(V)
	colCount := make([]int, n)
	for _, p := range matched {
		colCount[localIdx[cols[p]]]++
	}
	colptr := make([]int, n+1)
	for j := 0; j < n; j++ {
		colptr[j+1] = colptr[j] + colCount[j]
	}
	rowind := make([]int, len(matched))
	gatherInds = make([]int, len(matched))
	cursor := append([]int(nil), colptr[:n]...)
	for _, p := range matched {
		i, j := parent.Rowind[p], cols[p]
		li, lj := localIdx[i], localIdx[j]
		pos := cursor[lj]
		rowind[pos] = li
		gatherInds[pos] = p
		cursor[lj]++
	}
	view = NewCSC(n, n, colptr, rowind)
	return view, gatherInds, nil
}

type rectEntry struct {
	parentPos    int
	localRow     int
	localCol     int
}

// RectangularView extracts the rectangular sub-matrix of parent on row
// set R and column set C (spec §4.1's "rectangular view"), used for
// B_k = rows V_k, columns V_0. Because parent stores only the lower
// triangle, an (R,C) pair is matched either directly ((i,j) with
// i in R, j in C) or via the implied symmetric entry ((i,j) with
// i in C, j in R, contributing view[localR(j), localC(i)]). It returns
// the view, the parent position to gather each entry from, and nzCols:
// the local column indices (0-based) whose column is non-empty, used
// to skip zero columns in update_schur (spec §4.2).
func RectangularView(parent *CSC, R, C []int, inds *[]int) (view *CSC, gatherInds []int, nzCols []int, err error) {
	idxR := indexMap(R)
	idxC := indexMap(C)
	cols := colOf(parent)

	var matched []rectEntry
	remaining := make([]int, 0, len(*inds))
	for _, p := range *inds {
		i := parent.Rowind[p]
		j := cols[p]
		if lr, ok := idxR[i]; ok {
			if lc, ok2 := idxC[j]; ok2 {
				matched = append(matched, rectEntry{p, lr, lc})
				continue
			}
		}
		if lr, ok := idxR[j]; ok {
			if lc, ok2 := idxC[i]; ok2 {
				matched = append(matched, rectEntry{p, lr, lc})
				continue
			}
		}
		remaining = append(remaining, p)
	}
	*inds = remaining

	sort.Slice(matched, func(a, b int) bool {
		if matched[a].localCol != matched[b].localCol {
			return matched[a].localCol < matched[b].localCol
		}
		return matched[a].localRow < matched[b].localRow
	})

	nCols := len(C)
	colCount := make([]int, nCols)
	for _, e := range matched {
		colCount[e.localCol]++
	}
	colptr := make([]int, nCols+1)
	for j := 0; j < nCols; j++ {
		colptr[j+1] = colptr[j] + colCount[j]
		if colCount[j] > 0 {
			nzCols = append(nzCols, j)
		}
	}
	rowind := make([]int, len(matched))
	gatherInds = make([]int, len(matched))
	cursor := append([]int(nil), colptr[:nCols]...)
	for _, e := range matched {
		pos := cursor[e.localCol]
		rowind[pos] = e.localRow
		gatherInds[pos] = e.parentPos
		cursor[e.localCol]++
	}
	view = NewCSC(len(R), nCols, colptr, rowind)
	return view, gatherInds, nzCols, nil
}

// AllPositions returns the full pool of parent storage positions
// (0..NNZ()-1), the initial value of inds passed to the first
// SymmetricView/RectangularView call during SchurSolver construction.
func AllPositions(parent *CSC) []int {
	out := make([]int, parent.NNZ())
	for i := range out {
		out[i] = i
	}
	return out
}
