// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparseview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestMatrix builds the 3x3 lower-triangular symmetric CSC used
// in spec §8 scenario S2: K = [[2,0,1];[0,2,1];[1,1,2]].
func buildTestMatrix() *CSC {
	// columns: col0 -> rows {0,2}; col1 -> rows {1,2}; col2 -> row {2}
	colptr := []int{0, 2, 4, 5}
	rowind := []int{0, 2, 1, 2, 2}
	nzval := []float64{2, 1, 2, 1, 2}
	m := NewCSC(3, 3, colptr, rowind)
	copy(m.Nzval, nzval)
	return m
}

func TestSymmetricViewCoverageAndTranspose(t *testing.T) {
	parent := buildTestMatrix()
	inds := AllPositions(parent)

	// V_0 = {2} (partition 0), V_1 = {0}, V_2 = {1} -- mirrors S2's
	// pi = (1,2,0).
	k0, g0, err := SymmetricView(parent, []int{2}, &inds)
	require.NoError(t, err)
	require.NoError(t, k0.Refresh(parent.Nzval, g0))
	assert.Equal(t, 2.0, k0.At(0, 0))

	k1, g1, err := SymmetricView(parent, []int{0}, &inds)
	require.NoError(t, err)
	require.NoError(t, k1.Refresh(parent.Nzval, g1))
	assert.Equal(t, 2.0, k1.At(0, 0))

	k2, g2, err := SymmetricView(parent, []int{1}, &inds)
	require.NoError(t, err)
	require.NoError(t, k2.Refresh(parent.Nzval, g2))
	assert.Equal(t, 2.0, k2.At(0, 0))

	b1, gb1, nz1, err := RectangularView(parent, []int{0}, []int{2}, &inds)
	require.NoError(t, err)
	require.NoError(t, b1.Refresh(parent.Nzval, gb1))
	assert.Equal(t, []int{0}, nz1)
	assert.Equal(t, 1.0, b1.At(0, 0))

	b2, gb2, nz2, err := RectangularView(parent, []int{1}, []int{2}, &inds)
	require.NoError(t, err)
	require.NoError(t, b2.Refresh(parent.Nzval, gb2))
	assert.Equal(t, []int{0}, nz2)
	assert.Equal(t, 1.0, b2.At(0, 0))

	// coverage invariant: every parent position consumed exactly once
	assert.Empty(t, inds)
	total := k0.NNZ() + k1.NNZ() + k2.NNZ() + b1.NNZ() + b2.NNZ()
	assert.Equal(t, parent.NNZ(), total)
}

func TestSymmetricViewRejectsUnsortedIndices(t *testing.T) {
	parent := buildTestMatrix()
	inds := AllPositions(parent)
	_, _, err := SymmetricView(parent, []int{2, 1}, &inds)
	assert.Error(t, err)
}
