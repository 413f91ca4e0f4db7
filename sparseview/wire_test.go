// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparseview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToJamesBowmanCSCSharesBackingStorage(t *testing.T) {
	colptr := []int{0, 1, 2}
	rowind := []int{0, 1}
	c := NewCSC(2, 2, colptr, rowind)
	c.Nzval[0] = 4
	c.Nzval[1] = 5

	w := ToJamesBowmanCSC(c)
	r, k := w.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, k)
	assert.Equal(t, 4.0, w.At(0, 0))
	assert.Equal(t, 5.0, w.At(1, 1))

	c.Nzval[0] = 9
	assert.Equal(t, 9.0, w.At(0, 0))
}
