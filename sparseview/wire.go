// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparseview

import "github.com/james-bowman/sparse"

// ToJamesBowmanCSC wraps c's column-pointer/row-index/value triple in
// a github.com/james-bowman/sparse CSC, the wire-level type an outer
// component built against gonum's mat64.Matrix interface expects. The
// wrapper shares c's backing slices: mutating c.Nzval after a Refresh
// is visible through the returned matrix without a copy, the same
// zero-copy relationship a view already has with its parent.
func ToJamesBowmanCSC(c *CSC) *sparse.CSC {
	return sparse.NewCSC(c.NRows, c.NCols, c.Colptr, c.Rowind, c.Nzval)
}
