// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schur

import "github.com/cpmech/gosl/chk"

// Error kinds (spec §7). Outer callers test against these with
// errors.Is rather than string-matching a returned error's message.
var (
	ErrInvalidPartition   = chk.Err("schur: invalid partition")
	ErrBlockSingular      = chk.Err("schur: subproblem block is singular")
	ErrSchurSingular      = chk.Err("schur: dense schur complement is singular")
	ErrInertiaUnavailable = chk.Err("schur: inertia unavailable")
	ErrRefinementStalled  = chk.Err("schur: refinement did not improve residual")
	ErrDimensionMismatch  = chk.Err("schur: rhs dimension does not match")
)
