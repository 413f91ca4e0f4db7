// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coloring implements ColoringSchedule (spec §4.3): a
// deterministic assignment of Schur columns to (worker, color) pairs
// so parallel workers never write the same Schur column at the same
// time, without any locking.
package coloring

import "github.com/cpmech/gosl/chk"

// Schedule partitions the n0 Schur columns {0,...,n0-1} into
// numWorkers round-robin color sets: color c (0-based) contains
// columns {j : j mod numWorkers == c}. Column j is thus touched by
// exactly one color.
func Schedule(n0, numWorkers int) ([][]int, error) {
	if numWorkers <= 0 {
		return nil, chk.Err("coloring: numWorkers must be positive, got %d", numWorkers)
	}
	colors := make([][]int, numWorkers)
	for j := 0; j < n0; j++ {
		c := j % numWorkers
		colors[c] = append(colors[c], j)
	}
	return colors, nil
}

// WorkerColor returns the 0-based color that worker k (0-based) is
// assigned to during round q (0-based), rotating so that the
// numWorkers workers write numWorkers distinct columns sets at every
// round: color(q,k) = (q+k) mod numWorkers. Over numWorkers rounds
// every worker visits every color exactly once; worker 0 starts at
// color 0 in round 0.
func WorkerColor(q, k, numWorkers int) int {
	return (q + k) % numWorkers
}
