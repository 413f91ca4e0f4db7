// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coloring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleCoversEveryColumnOnce(t *testing.T) {
	colors, err := Schedule(10, 3)
	assert.NoError(t, err)
	seen := make(map[int]int)
	for _, cols := range colors {
		for _, j := range cols {
			seen[j]++
		}
	}
	for j := 0; j < 10; j++ {
		assert.Equal(t, 1, seen[j], "column %d touched %d times", j, seen[j])
	}
}

func TestWorkerColorDisjointPerRound(t *testing.T) {
	const numWorkers = 4
	for q := 0; q < numWorkers; q++ {
		seen := make(map[int]bool)
		for k := 0; k < numWorkers; k++ {
			c := WorkerColor(q, k, numWorkers)
			assert.False(t, seen[c], "round %d: color %d assigned to more than one worker", q, c)
			seen[c] = true
		}
	}
}
