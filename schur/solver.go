// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schur implements the Schur-complement KKT linear solver
// (spec §4.2-§4.4): SubproblemWorker, ColoringSchedule-driven parallel
// assembly, and the top-level SchurSolver with factorize/solve/
// inertia/refine.
package schur

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/schurnlp/coloring"
	"github.com/cpmech/schurnlp/linsolve"
	"github.com/cpmech/schurnlp/logx"
	"github.com/cpmech/schurnlp/sparseview"
)

// SchurSolver is the top-level orchestrator of spec §4.4: it holds
// every SubproblemWorker, the dense Schur matrix S, the coupling block
// K_0, and a dense solver bound to S.
type SchurSolver struct {
	opts   Options
	logger *logx.Logger
	parent *sparseview.CSC
	n      int

	v0       []int
	k0       *sparseview.CSC
	gatherK0 []int

	workers []*SubproblemWorker
	colors  [][]int

	denseFactory linsolve.DenseSolverFactory
	denseSolver  linsolve.DenseSolver
	s            *mat.Dense
	w0           []float64

	factorized bool
}

// New constructs a SchurSolver bound to parent (spec §6's "inputs to
// the Schur solver constructor"). Workers and views are created once
// here, after pi and parent's non-zero pattern are known, and live
// until the solver is discarded (spec §3 "Lifecycle").
func New(parent *sparseview.CSC, opts Options, logger *logx.Logger) (*SchurSolver, error) {
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := validatePartition(parent, opts.Partition); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logx.New(logx.ParseLevel(opts.PrintLevel))
	}

	numPartitions := 0
	for _, p := range opts.Partition {
		if p > numPartitions {
			numPartitions = p
		}
	}

	v0 := sortedIndicesWhere(opts.Partition, 0)
	inds := sparseview.AllPositions(parent)

	k0, gatherK0, err := sparseview.SymmetricView(parent, v0, &inds)
	if err != nil {
		return nil, chk.Err("schur: building K_0 view: %v", err)
	}

	sparseFactory, err := linsolve.GetSparseSolverFactory(opts.SubproblemSolverName)
	if err != nil {
		return nil, err
	}
	denseFactory, err := linsolve.GetDenseSolverFactory(opts.DenseSolverName)
	if err != nil {
		return nil, err
	}

	n0 := len(v0)
	workers := make([]*SubproblemWorker, 0, numPartitions)
	for k := 1; k <= numPartitions; k++ {
		vk := sortedIndicesWhere(opts.Partition, k)
		if len(vk) == 0 {
			return nil, fmt.Errorf("%w: partition %d has no members", ErrInvalidPartition, k)
		}
		kk, gk, err := sparseview.SymmetricView(parent, vk, &inds)
		if err != nil {
			return nil, chk.Err("schur: building K_%d view: %v", k, err)
		}
		bk, gbk, nzCols, err := sparseview.RectangularView(parent, vk, v0, &inds)
		if err != nil {
			return nil, chk.Err("schur: building B_%d view: %v", k, err)
		}
		solver, err := sparseFactory(kk, opts.SubproblemSolverOptions)
		if err != nil {
			return nil, chk.Err("schur: building solver for partition %d: %v", k, err)
		}
		workers = append(workers, newSubproblemWorker(k, vk, kk, gk, bk, gbk, nzCols, solver, n0))
	}

	var colors [][]int
	if numPartitions > 0 {
		colors, err = coloring.Schedule(n0, numPartitions)
		if err != nil {
			return nil, err
		}
	}

	return &SchurSolver{
		opts:         opts,
		logger:       logger,
		parent:       parent,
		n:            parent.NRows,
		v0:           v0,
		k0:           k0,
		gatherK0:     gatherK0,
		workers:      workers,
		colors:       colors,
		denseFactory: denseFactory,
		w0:           make([]float64, n0),
	}, nil
}

func (o *SchurSolver) hasBorder() bool { return len(o.v0) > 0 }

// validatePartition checks spec §3's invariant directly against
// parent's stored pattern: any non-zero (i,j) with pi[i] != pi[j]
// requires one of them to be 0.
func validatePartition(parent *sparseview.CSC, pi []int) error {
	if len(pi) != parent.NRows || parent.NRows != parent.NCols {
		return fmt.Errorf("%w: partition length %d does not match matrix dimension %d", ErrInvalidPartition, len(pi), parent.NRows)
	}
	for j := 0; j < parent.NCols; j++ {
		for p := parent.Colptr[j]; p < parent.Colptr[j+1]; p++ {
			i := parent.Rowind[p]
			if pi[i] != pi[j] && pi[i] != 0 && pi[j] != 0 {
				return fmt.Errorf("%w: entry (%d,%d) spans partitions %d and %d", ErrInvalidPartition, i, j, pi[i], pi[j])
			}
		}
	}
	return nil
}

func sortedIndicesWhere(pi []int, val int) []int {
	var out []int
	for i, p := range pi {
		if p == val {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// Factorize implements spec §4.4.1. It never partially overwrites a
// previously successful Schur complement: the new S and dense solver
// are only installed after every step below succeeds, so a failure
// (kBlockSingular or kSchurSingular) leaves S as it was before this
// call (spec §8 scenario S5).
func (o *SchurSolver) Factorize() error {
	var g errgroup.Group
	for _, w := range o.workers {
		w := w
		g.Go(func() error {
			if err := w.refresh(o.parent.Nzval); err != nil {
				return err
			}
			return w.factorizeBlock()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if !o.hasBorder() {
		o.factorized = true
		return nil
	}

	if err := o.k0.Refresh(o.parent.Nzval, o.gatherK0); err != nil {
		return chk.Err("schur: refreshing K_0: %v", err)
	}
	n0 := len(o.v0)
	s := mat.NewDense(n0, n0, nil)
	dense := o.k0.ToDenseSymmetric()
	for i := 0; i < n0; i++ {
		row := s.RawRowView(i)
		copy(row, dense[i])
	}

	numWorkers := len(o.workers)
	for q := 0; q < len(o.colors); q++ {
		var gc errgroup.Group
		for k, w := range o.workers {
			k, w := k, w
			c := coloring.WorkerColor(q, k, numWorkers)
			cols := o.colors[c]
			gc.Go(func() error { return w.updateSchur(s, cols) })
		}
		if err := gc.Wait(); err != nil {
			return err
		}
	}

	symData := make([]float64, n0*n0)
	for i := 0; i < n0; i++ {
		copy(symData[i*n0:(i+1)*n0], s.RawRowView(i))
	}
	sym := mat.NewSymDense(n0, symData)

	denseSolver, err := o.denseFactory(o.opts.DenseSolverOptions)
	if err != nil {
		return chk.Err("schur: building dense solver: %v", err)
	}
	if err := denseSolver.Factorize(sym); err != nil {
		return fmt.Errorf("%w: %v", ErrSchurSingular, err)
	}

	o.s = s
	o.denseSolver = denseSolver
	o.factorized = true
	return nil
}

// Solve implements spec §4.4.2's bordered forward/back substitution.
func (o *SchurSolver) Solve(x []float64) error {
	if !o.factorized {
		return chk.Err("schur: Solve called before a successful Factorize")
	}
	if len(x) != o.n {
		return fmt.Errorf("%w: got length %d, want %d", ErrDimensionMismatch, len(x), o.n)
	}
	if !o.hasBorder() {
		return o.solveIndependent(x)
	}

	for i, gidx := range o.v0 {
		o.w0[i] = x[gidx]
	}

	var gf errgroup.Group
	for _, w := range o.workers {
		w := w
		gf.Go(func() error { return w.forward(x) })
	}
	if err := gf.Wait(); err != nil {
		return err
	}

	// sequential: accumulating into the shared border vector would
	// race (spec §4.4.2 step 3).
	for _, w := range o.workers {
		w.contrib(o.w0)
	}

	if err := o.denseSolver.Solve(o.w0); err != nil {
		return fmt.Errorf("%w: %v", ErrSchurSingular, err)
	}
	for i, gidx := range o.v0 {
		x[gidx] = o.w0[i]
	}

	var gb errgroup.Group
	for _, w := range o.workers {
		w := w
		gb.Go(func() error { return w.back(x, o.w0) })
	}
	return gb.Wait()
}

func (o *SchurSolver) solveIndependent(x []float64) error {
	var g errgroup.Group
	for _, w := range o.workers {
		w := w
		g.Go(func() error {
			if err := w.forward(x); err != nil {
				return err
			}
			for i, gidx := range w.vk {
				x[gidx] = w.scratch[i]
			}
			return nil
		})
	}
	return g.Wait()
}

// Inertia implements spec §4.4.3: the Haynsworth inertia additivity
// formula, summing every worker's block inertia plus S's.
func (o *SchurSolver) Inertia() (npos, nzero, nneg int, err error) {
	if !o.factorized {
		return 0, 0, 0, chk.Err("schur: Inertia called before a successful Factorize")
	}
	for _, w := range o.workers {
		p, z, n, e := w.solver.Inertia()
		if e != nil {
			return 0, 0, 0, fmt.Errorf("%w: partition %d: %v", ErrInertiaUnavailable, w.id, e)
		}
		npos += p
		nzero += z
		nneg += n
	}
	if o.hasBorder() {
		p, z, n, e := o.denseSolver.Inertia()
		if e != nil {
			return 0, 0, 0, fmt.Errorf("%w: dense solver: %v", ErrInertiaUnavailable, e)
		}
		npos += p
		nzero += z
		nneg += n
	}
	return npos, nzero, nneg, nil
}

// Refine implements spec §4.4.4: delegate to every inner solver,
// returning false if any reports non-improvement.
func (o *SchurSolver) Refine() (bool, error) {
	improved := true
	for _, w := range o.workers {
		ok, err := w.solver.Refine()
		if err != nil {
			return false, err
		}
		if !ok {
			improved = false
		}
	}
	return improved, nil
}

// NumPartitions returns K, the number of non-coupling partitions.
func (o *SchurSolver) NumPartitions() int { return len(o.workers) }

// BorderSize returns |V_0|.
func (o *SchurSolver) BorderSize() int { return len(o.v0) }
