// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nlpadapter implements NLPAdapter (spec §4.6): it walks a
// graph.ProblemGraph to build starting primals/duals and bound
// vectors, and enumerates the Jacobian/Hessian coordinate structure
// once so that only numerical evaluation repeats every iteration.
package nlpadapter

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/schurnlp/graph"
)

// Adapter bridges a graph.ProblemGraph to the Schur solver's KKT
// layout: variable/row offsets, and the Jacobian/Hessian coordinate
// structure enumerated once at construction.
type Adapter struct {
	g         *graph.ProblemGraph
	varOffset []int
	rowOffset []int
	rowKinds  [][]graph.RowKind
	nVars     int
	nCons     int

	jacRows, jacCols []int
	jacSlice         [][2]int // per-edge [start,end) into jacRows/jacCols/jacobian values

	hessNode         []graph.NodeId
	hessRows, hessCols []int
	hessSlice        [][2]int
}

// New builds an Adapter over g, enumerating Jacobian/Hessian structure
// once.
func New(g *graph.ProblemGraph) (*Adapter, error) {
	if err := g.Validate(); err != nil {
		return nil, chk.Err("nlpadapter: %v", err)
	}

	varOffset := make([]int, len(g.Nodes))
	nVars := 0
	for i, n := range g.Nodes {
		varOffset[i] = nVars
		nVars += n.NumVars
	}

	rowOffset := make([]int, len(g.Edges))
	rowKinds := make([][]graph.RowKind, len(g.Edges))
	nCons := 0
	for i, e := range g.Edges {
		rowOffset[i] = nCons
		kinds := e.Eval.RowKinds()
		if len(kinds) != e.NumRows {
			return nil, chk.Err("nlpadapter: edge %d reports %d row kinds for %d rows", e.Id, len(kinds), e.NumRows)
		}
		rowKinds[i] = kinds
		nCons += e.NumRows
	}

	a := &Adapter{
		g:         g,
		varOffset: varOffset,
		rowOffset: rowOffset,
		rowKinds:  rowKinds,
		nVars:     nVars,
		nCons:     nCons,
	}
	a.enumerateJacobian()
	a.enumerateHessian()
	return a, nil
}

func (a *Adapter) enumerateJacobian() {
	a.jacSlice = make([][2]int, len(a.g.Edges))
	for ei, e := range a.g.Edges {
		localRow, node, localCol := e.Eval.JacobianCoords()
		start := len(a.jacRows)
		for k := range localRow {
			a.jacRows = append(a.jacRows, a.rowOffset[ei]+localRow[k])
			a.jacCols = append(a.jacCols, a.varOffset[int(node[k])]+localCol[k])
		}
		a.jacSlice[ei] = [2]int{start, len(a.jacRows)}
	}
}

func (a *Adapter) enumerateHessian() {
	a.hessSlice = make([][2]int, len(a.g.Edges))
	for ei, e := range a.g.Edges {
		node, localRow, localCol := e.Eval.HessianCoords()
		start := len(a.hessRows)
		for k := range localRow {
			off := a.varOffset[int(node[k])]
			a.hessNode = append(a.hessNode, node[k])
			a.hessRows = append(a.hessRows, off+localRow[k])
			a.hessCols = append(a.hessCols, off+localCol[k])
		}
		a.hessSlice[ei] = [2]int{start, len(a.hessRows)}
	}
}

// NumVars and NumCons report the dimensions of the primal and
// constraint spaces this adapter was built over.
func (a *Adapter) NumVars() int { return a.nVars }
func (a *Adapter) NumCons() int { return a.nCons }

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}

// StartingPrimals returns the user-specified start for each variable,
// or a clamp of 0 into [lower, upper] when unset (spec §4.6).
func (a *Adapter) StartingPrimals() []float64 {
	x := make([]float64, a.nVars)
	for ni, n := range a.g.Nodes {
		off := a.varOffset[ni]
		for c := 0; c < n.NumVars; c++ {
			if n.Start != nil {
				x[off+c] = n.Start[c]
			} else {
				x[off+c] = clamp(0, n.Lower[c], n.Upper[c])
			}
		}
	}
	return x
}

// flipDualSign resolves spec §9's open question: StartingDuals passes
// the edge whose row is being built explicitly, rather than reading it
// off an enclosing loop variable of the same name, so the convention
// applied can never drift to the wrong edge regardless of how many
// levels of block nesting the caller's traversal has — the edge is a
// parameter here, never ambient state. Equality rows flip negative per
// the solver's sign convention; inequality rows are left as-is.
func flipDualSign(edge *graph.Edge, kind graph.RowKind) float64 {
	if kind == graph.Equality {
		return -1
	}
	return 1
}

// StartingDuals returns the user-specified starting multiplier for
// each constraint row, or zero when unset, sign-flipped per
// flipDualSign.
func (a *Adapter) StartingDuals() []float64 {
	lam := make([]float64, a.nCons)
	for ei := range a.g.Edges {
		e := &a.g.Edges[ei]
		off := a.rowOffset[ei]
		for r := 0; r < e.NumRows; r++ {
			v := 0.0
			if e.StartDual != nil {
				v = e.StartDual[r]
			}
			lam[off+r] = v * flipDualSign(e, a.rowKinds[ei][r])
		}
	}
	return lam
}

// Bounds returns the lower/upper bound vectors for every constraint
// row, in the same [rows] order as StartingDuals.
func (a *Adapter) Bounds() (lower, upper []float64) {
	lower = make([]float64, a.nCons)
	upper = make([]float64, a.nCons)
	for ei := range a.g.Edges {
		e := &a.g.Edges[ei]
		off := a.rowOffset[ei]
		lo, hi := e.Eval.Bounds()
		copy(lower[off:off+e.NumRows], lo)
		copy(upper[off:off+e.NumRows], hi)
	}
	return lower, upper
}

// JacobianStructure returns the coordinate-form sparsity pattern of
// the full Jacobian, enumerated once at construction.
func (a *Adapter) JacobianStructure() (rows, cols []int) {
	return a.jacRows, a.jacCols
}

// HessianStructure returns the coordinate-form sparsity pattern of the
// Lagrangian Hessian's lower triangle, enumerated once at
// construction.
func (a *Adapter) HessianStructure() (rows, cols []int) {
	return a.hessRows, a.hessCols
}

func (a *Adapter) scatterPrimals(x []float64) map[graph.NodeId][]float64 {
	out := make(map[graph.NodeId][]float64, len(a.g.Nodes))
	for ni, n := range a.g.Nodes {
		off := a.varOffset[ni]
		out[n.Id] = x[off : off+n.NumVars]
	}
	return out
}

// EvalConstraints evaluates every edge's constraint rows at x (a full
// primal vector laid out per StartingPrimals).
func (a *Adapter) EvalConstraints(x []float64) []float64 {
	xs := a.scatterPrimals(x)
	out := make([]float64, a.nCons)
	for ei := range a.g.Edges {
		e := &a.g.Edges[ei]
		off := a.rowOffset[ei]
		e.Eval.EvalConstraints(xs, out[off:off+e.NumRows])
	}
	return out
}

// EvalJacobian evaluates the Jacobian's numerical values in the order
// returned by JacobianStructure.
func (a *Adapter) EvalJacobian(x []float64) []float64 {
	xs := a.scatterPrimals(x)
	out := make([]float64, len(a.jacRows))
	for ei := range a.g.Edges {
		e := &a.g.Edges[ei]
		lo, hi := a.jacSlice[ei][0], a.jacSlice[ei][1]
		e.Eval.EvalJacobian(xs, out[lo:hi])
	}
	return out
}

// EvalObjectiveGrad evaluates the objective gradient's contribution
// from every edge that has one.
func (a *Adapter) EvalObjectiveGrad(x []float64) []float64 {
	xs := a.scatterPrimals(x)
	grad := make([]float64, a.nVars)
	for ei := range a.g.Edges {
		e := &a.g.Edges[ei]
		for _, nid := range e.NodeIds {
			e.Eval.EvalObjectiveGrad(xs, nid, grad)
		}
	}
	return grad
}

// EvalHessian evaluates the Lagrangian Hessian's numerical values in
// the order returned by HessianStructure, scaled by lambda (the
// constraint multipliers, same layout as StartingDuals).
func (a *Adapter) EvalHessian(x, lambda []float64) []float64 {
	xs := a.scatterPrimals(x)
	out := make([]float64, len(a.hessRows))
	for ei := range a.g.Edges {
		e := &a.g.Edges[ei]
		off := a.rowOffset[ei]
		lo, hi := a.hessSlice[ei][0], a.hessSlice[ei][1]
		e.Eval.EvalHessian(xs, lambda[off:off+e.NumRows], out[lo:hi])
	}
	return out
}
