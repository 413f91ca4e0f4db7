// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nlpadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpmech/schurnlp/graph"
)

// boxEdge is a self-edge on node imposing x - 1 <= 0 as a single
// inequality row, with an objective-gradient term of 1 on the first
// variable when asked for node 0 and a Hessian diagonal entry on node.
type boxEdge struct{ node graph.NodeId }

func (boxEdge) RowKinds() []graph.RowKind { return []graph.RowKind{graph.Inequality} }
func (boxEdge) Bounds() (lower, upper []float64) {
	return []float64{negInf}, []float64{0}
}
func (e boxEdge) JacobianCoords() (localRow []int, node []graph.NodeId, localCol []int) {
	return []int{0}, []graph.NodeId{e.node}, []int{0}
}
func (e boxEdge) EvalConstraints(x map[graph.NodeId][]float64, out []float64) {
	out[0] = x[e.node][0] - 1
}
func (boxEdge) EvalJacobian(x map[graph.NodeId][]float64, out []float64) {
	out[0] = 1
}
func (boxEdge) EvalObjectiveGrad(x map[graph.NodeId][]float64, node graph.NodeId, grad []float64) {
	if node == 0 {
		grad[0] += 1
	}
}
func (e boxEdge) HessianCoords() (node []graph.NodeId, localRow []int, localCol []int) {
	return []graph.NodeId{e.node}, []int{0}, []int{0}
}
func (boxEdge) EvalHessian(x map[graph.NodeId][]float64, lambda []float64, out []float64) {
	out[0] = lambda[0]
}

// linkEdge couples two nodes with one equality row x0 - x1 = 0.
type linkEdge struct{}

func (linkEdge) RowKinds() []graph.RowKind { return []graph.RowKind{graph.Equality} }
func (linkEdge) Bounds() (lower, upper []float64) {
	return []float64{0}, []float64{0}
}
func (linkEdge) JacobianCoords() (localRow []int, node []graph.NodeId, localCol []int) {
	return []int{0, 0}, []graph.NodeId{0, 1}, []int{0, 0}
}
func (linkEdge) EvalConstraints(x map[graph.NodeId][]float64, out []float64) {
	out[0] = x[0][0] - x[1][0]
}
func (linkEdge) EvalJacobian(x map[graph.NodeId][]float64, out []float64) {
	out[0] = 1
	out[1] = -1
}
func (linkEdge) EvalObjectiveGrad(x map[graph.NodeId][]float64, node graph.NodeId, grad []float64) {
}
func (linkEdge) HessianCoords() (node []graph.NodeId, localRow []int, localCol []int) {
	return nil, nil, nil
}
func (linkEdge) EvalHessian(x map[graph.NodeId][]float64, lambda []float64, out []float64) {}

const negInf = -1e300

func buildTestGraph() *graph.ProblemGraph {
	nodes := []graph.Node{
		{Id: 0, NumVars: 1, Lower: []float64{negInf}, Upper: []float64{0}},
		{Id: 1, NumVars: 1, Lower: []float64{negInf}, Upper: []float64{0}, Start: []float64{-2}},
	}
	edges := []graph.Edge{
		{Id: 0, NodeIds: []graph.NodeId{0}, NumRows: 1, Eval: boxEdge{node: 0}},
		{Id: 1, NodeIds: []graph.NodeId{1}, NumRows: 1, Eval: boxEdge{node: 1}},
		{Id: 2, NodeIds: []graph.NodeId{0, 1}, NumRows: 1, Eval: linkEdge{}, StartDual: []float64{3}},
	}
	blocks := []graph.Block{
		{Id: 0, NodeIds: []graph.NodeId{0, 1}, EdgeIds: []graph.EdgeId{0, 1, 2}},
	}
	return &graph.ProblemGraph{Blocks: blocks, Nodes: nodes, Edges: edges, Root: 0}
}

func TestStartingPrimalsClampsOrUsesStart(t *testing.T) {
	g := buildTestGraph()
	a, err := New(g)
	require.NoError(t, err)

	x := a.StartingPrimals()
	require.Len(t, x, 2)
	assert.Equal(t, 0.0, x[0]) // node 0: no start, clamp(0, -inf, 0) = 0
	assert.Equal(t, -2.0, x[1])
}

func TestStartingDualsSignFlipAndZeroDefault(t *testing.T) {
	g := buildTestGraph()
	a, err := New(g)
	require.NoError(t, err)

	lam := a.StartingDuals()
	require.Len(t, lam, 3)
	assert.Equal(t, 0.0, lam[0]) // box edge 0: unset, inequality -> *1
	assert.Equal(t, 0.0, lam[1]) // box edge 1: unset, inequality -> *1
	assert.Equal(t, -3.0, lam[2]) // link edge: start 3, equality -> *-1
}

func TestBoundsLayout(t *testing.T) {
	g := buildTestGraph()
	a, err := New(g)
	require.NoError(t, err)

	lower, upper := a.Bounds()
	assert.Equal(t, []float64{negInf, negInf, 0}, lower)
	assert.Equal(t, []float64{0, 0, 0}, upper)
}

func TestJacobianStructureAndEval(t *testing.T) {
	g := buildTestGraph()
	a, err := New(g)
	require.NoError(t, err)

	rows, cols := a.JacobianStructure()
	// edge 0: (0,0); edge 1: (1,1); edge 2: (2,0),(2,1)
	assert.Equal(t, []int{0, 1, 2, 2}, rows)
	assert.Equal(t, []int{0, 1, 0, 1}, cols)

	x := a.StartingPrimals()
	vals := a.EvalJacobian(x)
	assert.Equal(t, []float64{1, 1, 1, -1}, vals)
}

func TestHessianStructureSkipsEmptyEdges(t *testing.T) {
	g := buildTestGraph()
	a, err := New(g)
	require.NoError(t, err)

	rows, cols := a.HessianStructure()
	assert.Equal(t, []int{0, 1}, rows)
	assert.Equal(t, []int{0, 1}, cols)
}

func TestEvalConstraintsAndObjectiveGrad(t *testing.T) {
	g := buildTestGraph()
	a, err := New(g)
	require.NoError(t, err)

	x := []float64{-1, -2}
	c := a.EvalConstraints(x)
	assert.Equal(t, []float64{-2, -3, 1}, c)

	grad := a.EvalObjectiveGrad(x)
	assert.Equal(t, []float64{1, 0}, grad)
}
