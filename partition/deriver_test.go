// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpmech/schurnlp/graph"
)

// stubEvaluator is a minimal graph.EdgeEvaluator used only to supply
// RowKinds for partition derivation tests.
type stubEvaluator struct {
	kinds []graph.RowKind
}

func (s *stubEvaluator) RowKinds() []graph.RowKind { return s.kinds }
func (s *stubEvaluator) Bounds() ([]float64, []float64) {
	return make([]float64, len(s.kinds)), make([]float64, len(s.kinds))
}
func (s *stubEvaluator) JacobianCoords() ([]int, []graph.NodeId, []int) { return nil, nil, nil }
func (s *stubEvaluator) EvalConstraints(x map[graph.NodeId][]float64, out []float64) {}
func (s *stubEvaluator) EvalJacobian(x map[graph.NodeId][]float64, out []float64)    {}
func (s *stubEvaluator) EvalObjectiveGrad(x map[graph.NodeId][]float64, node graph.NodeId, grad []float64) {
}
func (s *stubEvaluator) HessianCoords() ([]graph.NodeId, []int, []int) { return nil, nil, nil }
func (s *stubEvaluator) EvalHessian(x map[graph.NodeId][]float64, lambda []float64, out []float64) {
}

func eqEdge(n int) *stubEvaluator {
	kinds := make([]graph.RowKind, n)
	return &stubEvaluator{kinds: kinds}
}

// TestOneLevelLinkingEdgePromotesColumns mirrors spec §8 scenario S4: a
// linking edge couples two nodes; its rows and the columns it
// references must land in partition 0.
func TestOneLevelLinkingEdgePromotesColumns(t *testing.T) {
	g := &graph.ProblemGraph{
		Nodes: []graph.Node{
			{Id: 0, NumVars: 2},
			{Id: 1, NumVars: 2},
		},
		Edges: []graph.Edge{
			{Id: 0, NodeIds: []graph.NodeId{0}, NumRows: 1, Eval: eqEdge(1)},
			{Id: 1, NodeIds: []graph.NodeId{1}, NumRows: 1, Eval: eqEdge(1)},
			{Id: 2, NodeIds: []graph.NodeId{0, 1}, NumRows: 1, Eval: eqEdge(1)},
		},
		Blocks: []graph.Block{
			{Id: 0, NodeIds: []graph.NodeId{0, 1}, EdgeIds: []graph.EdgeId{0, 1, 2}},
		},
		Root: 0,
	}

	res, err := Derive(g)
	require.NoError(t, err)

	// columns 0..3 belong to nodes 0 and 1, both referenced by the
	// linking edge, so all four must be partition 0.
	for i := 0; i < 4; i++ {
		assert.Equal(t, 0, res.Pi[i], "column %d should be promoted to partition 0", i)
	}
	// the linking edge's row (last row) is partition 0; self-edge rows
	// keep their node's partition.
	assert.Equal(t, 1, res.Pi[res.NVars+res.NSlacks+0])
	assert.Equal(t, 2, res.Pi[res.NVars+res.NSlacks+1])
	assert.Equal(t, 0, res.Pi[res.NVars+res.NSlacks+2])
}

func TestTwoLevelSubBlockOwnership(t *testing.T) {
	g := &graph.ProblemGraph{
		Nodes: []graph.Node{
			{Id: 0, NumVars: 2}, // sub-block 1
			{Id: 1, NumVars: 2}, // sub-block 2
		},
		Edges: []graph.Edge{
			{Id: 0, NodeIds: []graph.NodeId{0}, NumRows: 1, Eval: eqEdge(1)},
			{Id: 1, NodeIds: []graph.NodeId{1}, NumRows: 1, Eval: eqEdge(1)},
			{Id: 2, NodeIds: []graph.NodeId{0, 1}, NumRows: 1, Eval: eqEdge(1)}, // root linking edge
		},
		Blocks: []graph.Block{
			{Id: 0, EdgeIds: []graph.EdgeId{2}, SubBlocks: []graph.BlockId{1, 2}},
			{Id: 1, NodeIds: []graph.NodeId{0}, EdgeIds: []graph.EdgeId{0}},
			{Id: 2, NodeIds: []graph.NodeId{1}, EdgeIds: []graph.EdgeId{1}},
		},
		Root: 0,
	}

	res, err := Derive(g)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NumPartitions)

	// node 0's columns -> partition 1, node 1's columns -> partition 2
	assert.Equal(t, []int{1, 1, 2, 2}, res.Pi[:4])
	rows := res.Pi[res.NVars+res.NSlacks:]
	assert.Equal(t, []int{1, 2, 0}, rows)

	assertNoRowSpansTwoPartitions(t, g, res)
}

// assertNoRowSpansTwoPartitions checks spec §8 property 6: every row
// that spans two non-zero partitions must be in partition 0.
func assertNoRowSpansTwoPartitions(t *testing.T, g *graph.ProblemGraph, res *Result) {
	t.Helper()
	for ei, e := range g.Edges {
		off := res.RowOffset[ei]
		rowPi := res.Pi[res.NVars+res.NSlacks+off]
		if rowPi == 0 {
			continue
		}
		for _, nid := range e.NodeIds {
			colPi := res.Pi[res.VarOffset[int(nid)]]
			assert.Equal(t, rowPi, colPi, "row of edge %d spans partitions %d and %d", e.Id, rowPi, colPi)
		}
	}
}
