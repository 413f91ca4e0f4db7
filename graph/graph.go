// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph models the hierarchical problem graph consumed by
// PartitionDeriver and NLPAdapter: a root block holding nodes, edges,
// and optionally sub-blocks that recursively hold their own nodes and
// edges. Cross-sub-block coupling is expressed only through edges
// attached to the root block.
//
// Nodes, edges, and blocks reference each other only by integer id
// (NodeId/EdgeId/BlockId) into the ProblemGraph's arenas, the way
// gofem's inp.Mesh addresses Cells and Verts by integer id rather than
// pointer, avoiding ownership cycles in a value that is walked but
// never mutated after construction.
package graph

import "github.com/cpmech/gosl/chk"

// NodeId addresses a Node within a ProblemGraph.
type NodeId int

// EdgeId addresses an Edge within a ProblemGraph.
type EdgeId int

// BlockId addresses a Block within a ProblemGraph.
type BlockId int

// RowKind distinguishes equality from inequality constraint rows
// within an Edge's contributed rows.
type RowKind int

// Row kinds.
const (
	Equality RowKind = iota
	Inequality
)

// EdgeEvaluator is the capability interface an edge dispatches
// numerical work to. Structures (which coordinates are non-zero) are
// enumerated once by NLPAdapter; Eval* is called every iteration.
type EdgeEvaluator interface {
	// RowKinds returns, for each of the edge's NumRows constraint
	// rows, whether it is an equality or inequality row.
	RowKinds() []RowKind
	// Bounds returns the lower/upper bound for each constraint row
	// (equal bounds for an equality row).
	Bounds() (lower, upper []float64)
	// JacobianCoords returns the coordinate-form sparsity pattern of
	// this edge's contribution to the Jacobian: row-local index,
	// node, and node-local column for every structurally non-zero
	// entry.
	JacobianCoords() (localRow []int, node []NodeId, localCol []int)
	// EvalConstraints evaluates the edge's constraint rows at the
	// primal values of its referenced nodes.
	EvalConstraints(x map[NodeId][]float64, out []float64)
	// EvalJacobian evaluates the numerical values for the pattern
	// returned by JacobianCoords, in the same order.
	EvalJacobian(x map[NodeId][]float64, out []float64)
	// EvalObjectiveGrad adds this edge's contribution to the
	// objective gradient at node (no-op for edges with no objective
	// term).
	EvalObjectiveGrad(x map[NodeId][]float64, node NodeId, grad []float64)
	// HessianCoords/EvalHessian mirror the Jacobian pair for the
	// Lagrangian Hessian's lower triangle, scaled by the row
	// multipliers lambda.
	HessianCoords() (node []NodeId, localRow []int, localCol []int)
	EvalHessian(x map[NodeId][]float64, lambda []float64, out []float64)
}

// Node contributes a block of primal variables.
type Node struct {
	Id      NodeId
	NumVars int
	Lower   []float64 // len NumVars; may contain -Inf
	Upper   []float64 // len NumVars; may contain +Inf
	Start   []float64 // user-specified start, nil if unset
}

// Edge contributes constraint rows that couple one or more nodes. An
// edge touching exactly one node is a self-edge; an edge touching more
// than one is a linking edge (see PartitionDeriver, spec §4.5).
type Edge struct {
	Id      EdgeId
	NodeIds []NodeId
	NumRows int
	Eval    EdgeEvaluator
	// StartDual is the user-specified starting multiplier for each
	// row, nil if unset.
	StartDual []float64
}

// LinkingEdge reports whether e couples more than one node.
func (e *Edge) LinkingEdge() bool {
	return len(e.NodeIds) > 1
}

// Block is a (possibly nested) grouping of nodes and edges. A
// sub-block's Nodes/Edges/SubBlocks are disjoint from its siblings';
// cross-sub-block coupling is only expressed via edges on the root.
type Block struct {
	Id        BlockId
	NodeIds   []NodeId
	EdgeIds   []EdgeId
	SubBlocks []BlockId
}

// ProblemGraph is the arena holding every Node, Edge, and Block. Root
// names the top-level Block.
type ProblemGraph struct {
	Blocks []Block
	Nodes  []Node
	Edges  []Edge
	Root   BlockId
}

// Node looks up a node by id.
func (g *ProblemGraph) Node(id NodeId) *Node { return &g.Nodes[id] }

// Edge looks up an edge by id.
func (g *ProblemGraph) Edge(id EdgeId) *Edge { return &g.Edges[id] }

// Block looks up a block by id.
func (g *ProblemGraph) Block(id BlockId) *Block { return &g.Blocks[id] }

// RootBlock returns the root block.
func (g *ProblemGraph) RootBlock() *Block { return &g.Blocks[g.Root] }

// IsTwoLevel reports whether the root block has sub-blocks, selecting
// between PartitionDeriver's one-level and two-level regimes (spec
// §4.5).
func (g *ProblemGraph) IsTwoLevel() bool {
	return len(g.RootBlock().SubBlocks) > 0
}

// Validate checks basic structural consistency: every id referenced by
// a block/edge must exist in its arena, and sub-blocks must be
// disjoint in their node sets.
func (g *ProblemGraph) Validate() error {
	seenNodes := make(map[NodeId]BlockId)
	var walk func(b BlockId) error
	walk = func(b BlockId) error {
		if int(b) < 0 || int(b) >= len(g.Blocks) {
			return chk.Err("graph: block id %d out of range", b)
		}
		blk := g.Block(b)
		for _, nid := range blk.NodeIds {
			if int(nid) < 0 || int(nid) >= len(g.Nodes) {
				return chk.Err("graph: block %d references missing node %d", b, nid)
			}
			if owner, ok := seenNodes[nid]; ok {
				return chk.Err("graph: node %d owned by both block %d and block %d", nid, owner, b)
			}
			seenNodes[nid] = b
		}
		for _, eid := range blk.EdgeIds {
			if int(eid) < 0 || int(eid) >= len(g.Edges) {
				return chk.Err("graph: block %d references missing edge %d", b, eid)
			}
			for _, nid := range g.Edge(eid).NodeIds {
				if int(nid) < 0 || int(nid) >= len(g.Nodes) {
					return chk.Err("graph: edge %d references missing node %d", eid, nid)
				}
			}
		}
		for _, sb := range blk.SubBlocks {
			if err := walk(sb); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(g.Root)
}
