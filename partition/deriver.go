// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package partition implements PartitionDeriver (spec §4.5): it walks
// a graph.ProblemGraph and produces the integer partition vector pi
// consumed by SchurSolver, in the one-level (flat nodes) and two-level
// (nested sub-blocks) regimes.
package partition

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/schurnlp/graph"
)

// Result is the output of Derive: the partition vector plus the
// offsets needed to map back into it.
type Result struct {
	Pi            []int // length NVars+NSlacks+NCons; the concatenation [columns; slacks; rows]
	NumPartitions int   // K: number of non-coupling (>=1) partitions
	NVars         int
	NSlacks       int
	NCons         int
	VarOffset     []int // VarOffset[nodeIdx] = column offset of that node's first variable
	RowOffset     []int // RowOffset[edgeIdx] = row offset of that edge's first row
}

// Derive produces the partition vector for g (spec §4.5). It selects
// the one-level regime when the root block has no sub-blocks, the
// two-level regime otherwise.
func Derive(g *graph.ProblemGraph) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, chk.Err("partition: %v", err)
	}
	if len(g.Nodes) == 0 {
		return nil, chk.Err("partition: problem graph has no nodes")
	}

	nVars := 0
	varOffset := make([]int, len(g.Nodes))
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
			return nil, chk.Err("partition: edge %d reports %d row kinds for %d rows", e.Id, len(kinds), e.NumRows)
		}
		rowKinds[i] = kinds
		nCons += e.NumRows
	}

	piVars := make([]int, nVars)
	piRows := make([]int, nCons)
	var numPartitions int

	if !g.IsTwoLevel() {
		numPartitions = len(g.Nodes)
		for i, n := range g.Nodes {
			p := i + 1
			for c := 0; c < n.NumVars; c++ {
				piVars[varOffset[i]+c] = p
			}
		}
		for ei, e := range g.Edges {
			off := rowOffset[ei]
			if e.LinkingEdge() {
				for r := 0; r < e.NumRows; r++ {
					piRows[off+r] = 0
				}
				for _, nid := range e.NodeIds {
					idx := int(nid)
					for c := 0; c < g.Nodes[idx].NumVars; c++ {
						piVars[varOffset[idx]+c] = 0
					}
				}
			} else {
				if len(e.NodeIds) != 1 {
					return nil, chk.Err("partition: self-edge %d must reference exactly one node, got %d", e.Id, len(e.NodeIds))
				}
				idx := int(e.NodeIds[0])
				p := idx + 1
				for r := 0; r < e.NumRows; r++ {
					piRows[off+r] = p
				}
			}
		}
	} else {
		root := g.RootBlock()
		numPartitions = len(root.SubBlocks)

		for _, nid := range root.NodeIds {
			idx := int(nid)
			for c := 0; c < g.Nodes[idx].NumVars; c++ {
				piVars[varOffset[idx]+c] = 0
			}
		}
		for _, eid := range root.EdgeIds {
			e := g.Edge(eid)
			off := rowOffset[int(eid)]
			for r := 0; r < e.NumRows; r++ {
				piRows[off+r] = 0
			}
			for _, nid := range e.NodeIds {
				idx := int(nid)
				for c := 0; c < g.Nodes[idx].NumVars; c++ {
					piVars[varOffset[idx]+c] = 0
				}
			}
		}
		for sbi, sbid := range root.SubBlocks {
			p := sbi + 1
			sb := g.Block(sbid)
			for _, nid := range sb.NodeIds {
				idx := int(nid)
				for c := 0; c < g.Nodes[idx].NumVars; c++ {
					piVars[varOffset[idx]+c] = p
				}
			}
			for _, eid := range sb.EdgeIds {
				e := g.Edge(eid)
				off := rowOffset[int(eid)]
				for r := 0; r < e.NumRows; r++ {
					piRows[off+r] = p
				}
			}
		}
	}

	piSlacks := make([]int, 0)
	for ei := range g.Edges {
		off := rowOffset[ei]
		for r, k := range rowKinds[ei] {
			if k == graph.Inequality {
				piSlacks = append(piSlacks, piRows[off+r])
			}
		}
	}

	pi := make([]int, 0, nVars+len(piSlacks)+nCons)
	pi = append(pi, piVars...)
	pi = append(pi, piSlacks...)
	pi = append(pi, piRows...)

	return &Result{
		Pi:            pi,
		NumPartitions: numPartitions,
		NVars:         nVars,
		NSlacks:       len(piSlacks),
		NCons:         nCons,
		VarOffset:     varOffset,
		RowOffset:     rowOffset,
	}, nil
}
