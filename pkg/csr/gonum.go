package csr

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Directed converts g into a gonum directed graph so gonum's algorithms can
// run on it. Every node 0..NodeCount-1 is present, isolated ones included.
// Graphs with weights become a simple.WeightedDirectedGraph.
//
// gonum's simple graphs hold no self-loops or parallel edges, so both are
// rejected.
func (g *Graph) Directed() (graph.Directed, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	var (
		dg  *simple.DirectedGraph
		wdg *simple.WeightedDirectedGraph
		out graph.Directed
	)
	if g.HasWeights() {
		wdg = simple.NewWeightedDirectedGraph(0, math.Inf(1))
		out = wdg
	} else {
		dg = simple.NewDirectedGraph()
		out = dg
	}

	for u := int64(0); u < g.NodeCount; u++ {
		if wdg != nil {
			wdg.AddNode(simple.Node(u))
		} else {
			dg.AddNode(simple.Node(u))
		}
	}

	for u := int64(0); u < g.NodeCount; u++ {
		start, end := g.EdgeRange(u)
		for k := start; k < end; k++ {
			v := g.Adjacency[k]
			if v == u {
				return nil, fmt.Errorf("%w: self-loop at node %d", ErrInvalidStructure, u)
			}
			if out.HasEdgeFromTo(u, v) {
				return nil, fmt.Errorf("%w: parallel edge %d -> %d", ErrInvalidStructure, u, v)
			}
			if wdg != nil {
				wdg.SetWeightedEdge(simple.WeightedEdge{
					F: simple.Node(u),
					T: simple.Node(v),
					W: float64(g.Weights[k]),
				})
			} else {
				dg.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
			}
		}
	}
	return out, nil
}

// FromDirected builds a CSR graph from any gonum directed graph. Node IDs
// must be non-negative; the node count is the largest ID plus one. Neighbor
// lists are emitted in ascending order. If d implements graph.Weighted, its
// edge weights are carried over and must be integral.
func FromDirected(d graph.Directed) (*Graph, error) {
	ids := make([]int64, 0, d.Nodes().Len())
	for nodes := d.Nodes(); nodes.Next(); {
		ids = append(ids, nodes.Node().ID())
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: graph has no nodes", ErrInvalidCounts)
	}
	slices.Sort(ids)
	if ids[0] < 0 {
		return nil, fmt.Errorf("%w: negative node id %d", ErrInvalidStructure, ids[0])
	}

	weighted, hasWeights := d.(graph.Weighted)

	g := &Graph{NodeCount: ids[len(ids)-1] + 1}
	g.Offsets = make([]int64, g.NodeCount+1)
	g.Adjacency = []int64{}
	if hasWeights {
		g.Weights = []int64{}
	}

	next := 0
	for u := int64(0); u < g.NodeCount; u++ {
		g.Offsets[u] = int64(len(g.Adjacency))
		if next >= len(ids) || ids[next] != u {
			continue
		}
		next++

		var nbrs []int64
		for to := d.From(u); to.Next(); {
			nbrs = append(nbrs, to.Node().ID())
		}
		slices.Sort(nbrs)
		for _, v := range nbrs {
			g.Adjacency = append(g.Adjacency, v)
			if !hasWeights {
				continue
			}
			w, _ := weighted.Weight(u, v)
			if w != math.Trunc(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("%w: non-integral weight %v on edge %d -> %d", ErrInvalidStructure, w, u, v)
			}
			g.Weights = append(g.Weights, int64(w))
		}
	}
	g.EdgeCount = int64(len(g.Adjacency))
	g.Offsets[g.NodeCount] = g.EdgeCount

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
