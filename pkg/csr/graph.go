package csr

import (
	"fmt"
	"math"
	"slices"
)

// Graph is a directed graph in compressed sparse row layout.
//
// Offsets[u]..Offsets[u+1] is the range of Adjacency holding the out-neighbors
// of node u. Weights, when present, is aligned with Adjacency.
type Graph struct {
	NodeCount int64   `json:"node_count"`
	EdgeCount int64   `json:"edge_count"`
	Offsets   []int64 `json:"-"` // len NodeCount+1
	Adjacency []int64 `json:"-"` // len EdgeCount
	Weights   []int64 `json:"-"` // nil when the graph carries no weights
}

// HasWeights reports whether the graph carries an edge weight array.
// An empty non-nil slice counts as present.
func (g *Graph) HasWeights() bool {
	return g.Weights != nil
}

// EdgeRange returns the half-open range of Adjacency indices holding u's out-edges.
func (g *Graph) EdgeRange(u int64) (start, end int64) {
	return g.Offsets[u], g.Offsets[u+1]
}

// Degree returns the out-degree of node u.
func (g *Graph) Degree(u int64) int64 {
	return g.Offsets[u+1] - g.Offsets[u]
}

// Neighbors returns the out-neighbors of node u. The returned slice aliases
// the graph's storage and must not be modified.
func (g *Graph) Neighbors(u int64) []int64 {
	if u < 0 || u >= g.NodeCount {
		return nil
	}
	start, end := g.EdgeRange(u)
	return g.Adjacency[start:end:end]
}

// EdgeWeights returns the weights of u's out-edges, or nil without weights.
func (g *Graph) EdgeWeights(u int64) []int64 {
	if !g.HasWeights() || u < 0 || u >= g.NodeCount {
		return nil
	}
	start, end := g.EdgeRange(u)
	return g.Weights[start:end:end]
}

// checkCounts validates the header counts on their own.
func checkCounts(nodes, edges int64) error {
	if nodes < 1 {
		return fmt.Errorf("%w: node count %d, need at least 1", ErrInvalidCounts, nodes)
	}
	if nodes == math.MaxInt64 {
		return fmt.Errorf("%w: node count %d leaves no room for the offset array", ErrInvalidCounts, nodes)
	}
	if edges < 0 {
		return fmt.Errorf("%w: edge count %d is negative", ErrInvalidCounts, edges)
	}
	return nil
}

// checkLengths validates that slice lengths agree with the counts.
func (g *Graph) checkLengths() error {
	if err := checkCounts(g.NodeCount, g.EdgeCount); err != nil {
		return err
	}
	if int64(len(g.Offsets)) != g.NodeCount+1 {
		return fmt.Errorf("%w: %d offsets for %d nodes", ErrInvalidCounts, len(g.Offsets), g.NodeCount)
	}
	if int64(len(g.Adjacency)) != g.EdgeCount {
		return fmt.Errorf("%w: %d adjacency entries for %d edges", ErrInvalidCounts, len(g.Adjacency), g.EdgeCount)
	}
	if g.HasWeights() && int64(len(g.Weights)) != g.EdgeCount {
		return fmt.Errorf("%w: %d weights for %d edges", ErrInvalidCounts, len(g.Weights), g.EdgeCount)
	}
	return nil
}

// Validate checks graph consistency: counts and slice lengths, offsets forming
// a prefix sum from 0 to EdgeCount, and every adjacency target in range.
func (g *Graph) Validate() error {
	if err := g.checkLengths(); err != nil {
		return err
	}

	if g.Offsets[0] != 0 {
		return fmt.Errorf("%w: offsets[0] = %d", ErrInvalidStructure, g.Offsets[0])
	}
	for i := int64(1); i <= g.NodeCount; i++ {
		if g.Offsets[i] < g.Offsets[i-1] {
			return fmt.Errorf("%w: offsets decrease at node %d (%d < %d)",
				ErrInvalidStructure, i, g.Offsets[i], g.Offsets[i-1])
		}
	}
	if g.Offsets[g.NodeCount] != g.EdgeCount {
		return fmt.Errorf("%w: offsets end at %d, edge count is %d",
			ErrInvalidStructure, g.Offsets[g.NodeCount], g.EdgeCount)
	}

	for k, v := range g.Adjacency {
		if v < 0 || v >= g.NodeCount {
			return fmt.Errorf("%w: adjacency[%d] = %d outside [0, %d)", ErrInvalidStructure, k, v, g.NodeCount)
		}
	}
	return nil
}

// Equal reports whether two graphs have the same counts, offsets, adjacency,
// weight presence and weights.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.NodeCount == other.NodeCount &&
		g.EdgeCount == other.EdgeCount &&
		slices.Equal(g.Offsets, other.Offsets) &&
		slices.Equal(g.Adjacency, other.Adjacency) &&
		g.HasWeights() == other.HasWeights() &&
		slices.Equal(g.Weights, other.Weights)
}
