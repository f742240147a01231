// Package graph implements the immutable adjacency model the clique
// enumerator operates on: an undirected, simple graph built once from an
// edge list and never mutated again during enumeration.
package graph

import "sort"

// edgeKey is a normalized (min, max) pair used as a hash-set key so that
// IsEdge answers symmetrically regardless of argument order.
type edgeKey struct {
	lo, hi int
}

// Graph is an undirected simple graph over the integer node IDs its edges
// name, kept as given (they need not be 0..n-1). AddEdge may be called any number of times before that;
// duplicate and self-loop edges are silently ignored.
type Graph struct {
	adjacency map[int][]int
	edges     map[edgeKey]struct{}
	order     []int
	finalized bool
}

// New creates an empty Graph ready to receive edges.
func New() *Graph {
	return &Graph{
		adjacency: make(map[int][]int),
		edges:     make(map[edgeKey]struct{}),
	}
}

// AddEdge records an undirected edge between u and v. Self-loops are
// dropped; a repeated edge is a no-op. Calling AddEdge after Finalize
// panics, since the adjacency slices it builds would otherwise silently
// go stale.
func (g *Graph) AddEdge(u, v int) {
	if g.finalized {
		panic("graph: AddEdge called after Finalize")
	}
	if u == v {
		return
	}
	key := normalize(u, v)
	if _, exists := g.edges[key]; exists {
		return
	}
	g.edges[key] = struct{}{}
	g.adjacency[u] = append(g.adjacency[u], v)
	g.adjacency[v] = append(g.adjacency[v], u)
}

// Finalize sorts every adjacency list and fixes the node ordering used by
// NumNodes/Nodes. The enumerator's strict total order over node IDs
// depends on this having run; calling it more than once is a no-op.
func (g *Graph) Finalize() {
	if g.finalized {
		return
	}
	g.order = make([]int, 0, len(g.adjacency))
	for n := range g.adjacency {
		g.order = append(g.order, n)
	}
	sort.Ints(g.order)
	for _, n := range g.order {
		sort.Ints(g.adjacency[n])
	}
	g.finalized = true
}

// IsEdge reports whether u and v are connected. Safe to call before or
// after Finalize.
func (g *Graph) IsEdge(u, v int) bool {
	_, ok := g.edges[normalize(u, v)]
	return ok
}

// Neighbors returns u's adjacency list. The returned slice is owned by the
// Graph and must not be mutated by callers.
func (g *Graph) Neighbors(u int) []int {
	return g.adjacency[u]
}

// Degree returns len(Neighbors(u)); degree is never tracked separately
// from the adjacency list.
func (g *Graph) Degree(u int) int {
	return len(g.adjacency[u])
}

// Nodes returns the sorted node IDs. Panics if called before Finalize.
func (g *Graph) Nodes() []int {
	if !g.finalized {
		panic("graph: Nodes called before Finalize")
	}
	return g.order
}

// NumNodes returns the number of distinct nodes that appear in at least
// one edge.
func (g *Graph) NumNodes() int {
	return len(g.adjacency)
}

// NumEdges returns the number of distinct undirected edges.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

func normalize(u, v int) edgeKey {
	if u < v {
		return edgeKey{u, v}
	}
	return edgeKey{v, u}
}
