// Package testutil provides the graph fixtures spec §8's testable
// properties are phrased against, shared by every package's test
// suite rather than redefined per-package.
package testutil

import "github.com/cliquecount/internal/graph"

// BuildGraph finalizes a Graph from a literal edge list, the shape
// every fixture below returns.
func BuildGraph(edges [][2]int) *graph.Graph {
	g := graph.New()
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	g.Finalize()
	return g
}

// TriangleEdges is K3: one 3-clique, no larger clique.
func TriangleEdges() [][2]int {
	return [][2]int{{1, 2}, {2, 3}, {1, 3}}
}

// K4Edges is the complete graph on 4 nodes: four 3-cliques, one
// 4-clique.
func K4Edges() [][2]int {
	return [][2]int{{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}}
}

// K5Edges is the complete graph on 5 nodes: ten 3-cliques, five
// 4-cliques, one 5-clique.
func K5Edges() [][2]int {
	return [][2]int{
		{1, 2}, {1, 3}, {1, 4}, {1, 5},
		{2, 3}, {2, 4}, {2, 5},
		{3, 4}, {3, 5},
		{4, 5},
	}
}

// TwoDisjointTrianglesEdges is two components, each a triangle: two
// 3-cliques, no cross-component clique.
func TwoDisjointTrianglesEdges() [][2]int {
	return [][2]int{
		{1, 2}, {2, 3}, {1, 3},
		{4, 5}, {5, 6}, {4, 6},
	}
}

// BowtieEdges is two triangles sharing node 1: two 3-cliques, no
// 4-clique (nodes 2,3 and 4,5 are not cross-connected).
func BowtieEdges() [][2]int {
	return [][2]int{
		{1, 2}, {2, 3}, {1, 3},
		{1, 4}, {4, 5}, {1, 5},
	}
}

// StarOfCliquesEdges builds a hub node connected to every node of
// numCliques disjoint triangles, stressing the donation protocol: the
// hub's enormous candidate set makes early donation checks fire
// immediately, while each triangle is small enough to finish without
// ever donating (spec §8 scenario 6, the donation-neutrality check).
func StarOfCliquesEdges(numCliques int) [][2]int {
	var edges [][2]int
	next := 1
	for c := 0; c < numCliques; c++ {
		a, b, d := next, next+1, next+2
		next += 3
		edges = append(edges, [2]int{0, a}, [2]int{0, b}, [2]int{0, d})
		edges = append(edges, [2]int{a, b}, [2]int{b, d}, [2]int{a, d})
	}
	return edges
}
