package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

// Graph is an immutable weighted view of one band's connectivity matrix.
// Channels become nodes 0..n-1 and every strictly positive off-diagonal
// entry becomes an undirected edge carrying the entry as its strength.
// Channels without any edge stay in the graph as isolated nodes.
type Graph struct {
	n         int
	weights   *mat.SymDense
	adjacency *simple.WeightedUndirectedGraph
	maxWeight float64
}

// NewGraph validates the matrix against the declared channel count and
// builds the weighted graph over it. The matrix is copied, so later
// mutations of the input do not leak into the graph.
func NewGraph(m mat.Symmetric, nChannels int) (*Graph, error) {
	r, _ := m.Dims()
	if nChannels < 1 || r != nChannels {
		return nil, fmt.Errorf("%w: matrix is %dx%d, declared %d channels",
			ErrShapeMismatch, r, r, nChannels)
	}

	g := &Graph{
		n:         nChannels,
		weights:   mat.NewSymDense(nChannels, nil),
		adjacency: simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}
	for i := 0; i < nChannels; i++ {
		g.adjacency.AddNode(simple.Node(i))
	}
	for i := 0; i < nChannels; i++ {
		for j := i + 1; j < nChannels; j++ {
			w := m.At(i, j)
			if w <= 0 {
				continue
			}
			g.weights.SetSym(i, j, w)
			g.adjacency.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(i),
				T: simple.Node(j),
				W: w,
			})
			if w > g.maxWeight {
				g.maxWeight = w
			}
		}
	}
	return g, nil
}

// NumChannels returns the number of channels (nodes) in the graph.
func (g *Graph) NumChannels() int { return g.n }

// Weight returns the connection strength between channels i and j.
// The diagonal is always zero.
func (g *Graph) Weight(i, j int) float64 {
	if i == j {
		return 0
	}
	return g.weights.At(i, j)
}

// MaxWeight returns the largest edge strength in the graph, zero when the
// graph has no edges.
func (g *Graph) MaxWeight() float64 { return g.maxWeight }

// Degree returns the number of channels connected to channel i.
func (g *Graph) Degree(i int) int {
	deg := 0
	for j := 0; j < g.n; j++ {
		if j != i && g.weights.At(i, j) > 0 {
			deg++
		}
	}
	return deg
}

// Neighbors returns the channels connected to channel i, in ascending order.
func (g *Graph) Neighbors(i int) []int {
	var nb []int
	for j := 0; j < g.n; j++ {
		if j != i && g.weights.At(i, j) > 0 {
			nb = append(nb, j)
		}
	}
	return nb
}

// distanceView builds the reciprocal-weight graph used by shortest-path
// metrics. Connectivity weights measure closeness, so a strong connection
// becomes a short hop (1/w) when searching for paths.
func (g *Graph) distanceView() *simple.WeightedUndirectedGraph {
	dist := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < g.n; i++ {
		dist.AddNode(simple.Node(i))
	}
	for i := 0; i < g.n; i++ {
		for j := i + 1; j < g.n; j++ {
			if w := g.weights.At(i, j); w > 0 {
				dist.SetWeightedEdge(simple.WeightedEdge{
					F: simple.Node(i),
					T: simple.Node(j),
					W: 1 / w,
				})
			}
		}
	}
	return dist
}
