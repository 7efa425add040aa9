package metrics

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// efficiencyMetric is the global efficiency: the mean inverse shortest-path
// length over all ordered channel pairs on the unweighted topology.
// Unreachable pairs contribute nothing, so fragmented graphs score low
// without blowing up.
type efficiencyMetric struct{}

func (efficiencyMetric) Name() string { return MetricEfficiency }

func (efficiencyMetric) Compute(g *Graph) (float64, error) {
	if g.n <= 1 {
		return 0, nil
	}
	sum := 0.0
	for i := 0; i < g.n; i++ {
		bfs := traverse.BreadthFirst{}
		bfs.Walk(g.adjacency, simple.Node(i), func(_ graph.Node, depth int) bool {
			if depth > 0 {
				sum += 1 / float64(depth)
			}
			return false
		})
	}
	return sum / float64(g.n*(g.n-1)), nil
}

// modularityMetric is the modularity of the best community partition found
// for the band's graph.
type modularityMetric struct {
	opts Options
}

func (modularityMetric) Name() string { return MetricModularity }

func (m modularityMetric) Compute(g *Graph) (float64, error) {
	return DetectCommunities(g, m.opts).Modularity, nil
}
