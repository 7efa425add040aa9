package metrics

import (
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
)

// betweennessMetric counts how often a channel sits on the shortest paths
// between other channel pairs. Connectivity weights measure closeness, so
// the search runs on reciprocal weights: strongly connected pairs are near
// each other and paths prefer strong routes.
type betweennessMetric struct{}

func (betweennessMetric) Name() string { return MetricBetweenness }

func (betweennessMetric) Compute(g *Graph) ([]float64, error) {
	out := make([]float64, g.n)
	if g.n <= 2 {
		// No channel can sit between a pair.
		return out, nil
	}
	dist := g.distanceView()
	scores := network.BetweennessWeighted(dist, path.DijkstraAllPaths(dist))
	scale := 1 / float64((g.n-1)*(g.n-2))
	for i := range out {
		out[i] = scores[int64(i)] * scale
	}
	return out, nil
}
