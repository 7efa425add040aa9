package metrics

import "sort"

// Metric names accepted by the registry and the analysis configuration.
const (
	MetricStrength    = "strength"
	MetricBetweenness = "betweenness"
	MetricClustering  = "clustering"
	MetricEigenvector = "eigenvector"
	MetricEfficiency  = "efficiency"
	MetricModularity  = "modularity"
)

// Nodal is a metric that produces one value per channel, in channel order.
type Nodal interface {
	Name() string
	Compute(g *Graph) ([]float64, error)
}

// Global is a metric that produces a single value for the whole band.
type Global interface {
	Name() string
	Compute(g *Graph) (float64, error)
}

// Registry maps metric names to their implementations so callers can select
// metrics from configuration without switching on names themselves.
type Registry struct {
	nodal  map[string]Nodal
	global map[string]Global
}

// NewRegistry creates a registry with every built-in metric registered.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		nodal:  make(map[string]Nodal),
		global: make(map[string]Global),
	}
	r.RegisterNodal(strengthMetric{})
	r.RegisterNodal(clusteringMetric{})
	r.RegisterNodal(betweennessMetric{})
	r.RegisterNodal(eigenvectorMetric{opts: opts})
	r.RegisterGlobal(efficiencyMetric{})
	r.RegisterGlobal(modularityMetric{opts: opts})
	return r
}

// RegisterNodal adds or replaces a per-channel metric.
func (r *Registry) RegisterNodal(m Nodal) {
	r.nodal[m.Name()] = m
}

// RegisterGlobal adds or replaces a whole-band metric.
func (r *Registry) RegisterGlobal(m Global) {
	r.global[m.Name()] = m
}

// Nodal looks up a per-channel metric by name.
func (r *Registry) Nodal(name string) (Nodal, bool) {
	m, ok := r.nodal[name]
	return m, ok
}

// Global looks up a whole-band metric by name.
func (r *Registry) Global(name string) (Global, bool) {
	m, ok := r.global[name]
	return m, ok
}

// NodalNames lists the registered per-channel metrics in sorted order.
func (r *Registry) NodalNames() []string {
	names := make([]string, 0, len(r.nodal))
	for name := range r.nodal {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GlobalNames lists the registered whole-band metrics in sorted order.
func (r *Registry) GlobalNames() []string {
	names := make([]string, 0, len(r.global))
	for name := range r.global {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
