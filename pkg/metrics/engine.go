package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Options bounds the iterative metric computations.
type Options struct {
	MaxIterations int     // iteration cap for power iteration and local moving
	Tolerance     float64 // convergence tolerance for power iteration
	MaxLevels     int     // aggregation levels for community detection
	RandomSeed    int64   // node visiting order seed; negative means time-based
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxIterations: 100,
		Tolerance:     1e-6,
		MaxLevels:     10,
		RandomSeed:    42,
	}
}

// Engine computes graph metrics over connectivity matrices, dispatching to
// registered implementations by metric name.
type Engine struct {
	registry *Registry
	opts     Options
}

// NewEngine creates an engine whose iterative metrics run under opts.
func NewEngine(opts Options) *Engine {
	return &Engine{
		registry: NewRegistry(opts),
		opts:     opts,
	}
}

// Registry exposes the metric registry, e.g. to register custom metrics.
func (e *Engine) Registry() *Registry { return e.registry }

// Options returns the options the engine was built with.
func (e *Engine) Options() Options { return e.opts }

// Nodal computes the named per-channel metric over the matrix.
func (e *Engine) Nodal(name string, m mat.Symmetric, nChannels int) ([]float64, error) {
	metric, ok := e.registry.Nodal(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	g, err := NewGraph(m, nChannels)
	if err != nil {
		return nil, err
	}
	return metric.Compute(g)
}

// Global computes the named whole-band metric over the matrix.
func (e *Engine) Global(name string, m mat.Symmetric, nChannels int) (float64, error) {
	metric, ok := e.registry.Global(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	g, err := NewGraph(m, nChannels)
	if err != nil {
		return 0, err
	}
	return metric.Compute(g)
}

// Communities partitions the matrix's graph into communities.
func (e *Engine) Communities(m mat.Symmetric, nChannels int) (*Partition, error) {
	g, err := NewGraph(m, nChannels)
	if err != nil {
		return nil, err
	}
	return DetectCommunities(g, e.opts), nil
}
