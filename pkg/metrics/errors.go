package metrics

import "errors"

var (
	// ErrShapeMismatch reports a connectivity matrix whose size does not
	// match the declared channel count.
	ErrShapeMismatch = errors.New("metrics: matrix size does not match channel count")

	// ErrNoConvergence reports an iterative metric that exhausted its
	// iteration budget before converging.
	ErrNoConvergence = errors.New("metrics: power iteration did not converge")

	// ErrUnknownMetric reports a metric name with no registered implementation.
	ErrUnknownMetric = errors.New("metrics: unknown metric")
)
