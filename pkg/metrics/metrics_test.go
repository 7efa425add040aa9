package metrics

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func symFromRows(t *testing.T, rows [][]float64) *mat.SymDense {
	t.Helper()
	n := len(rows)
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			m.SetSym(i, j, rows[i][j])
		}
	}
	return m
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestEngineUnknownMetric(t *testing.T) {
	e := NewEngine(DefaultOptions())
	m := symFromRows(t, [][]float64{
		{0, 1},
		{1, 0},
	})

	if _, err := e.Nodal("pagerank", m, 2); !errors.Is(err, ErrUnknownMetric) {
		t.Fatalf("Nodal with unknown name: got %v, want ErrUnknownMetric", err)
	}
	if _, err := e.Global("diameter", m, 2); !errors.Is(err, ErrUnknownMetric) {
		t.Fatalf("Global with unknown name: got %v, want ErrUnknownMetric", err)
	}
}

func TestEngineShapeMismatch(t *testing.T) {
	e := NewEngine(DefaultOptions())
	m := symFromRows(t, [][]float64{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 0},
	})

	if _, err := e.Nodal(MetricStrength, m, 4); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("3x3 matrix declared as 4 channels: got %v, want ErrShapeMismatch", err)
	}
	if _, err := e.Global(MetricEfficiency, m, 0); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("zero channel count: got %v, want ErrShapeMismatch", err)
	}
	if _, err := e.Communities(m, 2); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("3x3 matrix declared as 2 channels: got %v, want ErrShapeMismatch", err)
	}
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry(DefaultOptions())

	wantNodal := []string{MetricBetweenness, MetricClustering, MetricEigenvector, MetricStrength}
	if got := r.NodalNames(); !reflect.DeepEqual(got, wantNodal) {
		t.Errorf("NodalNames() = %v, want %v", got, wantNodal)
	}

	wantGlobal := []string{MetricEfficiency, MetricModularity}
	if got := r.GlobalNames(); !reflect.DeepEqual(got, wantGlobal) {
		t.Errorf("GlobalNames() = %v, want %v", got, wantGlobal)
	}

	if _, ok := r.Nodal(MetricStrength); !ok {
		t.Error("strength metric not registered")
	}
	if _, ok := r.Global(MetricModularity); !ok {
		t.Error("modularity metric not registered")
	}
}

func TestGraphAccessors(t *testing.T) {
	m := symFromRows(t, [][]float64{
		{0, 0.5, 0, 2},
		{0.5, 0, 1, 0},
		{0, 1, 0, 0},
		{2, 0, 0, 0},
	})
	g, err := NewGraph(m, 4)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	if g.NumChannels() != 4 {
		t.Errorf("NumChannels() = %d, want 4", g.NumChannels())
	}
	if g.MaxWeight() != 2 {
		t.Errorf("MaxWeight() = %v, want 2", g.MaxWeight())
	}
	if got := g.Weight(0, 1); got != 0.5 {
		t.Errorf("Weight(0,1) = %v, want 0.5", got)
	}
	if got := g.Weight(1, 1); got != 0 {
		t.Errorf("Weight(1,1) = %v, want 0", got)
	}
	if got := g.Degree(0); got != 2 {
		t.Errorf("Degree(0) = %d, want 2", got)
	}
	if got := g.Neighbors(1); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("Neighbors(1) = %v, want [0 2]", got)
	}
	if got := g.Neighbors(0); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("Neighbors(0) = %v, want [1 3]", got)
	}
}
