package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gilchrisn/brain-connectivity-service/pkg/connectivity"
	"github.com/gilchrisn/brain-connectivity-service/pkg/hemisphere"
	"github.com/gilchrisn/brain-connectivity-service/pkg/metrics"
)

func quietConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewConfig()
	cfg.Set("logging.level", "error")
	return cfg
}

// testDataset has two bands over [C3, C4, Cz]: alpha reconstructs to
// strengths [3, 4, 5] (right dominant, Cz most active) and beta to
// strengths [6, 5, 1] (left dominant, C3 most active).
func testDataset() *Dataset {
	return &Dataset{
		Subject:  "s01",
		Channels: []string{"C3", "C4", "Cz"},
		Bands: []DatasetBand{
			{Band: "alpha", Connectivity: RawConnectivity{vector: []float64{1, 2, 3}}},
			{Band: "beta", Connectivity: RawConnectivity{vector: []float64{5, 1, 0}}},
		},
	}
}

func TestRun(t *testing.T) {
	p := New(quietConfig(t))
	report, err := p.Run(context.Background(), testDataset())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.RunID == "" {
		t.Error("empty run ID")
	}
	if report.Subject != "s01" || report.Metric != "strength" {
		t.Errorf("header = %q/%q, want s01/strength", report.Subject, report.Metric)
	}
	if len(report.Bands) != 2 {
		t.Fatalf("len(Bands) = %d, want 2", len(report.Bands))
	}

	alpha := report.Bands[0]
	wantBand := connectivity.Band{Name: "alpha", Low: 8, High: 13}
	if alpha.Band != wantBand {
		t.Errorf("Bands[0].Band = %+v, want %+v", alpha.Band, wantBand)
	}
	// Upper-triangle strengths are [3, 2, 1]; the default 0.2 proportion
	// selects the strongest.
	if alpha.Threshold != 3 {
		t.Errorf("alpha threshold = %v, want 3", alpha.Threshold)
	}
	if !approxEq(alpha.Efficiency, 1, 1e-12) {
		t.Errorf("alpha efficiency = %v, want 1", alpha.Efficiency)
	}
	if alpha.Communities == nil || alpha.Communities.NumCommunities != 1 {
		t.Errorf("alpha communities = %+v, want a single community", alpha.Communities)
	}

	beta := report.Bands[1]
	if beta.Threshold != 5 {
		t.Errorf("beta threshold = %v, want 5", beta.Threshold)
	}
	if !approxEq(beta.Efficiency, 5.0/6.0, 1e-12) {
		t.Errorf("beta efficiency = %v, want 5/6", beta.Efficiency)
	}

	summary := report.Summary
	if summary == nil {
		t.Fatal("nil summary")
	}
	if summary.OverallDominance != hemisphere.Mixed {
		t.Errorf("overall dominance = %q, want Mixed", summary.OverallDominance)
	}
	if summary.DominanceCounts["Left"] != 1 || summary.DominanceCounts["Right"] != 1 {
		t.Errorf("dominance counts = %v, want Left:1 Right:1", summary.DominanceCounts)
	}
	// One most-active vote each for Cz and C3; the tie goes to the band
	// seen first.
	if summary.MostFrequentChannel != "Cz" {
		t.Errorf("most frequent channel = %q, want Cz", summary.MostFrequentChannel)
	}
	if !approxEq(summary.MeanDominanceRatio, 19.0/15.0, 1e-12) {
		t.Errorf("mean ratio = %v, want 19/15", summary.MeanDominanceRatio)
	}
	if len(summary.Bands) != 2 {
		t.Fatalf("len(summary.Bands) = %d, want 2", len(summary.Bands))
	}
	if summary.Bands[0].Analysis.DominantHemisphere != hemisphere.Right {
		t.Errorf("alpha dominance = %q, want Right",
			summary.Bands[0].Analysis.DominantHemisphere)
	}
	if summary.Bands[1].Analysis.DominantHemisphere != hemisphere.Left {
		t.Errorf("beta dominance = %q, want Left",
			summary.Bands[1].Analysis.DominantHemisphere)
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	seq, err := New(quietConfig(t)).Run(context.Background(), testDataset())
	if err != nil {
		t.Fatalf("sequential Run: %v", err)
	}

	cfg := quietConfig(t)
	cfg.Set("analysis.parallel", true)
	cfg.Set("analysis.num_workers", 2)
	par, err := New(cfg).Run(context.Background(), testDataset())
	if err != nil {
		t.Fatalf("parallel Run: %v", err)
	}

	if !reflect.DeepEqual(seq.Bands, par.Bands) {
		t.Errorf("band reports differ:\nsequential %+v\nparallel   %+v", seq.Bands, par.Bands)
	}
	if !reflect.DeepEqual(seq.Summary, par.Summary) {
		t.Errorf("summaries differ:\nsequential %+v\nparallel   %+v", seq.Summary, par.Summary)
	}
}

func TestRunNamesFailingBand(t *testing.T) {
	cfg := quietConfig(t)
	cfg.Set("analysis.metric", metrics.MetricEigenvector)
	cfg.Set("algorithm.max_iterations", 0)

	_, err := New(cfg).Run(context.Background(), testDataset())
	if err == nil {
		t.Fatal("expected convergence failure")
	}
	if !errors.Is(err, metrics.ErrNoConvergence) {
		t.Errorf("got %v, want ErrNoConvergence", err)
	}
	if !strings.Contains(err.Error(), "band alpha") {
		t.Errorf("error %q does not name the failing band", err)
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(quietConfig(t)).Run(ctx, testDataset())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestRunInvalidDataset(t *testing.T) {
	ds := testDataset()
	ds.Channels = nil
	_, err := New(quietConfig(t)).Run(context.Background(), ds)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("got %v, want ValidationErrors", err)
	}
}

func TestRunUnknownBandName(t *testing.T) {
	ds := testDataset()
	ds.Bands = ds.Bands[:1]
	ds.Bands[0].Band = "mu"

	report, err := New(quietConfig(t)).Run(context.Background(), ds)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := connectivity.Band{Name: "mu"}
	if report.Bands[0].Band != want {
		t.Errorf("Bands[0].Band = %+v, want bare %+v", report.Bands[0].Band, want)
	}
}

func TestWriteReport(t *testing.T) {
	// The single band has strengths [5, 0, 5], so the right mean is zero
	// and the dominance ratio is unbounded.
	ds := &Dataset{
		Channels: []string{"C3", "C4", "Cz"},
		Bands: []DatasetBand{
			{Band: "alpha", Connectivity: RawConnectivity{vector: []float64{0, 5, 0}}},
		},
	}

	p := New(quietConfig(t))
	report, err := p.Run(context.Background(), ds)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Summary.Bands[0].Analysis.DominanceRatio.Unbounded() {
		t.Fatal("fixture did not produce an unbounded ratio")
	}

	var buf bytes.Buffer
	if err := p.WriteReport(&buf, report); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"unbounded"`) {
		t.Error("encoded report lost the unbounded ratio")
	}
	if !strings.Contains(out, `"run_id"`) {
		t.Error("encoded report missing run_id")
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report does not decode back: %v", err)
	}
	if !decoded.Summary.Bands[0].Analysis.DominanceRatio.Unbounded() {
		t.Error("round trip lost the unbounded ratio")
	}
}

func TestSaveReport(t *testing.T) {
	p := New(quietConfig(t))
	report, err := p.Run(context.Background(), testDataset())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := p.SaveReport(path, report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !json.Valid(data) {
		t.Error("saved report is not valid JSON")
	}
}

func approxEq(a, b, tol float64) bool {
	if a > b {
		return a-b <= tol
	}
	return b-a <= tol
}
