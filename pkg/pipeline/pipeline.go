package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/gilchrisn/brain-connectivity-service/pkg/connectivity"
	"github.com/gilchrisn/brain-connectivity-service/pkg/hemisphere"
	"github.com/gilchrisn/brain-connectivity-service/pkg/metrics"
)

// BandReport carries the per-band outputs of one analysis run. The
// hemisphere verdicts live in the report summary.
type BandReport struct {
	Band        connectivity.Band  `json:"band"`
	Threshold   float64            `json:"threshold"`
	Efficiency  float64            `json:"efficiency"`
	Modularity  float64            `json:"modularity"`
	Communities *metrics.Partition `json:"communities"`
}

// Report is the full output of one analysis run.
type Report struct {
	RunID     string                       `json:"run_id"`
	Subject   string                       `json:"subject,omitempty"`
	Metric    string                       `json:"metric"`
	Channels  []string                     `json:"channels"`
	Bands     []BandReport                 `json:"bands"`
	Summary   *hemisphere.MultibandSummary `json:"summary"`
	ElapsedMS int64                        `json:"elapsed_ms"`
	CreatedAt time.Time                    `json:"created_at"`
}

// Pipeline runs the full analysis: per-band matrices, graph metrics,
// hemisphere dominance and the multiband consensus.
type Pipeline struct {
	cfg      *Config
	logger   zerolog.Logger
	engine   *metrics.Engine
	analyzer *hemisphere.Analyzer
	bands    []connectivity.Band
}

// New builds a pipeline from configuration, with the standard montage and
// band table.
func New(cfg *Config) *Pipeline {
	engine := metrics.NewEngine(cfg.MetricOptions())
	return &Pipeline{
		cfg:      cfg,
		logger:   cfg.CreateLogger(),
		engine:   engine,
		analyzer: hemisphere.NewAnalyzer(hemisphere.DefaultMontage(), engine, cfg.GetString("analysis.metric")),
		bands:    connectivity.DefaultBands(),
	}
}

// WithMontage replaces the channel grouping, e.g. for non-standard layouts.
func (p *Pipeline) WithMontage(m hemisphere.Montage) *Pipeline {
	p.analyzer = hemisphere.NewAnalyzer(m, p.engine, p.cfg.GetString("analysis.metric"))
	return p
}

// WithBands replaces the canonical band table used to resolve band names to
// frequency ranges.
func (p *Pipeline) WithBands(bands []connectivity.Band) *Pipeline {
	p.bands = bands
	return p
}

// Run analyzes every band in the dataset and assembles the report. Bands
// are independent, so they run concurrently when analysis.parallel is set;
// results keep dataset band order either way.
func (p *Pipeline) Run(ctx context.Context, ds *Dataset) (*Report, error) {
	start := time.Now()
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	n := len(ds.Channels)
	runID := uuid.New().String()
	p.logger.Info().
		Str("run_id", runID).
		Str("subject", ds.Subject).
		Int("channels", n).
		Int("bands", len(ds.Bands)).
		Msg("Starting connectivity analysis")

	proportion := p.cfg.GetFloat64("analysis.threshold_proportion")
	matrices := make([]*mat.SymDense, len(ds.Bands))
	reports := make([]BandReport, len(ds.Bands))

	process := func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		db := ds.Bands[i]
		band, ok := connectivity.BandByName(p.bands, db.Band)
		if !ok {
			band = connectivity.Band{Name: db.Band}
		}

		m, err := db.Connectivity.Matrix(n)
		if err != nil {
			return fmt.Errorf("band %s: %w", db.Band, err)
		}
		threshold := connectivity.ProportionalThreshold(m, proportion, nil)
		efficiency, err := p.engine.Global(metrics.MetricEfficiency, m, n)
		if err != nil {
			return fmt.Errorf("band %s: %w", db.Band, err)
		}
		parts, err := p.engine.Communities(m, n)
		if err != nil {
			return fmt.Errorf("band %s: %w", db.Band, err)
		}

		p.logger.Debug().
			Str("band", db.Band).
			Float64("threshold", threshold).
			Float64("efficiency", efficiency).
			Int("communities", parts.NumCommunities).
			Msg("Band processed")

		matrices[i] = m
		reports[i] = BandReport{
			Band:        band,
			Threshold:   threshold,
			Efficiency:  efficiency,
			Modularity:  parts.Modularity,
			Communities: parts,
		}
		return nil
	}

	if p.cfg.GetBool("analysis.parallel") {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.cfg.GetInt("analysis.num_workers"))
		for i := range ds.Bands {
			i := i
			g.Go(func() error { return process(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range ds.Bands {
			if err := process(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	bandResults := make([]hemisphere.BandResult, len(ds.Bands))
	for i := range reports {
		bandResults[i] = hemisphere.BandResult{Band: reports[i].Band, Matrix: matrices[i]}
	}
	summary, err := p.analyzer.Aggregate(ds.Channels, bandResults)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	p.logger.Info().
		Str("run_id", runID).
		Str("overall_dominance", string(summary.OverallDominance)).
		Dur("elapsed", elapsed).
		Msg("Analysis complete")

	return &Report{
		RunID:     runID,
		Subject:   ds.Subject,
		Metric:    p.analyzer.Metric(),
		Channels:  ds.Channels,
		Bands:     reports,
		Summary:   summary,
		ElapsedMS: elapsed.Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}, nil
}
