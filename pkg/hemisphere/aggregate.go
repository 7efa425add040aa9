package hemisphere

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/gilchrisn/brain-connectivity-service/pkg/connectivity"
)

// ErrNoBands reports an aggregation call with nothing to aggregate.
var ErrNoBands = errors.New("hemisphere: no bands to aggregate")

// BandResult pairs a frequency band with its connectivity matrix.
type BandResult struct {
	Band   connectivity.Band
	Matrix mat.Symmetric
}

// BandAnalysis pairs a band with its hemisphere analysis.
type BandAnalysis struct {
	Band     connectivity.Band `json:"band"`
	Analysis *Analysis         `json:"analysis"`
}

// MultibandSummary is the cross-band consensus over per-band analyses.
type MultibandSummary struct {
	Metric              string         `json:"metric"`
	Bands               []BandAnalysis `json:"bands"`
	OverallDominance    Hemisphere     `json:"overall_dominance"` // Left, Right or Mixed
	DominanceCounts     map[string]int `json:"dominance_counts"`
	MostFrequentChannel string         `json:"most_frequent_channel"`
	ChannelCounts       map[string]int `json:"channel_counts"`
	MeanDominanceRatio  float64        `json:"mean_dominance_ratio"`
}

// Aggregate runs the analyzer once per band and combines the verdicts.
// Overall dominance is the majority of per-band labels; a Left/Right tie
// and a Bilateral majority both report Mixed. The mean dominance ratio
// skips unbounded bands and defaults to 1 when every band is unbounded.
func (a *Analyzer) Aggregate(channels []string, bands []BandResult) (*MultibandSummary, error) {
	if len(bands) == 0 {
		return nil, ErrNoBands
	}

	out := &MultibandSummary{Metric: a.metric}
	domTally := NewTally()
	chTally := NewTally()
	var ratios []float64

	for _, band := range bands {
		analysis, err := a.Analyze(band.Matrix, channels)
		if err != nil {
			return nil, fmt.Errorf("band %s: %w", band.Band.Name, err)
		}
		out.Bands = append(out.Bands, BandAnalysis{Band: band.Band, Analysis: analysis})

		domTally.Add(string(analysis.DominantHemisphere))
		if analysis.MostActiveChannel != "" {
			chTally.Add(analysis.MostActiveChannel)
		}
		if !analysis.DominanceRatio.Unbounded() {
			ratios = append(ratios, float64(analysis.DominanceRatio))
		}
	}

	counts := domTally.Counts()
	switch {
	case counts[string(Left)] > counts[string(Right)]:
		out.OverallDominance = Left
	case counts[string(Right)] > counts[string(Left)]:
		out.OverallDominance = Right
	default:
		out.OverallDominance = Mixed
	}
	out.DominanceCounts = counts

	out.MostFrequentChannel, _ = chTally.Max()
	out.ChannelCounts = chTally.Counts()

	if len(ratios) > 0 {
		out.MeanDominanceRatio = stat.Mean(ratios, nil)
	} else {
		out.MeanDominanceRatio = 1.0
	}
	return out, nil
}
