package hemisphere

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/gilchrisn/brain-connectivity-service/pkg/metrics"
)

// Analysis is the hemisphere dominance verdict for one band.
type Analysis struct {
	Metric               string     `json:"metric"`
	DominantHemisphere   Hemisphere `json:"dominant_hemisphere"` // Left, Right or Bilateral
	DominanceRatio       Ratio      `json:"dominance_ratio"`
	LeftMean             float64    `json:"left_mean"`
	RightMean            float64    `json:"right_mean"`
	MidlineMean          float64    `json:"midline_mean"`
	MostActiveChannel    string     `json:"most_active_channel"`
	MostActiveHemisphere Hemisphere `json:"most_active_hemisphere"` // Left, Right or Midline
	LeftChannels         []string   `json:"left_channels"`
	RightChannels        []string   `json:"right_channels"`
	MidlineChannels      []string   `json:"midline_channels"`
	Values               []float64  `json:"values"` // per-channel metric, channel order
}

// Analyzer groups a nodal metric by hemisphere and judges which side of the
// head dominates.
type Analyzer struct {
	montage Montage
	engine  *metrics.Engine
	metric  string
}

// NewAnalyzer creates an analyzer that computes the named nodal metric with
// the given engine and groups channels by the given montage.
func NewAnalyzer(montage Montage, engine *metrics.Engine, metric string) *Analyzer {
	return &Analyzer{montage: montage, engine: engine, metric: metric}
}

// Metric returns the nodal metric name the analyzer runs on.
func (a *Analyzer) Metric() string { return a.metric }

// Analyze computes the analyzer's metric over the connectivity matrix and
// judges hemisphere dominance. channels must be index-aligned with the
// matrix rows.
func (a *Analyzer) Analyze(m mat.Symmetric, channels []string) (*Analysis, error) {
	values, err := a.engine.Nodal(a.metric, m, len(channels))
	if err != nil {
		return nil, err
	}
	return a.AnalyzeValues(values, channels)
}

// AnalyzeValues judges hemisphere dominance from precomputed per-channel
// values. Channels outside the montage stay out of every group mean but
// remain eligible as the most active channel, labeled Midline.
func (a *Analyzer) AnalyzeValues(values []float64, channels []string) (*Analysis, error) {
	if len(values) != len(channels) {
		return nil, fmt.Errorf("%w: %d values for %d channels",
			metrics.ErrShapeMismatch, len(values), len(channels))
	}

	var leftVals, rightVals, midVals []float64
	var leftCh, rightCh, midCh []string
	for i, ch := range channels {
		side, ok := a.montage.Side(ch)
		if !ok {
			continue
		}
		switch side {
		case Left:
			leftVals = append(leftVals, values[i])
			leftCh = append(leftCh, ch)
		case Right:
			rightVals = append(rightVals, values[i])
			rightCh = append(rightCh, ch)
		case Midline:
			midVals = append(midVals, values[i])
			midCh = append(midCh, ch)
		}
	}

	leftMean := meanOrZero(leftVals)
	rightMean := meanOrZero(rightVals)

	dominant := Bilateral
	ratio := Ratio(1)
	switch {
	case leftMean > rightMean:
		dominant = Left
		if rightMean > 0 {
			ratio = Ratio(leftMean / rightMean)
		} else {
			ratio = UnboundedRatio()
		}
	case rightMean > leftMean:
		dominant = Right
		if leftMean > 0 {
			ratio = Ratio(rightMean / leftMean)
		} else {
			ratio = UnboundedRatio()
		}
	}

	mostActive := ""
	var mostSide Hemisphere
	if len(channels) > 0 {
		best := 0
		for i := 1; i < len(values); i++ {
			if values[i] > values[best] {
				best = i
			}
		}
		mostActive = channels[best]
		mostSide = Midline
		if side, ok := a.montage.Side(mostActive); ok && side != Midline {
			mostSide = side
		}
	}

	return &Analysis{
		Metric:               a.metric,
		DominantHemisphere:   dominant,
		DominanceRatio:       ratio,
		LeftMean:             leftMean,
		RightMean:            rightMean,
		MidlineMean:          meanOrZero(midVals),
		MostActiveChannel:    mostActive,
		MostActiveHemisphere: mostSide,
		LeftChannels:         leftCh,
		RightChannels:        rightCh,
		MidlineChannels:      midCh,
		Values:               values,
	}, nil
}

func meanOrZero(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}
