package connectivity

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ProportionalThreshold returns the connectivity strength such that roughly
// the top `proportion` fraction of pairwise connections score at or above it.
// Only upper-triangle pairs (i<j) over the given channel indices are
// considered, by absolute value. A nil subset means all channels. An empty
// collection yields 0. proportion 0 selects the strongest connection,
// proportion 1 the weakest; values outside [0,1] clamp to those extremes.
func ProportionalThreshold(m mat.Symmetric, proportion float64, subset []int) float64 {
	if subset == nil {
		n, _ := m.Dims()
		subset = make([]int, n)
		for i := range subset {
			subset[i] = i
		}
	}

	values := make([]float64, 0, len(subset)*(len(subset)-1)/2)
	for a := 0; a < len(subset); a++ {
		for b := a + 1; b < len(subset); b++ {
			values = append(values, math.Abs(m.At(subset[a], subset[b])))
		}
	}
	if len(values) == 0 {
		return 0
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	cutoff := int(math.Floor(proportion * float64(len(values))))
	if cutoff > len(values)-1 {
		cutoff = len(values) - 1
	}
	if cutoff < 0 {
		cutoff = 0
	}
	return values[cutoff]
}
