package stats

const (
	// RelevanceThreshold is the minimum weight a score needs to shape the axis.
	RelevanceThreshold = 0.1

	plotPadding = 0.1
)

// Range is the vertical display window of a chart.
type Range struct {
	Floor   float64
	Ceiling float64
}

// PlotRange picks a display window so heavily decayed outliers do not stretch
// the axis. See PlotRangeWithThreshold.
func PlotRange(scores []int64, weights []float64) Range {
	return PlotRangeWithThreshold(scores, weights, RelevanceThreshold)
}

// PlotRangeWithThreshold bases the window on scores whose weight is at least
// threshold, falling back to every score when none qualifies. Both ends are
// padded by 10% of the spread and the floor never drops below zero.
func PlotRangeWithThreshold(scores []int64, weights []float64, threshold float64) Range {
	relevant := make([]int64, 0, len(scores))
	for i := 0; i < len(scores) && i < len(weights); i++ {
		if weights[i] >= threshold {
			relevant = append(relevant, scores[i])
		}
	}
	if len(relevant) == 0 {
		relevant = scores
	}

	var lo, hi int64
	for i, s := range relevant {
		if i == 0 || s < lo {
			lo = s
		}
		if i == 0 || s > hi {
			hi = s
		}
	}

	padding := float64(hi-lo) * plotPadding
	return Range{
		Floor:   max(0, float64(lo)-padding),
		Ceiling: float64(hi) + padding,
	}
}
