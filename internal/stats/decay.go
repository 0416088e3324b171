// Package stats computes recency-weighted statistics over score sequences.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is the decay-weighted view of one score sequence.
type Summary struct {
	Mean     float64
	Variance float64
	StdDev   float64
	Count    int
	Weights  []float64
}

// Weights returns n decay weights in chronological order. The newest entry
// (index n-1) gets rate^0 = 1 and the entry at index i gets rate^((n-1)-i).
func Weights(n int, rate float64) []float64 {
	if n <= 0 {
		return []float64{}
	}
	w := make([]float64, n)
	for i := range w {
		w[i] = math.Pow(rate, float64(n-1-i))
	}
	return w
}

// Summarize weights scores (oldest first) by rate and returns the weighted
// mean, variance and standard deviation. An empty sequence yields zeros.
func Summarize(scores []int64, rate float64) Summary {
	if len(scores) == 0 {
		return Summary{Weights: []float64{}}
	}

	weights := Weights(len(scores), rate)
	values := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = float64(s)
	}

	variance := WeightedVariance(values, weights)
	return Summary{
		Mean:     WeightedMean(values, weights),
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Count:    len(scores),
		Weights:  weights,
	}
}

// WeightedMean returns Σ(v·w)/Σw over the common prefix of values and weights,
// or 0 when that prefix is empty or its weights sum to zero.
func WeightedMean(values, weights []float64) float64 {
	v, w, ok := paired(values, weights)
	if !ok {
		return 0
	}
	return stat.Mean(v, w)
}

// WeightedVariance returns the population form Σw·(v-mean)²/Σw, or 0 when the
// common prefix is empty or its weights sum to zero.
func WeightedVariance(values, weights []float64) float64 {
	v, w, ok := paired(values, weights)
	if !ok {
		return 0
	}
	_, variance := stat.PopMeanVariance(v, w)
	if !(variance > 0) {
		return 0
	}
	return variance
}

func WeightedStdDev(values, weights []float64) float64 {
	return math.Sqrt(WeightedVariance(values, weights))
}

// paired truncates values and weights to equal length, since stat panics on
// mismatched slices.
func paired(values, weights []float64) ([]float64, []float64, bool) {
	n := min(len(values), len(weights))
	if n == 0 {
		return nil, nil, false
	}
	v, w := values[:n], weights[:n]
	if floats.Sum(w) == 0 {
		return nil, nil, false
	}
	return v, w, true
}
