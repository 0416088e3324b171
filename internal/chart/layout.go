// Package chart lays out decay-weighted scores as variable-width bars and
// maps pointer positions back to score indices.
package chart

import "math"

// Segment is one bar. Its width is the decay weight of the score it draws.
type Segment struct {
	Index  int
	Left   float64
	Width  float64
	Height float64
	Score  int64
}

// Right is the segment's right edge, which is also its click boundary.
func (s Segment) Right() float64 { return s.Left + s.Width }

// Center is the x coordinate of the middle of the bar.
func (s Segment) Center() float64 { return s.Left + s.Width/2 }

// Layout is the horizontal geometry of a bar chart.
type Layout struct {
	Segments   []Segment
	Boundaries []float64
	Floor      float64
	TotalWidth float64
}

// NewLayout places scores side by side in chronological order. Segment i
// spans [cursor, cursor+weights[i]) and rises max(0, score-floor) above floor.
func NewLayout(scores []int64, weights []float64, floor float64) Layout {
	n := min(len(scores), len(weights))
	l := Layout{
		Segments:   make([]Segment, 0, n),
		Boundaries: make([]float64, 0, n),
		Floor:      floor,
	}

	cursor := 0.0
	for i := 0; i < n; i++ {
		w := weights[i]
		l.Segments = append(l.Segments, Segment{
			Index:  i,
			Left:   cursor,
			Width:  w,
			Height: max(0, float64(scores[i])-floor),
			Score:  scores[i],
		})
		l.Boundaries = append(l.Boundaries, cursor+w)
		cursor += w
	}
	l.TotalWidth = cursor
	return l
}

// Resolve maps an x coordinate to the index of the segment under it. It
// reports false for positions left of zero, right of the total width, or NaN.
func (l Layout) Resolve(x float64) (int, bool) {
	if math.IsNaN(x) || x < 0 || x > l.TotalWidth {
		return -1, false
	}
	for i, edge := range l.Boundaries {
		if x < edge {
			return i, true
		}
	}
	return -1, false
}
