package chart

import (
	"math"
	"reflect"
	"testing"

	"score-tracker/internal/stats"
)

func TestNewLayout(t *testing.T) {
	l := NewLayout([]int64{10, 4, 30}, []float64{2, 3, 5}, 5)

	if want := []float64{2, 5, 10}; !reflect.DeepEqual(l.Boundaries, want) {
		t.Errorf("Boundaries = %v, want %v", l.Boundaries, want)
	}
	if l.TotalWidth != 10 {
		t.Errorf("TotalWidth = %v, want 10", l.TotalWidth)
	}

	want := []Segment{
		{Index: 0, Left: 0, Width: 2, Height: 5, Score: 10},
		{Index: 1, Left: 2, Width: 3, Height: 0, Score: 4},
		{Index: 2, Left: 5, Width: 5, Height: 25, Score: 30},
	}
	if !reflect.DeepEqual(l.Segments, want) {
		t.Errorf("Segments = %+v, want %+v", l.Segments, want)
	}
	if got := l.Segments[2].Center(); got != 7.5 {
		t.Errorf("Center = %v, want 7.5", got)
	}
}

func TestNewLayoutEmpty(t *testing.T) {
	l := NewLayout(nil, nil, 0)
	if len(l.Segments) != 0 || l.TotalWidth != 0 {
		t.Errorf("empty layout = %+v", l)
	}
	if _, ok := l.Resolve(0); ok {
		t.Error("Resolve on empty layout should select nothing")
	}
}

func TestResolve(t *testing.T) {
	l := NewLayout([]int64{1, 1, 1}, []float64{2.0, 3.0, 5.0}, 0)

	tests := []struct {
		x      float64
		want   int
		wantOK bool
	}{
		{x: 0, want: 0, wantOK: true},
		{x: 1.9, want: 0, wantOK: true},
		{x: 2.0, want: 1, wantOK: true},
		{x: 2.1, want: 1, wantOK: true},
		{x: 9.9, want: 2, wantOK: true},
		{x: 10.0, want: -1, wantOK: false},
		{x: 10.1, want: -1, wantOK: false},
		{x: -0.5, want: -1, wantOK: false},
		{x: math.NaN(), want: -1, wantOK: false},
		{x: math.Inf(1), want: -1, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := l.Resolve(tt.x)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Resolve(%v) = (%d, %v), want (%d, %v)", tt.x, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestResolveAgreesWithDecayWeights(t *testing.T) {
	scores := []int64{3, 1, 4, 1, 5, 9, 2, 6}
	sum := stats.Summarize(scores, 0.8)
	rng := stats.PlotRange(scores, sum.Weights)
	l := NewLayout(scores, sum.Weights, rng.Floor)

	for _, seg := range l.Segments {
		got, ok := l.Resolve(seg.Center())
		if !ok || got != seg.Index {
			t.Errorf("Resolve(center of %d) = (%d, %v)", seg.Index, got, ok)
		}
		if l.Segments[got].Score != scores[seg.Index] {
			t.Errorf("segment %d draws %d, want %d", got, l.Segments[got].Score, scores[seg.Index])
		}
	}
	// The newest score is the widest bar.
	last := l.Segments[len(l.Segments)-1]
	if last.Width != 1 {
		t.Errorf("newest width = %v, want 1", last.Width)
	}
}
