package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"score-tracker/internal/stats"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("chart: no scores to draw")

var (
	barColor  = drawing.Color{R: 65, G: 105, B: 225, A: 255}
	meanColor = drawing.Color{R: 255, G: 165, B: 0, A: 255}
)

// minLabelShare is the smallest width, as a share of the total, that still
// gets an ordinal tick label under its bar.
const minLabelShare = 0.04

// RenderOptions controls image output.
type RenderOptions struct {
	Title  string
	Width  int
	Height int
	// Format is "png" or "svg".
	Format string
	// Selected is the highlighted segment index, or -1.
	Selected int
	Mean     float64
	Range    stats.Range
}

// Render draws the layout as a bar chart with a dashed weighted-mean line.
func Render(w io.Writer, l Layout, opts RenderOptions) error {
	if len(l.Segments) == 0 || l.TotalWidth <= 0 {
		return ErrNoData
	}

	provider := gochart.PNG
	switch strings.ToLower(opts.Format) {
	case "", "png":
	case "svg":
		provider = gochart.SVG
	default:
		return fmt.Errorf("chart: unsupported format %q", opts.Format)
	}

	floor, ceiling := opts.Range.Floor, opts.Range.Ceiling
	if ceiling <= floor {
		ceiling = floor + 1
	}

	series := make([]gochart.Series, 0, len(l.Segments)+1)
	for _, seg := range l.Segments {
		series = append(series, barSeries(seg, l.Floor, seg.Index == opts.Selected))
	}
	series = append(series, gochart.ContinuousSeries{
		Name:    "Weighted mean",
		XValues: []float64{0, l.TotalWidth},
		YValues: []float64{opts.Mean, opts.Mean},
		Style: gochart.Style{
			StrokeColor:     meanColor,
			StrokeWidth:     2,
			StrokeDashArray: []float64{10, 5},
		},
	})

	ch := gochart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 16, Right: 12, Bottom: 28}},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: l.TotalWidth},
			Ticks: ticks(l),
		},
		YAxis: gochart.YAxis{
			Name:  "Score",
			Range: &gochart.ContinuousRange{Min: floor, Max: ceiling},
		},
		Series: series,
	}
	// The legend reads names from every series; give it only the first bar
	// and the mean line so the unnamed bars do not add blank rows.
	legend := gochart.Chart{Series: []gochart.Series{series[0], series[len(series)-1]}}
	ch.Elements = []gochart.Renderable{gochart.Legend(&legend)}

	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// barSeries outlines one segment as a closed rectangle filled down to floor.
func barSeries(seg Segment, floor float64, selected bool) gochart.ContinuousSeries {
	fill := barColor.WithAlpha(100)
	if selected {
		fill = barColor
	}
	top := floor + seg.Height
	right := seg.Right()

	name := ""
	if seg.Index == 0 {
		name = "Score"
	}
	return gochart.ContinuousSeries{
		Name:    name,
		XValues: []float64{seg.Left, seg.Left, right, right},
		YValues: []float64{floor, top, top, floor},
		Style: gochart.Style{
			StrokeColor: barColor,
			StrokeWidth: 1,
			FillColor:   fill,
		},
	}
}

func ticks(l Layout) []gochart.Tick {
	out := []gochart.Tick{{Value: 0, Label: ""}}
	for _, seg := range l.Segments {
		if seg.Width/l.TotalWidth < minLabelShare {
			continue
		}
		out = append(out, gochart.Tick{Value: seg.Center(), Label: fmt.Sprintf("#%d", seg.Index+1)})
	}
	return append(out, gochart.Tick{Value: l.TotalWidth, Label: ""})
}
