package chart

import (
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/launchdash/launchdash/pkg/types"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 500
)

// emptyLabel is the single slice drawn when a pie has nothing to show.
const emptyLabel = "No launches"

// Format is an image output format.
type Format string

// Supported formats.
const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg", with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	default:
		return "", fmt.Errorf("chart: unsupported format %q: want png|svg", s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() gochart.RendererProvider {
	if f == SVG {
		return gochart.SVG
	}
	return gochart.PNG
}

// Renderer draws charts at a fixed canvas size.
type Renderer struct {
	Width  int
	Height int
}

// New returns a Renderer, substituting defaults for non-positive sizes.
func New(width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{Width: width, Height: height}
}

// Pie renders the aggregation view. Zero-count slices are not drawn; if no
// slice remains a single grey placeholder slice is drawn instead.
func (r *Renderer) Pie(w io.Writer, f Format, title string, slices []types.PieSlice) error {
	values := make([]gochart.Value, 0, len(slices))
	for i, s := range slices {
		if s.Count <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Label, s.Count),
			Value: float64(s.Count),
			Style: gochart.Style{FillColor: gochart.GetDefaultColor(i)},
		})
	}
	if len(values) == 0 {
		values = []gochart.Value{{
			Label: emptyLabel,
			Value: 1,
			Style: gochart.Style{FillColor: gochart.ColorAlternateGray},
		}}
	}

	pie := gochart.PieChart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Values:     values,
	}
	if err := pie.Render(f.provider(), w); err != nil {
		return fmt.Errorf("chart: render pie: %w", err)
	}
	return nil
}

// Scatter renders the filter view over the payload range rng.
func (r *Renderer) Scatter(w io.Writer, f Format, title, yLabel string, rng types.Range, points []types.ScatterPoint) error {
	series := scatterSeries(points)
	if len(series) == 0 {
		// go-chart refuses a chart without series; an invisible one keeps
		// the axes and title on screen.
		series = []gochart.Series{gochart.ContinuousSeries{
			XValues: []float64{rng.Low, rng.High},
			YValues: []float64{0, 1},
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				StrokeColor: drawing.ColorTransparent,
				DotWidth:    gochart.Disabled,
			},
		}}
	}

	xMin, xMax := rng.Low, rng.High
	if xMax <= xMin {
		xMin, xMax = xMin-500, xMax+500
	}

	ch := gochart.Chart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  "Payload Mass (kg)",
			Range: &gochart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: gochart.YAxis{
			Name:  yLabel,
			Range: &gochart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []gochart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	if len(points) > 0 {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}
	if err := ch.Render(f.provider(), w); err != nil {
		return fmt.Errorf("chart: render scatter: %w", err)
	}
	return nil
}

// scatterSeries groups points by booster category, in order of first
// appearance, into dot-only series.
func scatterSeries(points []types.ScatterPoint) []gochart.Series {
	var order []string
	byCat := make(map[string]*gochart.ContinuousSeries)
	for _, p := range points {
		s, ok := byCat[p.BoosterCategory]
		if !ok {
			s = &gochart.ContinuousSeries{
				Name:  p.BoosterCategory,
				Style: dotStyle(gochart.GetDefaultColor(len(order))),
			}
			byCat[p.BoosterCategory] = s
			order = append(order, p.BoosterCategory)
		}
		s.XValues = append(s.XValues, p.PayloadMassKg)
		s.YValues = append(s.YValues, float64(p.Class))
	}
	out := make([]gochart.Series, 0, len(order))
	for _, cat := range order {
		out = append(out, *byCat[cat])
	}
	return out
}

// dotStyle draws points only, no connecting line.
func dotStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		StrokeColor: col,
		DotWidth:    5,
		DotColor:    col,
	}
}
