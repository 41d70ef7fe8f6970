package chart

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/c9s/loanmc/pkg/style"
)

const DefaultBins = 50

var (
	_ chart.Series         = &Histogram{}
	_ chart.ValuesProvider = &Histogram{}
)

// Histogram is a bar series of equal-width bins
type Histogram struct {
	Title  string
	XLabel string

	// XValueFormatter formats the x axis ticks, float formatting when nil
	XValueFormatter chart.ValueFormatter

	// BarColor returns the hex color of the bar centered at x, NeutralColor when nil
	BarColor func(x float64) string

	Edges  []float64
	Counts []int
}

// NewHistogram bins values into bins equal-width buckets spanning [min, max].
// The last bucket is closed on the right.
func NewHistogram(title string, values []float64, bins int) *Histogram {
	edges, counts := Bin(values, bins)
	return &Histogram{
		Title:  title,
		Edges:  edges,
		Counts: counts,
	}
}

// Bin returns the bins+1 bucket edges and the count of each bucket. A series of
// identical values is binned into a unit-wide range around the value.
func Bin(values []float64, bins int) (edges []float64, counts []int) {
	if bins <= 0 {
		bins = DefaultBins
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	} else if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	edges = make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi

	counts = make([]int, bins)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}

		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	return edges, counts
}

func (h *Histogram) maxCount() int {
	m := 0
	for _, c := range h.Counts {
		if c > m {
			m = c
		}
	}
	return m
}

func (h *Histogram) GetName() string {
	return h.Title
}

func (h *Histogram) GetStyle() chart.Style {
	return chart.Style{}
}

func (h *Histogram) GetYAxis() chart.YAxisType {
	return chart.YAxisPrimary
}

func (h *Histogram) Validate() error {
	if len(h.Counts) == 0 || len(h.Edges) != len(h.Counts)+1 {
		return errors.New("histogram has no bins")
	}
	return nil
}

func (h *Histogram) Len() int {
	return len(h.Counts)
}

// GetValues returns the center and the count of bucket i
func (h *Histogram) GetValues(i int) (float64, float64) {
	return (h.Edges[i] + h.Edges[i+1]) / 2, float64(h.Counts[i])
}

func (h *Histogram) barColor(x float64) drawing.Color {
	hex := style.NeutralColor
	if h.BarColor != nil {
		hex = h.BarColor(x)
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func (h *Histogram) Render(r chart.Renderer, canvasBox chart.Box, xRange, yRange chart.Range, _ chart.Style) {
	for i, count := range h.Counts {
		if count == 0 {
			continue
		}

		x, _ := h.GetValues(i)
		fill := h.barColor(x)
		fill.A = 200
		chart.Draw.Box(r, chart.Box{
			Left:   canvasBox.Left + xRange.Translate(h.Edges[i]),
			Right:  canvasBox.Left + xRange.Translate(h.Edges[i+1]),
			Top:    canvasBox.Bottom - yRange.Translate(float64(count)),
			Bottom: canvasBox.Bottom,
		}, chart.Style{
			FillColor:   fill,
			StrokeColor: drawing.ColorBlack,
			StrokeWidth: 0.5,
		})
	}
}

func (h *Histogram) Chart() chart.Chart {
	xFormatter := h.XValueFormatter
	if xFormatter == nil {
		xFormatter = chart.FloatValueFormatter
	}

	return chart.Chart{
		Title:  h.Title,
		Width:  1024,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           h.XLabel,
			ValueFormatter: xFormatter,
			Range: &chart.ContinuousRange{
				Min: h.Edges[0],
				Max: h.Edges[len(h.Edges)-1],
			},
		},
		YAxis: chart.YAxis{
			Name:           "Frequency",
			ValueFormatter: chart.IntValueFormatter,
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: math.Max(1, float64(h.maxCount())*1.05),
			},
		},
		Series: []chart.Series{h},
	}
}

// WritePNG writes the histogram as a PNG image
func (h *Histogram) WritePNG(w io.Writer) error {
	if err := h.Validate(); err != nil {
		return err
	}

	c := h.Chart()
	return c.Render(chart.PNG, w)
}

func (h *Histogram) RenderPNG(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "can not create chart file %s", filename)
	}

	if err := h.WritePNG(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "can not render chart %s", h.Title)
	}

	return f.Close()
}
