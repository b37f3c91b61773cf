// Package render draws the per-block accuracy chart as a PNG.
//
// The chart is a single line series over block positions 1..n with a fixed
// [0, 1.05] accuracy axis, dashed phase boundaries and one caption per phase
// segment. Rendering happens fully in memory; the output path is only touched
// once an encoded image exists.
package render

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/BlockAccuracyPlot/src/logging"
	"github.com/iafilius/BlockAccuracyPlot/src/types"
)

const (
	DefaultTitle = "Experiment Block Accuracy"

	// 10 x 4 inches at 200 DPI.
	ChartWidth  = 2000
	ChartHeight = 800
	ChartDPI    = 200.0

	labelFontSize = 10.0
)

var (
	defaultLineColor     = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	defaultBoundaryColor = drawing.Color{R: 128, G: 128, B: 128, A: 102}
	defaultLabelColor    = drawing.Color{R: 105, G: 105, B: 105, A: 255}
	gridColor            = drawing.Color{R: 176, G: 176, B: 176, A: 77}
)

// Options controls the parts of the chart that are not derived from data.
// Empty color strings select the defaults.
type Options struct {
	Title         string
	Note          string
	LineColor     string
	BoundaryColor string
	LabelColor    string
}

func DefaultOptions() Options {
	return Options{Title: DefaultTitle}
}

// parseHexColor accepts "rrggbb" with an optional leading '#'.
func parseHexColor(s string) (drawing.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return drawing.Color{}, false
	}
	if _, err := strconv.ParseUint(s, 16, 32); err != nil {
		return drawing.Color{}, false
	}
	return drawing.ColorFromHex(s), true
}

func resolveColor(s string, fallback drawing.Color) drawing.Color {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	c, ok := parseHexColor(s)
	if !ok {
		logging.Warnf("ignoring invalid color %q", s)
		return fallback
	}
	return c
}

func buildChart(l Layout, opts Options) chart.Chart {
	lineColor := resolveColor(opts.LineColor, defaultLineColor)
	boundaryColor := resolveColor(opts.BoundaryColor, defaultBoundaryColor)
	labelColor := resolveColor(opts.LabelColor, defaultLabelColor)
	xMin, xMax := l.XRange()
	yTicks := accuracyTicks()

	// Series draw in order: grid, boundaries, then the data on top.
	series := make([]chart.Series, 0, len(yTicks)+len(l.Boundaries)+1)
	for _, t := range yTicks {
		if t.Label == "" {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{xMin, xMax},
			YValues: []float64{t.Value, t.Value},
			Style:   chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
		})
	}
	for _, b := range l.Boundaries {
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{b, b},
			YValues: []float64{YMin, YMax},
			Style: chart.Style{
				StrokeColor:     boundaryColor,
				StrokeWidth:     2,
				StrokeDashArray: []float64{10, 6},
			},
		})
	}
	series = append(series, chart.ContinuousSeries{
		Name:    "Accuracy",
		XValues: l.XValues,
		YValues: l.YValues,
		Style: chart.Style{
			StrokeColor: lineColor,
			StrokeWidth: 3,
			DotColor:    lineColor,
			DotWidth:    6,
		},
	})

	// Both the axes and the caption element read these; go-chart settles
	// their final bounds from the ticks before any element draws.
	xr := &chart.ContinuousRange{Min: xMin, Max: xMax}
	yr := &chart.ContinuousRange{Min: YMin, Max: YMax}
	ch := chart.Chart{
		Title:      opts.Title,
		Width:      ChartWidth,
		Height:     ChartHeight,
		DPI:        ChartDPI,
		Background: chart.Style{Padding: chart.Box{Top: 110, Left: 30, Right: 40, Bottom: 30}},
		XAxis: chart.XAxis{
			Name:  "Block",
			Ticks: blockTicks(l),
			Range: xr,
		},
		YAxis: chart.YAxis{
			Name:  "Accuracy",
			Ticks: yTicks,
			Range: yr,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{phaseLabels(l.Labels, xr, yr, labelColor)}
	return ch
}

// phaseLabels draws each caption centered on its x and hanging from its y,
// mapped through the same ranges the series use.
func phaseLabels(labels []PhaseLabel, xr, yr *chart.ContinuousRange, col drawing.Color) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		xs := chart.ContinuousRange{Min: xr.GetMin(), Max: xr.GetMax(), Domain: canvasBox.Width()}
		ys := chart.ContinuousRange{Min: yr.GetMin(), Max: yr.GetMax(), Domain: canvasBox.Height()}
		style := chart.Style{FontColor: col, FontSize: labelFontSize}.InheritFrom(defaults)
		style.WriteTextOptionsToRenderer(r)
		for _, lb := range labels {
			tb := r.MeasureText(lb.Text)
			x := canvasBox.Left + xs.Translate(lb.X) - tb.Width()/2
			top := canvasBox.Bottom - ys.Translate(lb.Y)
			r.Text(lb.Text, x, top+tb.Height())
		}
	}
}

// RenderPNG renders blocks to an encoded PNG. An empty sequence yields
// EmptyInputError.
func RenderPNG(blocks []types.BlockAccuracy, opts Options) ([]byte, error) {
	l, err := BuildLayout(blocks)
	if err != nil {
		return nil, err
	}
	ch := buildChart(l, opts)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	if strings.TrimSpace(opts.Note) == "" {
		return buf.Bytes(), nil
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	var out bytes.Buffer
	if err := png.Encode(&out, drawNote(img, opts.Note)); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return out.Bytes(), nil
}

// WriteChart renders blocks and writes the PNG to path, replacing any existing
// file. Nothing is written when rendering fails.
func WriteChart(blocks []types.BlockAccuracy, opts Options, path string) error {
	data, err := RenderPNG(blocks, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &types.FilesystemError{Op: "write", Path: path, Err: err}
	}
	logging.Debugf("wrote %d bytes to %s", len(data), path)
	return nil
}
