package render

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/iafilius/BlockAccuracyPlot/src/types"
)

// Fixed y range so repeated runs stay visually comparable.
const (
	YMin = 0.0
	YMax = 1.05
	// phase labels hang from this far below the top of the y range
	labelDrop = 0.05
)

// PhaseLabel is a segment caption in data coordinates.
type PhaseLabel struct {
	Text string
	X    float64
	Y    float64
}

// Layout is everything about the chart that depends on the data: positions,
// tick labels, phase boundaries and segment captions. Identical input yields
// an identical Layout.
type Layout struct {
	XValues    []float64
	YValues    []float64
	Ticks      []chart.Tick
	Boundaries []float64
	Labels     []PhaseLabel
}

// XRange is the x extent, half a slot either side of the first and last block.
func (l Layout) XRange() (float64, float64) {
	return 0.5, float64(len(l.XValues)) + 0.5
}

// TickLabel is the upper-cased first letter of the phase followed by the block
// number, e.g. baseline/3 -> "B3".
func TickLabel(b types.BlockAccuracy) string {
	r, size := utf8.DecodeRuneInString(b.Phase)
	if size == 0 {
		return strconv.Itoa(b.Block)
	}
	return string(unicode.ToUpper(r)) + strconv.Itoa(b.Block)
}

// PhaseTitle capitalizes the first letter and lowercases the rest.
func PhaseTitle(phase string) string {
	r, size := utf8.DecodeRuneInString(phase)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(phase[size:])
}

// BuildLayout computes the chart layout. Block i (0-based) sits at x = i+1.
// A boundary is placed at the midpoint before every block whose phase differs
// from its predecessor; each run of equal phases gets one centered label.
func BuildLayout(blocks []types.BlockAccuracy) (Layout, error) {
	if len(blocks) == 0 {
		return Layout{}, types.EmptyInputError{}
	}
	n := len(blocks)
	l := Layout{
		XValues: make([]float64, n),
		YValues: make([]float64, n),
		Ticks:   make([]chart.Tick, n),
	}
	starts := []int{0}
	for i, b := range blocks {
		x := float64(i + 1)
		l.XValues[i] = x
		l.YValues[i] = b.Accuracy
		l.Ticks[i] = chart.Tick{Value: x, Label: TickLabel(b)}
		if i > 0 && b.Phase != blocks[i-1].Phase {
			starts = append(starts, i)
			l.Boundaries = append(l.Boundaries, x-0.5)
		}
	}
	for s, start := range starts {
		end := n
		if s+1 < len(starts) {
			end = starts[s+1]
		}
		left := float64(start) + 0.5
		right := float64(end) + 0.5
		l.Labels = append(l.Labels, PhaseLabel{
			Text: PhaseTitle(blocks[start].Phase),
			X:    (left + right) / 2,
			Y:    YMax - labelDrop,
		})
	}
	return l, nil
}
