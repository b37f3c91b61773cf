package render

import (
	chart "github.com/wcharczuk/go-chart/v2"
)

// go-chart derives an axis range from explicit ticks when any are given, so
// both axes carry unlabeled ticks at their extremes to pin the range.

// accuracyTicks labels 0.0 .. 1.0 and ends with a blank tick at YMax so a
// perfect block sits below the frame.
func accuracyTicks() []chart.Tick {
	return []chart.Tick{
		{Value: 0.0, Label: "0.0"},
		{Value: 0.2, Label: "0.2"},
		{Value: 0.4, Label: "0.4"},
		{Value: 0.6, Label: "0.6"},
		{Value: 0.8, Label: "0.8"},
		{Value: 1.0, Label: "1.0"},
		{Value: YMax, Label: ""},
	}
}

// blockTicks wraps the per-block ticks with blank ticks at the x extent.
// With one block this also keeps the x range from collapsing to zero width.
func blockTicks(l Layout) []chart.Tick {
	xMin, xMax := l.XRange()
	ticks := make([]chart.Tick, 0, len(l.Ticks)+2)
	ticks = append(ticks, chart.Tick{Value: xMin})
	ticks = append(ticks, l.Ticks...)
	return append(ticks, chart.Tick{Value: xMax})
}
