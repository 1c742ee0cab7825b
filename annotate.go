package main

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// FormatBarLabel renders a bar height as an integer, truncated toward zero.
// Spaced labels group thousands with a single space: 1234567 -> "1 234 567".
func FormatBarLabel(v float64, format LabelFormat) string {
	n := int64(v)
	if format == SpacedLabels {
		return strings.ReplaceAll(humanize.Comma(n), ",", " ")
	}
	return strconv.FormatInt(n, 10)
}

// Anchor returns the y coordinate of the label for a bar whose top is at top.
func (o LabelOffset) Anchor(top float64) float64 {
	if o.Placement == PlaceBelow {
		return top - o.Drop
	}
	return top * (1 + o.Fraction)
}

// barLabels annotates one bar series. tops holds the y of each bar's upper
// edge, which differs from the value itself for stacked segments.
func barLabels(values, tops []float64, def ReportDefinition, xOffset vg.Length) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i].X = float64(i)
		xys[i].Y = def.Offset.Anchor(tops[i])
		texts[i] = FormatBarLabel(v, def.LabelFormat)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	labels.Offset = vg.Point{X: xOffset}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	return labels, nil
}
