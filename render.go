package main

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ChartSize is the canvas size in inches.
type ChartSize struct {
	Width  float64
	Height float64
}

const groupWidth = 60 // points shared by the bars of one label

func newChart(def ReportDefinition) *plot.Plot {
	p := plot.New()
	p.Title.Text = def.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = def.XLabel
	p.Y.Label.Text = def.YLabel
	if def.Rotation != 0 {
		p.X.Tick.Label.Rotation = def.Rotation
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return p
}

// RenderBars draws a grouped or stacked bar chart of agg, one series per
// measure, each bar labelled with its value.
func RenderBars(agg *Aggregated, def ReportDefinition) (*plot.Plot, error) {
	layers, err := barLayers(agg, def)
	if err != nil {
		return nil, err
	}

	p := newChart(def)
	p.Add(plotter.NewGrid())
	for j, layer := range layers {
		p.Add(layer.bars, layer.labels)
		p.Legend.Add(agg.Measures[j], layer.bars)
	}
	p.Legend.Top = true
	p.NominalX(agg.Labels...)
	return p, nil
}

// barLayer is one measure's bars together with their value labels.
type barLayer struct {
	bars   *plotter.BarChart
	labels *plotter.Labels
}

// barLayers builds the bar series of agg. Grouped bars split groupWidth
// evenly and are centred on the label; labels share their bar's offset.
func barLayers(agg *Aggregated, def ReportDefinition) ([]barLayer, error) {
	n := len(agg.Measures)
	stacked := def.Kind == StackedBar
	width := vg.Points(groupWidth)
	if !stacked {
		width = vg.Points(groupWidth / float64(n))
	}

	layers := make([]barLayer, 0, n)
	tops := make([]float64, len(agg.Labels))
	var below *plotter.BarChart
	for j := range agg.Measures {
		values := agg.Series(j)
		bars, err := plotter.NewBarChart(plotter.Values(values), width)
		if err != nil {
			return nil, renderError(def.Name, err)
		}
		bars.Color = plotutil.Color(j)

		if stacked {
			bars.LineStyle.Color = color.Black
			bars.LineStyle.Width = vg.Points(1)
			if below != nil {
				bars.StackOn(below)
			}
			for i, v := range values {
				tops[i] += v
			}
		} else {
			bars.LineStyle.Width = vg.Length(0)
			bars.Offset = vg.Length(float64(j)-float64(n-1)/2) * width
			copy(tops, values)
		}

		labels, err := barLabels(values, tops, def, bars.Offset)
		if err != nil {
			return nil, renderError(def.Name, err)
		}
		layers = append(layers, barLayer{bars: bars, labels: labels})
		below = bars
	}
	return layers, nil
}

// RenderBox draws the distribution of one measure for every label of the
// grouping column. Labels without any present value get an empty slot.
func RenderBox(ds *Dataset, def ReportDefinition) (*plot.Plot, error) {
	if len(def.Measures) != 1 {
		return nil, configError(fmt.Sprintf("report %s: box chart needs one measure", def.Name), nil)
	}
	groups, present, err := ds.Categorical(def.GroupBy)
	if err != nil {
		return nil, err
	}
	values, err := ds.Numeric(def.Measures[0])
	if err != nil {
		return nil, err
	}
	labels, err := ds.Labels(def.GroupBy)
	if err != nil {
		return nil, err
	}

	byLabel := make(map[string]plotter.Values, len(labels))
	for row, label := range groups {
		if !present[row] || IsMissing(values[row]) {
			continue
		}
		byLabel[label] = append(byLabel[label], values[row])
	}

	p := newChart(def)
	p.Add(plotter.NewGrid())
	for i, label := range labels {
		vals := byLabel[label]
		if len(vals) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), vals)
		if err != nil {
			return nil, renderError(def.Name, err)
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
	}
	p.NominalX(labels...)
	return p, nil
}

// RenderScatter plots two measures against each other, one coloured series
// per grouping label. Rows missing either coordinate are skipped.
func RenderScatter(ds *Dataset, def ReportDefinition) (*plot.Plot, error) {
	if len(def.Measures) != 2 {
		return nil, configError(fmt.Sprintf("report %s: scatter needs two measures", def.Name), nil)
	}
	groups, present, err := ds.Categorical(def.GroupBy)
	if err != nil {
		return nil, err
	}
	xs, err := ds.Numeric(def.Measures[0])
	if err != nil {
		return nil, err
	}
	ys, err := ds.Numeric(def.Measures[1])
	if err != nil {
		return nil, err
	}
	labels, err := ds.Labels(def.GroupBy)
	if err != nil {
		return nil, err
	}

	points := make(map[string]plotter.XYs, len(labels))
	for row, label := range groups {
		if !present[row] || IsMissing(xs[row]) || IsMissing(ys[row]) {
			continue
		}
		points[label] = append(points[label], plotter.XY{X: xs[row], Y: ys[row]})
	}

	p := newChart(def)
	p.Add(plotter.NewGrid())
	for i, label := range labels {
		xys := points[label]
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, renderError(def.Name, err)
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(label, s)
	}
	p.Legend.Top = true
	return p, nil
}

// correlationGrid adapts a CorrelationMatrix to plotter.GridXYZ. Grid rows
// run bottom to top, so matrix row 0 is the last grid row and is drawn at
// the top. Y must increase with the grid row or HeatMap.DataRange inverts.
type correlationGrid struct {
	m *CorrelationMatrix
}

func (g correlationGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g correlationGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Columns)-1-r][c] }

func (g correlationGrid) X(c int) float64 { return float64(c) }

func (g correlationGrid) Y(r int) float64 { return float64(r) }

// RenderHeatmap draws the correlation matrix with a diverging blue-red
// palette fixed to [-1, 1], each cell annotated with its coefficient.
func RenderHeatmap(m *CorrelationMatrix, def ReportDefinition) (*plot.Plot, error) {
	if len(m.Columns) == 0 {
		return nil, renderError(def.Name, fmt.Errorf("no numeric columns to correlate"))
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	grid := correlationGrid{m: m}
	hm := plotter.NewHeatMap(grid, cmap.Palette(255))
	hm.Min = -1
	hm.Max = 1
	hm.NaN = color.White

	var xys plotter.XYs
	var texts []string
	c, r := grid.Dims()
	for row := 0; row < r; row++ {
		for col := 0; col < c; col++ {
			v := grid.Z(col, row)
			if math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: grid.X(col), Y: grid.Y(row)})
			texts = append(texts, fmt.Sprintf("%.2f", v))
		}
	}

	p := newChart(def)
	p.Add(hm)
	if len(xys) > 0 {
		cells, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, renderError(def.Name, err)
		}
		for i := range cells.TextStyle {
			cells.TextStyle[i].XAlign = draw.XCenter
			cells.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(cells)
	}

	reversed := make([]string, len(m.Columns))
	for i, name := range m.Columns {
		reversed[len(m.Columns)-1-i] = name
	}
	p.NominalX(m.Columns...)
	p.NominalY(reversed...)
	p.X.Min, p.X.Max = -0.5, float64(c)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(r)-0.5
	return p, nil
}

// SaveChart writes p to path. The image format follows the file extension.
func SaveChart(p *plot.Plot, size ChartSize, path string) error {
	if err := p.Save(vg.Length(size.Width)*vg.Inch, vg.Length(size.Height)*vg.Inch, path); err != nil {
		return outputError("saving chart", err).WithContext("path", path)
	}
	return nil
}
