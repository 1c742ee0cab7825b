package main

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Cells holding one of these are "not applicable" in the source tables.
var missingSentinels = []string{"X", "-"}

// naValues are handed to gota so that sentinels and blanks load as NaN.
var naValues = append(slices.Clone(missingSentinels), "", "NA", "NaN")

// Frame is the raw table as read from disk, before numeric coercion.
type Frame struct {
	df dataframe.DataFrame
	// columns whose every non-empty raw cell parses as a number
	inferred map[string]bool
}

// Dataset is the cleaned table. It is never modified after Clean returns.
type Dataset struct {
	columns []string
	rows    int
	text    map[string][]string
	present map[string][]bool
	numeric map[string][]float64
}

// LoadDataset reads a CSV file with a header row. Whitespace after a
// delimiter is ignored.
func LoadDataset(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, inputError("opening input file", err).WithContext("path", path)
	}
	defer file.Close()

	frame, err := ReadFrame(file)
	if err != nil {
		var pe *PipelineError
		if errors.As(err, &pe) {
			return nil, pe.WithContext("path", path)
		}
		return nil, err
	}
	return frame, nil
}

// ReadFrame parses CSV content from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, inputError("reading CSV", err)
	}
	if len(records) < 2 {
		return nil, inputError("CSV has no data rows", nil)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return nil, inputError("building data frame", df.Err)
	}

	return &Frame{df: df, inferred: inferNumericColumns(records)}, nil
}

// inferNumericColumns mirrors dataframe type inference on the raw cells: a
// column is numeric only if every value other than a blank or NA marker
// parses, so a column holding a sentinel stays textual unless it is declared
// numeric.
func inferNumericColumns(records [][]string) map[string]bool {
	header := records[0]
	inferred := make(map[string]bool, len(header))
	for col, name := range header {
		numeric, seen := true, false
		for _, record := range records[1:] {
			cell := strings.TrimSpace(record[col])
			if isNotAvailable(cell) {
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
				break
			}
		}
		inferred[name] = numeric && seen
	}
	return inferred
}

func isNotAvailable(cell string) bool {
	return slices.Contains(naValues, cell) && !isSentinel(cell)
}

// Clean replaces the missing sentinels and coerces every declared numeric
// column to float64. Values that fail to parse become missing (NaN).
func Clean(frame *Frame, numericColumns []string) (*Dataset, error) {
	names := frame.df.Names()
	ds := &Dataset{
		columns: names,
		rows:    frame.df.Nrow(),
		text:    make(map[string][]string, len(names)),
		present: make(map[string][]bool, len(names)),
		numeric: make(map[string][]float64),
	}

	for _, name := range names {
		col := frame.df.Col(name)
		if col.Err != nil {
			return nil, columnError(name)
		}
		records := col.Records()
		nan := col.IsNaN()
		present := make([]bool, len(records))
		for i := range records {
			present[i] = !nan[i]
		}
		ds.text[name] = records
		ds.present[name] = present
	}

	for _, name := range numericColumns {
		if _, ok := ds.text[name]; !ok {
			return nil, columnError(name)
		}
		ds.numeric[name] = coerceColumn(ds.text[name], ds.present[name])
	}

	for _, name := range names {
		if _, done := ds.numeric[name]; done || !frame.inferred[name] {
			continue
		}
		ds.numeric[name] = coerceColumn(ds.text[name], ds.present[name])
	}

	return ds, nil
}

func coerceColumn(records []string, present []bool) []float64 {
	values := make([]float64, len(records))
	for i, raw := range records {
		values[i] = coerceValue(raw, present[i])
	}
	return values
}

func coerceValue(raw string, present bool) float64 {
	if !present || isSentinel(raw) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func isSentinel(raw string) bool {
	return slices.Contains(missingSentinels, strings.TrimSpace(raw))
}

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

func (d *Dataset) Rows() int { return d.rows }

func (d *Dataset) Columns() []string { return slices.Clone(d.columns) }

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.text[name]
	return ok
}

// Numeric returns a copy of a numeric column. Missing cells are NaN.
func (d *Dataset) Numeric(name string) ([]float64, error) {
	values, ok := d.numeric[name]
	if !ok {
		if d.HasColumn(name) {
			return nil, newError(ErrKindColumn, "column "+strconv.Quote(name)+" is not numeric", nil).
				WithContext("column", name)
		}
		return nil, columnError(name)
	}
	return slices.Clone(values), nil
}

// Categorical returns the raw values of a column together with a mask of
// the cells that are present.
func (d *Dataset) Categorical(name string) ([]string, []bool, error) {
	values, ok := d.text[name]
	if !ok {
		return nil, nil, columnError(name)
	}
	return slices.Clone(values), slices.Clone(d.present[name]), nil
}

// NumericColumns lists the numeric columns in header order.
func (d *Dataset) NumericColumns() []string {
	var cols []string
	for _, name := range d.columns {
		if _, ok := d.numeric[name]; ok {
			cols = append(cols, name)
		}
	}
	return cols
}

// Labels returns the distinct present values of a column in order of first
// appearance.
func (d *Dataset) Labels(name string) ([]string, error) {
	values, present, err := d.Categorical(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var labels []string
	for i, v := range values {
		if !present[i] || seen[v] {
			continue
		}
		seen[v] = true
		labels = append(labels, v)
	}
	return labels, nil
}
