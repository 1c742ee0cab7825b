package main

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix is a symmetric matrix of Pearson coefficients. Cells
// that cannot be computed hold NaN.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

func (m *CorrelationMatrix) At(i, j int) float64 { return m.Values[i][j] }

// Correlation computes the pairwise Pearson correlation of the given numeric
// columns. Each pair only uses rows where both cells are present.
func Correlation(ds *Dataset, columns []string) (*CorrelationMatrix, error) {
	data := make([][]float64, len(columns))
	for i, name := range columns {
		col, err := ds.Numeric(name)
		if err != nil {
			return nil, err
		}
		data[i] = col
	}

	n := len(columns)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pairwisePearson(data[i], data[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			values[i][j] = r
			values[j][i] = r
		}
	}

	return &CorrelationMatrix{
		Columns: append([]string(nil), columns...),
		Values:  values,
	}, nil
}

func pairwisePearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for k := range x {
		if IsMissing(x[k]) || IsMissing(y[k]) {
			continue
		}
		xs = append(xs, x[k])
		ys = append(ys, y[k])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
