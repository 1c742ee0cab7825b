package main

import (
	"fmt"
)

// Aggregated holds one value per measure for each selected group label, in
// the order the report asked for them.
type Aggregated struct {
	Report      string
	GroupColumn string
	Measures    []string
	Labels      []string
	// Values[i][j] is the sum of Measures[j] over rows labelled Labels[i].
	Values [][]float64
}

// Series returns the values of one measure across all labels.
func (a *Aggregated) Series(measure int) []float64 {
	out := make([]float64, len(a.Labels))
	for i := range a.Labels {
		out[i] = a.Values[i][measure]
	}
	return out
}

// Value looks up the aggregate for a label and measure.
func (a *Aggregated) Value(label, measure string) (float64, bool) {
	li, mi := -1, -1
	for i, l := range a.Labels {
		if l == label {
			li = i
			break
		}
	}
	for j, m := range a.Measures {
		if m == measure {
			mi = j
			break
		}
	}
	if li < 0 || mi < 0 {
		return 0, false
	}
	return a.Values[li][mi], true
}

// Aggregate groups the dataset by def.GroupBy and reduces every measure of
// def with its aggregation function. A requested label that never occurs in
// the grouping column is a lookup error.
func Aggregate(ds *Dataset, def ReportDefinition) (*Aggregated, error) {
	if def.Aggregation != "" && def.Aggregation != Sum {
		return nil, configError(fmt.Sprintf("report %s: unsupported aggregation %q", def.Name, def.Aggregation), nil)
	}
	if len(def.Measures) == 0 {
		return nil, configError(fmt.Sprintf("report %s: no measure columns", def.Name), nil)
	}

	groups, present, err := ds.Categorical(def.GroupBy)
	if err != nil {
		return nil, err
	}

	measures := make([][]float64, len(def.Measures))
	for j, name := range def.Measures {
		col, err := ds.Numeric(name)
		if err != nil {
			return nil, err
		}
		measures[j] = col
	}

	sums := make(map[string][]float64)
	var order []string
	for row, label := range groups {
		if !present[row] {
			continue
		}
		if def.Missing == DropMissing && rowHasMissing(measures, row) {
			continue
		}
		acc, ok := sums[label]
		if !ok {
			acc = make([]float64, len(measures))
			sums[label] = acc
			order = append(order, label)
		}
		for j, col := range measures {
			if IsMissing(col[row]) {
				continue
			}
			acc[j] += col[row]
		}
	}

	labels := def.Labels
	if len(labels) == 0 {
		labels = order
	}

	result := &Aggregated{
		Report:      def.Name,
		GroupColumn: def.GroupBy,
		Measures:    append([]string(nil), def.Measures...),
		Labels:      make([]string, 0, len(labels)),
		Values:      make([][]float64, 0, len(labels)),
	}
	for _, label := range labels {
		acc, ok := sums[label]
		if !ok {
			// under the drop policy a label may exist with no complete rows
			if !labelExists(groups, present, label) {
				return nil, lookupError(def.GroupBy, label).WithContext("report", def.Name)
			}
			acc = make([]float64, len(measures))
		}
		result.Labels = append(result.Labels, label)
		result.Values = append(result.Values, append([]float64(nil), acc...))
	}

	return result, nil
}

func rowHasMissing(measures [][]float64, row int) bool {
	for _, col := range measures {
		if IsMissing(col[row]) {
			return true
		}
	}
	return false
}

func labelExists(groups []string, present []bool, label string) bool {
	for i, g := range groups {
		if present[i] && g == label {
			return true
		}
	}
	return false
}
