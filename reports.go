package main

import (
	"fmt"
	"math"
	"path/filepath"
)

type ChartKind string

const (
	GroupedBar ChartKind = "grouped-bar"
	StackedBar ChartKind = "stacked-bar"
	BoxChart   ChartKind = "box"
	Scatter    ChartKind = "scatter"
	Heatmap    ChartKind = "heatmap"
)

func (k ChartKind) IsBar() bool {
	return k == GroupedBar || k == StackedBar
}

// AggregateFunc names the reduction applied per group. Only sum is used by
// the reports.
type AggregateFunc string

const Sum AggregateFunc = "sum"

// MissingPolicy decides how a report treats rows with missing measures.
type MissingPolicy string

const (
	// ExcludeMissing keeps the row; its missing cells add nothing.
	ExcludeMissing MissingPolicy = "exclude"
	// DropMissing removes rows missing any of the report's measures.
	DropMissing MissingPolicy = "drop"
)

type LabelFormat string

const (
	PlainLabels  LabelFormat = "plain"
	SpacedLabels LabelFormat = "spaced"
)

type Placement string

const (
	PlaceAbove Placement = "above"
	PlaceBelow Placement = "below"
)

// LabelOffset positions a bar's value label relative to the bar top, in
// data units.
type LabelOffset struct {
	Placement Placement
	Fraction  float64
	Drop      float64
}

// ReportDefinition describes one chart to produce.
type ReportDefinition struct {
	Name     string
	Title    string
	XLabel   string
	YLabel   string
	Kind     ChartKind
	GroupBy  string
	Measures []string
	// Labels is the ordered subset of group labels to plot. Empty means every
	// label in order of first appearance.
	Labels      []string
	Aggregation AggregateFunc
	Missing     MissingPolicy
	LabelFormat LabelFormat
	Offset      LabelOffset
	Rotation    float64
	File        string
}

// OutputPath joins the report's file name onto dir.
func (d ReportDefinition) OutputPath(dir string) string {
	return filepath.Join(dir, d.File)
}

// Profile is a dataset layout together with the reports drawn from it.
type Profile struct {
	Name           string
	Input          string
	NumericColumns []string
	Reports        []ReportDefinition
}

var (
	aboveBar = LabelOffset{Placement: PlaceAbove, Fraction: 0.01}
	belowBar = LabelOffset{Placement: PlaceBelow, Drop: 1800}

	areaLabels = []string{"Cities", "Villages", "Urban-Rural Municipalities"}
)

var demographicsProfile = Profile{
	Name:  "demographics",
	Input: "dane_demograficzne_2024.csv",
	NumericColumns: []string{
		"Population", "Marriages", "Live Births", "Deaths", "Infant Deaths", "Natural Increase",
		"Internal Migration In", "Internal Migration Out", "Internal Migration Balance",
		"Foreign Immigration", "Foreign Emigration", "Overall Migration Balance",
	},
	Reports: []ReportDefinition{
		{
			Name:        "deaths_men_women",
			Title:       "Comparison of Deaths between Men and Women",
			XLabel:      "Gender",
			YLabel:      "Number of Deaths",
			Kind:        GroupedBar,
			GroupBy:     "Category",
			Measures:    []string{"Deaths"},
			Labels:      []string{"Men", "Women"},
			Aggregation: Sum,
			Missing:     ExcludeMissing,
			LabelFormat: PlainLabels,
			Offset:      aboveBar,
			File:        "comparison_deaths_men_women.png",
		},
		{
			Name:        "population_areas",
			Title:       "Comparison of Population in Different Areas",
			XLabel:      "Area",
			YLabel:      "Number of People",
			Kind:        StackedBar,
			GroupBy:     "Category",
			Measures:    []string{"Population"},
			Labels:      areaLabels,
			Aggregation: Sum,
			Missing:     DropMissing,
			LabelFormat: SpacedLabels,
			Offset:      aboveBar,
			File:        "comparison_population_areas.png",
		},
		{
			Name:        "births_deaths_areas",
			Title:       "Comparison of Births and Deaths in Different Areas",
			XLabel:      "Area",
			YLabel:      "Number of People",
			Kind:        GroupedBar,
			GroupBy:     "Category",
			Measures:    []string{"Deaths", "Live Births"},
			Labels:      areaLabels,
			Aggregation: Sum,
			Missing:     ExcludeMissing,
			LabelFormat: SpacedLabels,
			Offset:      aboveBar,
			File:        "comparison_births_deaths_areas.png",
		},
		{
			Name:        "natural_increase_areas",
			Title:       "Comparison of Natural Increase in Different Areas",
			XLabel:      "Area",
			YLabel:      "Number of People",
			Kind:        GroupedBar,
			GroupBy:     "Category",
			Measures:    []string{"Natural Increase"},
			Labels:      areaLabels,
			Aggregation: Sum,
			Missing:     ExcludeMissing,
			LabelFormat: SpacedLabels,
			Offset:      belowBar,
			File:        "comparison_natural_increase_areas.png",
		},
		{
			Name:        "internal_migration_balance_areas",
			Title:       "Comparison of Internal Migration Balance in Different Areas",
			XLabel:      "Area",
			YLabel:      "Number of People",
			Kind:        GroupedBar,
			GroupBy:     "Category",
			Measures:    []string{"Internal Migration Balance"},
			Labels:      areaLabels,
			Aggregation: Sum,
			Missing:     ExcludeMissing,
			LabelFormat: SpacedLabels,
			Offset:      belowBar,
			File:        "comparison_internal_migration_balance_areas.png",
		},
		{
			Name:  "correlation_heatmap",
			Title: "Correlation Heatmap of Numerical Columns",
			Kind:  Heatmap,
			// a nominal axis of long column names needs slanted ticks
			Rotation: math.Pi / 4,
			File:     "correlation_heatmap.png",
		},
		{
			Name:     "scatter_population_natural_increase",
			Title:    "Scatter Plot of Population vs. Natural Increase",
			XLabel:   "Population",
			YLabel:   "Natural Increase",
			Kind:     Scatter,
			GroupBy:  "Category",
			Measures: []string{"Population", "Natural Increase"},
			File:     "scatter_population_natural_increase.png",
		},
		{
			Name:     "boxplot_live_births",
			Title:    "Box Plot of Live Births by Category",
			XLabel:   "Category",
			YLabel:   "Live Births",
			Kind:     BoxChart,
			GroupBy:  "Category",
			Measures: []string{"Live Births"},
			Rotation: math.Pi / 4,
			File:     "boxplot_live_births.png",
		},
	},
}

var structureProfile = Profile{
	Name:           "structure",
	Input:          "struktura_ludnosci.csv",
	NumericColumns: []string{"n_people"},
	Reports: []ReportDefinition{
		peopleBy("voivodeship", "Voivodeship", math.Pi/4),
		peopleBy("sex", "Sex", 0),
		peopleBy("age_group", "Age Group", math.Pi/4),
		peopleBy("area_type", "Area Type", 0),
	},
}

func peopleBy(column, axis string, rotation float64) ReportDefinition {
	return ReportDefinition{
		Name:        "people_by_" + column,
		Title:       "Number of People by " + axis,
		XLabel:      axis,
		YLabel:      "Number of People",
		Kind:        GroupedBar,
		GroupBy:     column,
		Measures:    []string{"n_people"},
		Aggregation: Sum,
		Missing:     ExcludeMissing,
		LabelFormat: SpacedLabels,
		Offset:      aboveBar,
		Rotation:    rotation,
		File:        "people_by_" + column + ".png",
	}
}

var profiles = map[string]Profile{
	demographicsProfile.Name: demographicsProfile,
	structureProfile.Name:    structureProfile,
}

// LookupProfile returns the built-in profile with the given name.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, configError(fmt.Sprintf("unknown profile %q", name), nil)
	}
	return p, nil
}
