package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T, input, outDir string) *Config {
	t.Helper()
	return &Config{
		Input:   InputConfig{Path: input, Profile: demographicsProfile.Name},
		Output:  OutputConfig{Dir: outDir, Width: 6, Height: 4, Workbook: true, Summary: true},
		Log:     LogConfig{Level: "info", Format: "console"},
		Console: ConsoleConfig{Print: true},
	}
}

func TestPipeline_Run(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "dane.csv", demographicsCSV)
	out := filepath.Join(dir, "graphs")
	require.NoError(t, os.Mkdir(out, 0755))

	var console bytes.Buffer
	p, err := NewPipeline(testConfig(t, input, out), zap.NewNop(), &console)
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	result, err := p.Run()
	require.NoError(t, err)

	assert.Equal(t, p.RunID(), result.RunID)
	assert.Equal(t, 7, result.Rows)
	require.Len(t, result.Charts, len(demographicsProfile.Reports))
	for i, def := range demographicsProfile.Reports {
		assert.Equal(t, def.OutputPath(out), result.Charts[i])
		requireImage(t, result.Charts[i])
	}

	require.Len(t, result.Aggregates, 5)
	deaths := result.Aggregates[0]
	assert.Equal(t, "deaths_men_women", deaths.Report)
	assert.Equal(t, []float64{210000, 199000}, deaths.Series(0))

	require.NotNil(t, result.Correlation)
	assert.Len(t, result.Correlation.Columns, len(demographicsProfile.NumericColumns))

	requireImage(t, filepath.Join(out, workbookFile))
	summary, err := os.ReadFile(filepath.Join(out, summaryFile))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "| Cities | 22 000 000 |")
	assert.Contains(t, string(summary), result.RunID)
	assert.Contains(t, string(summary), "1 June 2024")

	assert.Contains(t, console.String(), "deaths_men_women")
	assert.Contains(t, console.String(), "Deaths=210 000")
}

func TestPipeline_MissingOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "dane.csv", demographicsCSV)
	out := filepath.Join(dir, "graphs")

	p, err := NewPipeline(testConfig(t, input, out), zap.NewNop(), nil)
	require.NoError(t, err)
	_, err = p.Run()
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrKindOutput))

	cfg := testConfig(t, input, out)
	cfg.Output.CreateDir = true
	cfg.Output.Workbook = false
	cfg.Output.Summary = false
	p, err = NewPipeline(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	result, err := p.Run()
	require.NoError(t, err)
	assert.Empty(t, result.Workbook)
	assert.Empty(t, result.Summary)
	_, err = os.Stat(filepath.Join(out, summaryFile))
	assert.True(t, os.IsNotExist(err))
}

func TestPipeline_MissingInput(t *testing.T) {
	dir := t.TempDir()
	p, err := NewPipeline(testConfig(t, filepath.Join(dir, "absent.csv"), dir), zap.NewNop(), nil)
	require.NoError(t, err)

	_, err = p.Run()
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrKindInput))
}

func TestPipeline_FailsFastOnMissingLabel(t *testing.T) {
	dir := t.TempDir()
	// no Women rows: the first report cannot be aggregated
	var kept []string
	for _, line := range strings.Split(demographicsCSV, "\n") {
		if !strings.HasPrefix(line, "Women,") {
			kept = append(kept, line)
		}
	}
	input := writeFile(t, dir, "dane.csv", strings.Join(kept, "\n"))

	p, err := NewPipeline(testConfig(t, input, dir), zap.NewNop(), nil)
	require.NoError(t, err)
	_, err = p.Run()
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrKindLookup))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".png", filepath.Ext(e.Name()), "no chart is written after a failed report")
	}
}

func TestPipeline_StructureProfile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "struktura.csv", "voivodeship,sex,age_group,area_type,n_people\n"+
		"mazowieckie,Men,0-14,urban,100\n"+
		"mazowieckie,Women,0-14,rural,120\n"+
		"pomorskie,Men,15-64,urban,X\n"+
		"pomorskie,Women,65+,urban,80\n")

	cfg := testConfig(t, input, dir)
	cfg.Input.Profile = structureProfile.Name
	cfg.Output.Workbook = false

	var console bytes.Buffer
	p, err := NewPipeline(cfg, zap.NewNop(), &console)
	require.NoError(t, err)
	ds, err := p.Load()
	require.NoError(t, err)

	results, err := p.Summarize(ds)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, []string{"mazowieckie", "pomorskie"}, results[0].Labels)
	assert.Equal(t, []float64{220, 80}, results[0].Series(0))
	assert.Equal(t, []float64{180, 120}, results[3].Series(0))
	assert.Contains(t, console.String(), "people_by_voivodeship")

	result, err := p.Run()
	require.NoError(t, err)
	assert.Len(t, result.Charts, 4)
}

func TestNewPipeline_SilentConsole(t *testing.T) {
	cfg := testConfig(t, "x.csv", t.TempDir())
	cfg.Console.Print = false

	var console bytes.Buffer
	p, err := NewPipeline(cfg, nil, &console)
	require.NoError(t, err)
	PrintAggregate(p.out, &Aggregated{Report: "r", Measures: []string{"m"}, Labels: []string{"a"}, Values: [][]float64{{1}}})
	assert.Empty(t, console.String())
}
