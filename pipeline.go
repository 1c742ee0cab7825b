package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
)

const (
	workbookFile = "raporty_zbiorcze.xlsx"
	summaryFile  = "podsumowanie.md"
)

// RunResult describes what a run produced.
type RunResult struct {
	RunID       string
	Profile     string
	Input       string
	Rows        int
	Charts      []string
	Aggregates  []*Aggregated
	Correlation *CorrelationMatrix
	Workbook    string
	Summary     string
}

// Pipeline loads one dataset and renders the reports of one profile, in
// order. The first failing report aborts the run.
type Pipeline struct {
	cfg     *Config
	profile Profile
	log     *zap.Logger
	out     io.Writer
	runID   string
	now     func() time.Time
}

func NewPipeline(cfg *Config, log *zap.Logger, out io.Writer) (*Pipeline, error) {
	profile, err := LookupProfile(cfg.Input.Profile)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if out == nil || !cfg.Console.Print {
		out = io.Discard
	}
	return &Pipeline{
		cfg:     cfg,
		profile: profile,
		log:     log,
		out:     out,
		runID:   uuid.NewString(),
		now:     time.Now,
	}, nil
}

func (p *Pipeline) RunID() string { return p.runID }

// Load reads and cleans the profile's input file.
func (p *Pipeline) Load() (*Dataset, error) {
	path := p.cfg.InputPath(p.profile)
	start := time.Now()

	frame, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	ds, err := Clean(frame, p.profile.NumericColumns)
	if err != nil {
		return nil, err
	}

	logSuccess(p.log, "dataset loaded",
		zap.String("path", path),
		zap.Int("rows", ds.Rows()),
		zap.Int("numeric_columns", len(ds.NumericColumns())),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return ds, nil
}

// Summarize aggregates every bar report and prints the sums without
// rendering anything.
func (p *Pipeline) Summarize(ds *Dataset) ([]*Aggregated, error) {
	var results []*Aggregated
	for _, def := range p.profile.Reports {
		if !def.Kind.IsBar() {
			continue
		}
		agg, err := Aggregate(ds, def)
		if err != nil {
			return nil, err
		}
		PrintAggregate(p.out, agg)
		results = append(results, agg)
	}
	return results, nil
}

// Run renders every report of the profile into the output directory, then
// writes the workbook and markdown summary when enabled.
func (p *Pipeline) Run() (*RunResult, error) {
	ds, err := p.Load()
	if err != nil {
		return nil, err
	}
	if err := p.ensureOutputDir(); err != nil {
		return nil, err
	}

	result := &RunResult{
		RunID:   p.runID,
		Profile: p.profile.Name,
		Input:   p.cfg.InputPath(p.profile),
		Rows:    ds.Rows(),
	}

	size := ChartSize{Width: p.cfg.Output.Width, Height: p.cfg.Output.Height}
	for _, def := range p.profile.Reports {
		if err := p.runReport(ds, def, size, result); err != nil {
			logFailure(p.log, "report failed", err)
			return nil, err
		}
	}

	if p.cfg.Output.Workbook && len(result.Aggregates) > 0 {
		path := filepath.Join(p.cfg.Output.Dir, workbookFile)
		if err := WriteWorkbook(path, p.profile.Reports, result.Aggregates); err != nil {
			return nil, err
		}
		result.Workbook = path
		logSuccess(p.log, "workbook written", zap.String("path", path))
	}

	if p.cfg.Output.Summary {
		path := filepath.Join(p.cfg.Output.Dir, summaryFile)
		if err := WriteSummary(path, result, p.now()); err != nil {
			return nil, err
		}
		result.Summary = path
		logSuccess(p.log, "summary written", zap.String("path", path))
	}

	return result, nil
}

func (p *Pipeline) runReport(ds *Dataset, def ReportDefinition, size ChartSize, result *RunResult) error {
	start := time.Now()
	p.log.Debug("rendering report", zap.String("report", def.Name), zap.String("kind", string(def.Kind)))

	var (
		chart *plot.Plot
		err   error
	)
	switch def.Kind {
	case GroupedBar, StackedBar:
		var agg *Aggregated
		agg, err = Aggregate(ds, def)
		if err != nil {
			return err
		}
		PrintAggregate(p.out, agg)
		result.Aggregates = append(result.Aggregates, agg)
		chart, err = RenderBars(agg, def)
	case Heatmap:
		var m *CorrelationMatrix
		m, err = Correlation(ds, ds.NumericColumns())
		if err != nil {
			return err
		}
		result.Correlation = m
		chart, err = RenderHeatmap(m, def)
	case Scatter:
		chart, err = RenderScatter(ds, def)
	case BoxChart:
		chart, err = RenderBox(ds, def)
	default:
		err = configError(fmt.Sprintf("report %s: unknown chart kind %q", def.Name, def.Kind), nil)
	}
	if err != nil {
		return err
	}

	path := def.OutputPath(p.cfg.Output.Dir)
	if err := SaveChart(chart, size, path); err != nil {
		return err
	}
	result.Charts = append(result.Charts, path)

	logSuccess(p.log, "chart saved",
		zap.String("report", def.Name),
		zap.String("path", path),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// ensureOutputDir fails on a missing output directory unless creating it
// was requested.
func (p *Pipeline) ensureOutputDir() error {
	dir := p.cfg.Output.Dir
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return outputError("output path is not a directory", nil).WithContext("path", dir)
	case os.IsNotExist(err) && p.cfg.Output.CreateDir:
		if err := os.MkdirAll(dir, 0755); err != nil {
			return outputError("creating output directory", err).WithContext("path", dir)
		}
		return nil
	default:
		return outputError("output directory unavailable", err).WithContext("path", dir)
	}
}
