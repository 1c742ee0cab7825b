package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "demografia",
		Short: "Render demographic comparison charts from a CSV table",
		Long: `demografia loads a table of demographic statistics, cleans its numeric columns,
sums them by category and writes bar, box, scatter and correlation charts to disk.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runReports,
	}
	RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Render every report of the selected profile (default)",
			RunE:  runReports,
		},
		&cobra.Command{
			Use:   "summary",
			Short: "Print grouped sums without rendering charts",
			RunE:  runSummary,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the report definitions of the selected profile",
			RunE:  runList,
		},
	)
	return root
}

// setup resolves configuration and builds the pipeline for a command.
func setup(cmd *cobra.Command) (*Pipeline, *zap.Logger, error) {
	cfg, err := LoadConfig(".", cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	p, err := NewPipeline(cfg, nil, cmd.OutOrStdout())
	if err != nil {
		return nil, nil, err
	}
	log, err := NewLogger(cfg.Log, p.RunID())
	if err != nil {
		return nil, nil, err
	}
	p.log = log
	return p, log, nil
}

func runReports(cmd *cobra.Command, args []string) error {
	p, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	result, err := p.Run()
	if err != nil {
		logFailure(log, "run aborted", err)
		return err
	}

	out := cmd.OutOrStdout()
	if p.cfg.Console.Print {
		printArtifacts(out, result)
	}
	logSuccess(log, "run finished", zap.Int("charts", len(result.Charts)))
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	p, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	ds, err := p.Load()
	if err != nil {
		logFailure(log, "loading dataset", err)
		return err
	}
	if _, err := p.Summarize(ds); err != nil {
		logFailure(log, "summary aborted", err)
		return err
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(".", cmd.Flags())
	if err != nil {
		return err
	}
	profile, err := LookupProfile(cfg.Input.Profile)
	if err != nil {
		return err
	}
	listReports(cmd.OutOrStdout(), profile)
	return nil
}

func listReports(w io.Writer, profile Profile) {
	fmt.Fprintf(w, "Profile %s (input %s)\n", profile.Name, profile.Input)
	for i, def := range profile.Reports {
		fmt.Fprintf(w, "%2d. %-36s %-12s %s\n", i+1, def.Name, def.Kind, def.File)
		if len(def.Measures) > 0 {
			fmt.Fprintf(w, "    %s by %s", strings.Join(def.Measures, ", "), def.GroupBy)
			if len(def.Labels) > 0 {
				fmt.Fprintf(w, " [%s]", strings.Join(def.Labels, ", "))
			}
			fmt.Fprintln(w)
		}
	}
}

func printArtifacts(w io.Writer, result *RunResult) {
	fmt.Fprintln(w, "\n✅ RAPORTY GOTOWE")
	fmt.Fprintln(w, "📁 Pliki wyjściowe:")
	for _, chart := range result.Charts {
		fmt.Fprintf(w, "   - %s\n", chart)
	}
	if result.Workbook != "" {
		fmt.Fprintf(w, "   - %s\n", result.Workbook)
	}
	if result.Summary != "" {
		fmt.Fprintf(w, "   - %s\n", result.Summary)
	}
}
