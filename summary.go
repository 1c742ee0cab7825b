package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// PrintAggregate writes a human-readable table of one report's sums.
func PrintAggregate(w io.Writer, agg *Aggregated) {
	fmt.Fprintf(w, "\n📊 %s (%s)\n", agg.Report, agg.GroupColumn)
	for i, label := range agg.Labels {
		parts := make([]string, len(agg.Measures))
		for j, measure := range agg.Measures {
			parts[j] = fmt.Sprintf("%s=%s", measure, FormatBarLabel(agg.Values[i][j], SpacedLabels))
		}
		fmt.Fprintf(w, "   %-30s %s\n", label, strings.Join(parts, "  "))
	}
}

// buildSummary renders the markdown summary of a finished run.
func buildSummary(result *RunResult, generated time.Time) string {
	var b strings.Builder

	b.WriteString("# Podsumowanie raportów demograficznych\n\n")
	fmt.Fprintf(&b, "- **Profil**: %s\n", result.Profile)
	fmt.Fprintf(&b, "- **Plik wejściowy**: %s\n", result.Input)
	fmt.Fprintf(&b, "- **Wiersze**: %d\n", result.Rows)
	fmt.Fprintf(&b, "- **Identyfikator uruchomienia**: %s\n", result.RunID)
	fmt.Fprintf(&b, "- **Wykresy**: %d\n", len(result.Charts))

	for _, agg := range result.Aggregates {
		fmt.Fprintf(&b, "\n## %s\n\n", agg.Report)
		b.WriteString("| " + agg.GroupColumn + " | " + strings.Join(agg.Measures, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat("---|", len(agg.Measures)+1) + "\n")
		for i, label := range agg.Labels {
			cells := make([]string, len(agg.Measures))
			for j := range agg.Measures {
				cells[j] = FormatBarLabel(agg.Values[i][j], SpacedLabels)
			}
			fmt.Fprintf(&b, "| %s | %s |\n", label, strings.Join(cells, " | "))
		}
	}

	if result.Correlation != nil {
		n := len(result.Correlation.Columns)
		fmt.Fprintf(&b, "\n## Korelacje\n\nMacierz %dx%d: %s\n", n, n, strings.Join(result.Correlation.Columns, ", "))
	}

	b.WriteString("\n### Pliki\n\n")
	for _, chart := range result.Charts {
		fmt.Fprintf(&b, "- %s\n", chart)
	}

	fmt.Fprintf(&b, "\n---\n*Wygenerowano %s*\n", generated.Format("2 January 2006 15:04"))
	return b.String()
}

// WriteSummary stores the markdown summary at path.
func WriteSummary(path string, result *RunResult, generated time.Time) error {
	if err := os.WriteFile(path, []byte(buildSummary(result, generated)), 0644); err != nil {
		return outputError("writing summary", err).WithContext("path", path)
	}
	return nil
}
