package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const demographicsHeader = "Category, Population, Marriages, Live Births, Deaths, Infant Deaths, Natural Increase, " +
	"Internal Migration In, Internal Migration Out, Internal Migration Balance, " +
	"Foreign Immigration, Foreign Emigration, Overall Migration Balance\n"

const demographicsCSV = demographicsHeader +
	"Men, 18500000, X, 160000, 210000, 900, -50000, X, X, X, 4000, 2500, 1500\n" +
	"Women, 19600000, X, 152000, 199000, 750, -47000, X, X, X, 3800, 2100, 1700\n" +
	"Cities, 22000000, 90000, 170000, 250000, 1000, -80000, 120000, 160000, -40000, 5000, 3000, -38000\n" +
	"Cities, X, 10000, 20000, 15000, 100, 5000, 9000, 4000, 5000, 300, 200, 5100\n" +
	"Villages, 15000000, 60000, 120000, 140000, 500, -20000, 150000, 110000, 40000, 2000, 1500, 40500\n" +
	"Urban-Rural Municipalities, 7000000, 30000, 60000, 70000, 200, -10000, 50000, 45000, 5000, 900, 600, 5300\n" +
	"Urban-Rural Municipalities, 1000000, -, 8000, -, 20, 1000, 7000, 6000, 1000, 90, 60, 1030\n"

// writeFile creates name in dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// cleanCSV loads content as a demographics table.
func cleanCSV(t *testing.T, content string) *Dataset {
	t.Helper()
	path := writeFile(t, t.TempDir(), "data.csv", content)
	frame, err := LoadDataset(path)
	require.NoError(t, err)
	ds, err := Clean(frame, demographicsProfile.NumericColumns)
	require.NoError(t, err)
	return ds
}

func reportByName(t *testing.T, profile Profile, name string) ReportDefinition {
	t.Helper()
	for _, def := range profile.Reports {
		if def.Name == name {
			return def
		}
	}
	t.Fatalf("report %s not defined in profile %s", name, profile.Name)
	return ReportDefinition{}
}
