package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListReports(t *testing.T) {
	var out bytes.Buffer
	listReports(&out, demographicsProfile)

	text := out.String()
	assert.Contains(t, text, "Profile demographics (input dane_demograficzne_2024.csv)")
	assert.Contains(t, text, "comparison_deaths_men_women.png")
	assert.Contains(t, text, "Deaths by Category [Men, Women]")
	assert.Contains(t, text, "correlation_heatmap")
}

func TestRootCommand_List(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"list", "--profile=structure"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "people_by_voivodeship")
	assert.Contains(t, out.String(), "n_people by age_group")
}

func TestRootCommand_RejectsUnknownProfile(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"list", "--profile=census"})

	err := root.Execute()
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrKindConfig))
}
