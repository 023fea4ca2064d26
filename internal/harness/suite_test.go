package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))
	single := filepath.Join(t.TempDir(), "single.scenario")
	require.NoError(t, os.WriteFile(single, []byte("x"), 0o644))

	files, err := CollectScenarios([]string{dir, single})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		single,
	}, files)
}

func TestCollectScenarios_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")

	_, err := CollectScenarios([]string{missing})

	var notFound *ScenarioNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, missing, notFound.Path)
}

func TestRunFiles_Corpus(t *testing.T) {
	files, err := CollectScenarios([]string{"testdata/scenarios"})
	require.NoError(t, err)

	result := RunFiles(files)

	assert.Equal(t, len(files), result.Total)
	assert.Equal(t, len(files), result.Passed)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Failures)
}

func TestRunFiles_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("name: [unclosed"), 0o644))

	failing := filepath.Join(dir, "failing.yaml")
	require.NoError(t, os.WriteFile(failing, []byte(`
name: wrong_expectation
description: "expects a NotFound that never happens"
tour: {tourName: A, transportationType: Car}
snapshot: {tourId: 1, tourName: A, transportationType: Car}
expect: {outcome: not_found}
`), 0o644))

	result := RunFiles([]string{broken, failing})

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 0, result.Passed)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, "broken.yaml", result.Failures[0].Scenario)
	assert.Contains(t, result.Failures[0].Errors[0], "failed to load scenario")
	assert.Equal(t, "wrong_expectation", result.Failures[1].Scenario)
	assert.Contains(t, result.Failures[1].Errors[0], "expected outcome not_found")
}
