package consumer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evostream/evostream/pkg/framework"
	"github.com/evostream/evostream/pkg/observeddata"
)

func testSnapshot(completed int) observeddata.AlgorithmSnapshot {
	population := []framework.Individual{
		{
			Solution: framework.NewRealSolution([]float64{0.1, 0.9}, []framework.Bounds{{L: 0, H: 1}, {L: 0, H: 1}}),
			Value:    framework.ObjectiveSpacePoint{0.1, 0.9},
		},
		{
			Solution: framework.NewPermutationSolution([]int{2, 0, 1}),
			Value:    framework.ObjectiveSpacePoint{0.9, 0.1},
		},
	}
	return observeddata.NewAlgorithmSnapshot(population, completed, "NSGA-II", "TestProblem", 2, nil)
}

func TestLocalDirectoryOutputConsumerWritesFunAndVarFiles(t *testing.T) {
	dir := t.TempDir()
	c, err := NewLocalDirectoryOutputConsumer(dir)
	require.NoError(t, err)

	c.Update(testSnapshot(0))
	c.Update(testSnapshot(250))

	for _, name := range []string{"FUN.0.tsv", "VAR.0.tsv", "FUN.1.tsv", "VAR.1.tsv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}

	fun, err := os.ReadFile(filepath.Join(dir, "FUN.0.tsv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(fun)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "0.1\t0.9", lines[0])
	assert.Equal(t, "0.9\t0.1", lines[1])

	vars, err := os.ReadFile(filepath.Join(dir, "VAR.0.tsv"))
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(vars)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "0.1\t0.9", lines[0])
	assert.Equal(t, "2\t0\t1", lines[1])
}

func TestChartConsumerRendersHTML(t *testing.T) {
	dir := t.TempDir()
	c := NewChartConsumer(dir)

	c.Update(testSnapshot(0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".html"))
}

func TestChartConsumerSkipsNonBiObjectiveSnapshots(t *testing.T) {
	dir := t.TempDir()
	c := NewChartConsumer(dir)

	snapshot := testSnapshot(0)
	snapshot.NumberOfObjectives = 3
	c.Update(snapshot)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLogConsumerHandlesSnapshots(t *testing.T) {
	c := NewLogConsumer()
	assert.NotPanics(t, func() {
		c.Update(testSnapshot(0))
		c.Update(observeddata.NewAlgorithmSnapshot(nil, 0, "a", "p", 2, nil))
	})
}
