package restart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evostream/evostream/pkg/benchmarks"
	"github.com/evostream/evostream/pkg/framework"
)

func evaluatedPopulation(t *testing.T, problem framework.Problem, size int) []framework.Individual {
	t.Helper()
	solutions := problem.Initialize(size)
	funcs := problem.ObjectiveFuncs()

	population := make([]framework.Individual, size)
	for i, sol := range solutions {
		value := make(framework.ObjectiveSpacePoint, len(funcs))
		for j, f := range funcs {
			value[j] = f(sol)
		}
		population[i] = framework.Individual{Solution: sol, Value: value}
	}
	return population
}

func TestEveryStrategyPreservesPopulationSize(t *testing.T) {
	problem := benchmarks.NewZDT1(10)
	population := evaluatedPopulation(t, problem, 40)
	archive := evaluatedPopulation(t, problem, 5)

	removals := []RemovalPolicy{
		NewRandomRemoval(15),
		NewSequentialRemoval(15),
		NewHypervolumeContributionRemoval(15),
		NewCrowdingDistanceRemoval(15),
		NewRandomRemoval(100), // more than the population holds
		NewSequentialRemoval(0),
	}
	creations := []CreationPolicy{
		NewRandomCreation(),
		NewArchiveCreation(archive),
	}

	for _, removal := range removals {
		for _, creation := range creations {
			strategy := NewStrategy(removal, creation)
			repaired, err := strategy.Restart(framework.ClonePopulation(population), problem)
			require.NoError(t, err, "strategy %s", strategy)
			assert.Len(t, repaired, len(population), "strategy %s", strategy)
		}
	}
}

func TestRestartOnEmptyPopulationFails(t *testing.T) {
	strategy := NewStrategy(NewRandomRemoval(1), NewRandomCreation())
	_, err := strategy.Restart(nil, benchmarks.NewZDT1(5))
	require.Error(t, err)

	var policyErr *PolicyError
	assert.True(t, errors.As(err, &policyErr))
}

func TestSequentialRemovalDropsInsertionOrder(t *testing.T) {
	population := []framework.Individual{
		{Value: framework.ObjectiveSpacePoint{0}},
		{Value: framework.ObjectiveSpacePoint{1}},
		{Value: framework.ObjectiveSpacePoint{2}},
		{Value: framework.ObjectiveSpacePoint{3}},
	}

	survivors, err := NewSequentialRemoval(2).Remove(population)
	require.NoError(t, err)
	require.Len(t, survivors, 2)
	assert.Equal(t, 2.0, survivors[0].Value[0])
	assert.Equal(t, 3.0, survivors[1].Value[0])
}

func TestMetricTiesBreakByLowestIndex(t *testing.T) {
	// All individuals share the same metric value, so removal must take the
	// lowest indices first.
	population := make([]framework.Individual, 5)
	metric := make([]float64, 5)
	for i := range population {
		population[i] = framework.Individual{Value: framework.ObjectiveSpacePoint{float64(i)}}
		metric[i] = 1.0
	}

	survivors := metricRemoval(population, metric, 2)
	require.Len(t, survivors, 3)
	assert.Equal(t, 2.0, survivors[0].Value[0])
	assert.Equal(t, 3.0, survivors[1].Value[0])
	assert.Equal(t, 4.0, survivors[2].Value[0])
}

func TestHypervolumeContributionRemovesLeastContributing(t *testing.T) {
	// A 4-point front where (0.5, 0.45) hugs the segment between its
	// neighbors and contributes the smallest exclusive rectangle.
	population := []framework.Individual{
		{Value: framework.ObjectiveSpacePoint{0.0, 1.0}},
		{Value: framework.ObjectiveSpacePoint{0.5, 0.45}},
		{Value: framework.ObjectiveSpacePoint{0.4, 0.5}},
		{Value: framework.ObjectiveSpacePoint{1.0, 0.0}},
	}

	survivors, err := NewHypervolumeContributionRemoval(1).Remove(population)
	require.NoError(t, err)
	require.Len(t, survivors, 3)
	for _, ind := range survivors {
		assert.NotEqual(t, framework.ObjectiveSpacePoint{0.5, 0.45}, ind.Value)
	}
}

func TestHypervolumeContributionZeroForDominated(t *testing.T) {
	population := []framework.Individual{
		{Value: framework.ObjectiveSpacePoint{0.0, 1.0}},
		{Value: framework.ObjectiveSpacePoint{1.0, 0.0}},
		{Value: framework.ObjectiveSpacePoint{2.0, 2.0}}, // dominated
	}

	contribution := hypervolumeContributions(population)
	assert.Zero(t, contribution[2])
	assert.Greater(t, contribution[0], 0.0)
	assert.Greater(t, contribution[1], 0.0)

	// Removing one individual drops the dominated one first.
	survivors, err := NewHypervolumeContributionRemoval(1).Remove(population)
	require.NoError(t, err)
	require.Len(t, survivors, 2)
	for _, ind := range survivors {
		assert.NotEqual(t, framework.ObjectiveSpacePoint{2.0, 2.0}, ind.Value)
	}
}

func TestHypervolumeContributionNeedsTwoObjectives(t *testing.T) {
	population := []framework.Individual{
		{Value: framework.ObjectiveSpacePoint{1, 2, 3}},
	}
	_, err := NewHypervolumeContributionRemoval(1).Remove(population)
	assert.Error(t, err)
}

func TestCrowdingDistanceRemovesMostCrowded(t *testing.T) {
	// Three near-identical points clustered at (0.5, 0.5) plus spread-out
	// boundary points; removal should thin the cluster, never the boundary.
	population := []framework.Individual{
		{Value: framework.ObjectiveSpacePoint{0.0, 1.0}},
		{Value: framework.ObjectiveSpacePoint{0.50, 0.50}},
		{Value: framework.ObjectiveSpacePoint{0.51, 0.49}},
		{Value: framework.ObjectiveSpacePoint{0.52, 0.48}},
		{Value: framework.ObjectiveSpacePoint{1.0, 0.0}},
	}

	survivors, err := NewCrowdingDistanceRemoval(2).Remove(population)
	require.NoError(t, err)
	require.Len(t, survivors, 3)

	assert.Equal(t, framework.ObjectiveSpacePoint{0.0, 1.0}, survivors[0].Value)
	assert.Equal(t, framework.ObjectiveSpacePoint{1.0, 0.0}, survivors[len(survivors)-1].Value)
}

func TestArchiveCreationCyclesThroughArchive(t *testing.T) {
	problem := benchmarks.NewZDT1(5)
	archive := evaluatedPopulation(t, problem, 2)

	creation := NewArchiveCreation(archive)
	created, err := creation.Create(problem, 5)
	require.NoError(t, err)
	require.Len(t, created, 5)

	// Created individuals are clones, not aliases.
	created[0].Solution.(*framework.RealSolution).Variables[0] = 123
	assert.NotEqual(t, 123.0, archive[0].Solution.(*framework.RealSolution).Variables[0])
}

func TestArchiveCreationFailsOnEmptyArchive(t *testing.T) {
	creation := NewArchiveCreation(nil)
	_, err := creation.Create(benchmarks.NewZDT1(5), 3)
	assert.Error(t, err)
}
