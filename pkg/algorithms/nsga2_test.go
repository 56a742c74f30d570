package algorithms

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evostream/evostream/pkg/benchmarks"
	"github.com/evostream/evostream/pkg/framework"
	"github.com/evostream/evostream/pkg/util"
)

// Test problem: ZDT1 benchmark function
func TestNSGAIIWithZDT1(t *testing.T) {
	numVars := 30
	popSize := 100

	// Create the ZDT1 problem instance
	zdt1 := benchmarks.NewZDT1(numVars)

	// Create NSGA-II instance
	nsga := NewNSGAII(popSize, 250, zdt1)

	// Run algorithm
	finalPop, err := nsga.Run()
	require.NoError(t, err)

	// Basic validation
	if len(finalPop) != nsga.PopSize {
		t.Errorf("Expected population size %d, got %d", nsga.PopSize, len(finalPop))
	}

	// Verify Pareto front characteristics
	fronts := framework.NonDominatedSort(finalPop)
	if len(fronts) == 0 {
		t.Error("No fronts found in final population")
	}

	firstFront := fronts[0]
	results := make([]framework.ObjectiveSpacePoint, len(firstFront))
	for i := range firstFront {
		results[i] = firstFront[i].Value
	}
	path := filepath.Join(t.TempDir(), "zdt1_front.html")
	err = util.PlotFront(results, zdt1.TrueParetoFront(100), "NSGA-II on ZDT1", path)
	if err != nil {
		t.Errorf("Plot failed: %v", err)
	}

	// Check if first front is non-dominated
	for i := 0; i < len(firstFront); i++ {
		for j := 0; j < len(firstFront); j++ {
			if i != j && framework.Dominates(firstFront[i], firstFront[j]) {
				t.Error("First front contains dominated solutions")
			}
		}
	}
}

func TestEvaluateAttachesObjectiveValues(t *testing.T) {
	zdt1 := benchmarks.NewZDT1(10)
	nsga := NewNSGAII(20, 0, zdt1)

	population := nsga.Initialize()
	require.Len(t, population, 20)
	for _, ind := range population {
		assert.Nil(t, ind.Value)
	}

	population, err := nsga.Evaluate(population, zdt1)
	require.NoError(t, err)
	for _, ind := range population {
		require.Len(t, ind.Value, 2)
	}
}

func TestAdvanceGenerationPreservesPopulationSize(t *testing.T) {
	zdt1 := benchmarks.NewZDT1(10)
	nsga := NewNSGAII(30, 0, zdt1)

	population, err := nsga.Evaluate(nsga.Initialize(), zdt1)
	require.NoError(t, err)

	for gen := 0; gen < 5; gen++ {
		population, err = nsga.AdvanceGeneration(population, zdt1)
		require.NoError(t, err)
		assert.Len(t, population, 30)
	}
}

func TestAdvanceGenerationOnEmptyPopulationFails(t *testing.T) {
	nsga := NewNSGAII(10, 0, benchmarks.NewZDT1(5))
	_, err := nsga.AdvanceGeneration(nil, benchmarks.NewZDT1(5))
	assert.Error(t, err)
}
