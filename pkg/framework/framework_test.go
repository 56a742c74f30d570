package framework

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDominates(t *testing.T) {
	a := Individual{Value: ObjectiveSpacePoint{1, 2}}
	b := Individual{Value: ObjectiveSpacePoint{2, 3}}
	c := Individual{Value: ObjectiveSpacePoint{1, 2}}
	d := Individual{Value: ObjectiveSpacePoint{0, 5}}

	assert.True(t, Dominates(a, b))
	assert.False(t, Dominates(b, a))
	assert.False(t, Dominates(a, c), "equal points do not dominate")
	assert.False(t, Dominates(a, d), "trade-off points do not dominate")
	assert.False(t, Dominates(d, a))
}

func TestNonDominatedSortRanksFronts(t *testing.T) {
	population := []Individual{
		{Value: ObjectiveSpacePoint{1, 1}}, // front 0
		{Value: ObjectiveSpacePoint{2, 2}}, // front 1
		{Value: ObjectiveSpacePoint{0, 3}}, // front 0
		{Value: ObjectiveSpacePoint{3, 3}}, // front 2
	}

	fronts := NonDominatedSort(population)
	require.Len(t, fronts, 3)
	assert.Len(t, fronts[0], 2)
	assert.Len(t, fronts[1], 1)
	assert.Len(t, fronts[2], 1)

	for rank, front := range fronts {
		for _, ind := range front {
			assert.Equal(t, rank, ind.Rank)
		}
	}
}

func TestIndividualCloneIsDeep(t *testing.T) {
	orig := Individual{
		Solution: NewRealSolution([]float64{1, 2, 3}, []Bounds{{0, 10}, {0, 10}, {0, 10}}),
		Value:    ObjectiveSpacePoint{4, 5},
	}

	clone := orig.Clone()
	clone.Solution.(*RealSolution).Variables[0] = 99
	clone.Value[0] = 99

	assert.Equal(t, 1.0, orig.Solution.(*RealSolution).Variables[0])
	assert.Equal(t, 4.0, orig.Value[0])
}

func TestPermutationCrossoverProducesValidPermutations(t *testing.T) {
	n := 20
	parent1 := NewRandomPermutationSolution(n)
	parent2 := NewRandomPermutationSolution(n)

	for i := 0; i < 50; i++ {
		child1, child2 := parent1.Crossover(parent2, 1.0)
		assertPermutation(t, child1.(*PermutationSolution).Variables)
		assertPermutation(t, child2.(*PermutationSolution).Variables)
	}
}

func TestPMXMappingSection(t *testing.T) {
	receiver := []int{0, 1, 2, 3, 4}
	donor := []int{4, 3, 2, 1, 0}
	child := make([]int, 5)

	pmx(child, receiver, donor, 1, 2)

	// Positions 1..2 come from the donor; the rest from the receiver,
	// repaired through the mapping where a value is already taken.
	assert.Equal(t, []int{0, 3, 2, 1, 4}, child)
	assertPermutation(t, child)
}

func TestPermutationMutateKeepsPermutation(t *testing.T) {
	sol := NewRandomPermutationSolution(15)
	for i := 0; i < 100; i++ {
		sol.Mutate(1.0)
	}
	assertPermutation(t, sol.Variables)
}

func assertPermutation(t *testing.T, vars []int) {
	t.Helper()
	sorted := append([]int(nil), vars...)
	sort.Ints(sorted)
	for i, v := range sorted {
		require.Equal(t, i, v, "not a permutation: %v", vars)
	}
}

func TestRealSolutionCloneIsDeep(t *testing.T) {
	orig := NewRealSolution([]float64{1, 2}, []Bounds{{0, 1}, {0, 1}})
	clone := orig.Clone().(*RealSolution)
	clone.Variables[0] = 0.5
	assert.Equal(t, 1.0, orig.Variables[0])
}
