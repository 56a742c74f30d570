package algorithms

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/evostream/evostream/pkg/framework"
)

const (
	Name = "NSGA-II"
)

// NSGAII represents the NSGA-II algorithm configuration
type NSGAII struct {
	PopSize        int
	NumGenerations int
	CrossoverRate  float64
	MutationRate   float64

	problem framework.Problem
}

// NewNSGAII creates a new instance of NSGA-II with given parameters
func NewNSGAII(popSize, numGen int, problem framework.Problem) *NSGAII {
	return &NSGAII{
		PopSize:        popSize,
		NumGenerations: numGen,
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		problem:        problem,
	}
}

func (n *NSGAII) Name() string {
	return Name
}

// Initialize creates an initial random population of unevaluated individuals
func (n *NSGAII) Initialize() []framework.Individual {
	solutions := n.problem.Initialize(n.PopSize)
	population := make([]framework.Individual, len(solutions))
	for i, sol := range solutions {
		population[i] = framework.Individual{Solution: sol}
	}
	return population
}

// Evaluate recomputes the objective values of every individual against the
// given problem. The problem is passed explicitly rather than taken from the
// receiver so that a problem whose parameters changed since construction is
// scored with its current state.
func (n *NSGAII) Evaluate(population []framework.Individual, problem framework.Problem) ([]framework.Individual, error) {
	objFuncs := problem.ObjectiveFuncs()
	if len(objFuncs) == 0 {
		return nil, fmt.Errorf("problem %s has no objective functions", problem.Name())
	}

	for i := range population {
		value := make(framework.ObjectiveSpacePoint, len(objFuncs))
		for j, objFunc := range objFuncs {
			value[j] = objFunc(population[i].Solution)
		}
		population[i].Value = value
	}
	return population, nil
}

// CrowdingDistance calculates crowding distance for individuals in a front
func CrowdingDistance(front []framework.Individual) {
	if len(front) <= 2 {
		for i := range front {
			front[i].Distance = math.Inf(1)
		}
		return
	}

	numObjectives := len(front[0].Value)
	for i := range front {
		front[i].Distance = 0
	}

	for m := 0; m < numObjectives; m++ {
		// Sort by each objective
		sort.Slice(front, func(i, j int) bool {
			return front[i].Value[m] < front[j].Value[m]
		})

		// Set boundary points to infinity
		front[0].Distance = math.Inf(1)
		front[len(front)-1].Distance = math.Inf(1)

		objectiveRange := front[len(front)-1].Value[m] - front[0].Value[m]
		if objectiveRange == 0 {
			continue
		}

		// Calculate distance for intermediate points
		for i := 1; i < len(front)-1; i++ {
			front[i].Distance += (front[i+1].Value[m] - front[i-1].Value[m]) / objectiveRange
		}
	}
}

// Tournament selection
func (n *NSGAII) TournamentSelect(population []framework.Individual) framework.Individual {
	k := 2 // tournament size
	best := population[rand.IntN(len(population))]

	for i := 1; i < k; i++ {
		contestant := population[rand.IntN(len(population))]
		if contestant.Rank < best.Rank || (contestant.Rank == best.Rank && contestant.Distance > best.Distance) {
			best = contestant
		}
	}

	return best
}

// AdvanceGeneration breeds one generation of offspring, evaluates it against
// the given problem, and returns the next population selected from the union
// of parents and offspring by rank and crowding distance. The returned
// population has exactly len(population) individuals.
func (n *NSGAII) AdvanceGeneration(population []framework.Individual, problem framework.Problem) ([]framework.Individual, error) {
	if len(population) == 0 {
		return nil, fmt.Errorf("cannot advance an empty population")
	}

	popSize := len(population)
	offspring := make([]framework.Individual, popSize)

	// Generate offspring
	for i := 0; i < popSize; i += 2 {
		parent1 := n.TournamentSelect(population)
		parent2 := n.TournamentSelect(population)

		sol1, sol2 := parent1.Solution.Crossover(parent2.Solution, n.CrossoverRate)
		sol1.Mutate(n.MutationRate)
		sol2.Mutate(n.MutationRate)

		offspring[i] = framework.Individual{Solution: sol1}
		if i+1 < popSize {
			offspring[i+1] = framework.Individual{Solution: sol2}
		}
	}

	offspring, err := n.Evaluate(offspring, problem)
	if err != nil {
		return nil, err
	}

	// Combine populations
	combined := append(population, offspring...)

	// Non-dominated sorting
	fronts := framework.NonDominatedSort(combined)

	// Build the next generation front by front
	next := make([]framework.Individual, 0, popSize)
	frontIndex := 0

	for len(next)+len(fronts[frontIndex]) <= popSize {
		CrowdingDistance(fronts[frontIndex])
		next = append(next, fronts[frontIndex]...)
		frontIndex++
		if frontIndex >= len(fronts) {
			break
		}
	}

	// If needed, add remaining individuals based on crowding distance
	if len(next) < popSize && frontIndex < len(fronts) {
		CrowdingDistance(fronts[frontIndex])
		sort.Slice(fronts[frontIndex], func(i, j int) bool {
			return fronts[frontIndex][i].Distance > fronts[frontIndex][j].Distance
		})
		next = append(next, fronts[frontIndex][:popSize-len(next)]...)
	}

	return next, nil
}

// Run executes the NSGA-II algorithm for the configured number of generations
func (n *NSGAII) Run() ([]framework.Individual, error) {
	population, err := n.Evaluate(n.Initialize(), n.problem)
	if err != nil {
		return nil, err
	}

	for gen := 0; gen < n.NumGenerations; gen++ {
		population, err = n.AdvanceGeneration(population, n.problem)
		if err != nil {
			return nil, err
		}
	}

	return population, nil
}
