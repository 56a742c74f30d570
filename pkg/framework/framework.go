package framework

import (
	"math"
	"math/rand/v2"
)

// Problem describes the contract a specific multi-objective problem needs to implement.
type Problem interface {
	Name() string

	ObjectiveFuncs() []ObjectiveFunc
	Constraints() []Constraint
	Bounds() []Bounds
	Initialize(int) []Solution

	// TrueParetoFront is optional due to the difficulty of finding the true front
	// in some types of problems. When there isn't a way to find the true front,
	// just return nil.
	TrueParetoFront(int) []ObjectiveSpacePoint
}

type Solution interface {
	Clone() Solution
	Crossover(Solution, float64) (Solution, Solution)
	Mutate(float64)
}

// ObjectiveFunc defines the interface for objective functions
type ObjectiveFunc func(Solution) float64

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

func (p ObjectiveSpacePoint) Clone() ObjectiveSpacePoint {
	if p == nil {
		return nil
	}
	c := make(ObjectiveSpacePoint, len(p))
	copy(c, p)
	return c
}

// Constraint returns true if the constraint is satisfied and false otherwise.
type Constraint func(Solution) bool

// Individual pairs a solution with its evaluated point in the objective space.
// Rank and Distance are populated by ranking-based algorithms such as NSGA-II.
type Individual struct {
	Solution Solution
	Value    ObjectiveSpacePoint

	Rank     int
	Distance float64
}

func (ind Individual) Clone() Individual {
	return Individual{
		Solution: ind.Solution.Clone(),
		Value:    ind.Value.Clone(),
		Rank:     ind.Rank,
		Distance: ind.Distance,
	}
}

// ClonePopulation deep-copies a population, solutions and values included.
func ClonePopulation(population []Individual) []Individual {
	c := make([]Individual, len(population))
	for i := range population {
		c[i] = population[i].Clone()
	}
	return c
}

// BinarySolution uses a binary encoding scheme, where each bit
// or group of bits can have a meaning in the context of the problem.
type BinarySolution struct {
	Bits []bool
}

func NewBinarySolution(bits []bool) *BinarySolution {
	return &BinarySolution{
		Bits: bits,
	}
}

func (sol *BinarySolution) Clone() Solution {
	newBits := make([]bool, len(sol.Bits))
	copy(newBits, sol.Bits)
	return &BinarySolution{
		Bits: newBits,
	}
}

// Crossover implements Solution interface using single-point crossover
func (sol *BinarySolution) Crossover(other Solution, crossoverRate float64) (Solution, Solution) {
	o := other.(*BinarySolution)
	child1 := sol.Clone().(*BinarySolution)
	child2 := o.Clone().(*BinarySolution)

	if rand.Float64() < crossoverRate { // crossover probability
		// Single point crossover
		point := rand.IntN(len(sol.Bits))
		for i := point; i < len(sol.Bits); i++ {
			child1.Bits[i], child2.Bits[i] = child2.Bits[i], child1.Bits[i]
		}
	}

	return child1, child2
}

// Mutate implements Solution interface using bit-flip mutation
func (sol *BinarySolution) Mutate(mutationRate float64) {
	for i := range sol.Bits {
		if rand.Float64() < mutationRate {
			sol.Bits[i] = !sol.Bits[i]
		}
	}
}

// RealSolution represents a solution with real-valued variables.
type RealSolution struct {
	Variables []float64
	Bounds    []Bounds
}

type Bounds struct {
	L float64
	H float64
}

func NewRealSolution(vars []float64, b []Bounds) *RealSolution {
	return &RealSolution{
		Variables: vars,
		Bounds:    b,
	}
}

func (sol *RealSolution) Clone() Solution {
	vars := make([]float64, len(sol.Variables))
	copy(vars, sol.Variables)
	return &RealSolution{
		Variables: vars,
		Bounds:    sol.Bounds,
	}
}

// Crossover performs SBX (Simulated Binary Crossover)
func (sol *RealSolution) Crossover(other Solution, crossoverRate float64) (Solution, Solution) {
	o := other.(*RealSolution)
	child1 := sol.Clone().(*RealSolution)
	child2 := other.Clone().(*RealSolution)

	if rand.Float64() < crossoverRate {
		for i := range sol.Variables {
			beta := 0.0
			if rand.Float64() <= 0.5 {
				beta = math.Pow(2*rand.Float64(), 1.0/3.0)
			} else {
				beta = math.Pow(1.0/(2*(1.0-rand.Float64())), 1.0/3.0)
			}

			child1.Variables[i] = 0.5 * ((1+beta)*sol.Variables[i] + (1-beta)*o.Variables[i])
			child2.Variables[i] = 0.5 * ((1-beta)*sol.Variables[i] + (1+beta)*o.Variables[i])

			// Bound checking
			child1.Variables[i] = math.Max(sol.Bounds[i].L, math.Min(sol.Bounds[i].H, child1.Variables[i]))
			child2.Variables[i] = math.Max(sol.Bounds[i].L, math.Min(sol.Bounds[i].H, child2.Variables[i]))
		}
	} else {
		copy(child1.Variables, sol.Variables)
		copy(child2.Variables, o.Variables)
	}

	return child1, child2
}

// Mutation performs polynomial mutation
func (sol *RealSolution) Mutate(mutationRate float64) {
	for i := range sol.Variables {
		if rand.Float64() < mutationRate {
			delta := 0.0
			if rand.Float64() <= 0.5 {
				delta = math.Pow(2*rand.Float64(), 1.0/3.0) - 1
			} else {
				delta = 1 - math.Pow(2*(1-rand.Float64()), 1.0/3.0)
			}

			sol.Variables[i] += delta * (sol.Bounds[i].H - sol.Bounds[i].L)
			sol.Variables[i] = math.Max(sol.Bounds[i].L, math.Min(sol.Bounds[i].H, sol.Variables[i]))
		}
	}
}

// PermutationSolution encodes a solution as a permutation of 0..n-1,
// e.g. a tour over the cities of a TSP instance.
type PermutationSolution struct {
	Variables []int
}

func NewPermutationSolution(vars []int) *PermutationSolution {
	return &PermutationSolution{
		Variables: vars,
	}
}

// NewRandomPermutationSolution returns a uniformly random permutation of size n.
func NewRandomPermutationSolution(n int) *PermutationSolution {
	vars := rand.Perm(n)
	return &PermutationSolution{
		Variables: vars,
	}
}

func (sol *PermutationSolution) Clone() Solution {
	vars := make([]int, len(sol.Variables))
	copy(vars, sol.Variables)
	return &PermutationSolution{
		Variables: vars,
	}
}

// Crossover performs PMX (Partially Mapped Crossover)
func (sol *PermutationSolution) Crossover(other Solution, crossoverRate float64) (Solution, Solution) {
	o := other.(*PermutationSolution)
	child1 := sol.Clone().(*PermutationSolution)
	child2 := o.Clone().(*PermutationSolution)

	if rand.Float64() < crossoverRate {
		n := len(sol.Variables)
		lo := rand.IntN(n)
		hi := rand.IntN(n)
		if lo > hi {
			lo, hi = hi, lo
		}

		pmx(child1.Variables, sol.Variables, o.Variables, lo, hi)
		pmx(child2.Variables, o.Variables, sol.Variables, lo, hi)
	}

	return child1, child2
}

// pmx writes into child the mapping section [lo,hi] taken from donor and the
// remaining positions from receiver, repairing duplicates through the mapping.
func pmx(child, receiver, donor []int, lo, hi int) {
	position := make(map[int]int, hi-lo+1)
	for i := lo; i <= hi; i++ {
		child[i] = donor[i]
		position[donor[i]] = i
	}

	for i := range child {
		if i >= lo && i <= hi {
			continue
		}
		v := receiver[i]
		for {
			j, mapped := position[v]
			if !mapped {
				break
			}
			v = receiver[j]
		}
		child[i] = v
	}
}

// Mutate swaps two random positions with the given probability.
func (sol *PermutationSolution) Mutate(mutationRate float64) {
	if rand.Float64() < mutationRate && len(sol.Variables) > 1 {
		i := rand.IntN(len(sol.Variables))
		j := rand.IntN(len(sol.Variables))
		sol.Variables[i], sol.Variables[j] = sol.Variables[j], sol.Variables[i]
	}
}
