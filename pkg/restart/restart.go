// Package restart repairs a working population after a disruptive event: a
// removal policy discards part of the population, a creation policy refills
// it from the (possibly updated) problem. Every strategy preserves the
// population size, and metric-based removals break ties by original index so
// a fixed random seed gives a deterministic result.
package restart

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/evostream/evostream/pkg/framework"
)

// PolicyError reports a removal or creation policy that could not uphold the
// population invariants. It is fatal to the run that triggered the restart.
type PolicyError struct {
	Policy string
	Reason string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("restart policy %s: %s", e.Policy, e.Reason)
}

// RemovalPolicy discards up to its configured number of individuals,
// returning the survivors in their original relative order.
type RemovalPolicy interface {
	Name() string
	Remove(population []framework.Individual) ([]framework.Individual, error)
}

// CreationPolicy produces count fresh, unevaluated individuals for the
// problem's current state.
type CreationPolicy interface {
	Name() string
	Create(problem framework.Problem, count int) ([]framework.Individual, error)
}

// Strategy pairs a removal policy with a creation policy.
type Strategy struct {
	removal  RemovalPolicy
	creation CreationPolicy
}

func NewStrategy(removal RemovalPolicy, creation CreationPolicy) *Strategy {
	return &Strategy{removal: removal, creation: creation}
}

func (s *Strategy) String() string {
	return fmt.Sprintf("%s+%s", s.removal.Name(), s.creation.Name())
}

// Restart removes individuals and creates exactly as many replacements, so
// len(result) == len(population). The new individuals carry no objective
// values yet; the caller is expected to re-evaluate the returned population.
func (s *Strategy) Restart(population []framework.Individual, problem framework.Problem) ([]framework.Individual, error) {
	if len(population) == 0 {
		return nil, &PolicyError{Policy: s.String(), Reason: "population is empty"}
	}

	target := len(population)
	survivors, err := s.removal.Remove(population)
	if err != nil {
		return nil, err
	}
	if len(survivors) > target {
		return nil, &PolicyError{
			Policy: s.removal.Name(),
			Reason: fmt.Sprintf("removal grew the population from %d to %d", target, len(survivors)),
		}
	}

	created, err := s.creation.Create(problem, target-len(survivors))
	if err != nil {
		return nil, err
	}

	result := make([]framework.Individual, 0, target)
	result = append(result, survivors...)
	result = append(result, created...)
	if len(result) != target {
		return nil, &PolicyError{
			Policy: s.String(),
			Reason: fmt.Sprintf("restart produced %d individuals, want %d", len(result), target),
		}
	}
	return result, nil
}

// removeIndices drops the given population indices, preserving the relative
// order of the survivors.
func removeIndices(population []framework.Individual, drop []int) []framework.Individual {
	dropSet := make(map[int]bool, len(drop))
	for _, i := range drop {
		dropSet[i] = true
	}
	survivors := make([]framework.Individual, 0, len(population)-len(drop))
	for i := range population {
		if !dropSet[i] {
			survivors = append(survivors, population[i])
		}
	}
	return survivors
}

// clampCount caps a removal count so a policy never empties more than the
// whole population.
func clampCount(n, popSize int) int {
	if n > popSize {
		return popSize
	}
	return n
}

// RandomRemoval removes up to N individuals chosen uniformly at random.
type RandomRemoval struct {
	N int
}

func NewRandomRemoval(n int) *RandomRemoval {
	return &RandomRemoval{N: n}
}

func (r *RandomRemoval) Name() string {
	return fmt.Sprintf("RemoveNRandomSolutions(%d)", r.N)
}

func (r *RandomRemoval) Remove(population []framework.Individual) ([]framework.Individual, error) {
	if r.N < 0 {
		return nil, &PolicyError{Policy: r.Name(), Reason: "negative removal count"}
	}
	k := clampCount(r.N, len(population))
	drop := rand.Perm(len(population))[:k]
	return removeIndices(population, drop), nil
}

// SequentialRemoval removes the first N individuals in insertion order.
type SequentialRemoval struct {
	N int
}

func NewSequentialRemoval(n int) *SequentialRemoval {
	return &SequentialRemoval{N: n}
}

func (r *SequentialRemoval) Name() string {
	return fmt.Sprintf("RemoveFirstNSolutions(%d)", r.N)
}

func (r *SequentialRemoval) Remove(population []framework.Individual) ([]framework.Individual, error) {
	if r.N < 0 {
		return nil, &PolicyError{Policy: r.Name(), Reason: "negative removal count"}
	}
	k := clampCount(r.N, len(population))
	survivors := make([]framework.Individual, len(population)-k)
	copy(survivors, population[k:])
	return survivors, nil
}

// metricRemoval removes the k individuals with the lowest metric value,
// breaking metric ties by lowest original index.
func metricRemoval(population []framework.Individual, metric []float64, k int) []framework.Individual {
	order := make([]int, len(population))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return metric[order[a]] < metric[order[b]]
	})
	return removeIndices(population, order[:k])
}

// RandomCreation fills the gap with random feasible solutions from the
// problem's own factory.
type RandomCreation struct{}

func NewRandomCreation() *RandomCreation {
	return &RandomCreation{}
}

func (c *RandomCreation) Name() string {
	return "CreateNRandomSolutions"
}

func (c *RandomCreation) Create(problem framework.Problem, count int) ([]framework.Individual, error) {
	if count < 0 {
		return nil, &PolicyError{Policy: c.Name(), Reason: "negative creation count"}
	}
	solutions := problem.Initialize(count)
	if len(solutions) != count {
		return nil, &PolicyError{
			Policy: c.Name(),
			Reason: fmt.Sprintf("problem %s produced %d solutions, want %d", problem.Name(), len(solutions), count),
		}
	}
	created := make([]framework.Individual, count)
	for i, sol := range solutions {
		created[i] = framework.Individual{Solution: sol}
	}
	return created, nil
}

// ArchiveCreation seeds replacements from a fixed archive, cycling through it
// when more individuals are requested than the archive holds.
type ArchiveCreation struct {
	archive []framework.Individual
}

func NewArchiveCreation(archive []framework.Individual) *ArchiveCreation {
	return &ArchiveCreation{archive: framework.ClonePopulation(archive)}
}

func (c *ArchiveCreation) Name() string {
	return fmt.Sprintf("CreateSolutionsFromArchive(%d)", len(c.archive))
}

func (c *ArchiveCreation) Create(_ framework.Problem, count int) ([]framework.Individual, error) {
	if count < 0 {
		return nil, &PolicyError{Policy: c.Name(), Reason: "negative creation count"}
	}
	if count > 0 && len(c.archive) == 0 {
		return nil, &PolicyError{Policy: c.Name(), Reason: "archive is empty"}
	}
	created := make([]framework.Individual, count)
	for i := 0; i < count; i++ {
		created[i] = c.archive[i%len(c.archive)].Clone()
	}
	return created, nil
}
