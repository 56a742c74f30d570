package restart

import (
	"fmt"
	"math"
	"sort"

	"github.com/evostream/evostream/pkg/framework"
)

// CrowdingDistanceRemoval removes the N individuals with the smallest
// crowding distance, i.e. those in the most crowded regions of the
// objective space.
type CrowdingDistanceRemoval struct {
	N int
}

func NewCrowdingDistanceRemoval(n int) *CrowdingDistanceRemoval {
	return &CrowdingDistanceRemoval{N: n}
}

func (r *CrowdingDistanceRemoval) Name() string {
	return fmt.Sprintf("RemoveNSolutionsByCrowdingDistance(%d)", r.N)
}

func (r *CrowdingDistanceRemoval) Remove(population []framework.Individual) ([]framework.Individual, error) {
	if r.N < 0 {
		return nil, &PolicyError{Policy: r.Name(), Reason: "negative removal count"}
	}

	k := clampCount(r.N, len(population))
	distance := crowdingDistances(population)
	return metricRemoval(population, distance, k), nil
}

// crowdingDistances computes centered crowding distances over the whole
// population without reordering it.
func crowdingDistances(population []framework.Individual) []float64 {
	distance := make([]float64, len(population))
	if len(population) == 0 {
		return distance
	}
	if len(population) <= 2 {
		for i := range distance {
			distance[i] = math.Inf(1)
		}
		return distance
	}

	numObjectives := len(population[0].Value)
	for m := 0; m < numObjectives; m++ {
		order := make([]int, len(population))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return population[order[a]].Value[m] < population[order[b]].Value[m]
		})

		distance[order[0]] = math.Inf(1)
		distance[order[len(order)-1]] = math.Inf(1)

		span := population[order[len(order)-1]].Value[m] - population[order[0]].Value[m]
		if span == 0 {
			continue
		}
		for i := 1; i < len(order)-1; i++ {
			distance[order[i]] += (population[order[i+1]].Value[m] - population[order[i-1]].Value[m]) / span
		}
	}
	return distance
}
