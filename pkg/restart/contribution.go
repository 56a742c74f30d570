package restart

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/evostream/evostream/pkg/framework"
)

// HypervolumeContributionRemoval removes the N individuals whose exclusion
// least reduces the hypervolume covered by the population, i.e. the ones
// contributing least to the spread of the front. Supports two objectives.
type HypervolumeContributionRemoval struct {
	N int
}

func NewHypervolumeContributionRemoval(n int) *HypervolumeContributionRemoval {
	return &HypervolumeContributionRemoval{N: n}
}

func (r *HypervolumeContributionRemoval) Name() string {
	return fmt.Sprintf("RemoveNSolutionsByHypervolumeContribution(%d)", r.N)
}

func (r *HypervolumeContributionRemoval) Remove(population []framework.Individual) ([]framework.Individual, error) {
	if r.N < 0 {
		return nil, &PolicyError{Policy: r.Name(), Reason: "negative removal count"}
	}
	if len(population) == 0 {
		return population, nil
	}
	if len(population[0].Value) != 2 {
		return nil, &PolicyError{
			Policy: r.Name(),
			Reason: fmt.Sprintf("hypervolume contribution needs 2 objectives, got %d", len(population[0].Value)),
		}
	}

	k := clampCount(r.N, len(population))
	contribution := hypervolumeContributions(population)
	return metricRemoval(population, contribution, k), nil
}

// hypervolumeContributions computes, per individual, the exclusive 2D
// hypervolume against a reference point just beyond the worst observed
// objective values. Dominated individuals contribute zero.
func hypervolumeContributions(population []framework.Individual) []float64 {
	f1 := make([]float64, len(population))
	f2 := make([]float64, len(population))
	for i, ind := range population {
		f1[i] = ind.Value[0]
		f2[i] = ind.Value[1]
	}

	refX := floats.Max(f1) + 1.0
	refY := floats.Max(f2) + 1.0

	// Non-dominated individuals sorted by f1 ascending; for those, f2 is
	// strictly descending, which makes the exclusive rectangle explicit.
	type point struct {
		idx    int
		xidx   int
		f1, f2 float64
	}
	var front []point
	for i := range population {
		dominated := false
		for j := range population {
			if i != j && framework.Dominates(population[j], population[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, point{idx: i, f1: f1[i], f2: f2[i]})
		}
	}
	sort.SliceStable(front, func(a, b int) bool {
		if front[a].f1 != front[b].f1 {
			return front[a].f1 < front[b].f1
		}
		return front[a].f2 < front[b].f2
	})

	contribution := make([]float64, len(population))
	for i, p := range front {
		rightX := refX
		if i+1 < len(front) {
			rightX = front[i+1].f1
		}
		upperY := refY
		if i > 0 {
			upperY = front[i-1].f2
		}
		c := (rightX - p.f1) * (upperY - p.f2)
		contribution[p.idx] = math.Max(c, 0)
	}
	return contribution
}
