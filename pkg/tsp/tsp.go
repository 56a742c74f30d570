// Package tsp implements a bi-objective traveling salesman problem over a
// distance matrix and a travel-cost matrix. Both matrices can be rewritten
// cell by cell while an optimization is running, which makes it the canonical
// problem for the dynamic runtime.
package tsp

import (
	"fmt"
	"sync"

	"github.com/evostream/evostream/pkg/dynamicproblem"
	"github.com/evostream/evostream/pkg/framework"
	"github.com/evostream/evostream/pkg/observeddata"
	"github.com/evostream/evostream/pkg/observer"
	"k8s.io/klog/v2"
)

const (
	ProblemName = "DynamicBiObjectiveTSP"
)

// MatrixID names one of the two matrices an update targets.
type MatrixID string

const (
	DistanceMatrix MatrixID = "DISTANCE"
	CostMatrix     MatrixID = "COST"
)

// MatrixUpdate rewrites a single cell of one matrix.
type MatrixUpdate struct {
	Matrix MatrixID
	X      int
	Y      int
	Value  float64
}

// DynamicTSP owns the two matrices plus the edge-triggered modified flag.
// Producers rewrite cells through Apply/Update from their own goroutines;
// the running algorithm evaluates tours concurrently under the read lock.
type DynamicTSP struct {
	dynamicproblem.ChangeFlag

	mu       sync.RWMutex
	distance [][]float64
	cost     [][]float64
}

var _ dynamicproblem.Updatable[MatrixUpdate] = (*DynamicTSP)(nil)
var _ observer.Observer[observeddata.ObservedValue[MatrixUpdate]] = (*DynamicTSP)(nil)

// NewDynamicTSP copies both matrices, which must be square and of equal size.
func NewDynamicTSP(distance, cost [][]float64) (*DynamicTSP, error) {
	if len(distance) == 0 || len(distance) != len(cost) {
		return nil, fmt.Errorf("distance and cost matrices must be non-empty and of equal size, got %dx%d", len(distance), len(cost))
	}
	for i := range distance {
		if len(distance[i]) != len(distance) || len(cost[i]) != len(cost) {
			return nil, fmt.Errorf("matrices must be square, row %d is %dx%d", i, len(distance[i]), len(cost[i]))
		}
	}

	return &DynamicTSP{
		distance: copyMatrix(distance),
		cost:     copyMatrix(cost),
	}, nil
}

func copyMatrix(m [][]float64) [][]float64 {
	c := make([][]float64, len(m))
	for i := range m {
		c[i] = make([]float64, len(m[i]))
		copy(c[i], m[i])
	}
	return c
}

func (p *DynamicTSP) Name() string {
	return ProblemName
}

// NumberOfCities returns the dimension of both matrices.
func (p *DynamicTSP) NumberOfCities() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.distance)
}

// Apply validates the update against the matrix shape and rewrites one cell.
// On a malformed update the payload is discarded and both matrices keep their
// prior values.
func (p *DynamicTSP) Apply(u MatrixUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.distance)
	if u.X < 0 || u.X >= n || u.Y < 0 || u.Y >= n {
		return &dynamicproblem.MalformedUpdateError{
			Problem: ProblemName,
			Reason:  fmt.Sprintf("cell (%d,%d) outside %dx%d matrix", u.X, u.Y, n, n),
		}
	}

	switch u.Matrix {
	case DistanceMatrix:
		p.distance[u.X][u.Y] = u.Value
	case CostMatrix:
		p.cost[u.X][u.Y] = u.Value
	default:
		return &dynamicproblem.MalformedUpdateError{
			Problem: ProblemName,
			Reason:  fmt.Sprintf("unknown matrix identifier %q", u.Matrix),
		}
	}

	p.Set()
	return nil
}

// Update is the observable-facing entry point. Malformed payloads are logged
// and discarded.
func (p *DynamicTSP) Update(data observeddata.ObservedValue[MatrixUpdate]) {
	if err := p.Apply(data.Value); err != nil {
		klog.ErrorS(err, "discarding update", "problem", ProblemName, "seq", data.Seq)
	}
}

// Matrices returns deep copies of the current matrices, mainly for tests and
// external reporting.
func (p *DynamicTSP) Matrices() (distance, cost [][]float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return copyMatrix(p.distance), copyMatrix(p.cost)
}

func (p *DynamicTSP) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{
		p.tourDistance, p.tourCost,
	}
}

func (p *DynamicTSP) tourDistance(x framework.Solution) float64 {
	tour := x.(*framework.PermutationSolution).Variables

	p.mu.RLock()
	defer p.mu.RUnlock()

	total := 0.0
	for i := range tour {
		from := tour[i]
		to := tour[(i+1)%len(tour)]
		total += p.distance[from][to]
	}
	return total
}

func (p *DynamicTSP) tourCost(x framework.Solution) float64 {
	tour := x.(*framework.PermutationSolution).Variables

	p.mu.RLock()
	defer p.mu.RUnlock()

	total := 0.0
	for i := range tour {
		from := tour[i]
		to := tour[(i+1)%len(tour)]
		total += p.cost[from][to]
	}
	return total
}

// This is an unconstrained problem
func (p *DynamicTSP) Constraints() []framework.Constraint {
	return nil
}

// Bounds has no meaning for a permutation encoding.
func (p *DynamicTSP) Bounds() []framework.Bounds {
	return nil
}

// Initialize creates an initial population of random tours
func (p *DynamicTSP) Initialize(popSize int) []framework.Solution {
	n := p.NumberOfCities()
	population := make([]framework.Solution, popSize)
	for i := 0; i < popSize; i++ {
		population[i] = framework.NewRandomPermutationSolution(n)
	}
	return population
}

// TrueParetoFront is unknown for arbitrary instances.
func (p *DynamicTSP) TrueParetoFront(int) []framework.ObjectiveSpacePoint {
	return nil
}
