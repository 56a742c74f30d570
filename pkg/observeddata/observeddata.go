// Package observeddata defines the payload types that flow through
// observables: timestamped values pushed by streaming sources, and the
// immutable run snapshots emitted by a running algorithm.
package observeddata

import (
	"time"

	"github.com/evostream/evostream/pkg/framework"
)

// ObservedValue is a single unit of streamed data: an opaque value plus a
// logical sequence number and the wall-clock instant it was produced.
type ObservedValue[T any] struct {
	Seq   int64
	Time  time.Time
	Value T
}

func NewObservedValue[T any](seq int64, value T) ObservedValue[T] {
	return ObservedValue[T]{
		Seq:   seq,
		Time:  time.Now(),
		Value: value,
	}
}

// AlgorithmSnapshot is a point-in-time copy of a running algorithm's state,
// handed to data consumers. The population is a deep copy: consumers may read
// it from their own goroutines while the algorithm keeps evolving its live
// population.
type AlgorithmSnapshot struct {
	Population          []framework.Individual
	CompletedIterations int
	AlgorithmName       string
	ProblemName         string
	NumberOfObjectives  int
	Attributes          map[string]string
}

// NewAlgorithmSnapshot deep-copies the population so the snapshot shares no
// backing storage with the live run.
func NewAlgorithmSnapshot(population []framework.Individual, completedIterations int, algorithmName, problemName string, numberOfObjectives int, attributes map[string]string) AlgorithmSnapshot {
	var attrs map[string]string
	if len(attributes) > 0 {
		attrs = make(map[string]string, len(attributes))
		for k, v := range attributes {
			attrs[k] = v
		}
	}

	return AlgorithmSnapshot{
		Population:          framework.ClonePopulation(population),
		CompletedIterations: completedIterations,
		AlgorithmName:       algorithmName,
		ProblemName:         problemName,
		NumberOfObjectives:  numberOfObjectives,
		Attributes:          attrs,
	}
}

// Front returns the objective-space points of the snapshot's first
// non-dominated front.
func (s AlgorithmSnapshot) Front() []framework.ObjectiveSpacePoint {
	if len(s.Population) == 0 {
		return nil
	}
	fronts := framework.NonDominatedSort(framework.ClonePopulation(s.Population))
	points := make([]framework.ObjectiveSpacePoint, len(fronts[0]))
	for i, ind := range fronts[0] {
		points[i] = ind.Value.Clone()
	}
	return points
}
