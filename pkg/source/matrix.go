package source

import (
	"context"
	"math/rand/v2"
	"time"

	"k8s.io/klog/v2"

	"github.com/evostream/evostream/pkg/observeddata"
	"github.com/evostream/evostream/pkg/observer"
	"github.com/evostream/evostream/pkg/tsp"
)

// MatrixPerturbationSource emulates a live traffic feed: at a fixed period it
// rewrites a random cell of either TSP matrix with a random value.
type MatrixPerturbationSource struct {
	observable *observer.DefaultObservable[observeddata.ObservedValue[tsp.MatrixUpdate]]
	period     time.Duration
	cities     int
	maxValue   float64

	seq int64
}

func NewMatrixPerturbationSource(period time.Duration, cities int, maxValue float64) *MatrixPerturbationSource {
	return &MatrixPerturbationSource{
		observable: observer.NewDefaultObservable[observeddata.ObservedValue[tsp.MatrixUpdate]]("matrix perturbation source"),
		period:     period,
		cities:     cities,
		maxValue:   maxValue,
	}
}

func (s *MatrixPerturbationSource) Name() string {
	return "matrix perturbation source"
}

func (s *MatrixPerturbationSource) Observable() observer.Observable[observeddata.ObservedValue[tsp.MatrixUpdate]] {
	return s.observable
}

// Run pushes one random update per tick until the context is cancelled.
func (s *MatrixPerturbationSource) Run(ctx context.Context) error {
	logger := klog.FromContext(ctx)
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.V(2).Info("matrix perturbation source stopped", "updates", s.seq)
			return nil
		case <-ticker.C:
			s.Emit(s.randomUpdate())
		}
	}
}

// Emit pushes a single update through the observable. Exposed so tests and
// replay tooling can inject deterministic updates.
func (s *MatrixPerturbationSource) Emit(update tsp.MatrixUpdate) {
	s.observable.SetChanged()
	s.observable.NotifyObservers(observeddata.NewObservedValue(s.seq, update))
	s.seq++
}

func (s *MatrixPerturbationSource) randomUpdate() tsp.MatrixUpdate {
	matrix := tsp.CostMatrix
	if rand.IntN(2) == 0 {
		matrix = tsp.DistanceMatrix
	}
	return tsp.MatrixUpdate{
		Matrix: matrix,
		X:      rand.IntN(s.cities),
		Y:      rand.IntN(s.cities),
		Value:  rand.Float64() * s.maxValue,
	}
}
