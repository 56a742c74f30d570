// Package source contains self-clocked producers that push timestamped
// payloads into their own observables. Sources never interact with the
// control loop directly: whatever subscribes to a source's observable (a
// dynamic problem, a running algorithm) receives the pushes on the source's
// goroutine.
package source

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/evostream/evostream/pkg/observeddata"
	"github.com/evostream/evostream/pkg/observer"
)

// CounterSource emits a monotonically increasing tick counter at a fixed
// period. Dynamic benchmarks use the counter as their time parameter.
type CounterSource struct {
	observable *observer.DefaultObservable[observeddata.ObservedValue[int]]
	period     time.Duration
}

func NewCounterSource(period time.Duration) *CounterSource {
	return &CounterSource{
		observable: observer.NewDefaultObservable[observeddata.ObservedValue[int]]("counter source"),
		period:     period,
	}
}

func (s *CounterSource) Name() string {
	return "counter source"
}

func (s *CounterSource) Observable() observer.Observable[observeddata.ObservedValue[int]] {
	return s.observable
}

// Run ticks until the context is cancelled.
func (s *CounterSource) Run(ctx context.Context) error {
	logger := klog.FromContext(ctx)
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	counter := 0
	for {
		select {
		case <-ctx.Done():
			logger.V(2).Info("counter source stopped", "ticks", counter)
			return nil
		case <-ticker.C:
			s.observable.SetChanged()
			s.observable.NotifyObservers(observeddata.NewObservedValue(int64(counter), counter))
			counter++
		}
	}
}
