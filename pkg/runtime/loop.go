// Package runtime drives a wrapped evolutionary engine against a dynamic
// problem: it owns the population, detects problem and parameter changes
// between generations, repairs the population through restart strategies, and
// periodically emits immutable snapshots to registered data consumers.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"k8s.io/klog/v2"

	"github.com/evostream/evostream/pkg/dynamicproblem"
	"github.com/evostream/evostream/pkg/framework"
	"github.com/evostream/evostream/pkg/observeddata"
	"github.com/evostream/evostream/pkg/observer"
	"github.com/evostream/evostream/pkg/restart"
)

// Engine is the capability surface of the wrapped evolutionary algorithm.
// The loop composes an engine instead of extending a concrete algorithm.
type Engine interface {
	Name() string

	// Evaluate re-scores the population against the problem's current state.
	Evaluate(population []framework.Individual, problem framework.Problem) ([]framework.Individual, error)

	// AdvanceGeneration breeds and selects one generation, returning a
	// population of the same size with objective values attached.
	AdvanceGeneration(population []framework.Individual, problem framework.Problem) ([]framework.Individual, error)
}

// EvaluationError reports a fatal engine failure. Once evaluation fails the
// population's validity can no longer be guaranteed, so the run terminates.
type EvaluationError struct {
	Component string
	Iteration int
	Err       error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s failed at iteration %d: %v", e.Component, e.Iteration, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Loop is the dynamic algorithm control loop. All population state is owned
// by the goroutine running Run; the only inputs from other goroutines are the
// problem's change flag, the reference point channel, and the stop signal.
type Loop struct {
	engine  Engine
	problem dynamicproblem.Problem

	populationSize int
	maxIterations  int

	restartOnProblemChange   *restart.Strategy
	restartOnParameterChange *restart.Strategy

	observable *observer.DefaultObservable[observeddata.AlgorithmSnapshot]

	iterations          int
	completedIterations int

	state atomic.Int32
	stop  atomic.Bool

	paramPending dynamicproblem.ChangeFlag
	paramMu      sync.Mutex
	refPoint     []float64
}

var _ observer.Observer[observeddata.ObservedValue[[]float64]] = (*Loop)(nil)

// NewLoop wires a loop around an engine and a dynamic problem. Both restart
// strategies default to remove-nothing/create-nothing equivalents and should
// normally be replaced through the setters before Run.
func NewLoop(engine Engine, problem dynamicproblem.Problem, populationSize, maxIterations int) *Loop {
	return &Loop{
		engine:                   engine,
		problem:                  problem,
		populationSize:           populationSize,
		maxIterations:            maxIterations,
		restartOnProblemChange:   restart.NewStrategy(restart.NewSequentialRemoval(0), restart.NewRandomCreation()),
		restartOnParameterChange: restart.NewStrategy(restart.NewSequentialRemoval(0), restart.NewRandomCreation()),
		observable:               observer.NewDefaultObservable[observeddata.AlgorithmSnapshot](engine.Name()),
	}
}

// Observable exposes the loop's outbound bus so data consumers can register
// for emitted snapshots.
func (l *Loop) Observable() observer.Observable[observeddata.AlgorithmSnapshot] {
	return l.observable
}

// SetRestartStrategy configures the repair applied after a structural
// problem change (and after the periodic max-iterations resampling).
func (l *Loop) SetRestartStrategy(s *restart.Strategy) {
	l.restartOnProblemChange = s
}

// SetRestartStrategyForParameterChange configures the repair applied after a
// live-parameter (reference point) change.
func (l *Loop) SetRestartStrategyForParameterChange(s *restart.Strategy) {
	l.restartOnParameterChange = s
}

// RequestStop asks the loop to terminate. The signal is observed at the next
// cycle boundary; in-flight generation work completes first.
func (l *Loop) RequestStop() {
	l.stop.Store(true)
}

// State reports the loop's current phase.
func (l *Loop) State() State {
	return State(l.state.Load())
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
}

// Update receives a streamed reference point. The latest point wins; repeated
// deliveries before the loop next checks collapse into one pending change.
func (l *Loop) Update(data observeddata.ObservedValue[[]float64]) {
	l.paramMu.Lock()
	l.refPoint = append([]float64(nil), data.Value...)
	l.paramMu.Unlock()
	l.paramPending.Set()
}

// ReferencePoint returns the most recently received reference point, or nil.
func (l *Loop) ReferencePoint() []float64 {
	l.paramMu.Lock()
	defer l.paramMu.Unlock()
	return append([]float64(nil), l.refPoint...)
}

// Run executes the control loop until a stop is requested or the context is
// cancelled. It returns nil on a clean stop and a fatal error when the
// engine or a restart policy fails.
func (l *Loop) Run(ctx context.Context) error {
	logger := klog.FromContext(ctx)

	l.setState(StateInitializing)
	logger.V(2).Info("initializing dynamic run",
		"algorithm", l.engine.Name(), "problem", l.problem.Name(),
		"populationSize", l.populationSize, "maxIterations", l.maxIterations)

	population := l.initialPopulation()
	population, err := l.engine.Evaluate(population, l.problem)
	if err != nil {
		l.setState(StateTerminated)
		return &EvaluationError{Component: "initial evaluation", Iteration: l.completedIterations, Err: err}
	}

	for {
		if l.stopRequested(ctx) {
			l.setState(StateStoppingRequested)
			break
		}

		l.setState(StateEvolving)
		population, err = l.engine.AdvanceGeneration(population, l.problem)
		if err != nil {
			l.setState(StateTerminated)
			return &EvaluationError{Component: "generation advance", Iteration: l.lastCompletedIteration(), Err: err}
		}
		l.iterations += l.populationSize

		// A problem change and a parameter change arriving in the same cycle
		// collapse into one restart; the problem-change strategy wins and the
		// parameter marker is cleared either way.
		problemChanged := l.problem.ConsumeChange()
		parameterChanged := l.paramPending.ConsumeChange()
		if problemChanged || parameterChanged {
			l.setState(StateChangeDetected)
			strategy := l.restartOnProblemChange
			cause := "problem change"
			if !problemChanged {
				strategy = l.restartOnParameterChange
				cause = "parameter change"
			}
			logger.V(3).Info("change detected", "cause", cause, "iteration", l.lastCompletedIteration())
			if population, err = l.restart(population, strategy); err != nil {
				l.setState(StateTerminated)
				return err
			}
		}

		if l.iterations >= l.maxIterations {
			l.setState(StateEmitting)
			l.emit(population)
			if population, err = l.restart(population, l.restartOnProblemChange); err != nil {
				l.setState(StateTerminated)
				return err
			}
			l.completedIterations += l.iterations / l.populationSize
			l.iterations = 0
		}
	}

	logger.V(2).Info("dynamic run terminated", "completedIterations", l.lastCompletedIteration())
	l.setState(StateTerminated)
	return nil
}

func (l *Loop) initialPopulation() []framework.Individual {
	solutions := l.problem.Initialize(l.populationSize)
	population := make([]framework.Individual, len(solutions))
	for i, sol := range solutions {
		population[i] = framework.Individual{Solution: sol}
	}
	return population
}

func (l *Loop) stopRequested(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return l.stop.Load()
	}
}

// lastCompletedIteration is the diagnostic iteration count: episodes already
// folded into completedIterations plus cycles of the current episode.
func (l *Loop) lastCompletedIteration() int {
	return l.completedIterations + l.iterations/l.populationSize
}

// restart repairs the population through the given strategy and re-evaluates
// it. Policy and evaluation failures are both fatal.
func (l *Loop) restart(population []framework.Individual, strategy *restart.Strategy) ([]framework.Individual, error) {
	l.setState(StateRestarting)

	repaired, err := strategy.Restart(population, l.problem)
	if err != nil {
		return nil, fmt.Errorf("restart failed at iteration %d: %w", l.lastCompletedIteration(), err)
	}

	repaired, err = l.engine.Evaluate(repaired, l.problem)
	if err != nil {
		return nil, &EvaluationError{Component: "post-restart evaluation", Iteration: l.lastCompletedIteration(), Err: err}
	}
	return repaired, nil
}

// emit publishes an immutable snapshot of the current population. Consumer
// failures are isolated by the observable and never fatal here.
func (l *Loop) emit(population []framework.Individual) {
	snapshot := observeddata.NewAlgorithmSnapshot(
		population,
		l.completedIterations,
		l.engine.Name(),
		l.problem.Name(),
		len(l.problem.ObjectiveFuncs()),
		nil,
	)
	l.observable.SetChanged()
	l.observable.NotifyObservers(snapshot)
}
