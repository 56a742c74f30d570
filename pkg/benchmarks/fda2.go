package benchmarks

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/evostream/evostream/pkg/dynamicproblem"
	"github.com/evostream/evostream/pkg/framework"
	"github.com/evostream/evostream/pkg/observeddata"
	"github.com/evostream/evostream/pkg/observer"
	"k8s.io/klog/v2"
)

const (
	FDA2Name = "FDA2"

	// fda2SeverityOfChange and fda2FrequencyOfChange shape how the raw tick
	// counter maps onto the benchmark's time parameter.
	fda2SeverityOfChange  = 10.0
	fda2FrequencyOfChange = 5.0
)

// FDA2 is a dynamic continuous benchmark whose Pareto front changes shape
// over time. Time advances when a streamed tick counter is applied, so the
// benchmark pairs with a periodic counter source.
type FDA2 struct {
	dynamicproblem.ChangeFlag

	numVars int

	mu   sync.RWMutex
	time float64
}

var _ dynamicproblem.Updatable[int] = (*FDA2)(nil)
var _ observer.Observer[observeddata.ObservedValue[int]] = (*FDA2)(nil)

// NewFDA2 creates the benchmark with 31 decision variables, the dimension
// used in the literature.
func NewFDA2() *FDA2 {
	return &FDA2{numVars: 31, time: 1.0}
}

func (p *FDA2) Name() string {
	return FDA2Name
}

// Apply advances the benchmark's time parameter from a tick counter and
// latches the modified flag. Negative counters are rejected.
func (p *FDA2) Apply(counter int) error {
	if counter < 0 {
		return &dynamicproblem.MalformedUpdateError{
			Problem: FDA2Name,
			Reason:  "tick counter must be non-negative",
		}
	}

	t := (1.0 / fda2SeverityOfChange) * math.Floor(float64(counter)/fda2FrequencyOfChange)

	p.mu.Lock()
	p.time = t
	p.mu.Unlock()
	p.Set()
	return nil
}

// Update is the observable-facing entry point. Malformed payloads are logged
// and discarded.
func (p *FDA2) Update(data observeddata.ObservedValue[int]) {
	if err := p.Apply(data.Value); err != nil {
		klog.ErrorS(err, "discarding update", "problem", FDA2Name, "seq", data.Seq)
	}
}

func (p *FDA2) currentTime() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.time
}

func (p *FDA2) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{
		p.f1, p.f2,
	}
}

func (p *FDA2) f1(x framework.Solution) float64 {
	xx := x.(*framework.RealSolution)
	return math.Abs(xx.Variables[0])
}

func (p *FDA2) f2(x framework.Solution) float64 {
	xx := x.(*framework.RealSolution).Variables
	t := p.currentTime()

	// Variables split into xI = x[0], xII = x[1..15], xIII = x[16..].
	g := 1.0
	for i := 1; i <= len(xx)/2; i++ {
		g += xx[i] * xx[i]
	}

	ht := 0.75 + 0.7*math.Sin(0.5*math.Pi*t)
	exponent := ht
	for i := len(xx)/2 + 1; i < len(xx); i++ {
		d := xx[i] - ht/4.0
		exponent += d * d
	}

	f1 := math.Abs(xx[0])
	return g * (1.0 - math.Pow(f1/g, exponent))
}

// This is an unconstrained problem
func (p *FDA2) Constraints() []framework.Constraint {
	return nil
}

func (p *FDA2) Bounds() []framework.Bounds {
	b := make([]framework.Bounds, p.numVars)
	b[0] = framework.Bounds{L: 0.0, H: 1.0}
	for i := 1; i < p.numVars; i++ {
		b[i] = framework.Bounds{L: -1.0, H: 1.0}
	}
	return b
}

// Initialize creates an initial random population of solutions
func (p *FDA2) Initialize(popSize int) []framework.Solution {
	population := make([]framework.Solution, popSize)
	b := p.Bounds()

	for i := 0; i < popSize; i++ {
		vars := make([]float64, p.numVars)
		for j := 0; j < p.numVars; j++ {
			vars[j] = b[j].L + rand.Float64()*(b[j].H-b[j].L)
		}
		population[i] = framework.NewRealSolution(vars, b)
	}
	return population
}

// TrueParetoFront is unknown in closed form for a moving front.
func (p *FDA2) TrueParetoFront(int) []framework.ObjectiveSpacePoint {
	return nil
}
