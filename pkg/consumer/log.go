package consumer

import (
	"gonum.org/v1/gonum/stat"

	"k8s.io/klog/v2"

	"github.com/evostream/evostream/pkg/observeddata"
	"github.com/evostream/evostream/pkg/observer"
)

// LogConsumer summarizes every snapshot as a log line with per-objective
// mean and standard deviation across the population.
type LogConsumer struct{}

var _ observer.Observer[observeddata.AlgorithmSnapshot] = (*LogConsumer)(nil)

func NewLogConsumer() *LogConsumer {
	return &LogConsumer{}
}

func (c *LogConsumer) Update(snapshot observeddata.AlgorithmSnapshot) {
	means := make([]float64, snapshot.NumberOfObjectives)
	stddevs := make([]float64, snapshot.NumberOfObjectives)

	for m := 0; m < snapshot.NumberOfObjectives; m++ {
		values := make([]float64, 0, len(snapshot.Population))
		for _, ind := range snapshot.Population {
			if m < len(ind.Value) {
				values = append(values, ind.Value[m])
			}
		}
		if len(values) > 0 {
			means[m] = stat.Mean(values, nil)
			stddevs[m] = stat.StdDev(values, nil)
		}
	}

	klog.InfoS("snapshot emitted",
		"algorithm", snapshot.AlgorithmName,
		"problem", snapshot.ProblemName,
		"completedIterations", snapshot.CompletedIterations,
		"populationSize", len(snapshot.Population),
		"objectiveMeans", means,
		"objectiveStdDevs", stddevs,
	)
}
