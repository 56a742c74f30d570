// Package consumer implements snapshot subscribers: components that register
// on a running algorithm's observable and turn each emitted snapshot into a
// chart, an output file, or a log line. Consumers receive deep copies and may
// keep them across emissions.
package consumer

import (
	"fmt"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/evostream/evostream/pkg/observeddata"
	"github.com/evostream/evostream/pkg/observer"
	"github.com/evostream/evostream/pkg/util"
)

// ChartConsumer renders the first non-dominated front of every snapshot into
// an HTML scatter plot under its output directory.
type ChartConsumer struct {
	outputDir string
	emissions int
}

var _ observer.Observer[observeddata.AlgorithmSnapshot] = (*ChartConsumer)(nil)

func NewChartConsumer(outputDir string) *ChartConsumer {
	return &ChartConsumer{outputDir: outputDir}
}

func (c *ChartConsumer) Update(snapshot observeddata.AlgorithmSnapshot) {
	c.emissions++
	if snapshot.NumberOfObjectives != 2 {
		klog.V(4).InfoS("chart consumer skipping snapshot, can only plot 2 objectives",
			"objectives", snapshot.NumberOfObjectives)
		return
	}

	title := fmt.Sprintf("%s on %s, iteration %d",
		snapshot.AlgorithmName, snapshot.ProblemName, snapshot.CompletedIterations)
	path := filepath.Join(c.outputDir,
		fmt.Sprintf("%s_%s_front_%04d.html", snapshot.ProblemName, snapshot.AlgorithmName, c.emissions))

	if err := util.PlotFront(snapshot.Front(), nil, title, path); err != nil {
		klog.ErrorS(err, "chart consumer failed to render front", "path", path)
	}
}
