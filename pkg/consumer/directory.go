package consumer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"

	"github.com/evostream/evostream/pkg/framework"
	"github.com/evostream/evostream/pkg/observeddata"
	"github.com/evostream/evostream/pkg/observer"
)

// LocalDirectoryOutputConsumer writes every snapshot to disk as a pair of
// tab-separated files: FUN.<n>.tsv with the objective values and VAR.<n>.tsv
// with the decision variables.
type LocalDirectoryOutputConsumer struct {
	outputDir string
	emissions int
}

var _ observer.Observer[observeddata.AlgorithmSnapshot] = (*LocalDirectoryOutputConsumer)(nil)

func NewLocalDirectoryOutputConsumer(outputDir string) (*LocalDirectoryOutputConsumer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &LocalDirectoryOutputConsumer{outputDir: outputDir}, nil
}

func (c *LocalDirectoryOutputConsumer) Update(snapshot observeddata.AlgorithmSnapshot) {
	funPath := filepath.Join(c.outputDir, fmt.Sprintf("FUN.%d.tsv", c.emissions))
	varPath := filepath.Join(c.outputDir, fmt.Sprintf("VAR.%d.tsv", c.emissions))
	c.emissions++

	if err := writeObjectives(funPath, snapshot.Population); err != nil {
		klog.ErrorS(err, "directory consumer failed to write objectives", "path", funPath)
		return
	}
	if err := writeVariables(varPath, snapshot.Population); err != nil {
		klog.ErrorS(err, "directory consumer failed to write variables", "path", varPath)
	}
}

func writeObjectives(path string, population []framework.Individual) error {
	var b strings.Builder
	for _, ind := range population {
		for i, v := range ind.Value {
			if i > 0 {
				b.WriteByte('\t')
			}
			fmt.Fprintf(&b, "%g", v)
		}
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeVariables(path string, population []framework.Individual) error {
	var b strings.Builder
	for _, ind := range population {
		switch sol := ind.Solution.(type) {
		case *framework.RealSolution:
			for i, v := range sol.Variables {
				if i > 0 {
					b.WriteByte('\t')
				}
				fmt.Fprintf(&b, "%g", v)
			}
		case *framework.PermutationSolution:
			for i, v := range sol.Variables {
				if i > 0 {
					b.WriteByte('\t')
				}
				fmt.Fprintf(&b, "%d", v)
			}
		case *framework.BinarySolution:
			for i, v := range sol.Bits {
				if i > 0 {
					b.WriteByte('\t')
				}
				if v {
					b.WriteByte('1')
				} else {
					b.WriteByte('0')
				}
			}
		default:
			fmt.Fprintf(&b, "%v", sol)
		}
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
