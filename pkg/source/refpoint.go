package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/evostream/evostream/pkg/observeddata"
	"github.com/evostream/evostream/pkg/observer"
)

// ErrSourceExhausted is returned when a source's underlying input ends
// permanently. It terminates only that source; subscribers simply stop
// receiving further updates through its channel.
var ErrSourceExhausted = fmt.Errorf("streaming source exhausted")

// ReferencePointSource reads whitespace-separated objective values, one
// reference point per line, from a reader. Feeding it os.Stdin gives the
// interactive keyboard source: an operator types a new preference point and
// the subscribed algorithm restarts around it.
type ReferencePointSource struct {
	observable *observer.DefaultObservable[observeddata.ObservedValue[[]float64]]
	reader     io.Reader

	seq int64
}

func NewReferencePointSource(r io.Reader) *ReferencePointSource {
	return &ReferencePointSource{
		observable: observer.NewDefaultObservable[observeddata.ObservedValue[[]float64]]("reference point source"),
		reader:     r,
	}
}

func (s *ReferencePointSource) Name() string {
	return "reference point source"
}

func (s *ReferencePointSource) Observable() observer.Observable[observeddata.ObservedValue[[]float64]] {
	return s.observable
}

// Run blocks on the reader line by line. Lines that fail to parse are logged
// and skipped; end of input exhausts the source.
func (s *ReferencePointSource) Run(ctx context.Context) error {
	logger := klog.FromContext(ctx)
	scanner := bufio.NewScanner(s.reader)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		point, err := parseReferencePoint(line)
		if err != nil {
			logger.Error(err, "skipping malformed reference point", "line", line)
			continue
		}

		s.observable.SetChanged()
		s.observable.NotifyObservers(observeddata.NewObservedValue(s.seq, point))
		s.seq++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceExhausted, err)
	}
	return ErrSourceExhausted
}

func parseReferencePoint(line string) ([]float64, error) {
	fields := strings.Fields(line)
	point := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing component %d: %w", i, err)
		}
		point[i] = v
	}
	return point, nil
}
