package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/evostream/evostream/pkg/observeddata"
	"github.com/evostream/evostream/pkg/observer"
	"github.com/evostream/evostream/pkg/tsp"
)

// DirectoryUpdateSource polls a directory for update files written by an
// external data provider and streams their parsed matrix updates. Files are
// consumed in lexical order, each at most once; malformed lines are logged
// and skipped.
type DirectoryUpdateSource struct {
	observable *observer.DefaultObservable[observeddata.ObservedValue[tsp.MatrixUpdate]]
	dir        string
	period     time.Duration

	consumed map[string]bool
	seq      int64
}

func NewDirectoryUpdateSource(dir string, period time.Duration) *DirectoryUpdateSource {
	return &DirectoryUpdateSource{
		observable: observer.NewDefaultObservable[observeddata.ObservedValue[tsp.MatrixUpdate]]("directory update source"),
		dir:        dir,
		period:     period,
		consumed:   make(map[string]bool),
	}
}

func (s *DirectoryUpdateSource) Name() string {
	return "directory update source"
}

func (s *DirectoryUpdateSource) Observable() observer.Observable[observeddata.ObservedValue[tsp.MatrixUpdate]] {
	return s.observable
}

// Run polls until the context is cancelled. A transient read failure is
// logged and retried at the next tick.
func (s *DirectoryUpdateSource) Run(ctx context.Context) error {
	logger := klog.FromContext(ctx)
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.V(2).Info("directory update source stopped", "updates", s.seq)
			return nil
		case <-ticker.C:
			if err := s.Poll(logger); err != nil {
				logger.Error(err, "directory poll failed, retrying next tick", "dir", s.dir)
			}
		}
	}
}

// Poll scans the directory once and streams every update from files not yet
// consumed. Exposed for tests and one-shot replays.
func (s *DirectoryUpdateSource) Poll(logger klog.Logger) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && !s.consumed[entry.Name()] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		s.consumed[name] = true
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			logger.Error(err, "skipping unreadable update file", "file", name)
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			update, err := tsp.ParseUpdateLine(line)
			if err != nil {
				logger.Error(err, "skipping malformed update line", "file", name)
				continue
			}
			s.observable.SetChanged()
			s.observable.NotifyObservers(observeddata.NewObservedValue(s.seq, update))
			s.seq++
		}
	}
	return nil
}
