package runtime

import (
	"context"

	"k8s.io/klog/v2"
)

// StreamingSource is an independently clocked producer. Run blocks until the
// context is cancelled or the source is exhausted.
type StreamingSource interface {
	Name() string
	Run(ctx context.Context) error
}

// Application assembles a loop with its streaming sources and runs them
// together: each source on its own goroutine, the loop on the caller's.
type Application struct {
	loop    *Loop
	sources []StreamingSource
}

func NewApplication(loop *Loop) *Application {
	return &Application{loop: loop}
}

func (a *Application) AddStreamingSource(source StreamingSource) *Application {
	a.sources = append(a.sources, source)
	return a
}

// Run starts every source and then drives the loop until it terminates.
// Source failures stop only the failing source; they are logged, never
// propagated. Cancelling the context stops sources and loop alike.
func (a *Application) Run(ctx context.Context) error {
	logger := klog.FromContext(ctx)

	sourceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, source := range a.sources {
		go func(s StreamingSource) {
			if err := s.Run(sourceCtx); err != nil {
				logger.Error(err, "streaming source terminated", "source", s.Name())
			}
		}(source)
	}

	return a.loop.Run(ctx)
}
