package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"

	"github.com/evostream/evostream/pkg/observeddata"
	"github.com/evostream/evostream/pkg/tsp"
)

type recorder[T any] struct {
	received []observeddata.ObservedValue[T]
}

func (r *recorder[T]) Update(data observeddata.ObservedValue[T]) {
	r.received = append(r.received, data)
}

func TestCounterSourceEmitsMonotonicTicks(t *testing.T) {
	src := NewCounterSource(time.Millisecond)
	rec := &recorder[int]{}
	src.Observable().Register(rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- src.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return len(rec.received) >= 5
	}, 5*time.Second, time.Millisecond, "counter source never ticked")
	cancel()
	require.NoError(t, <-done)

	for i := 0; i < 5; i++ {
		assert.Equal(t, i, rec.received[i].Value)
		assert.Equal(t, int64(i), rec.received[i].Seq)
	}
}

func TestReferencePointSourceParsesLinesAndSkipsMalformed(t *testing.T) {
	input := "0.1 0.2\nnot a point\n\n1.5 2.5 3.5\n"
	src := NewReferencePointSource(strings.NewReader(input))
	rec := &recorder[[]float64]{}
	src.Observable().Register(rec)

	err := src.Run(context.Background())
	require.ErrorIs(t, err, ErrSourceExhausted)

	require.Len(t, rec.received, 2)
	assert.Equal(t, []float64{0.1, 0.2}, rec.received[0].Value)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, rec.received[1].Value)
	assert.Equal(t, int64(0), rec.received[0].Seq)
	assert.Equal(t, int64(1), rec.received[1].Seq)
}

func TestMatrixPerturbationSourceFeedsProblem(t *testing.T) {
	distance, cost := tsp.RandomInstance(5, 100, 100)
	problem, err := tsp.NewDynamicTSP(distance, cost)
	require.NoError(t, err)

	src := NewMatrixPerturbationSource(time.Hour, 5, 100)
	src.Observable().Register(problem)

	src.Emit(tsp.MatrixUpdate{Matrix: tsp.CostMatrix, X: 1, Y: 2, Value: 77})

	assert.True(t, problem.ConsumeChange())
	_, costAfter := problem.Matrices()
	assert.Equal(t, 77.0, costAfter[1][2])
}

func TestDirectoryUpdateSourceConsumesFilesOnce(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("update.0", "c 0 1 10\nd 1 0 20\n")
	write("update.1", "garbage line\nc 1 1 30\n")

	src := NewDirectoryUpdateSource(dir, time.Hour)
	rec := &recorder[tsp.MatrixUpdate]{}
	src.Observable().Register(rec)

	logger := klog.Background()
	require.NoError(t, src.Poll(logger))

	require.Len(t, rec.received, 3, "malformed lines are skipped, valid ones delivered")
	assert.Equal(t, tsp.MatrixUpdate{Matrix: tsp.CostMatrix, X: 0, Y: 1, Value: 10}, rec.received[0].Value)
	assert.Equal(t, tsp.MatrixUpdate{Matrix: tsp.DistanceMatrix, X: 1, Y: 0, Value: 20}, rec.received[1].Value)
	assert.Equal(t, tsp.MatrixUpdate{Matrix: tsp.CostMatrix, X: 1, Y: 1, Value: 30}, rec.received[2].Value)

	// A second poll must not re-deliver consumed files.
	require.NoError(t, src.Poll(logger))
	assert.Len(t, rec.received, 3)

	// New files picked up on later polls.
	write("update.2", "d 2 2 40\n")
	require.NoError(t, src.Poll(logger))
	require.Len(t, rec.received, 4)
	assert.Equal(t, tsp.MatrixUpdate{Matrix: tsp.DistanceMatrix, X: 2, Y: 2, Value: 40}, rec.received[3].Value)
}

func TestDirectoryUpdateSourceSurvivesMissingDirectory(t *testing.T) {
	src := NewDirectoryUpdateSource(filepath.Join(t.TempDir(), "missing"), time.Hour)
	err := src.Poll(klog.Background())
	assert.Error(t, err, "a failed poll reports the error and is retried next tick")
}
