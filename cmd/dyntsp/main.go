// dyntsp runs a dynamic bi-objective TSP optimization: NSGA-II evolves tours
// while a streaming source perturbs the distance and cost matrices, reference
// points typed on stdin trigger preference-change restarts, and every
// emission interval the current front is written to disk and plotted.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/evostream/evostream/pkg/algorithms"
	"github.com/evostream/evostream/pkg/consumer"
	"github.com/evostream/evostream/pkg/restart"
	"github.com/evostream/evostream/pkg/runtime"
	"github.com/evostream/evostream/pkg/source"
	"github.com/evostream/evostream/pkg/tsp"
)

func main() {
	var (
		cities         int
		populationSize int
		maxIterations  int
		updatePeriod   time.Duration
		updateDir      string
		outputDir      string
	)

	pflag.IntVar(&cities, "cities", 100, "number of cities in the generated instance")
	pflag.IntVar(&populationSize, "population-size", 100, "population size")
	pflag.IntVar(&maxIterations, "max-iterations", 25000, "iterations between snapshot emissions")
	pflag.DurationVar(&updatePeriod, "update-period", 2*time.Second, "period of the synthetic matrix update source")
	pflag.StringVar(&updateDir, "update-dir", "", "optional directory polled for external update files")
	pflag.StringVar(&outputDir, "output-dir", "outputdirectory", "directory for FUN/VAR files and front plots")

	klog.InitFlags(nil)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	logger := klog.FromContext(ctx)

	// Problem: random symmetric instance; real instances come from update
	// files instead.
	distance, cost := tsp.RandomInstance(cities, 5000, 100)
	problem, err := tsp.NewDynamicTSP(distance, cost)
	if err != nil {
		logger.Error(err, "building TSP instance")
		os.Exit(1)
	}

	// Algorithm: NSGA-II wrapped by the dynamic control loop.
	engine := algorithms.NewNSGAII(populationSize, 0, problem)
	loop := runtime.NewLoop(engine, problem, populationSize, maxIterations)
	loop.SetRestartStrategy(restart.NewStrategy(
		restart.NewHypervolumeContributionRemoval(populationSize/2),
		restart.NewRandomCreation(),
	))
	loop.SetRestartStrategyForParameterChange(restart.NewStrategy(
		restart.NewRandomRemoval(populationSize),
		restart.NewRandomCreation(),
	))

	// Streaming sources: synthetic matrix perturbations feed the problem,
	// stdin reference points feed the algorithm.
	matrixSource := source.NewMatrixPerturbationSource(updatePeriod, cities, 5000)
	matrixSource.Observable().Register(problem)

	refPointSource := source.NewReferencePointSource(os.Stdin)
	refPointSource.Observable().Register(loop)

	app := runtime.NewApplication(loop).
		AddStreamingSource(matrixSource).
		AddStreamingSource(refPointSource)

	if updateDir != "" {
		dirSource := source.NewDirectoryUpdateSource(updateDir, updatePeriod)
		dirSource.Observable().Register(problem)
		app.AddStreamingSource(dirSource)
	}

	// Data consumers.
	dirConsumer, err := consumer.NewLocalDirectoryOutputConsumer(outputDir)
	if err != nil {
		logger.Error(err, "creating output consumer")
		os.Exit(1)
	}
	loop.Observable().Register(dirConsumer)
	loop.Observable().Register(consumer.NewChartConsumer(outputDir))
	loop.Observable().Register(consumer.NewLogConsumer())

	if err := app.Run(ctx); err != nil {
		logger.Error(err, "dynamic run failed")
		os.Exit(1)
	}
}
