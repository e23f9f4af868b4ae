// sgdnet-train: trains a sigmoid feed-forward network on an MNIST-style CSV
//
// Usage:
//
//	sgdnet-train -data=mnist_train.csv.zip -arch="784 30 10" -epochs=30 -batch=10 -lr=3.0
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"golang.org/x/exp/rand"

	"sgdnet/dataset"
	"sgdnet/m"
	"sgdnet/utils"
)

var (
	dataPath     = flag.String("data", "", "Path to the MNIST CSV, zipped or plain (required)")
	architecture = flag.String("arch", "784 30 10", "Layer sizes, input first")
	epochs       = flag.Int("epochs", 30, "Number of training epochs")
	batchSize    = flag.Int("batch", 10, "Mini-batch size")
	learningRate = flag.Float64("lr", 3.0, "Learning rate")
	testSize     = flag.Int("test-size", 10000, "Rows held out from the end of the file for evaluation")
	seed         = flag.Uint64("seed", 0, "Random seed (0 picks one from the clock)")
	analysisPath = flag.String("analysis", "", "Append per-epoch results to this CSV file")
	verbose      = flag.Bool("verbose", true, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	config, err := buildConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func buildConfig() (*utils.Config, error) {
	arch, err := utils.ParseArchitecture(*architecture)
	if err != nil {
		return nil, fmt.Errorf("parsing architecture: %w", err)
	}
	config := &utils.Config{
		Architecture: arch,
		DataPath:     *dataPath,
		Epochs:       *epochs,
		BatchSize:    *batchSize,
		LearningRate: *learningRate,
		TestSize:     *testSize,
		Seed:         *seed,
		AnalysisPath: *analysisPath,
	}
	if config.Seed == 0 {
		config.Seed = uint64(time.Now().UnixNano())
	}
	if err := utils.ValidateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func run(ctx context.Context, config *utils.Config) error {
	out := utils.Output
	printBanner(config)

	stats := &utils.TimingStats{}
	totalStart := time.Now()

	start := time.Now()
	opts := dataset.Options{
		Classes:  config.Architecture[len(config.Architecture)-1],
		TestSize: config.TestSize,
	}
	trainingData, testData, err := dataset.Load(config.DataPath, opts)
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}
	stats.DataLoadingTime = time.Since(start)
	fmt.Fprintf(out, "Finished loading data, training data size: %d\n", len(trainingData))
	if utils.Verbose {
		fmt.Fprintf(out, "Test data size: %d (%.2fs)\n", len(testData), stats.DataLoadingTime.Seconds())
	}

	start = time.Now()
	net, err := m.NewNetwork(config.Architecture, rand.New(rand.NewSource(config.Seed)))
	if err != nil {
		return fmt.Errorf("building network: %w", err)
	}
	stats.ModelInitTime = time.Since(start)

	trainConfig := m.TrainConfig{
		Epochs:        config.Epochs,
		MiniBatchSize: config.BatchSize,
		LearningRate:  config.LearningRate,
	}

	var completed int
	reporters := m.Reporters{
		m.ConsoleReporter{Out: out},
		m.ReporterFunc(func(r m.EpochResult) error {
			stats.TrainingTime += r.TrainTime
			stats.EvaluationTime += r.EvalTime
			completed = r.Epoch + 1
			return nil
		}),
	}
	if config.AnalysisPath != "" {
		log := m.NewAnalysisLog(config.AnalysisPath, config.Architecture, trainConfig)
		if utils.Verbose {
			fmt.Fprintf(out, "Analysis log: %s (run %s)\n", log.Path, log.RunID)
		}
		reporters = append(reporters, log)
	}
	trainConfig.Reporter = reporters

	fmt.Fprintln(out, "\nStarting training...")
	err = net.SGD(ctx, trainingData, testData, trainConfig)
	stats.TotalTime = time.Since(totalStart)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintf(out, "\nTraining interrupted after %d of %d epochs\n", completed, config.Epochs)
			utils.PrintTimingStats(stats, completed)
		}
		return fmt.Errorf("training: %w", err)
	}

	fmt.Fprintf(out, "\nTraining complete! Total time: %.2fs\n", stats.TotalTime.Seconds())
	utils.PrintTimingStats(stats, completed)
	return nil
}

func printBanner(config *utils.Config) {
	out := utils.Output
	fmt.Fprintln(out, "╔══════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(out, "║                      sgdnet Trainer                          ║")
	fmt.Fprintln(out, "╚══════════════════════════════════════════════════════════════╝")
	if !utils.Verbose {
		return
	}
	fmt.Fprintf(out, "\nConfiguration:\n")
	fmt.Fprintf(out, "  Data:          %s\n", config.DataPath)
	fmt.Fprintf(out, "  Architecture:  %s\n", m.FormatSizes(config.Architecture))
	fmt.Fprintf(out, "  Epochs:        %d\n", config.Epochs)
	fmt.Fprintf(out, "  Batch Size:    %d\n", config.BatchSize)
	fmt.Fprintf(out, "  Learning Rate: %.4f\n", config.LearningRate)
	fmt.Fprintf(out, "  Test Size:     %d\n", config.TestSize)
	fmt.Fprintf(out, "  Seed:          %d\n", config.Seed)
	fmt.Fprintf(out, "  Host:          %s\n", utils.HostInfo())
	fmt.Fprintln(out)
}
