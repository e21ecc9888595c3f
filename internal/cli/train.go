package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/civora/priority/internal/config"
	"github.com/civora/priority/internal/features"
	"github.com/civora/priority/internal/forest"
	"github.com/civora/priority/internal/trainer"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a priority model and save its artifacts",
	Long: `Fit a random forest and overwrite the artifacts of one variant.

Variants:
  encoded  label-encoded issue type and weather, built-in example table
  onehot   one-hot issue type with location and context, synthetic table`,
	Example: `  priority train --variant encoded
  priority train --variant onehot --samples 5000 --trees 200
  priority train --variant onehot --data reports.csv`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

var (
	trainVariant      string
	trainData         string
	trainSamples      int
	trainTrees        int
	trainMaxDepth     int
	trainSeed         uint64
	trainDataSeed     uint64
	trainTestFraction float64
	trainWorkers      int
	trainNoExport     bool
)

func init() {
	trainCmd.Flags().StringVar(&trainVariant, "variant", string(features.VariantOneHot), "model variant (encoded, onehot)")
	trainCmd.Flags().StringVar(&trainData, "data", "", "training CSV instead of the built-in or synthetic table")
	trainCmd.Flags().IntVar(&trainSamples, "samples", 0, "synthetic rows to generate (onehot)")
	trainCmd.Flags().IntVar(&trainTrees, "trees", 0, "number of trees")
	trainCmd.Flags().IntVar(&trainMaxDepth, "max-depth", 0, "maximum tree depth (0 = unlimited)")
	trainCmd.Flags().Uint64Var(&trainSeed, "seed", 0, "forest random seed")
	trainCmd.Flags().Uint64Var(&trainDataSeed, "data-seed", 0, "synthetic data seed (onehot)")
	trainCmd.Flags().Float64Var(&trainTestFraction, "test-fraction", 0, "share of rows held out for scoring (onehot)")
	trainCmd.Flags().IntVar(&trainWorkers, "workers", 0, "concurrent tree fits (0 = logical CPUs)")
	trainCmd.Flags().BoolVar(&trainNoExport, "no-export", false, "do not write the training table as CSV")
	rootCmd.AddCommand(trainCmd)
}

// trainOptions merges config values with the flags the user actually set.
func trainOptions(cmd *cobra.Command, cfg *config.Config) (trainer.Options, error) {
	variant, err := features.ParseVariant(trainVariant)
	if err != nil {
		return trainer.Options{}, err
	}

	tc := cfg.Training
	flags := cmd.Flags()
	if flags.Changed("trees") {
		tc.NEstimators = trainTrees
	}
	if flags.Changed("max-depth") {
		tc.MaxDepth = trainMaxDepth
	}
	if flags.Changed("seed") {
		tc.Seed = trainSeed
	}
	if flags.Changed("samples") {
		tc.Samples = trainSamples
	}
	if flags.Changed("data-seed") {
		tc.DataSeed = trainDataSeed
	}
	if flags.Changed("test-fraction") {
		tc.TestFraction = trainTestFraction
	}
	if flags.Changed("workers") {
		tc.Workers = trainWorkers
	}
	if trainNoExport {
		tc.ExportCSV = false
	}
	if err := tc.Validate(); err != nil {
		return trainer.Options{}, err
	}

	workers := tc.Workers
	if workers == 0 {
		workers = trainer.DefaultWorkers()
	}

	return trainer.Options{
		Variant: variant,
		Forest: forest.Config{
			NEstimators:     tc.NEstimators,
			MaxDepth:        tc.MaxDepth,
			MinSamplesSplit: tc.MinSamplesSplit,
			MinSamplesLeaf:  tc.MinSamplesLeaf,
			Bootstrap:       true,
			Seed:            tc.Seed,
			Workers:         workers,
		},
		DataPath:     trainData,
		Samples:      tc.Samples,
		DataSeed:     tc.DataSeed,
		TestFraction: tc.TestFraction,
		ExportCSV:    tc.ExportCSV,
	}, nil
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	opts, err := trainOptions(cmd, cfg)
	if err != nil {
		return err
	}

	store := openStore(cfg, opts.Variant, log)
	report, err := trainer.New(store, log).Train(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return writeJSON(out, report)
	}

	fmt.Fprintf(out, "Model trained (%s)\n", report.Variant)
	fmt.Fprintf(out, "  Artifacts:  %s\n", report.Dir)
	fmt.Fprintf(out, "  Trees:      %d\n", report.Trees)
	fmt.Fprintf(out, "  Rows:       %d (train %d, test %d)\n", report.Rows, report.TrainRows, report.TestRows)
	fmt.Fprintf(out, "  Train R2:   %.4f\n", report.TrainR2)
	if report.TestR2 != nil {
		fmt.Fprintf(out, "  Test R2:    %.4f\n", *report.TestR2)
	}
	if report.Dataset != "" {
		fmt.Fprintf(out, "  Dataset:    %s\n", report.Dataset)
	}
	fmt.Fprintf(out, "  Duration:   %s\n", report.Duration.Round(time.Millisecond))
	return nil
}
