package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civora/priority/internal/config"
	"github.com/civora/priority/internal/features"
	"github.com/civora/priority/internal/predict"
)

var scoreCmd = &cobra.Command{
	Use:   "score <issue_type> <lat> <lng> <is_rain> <traffic> <blur> <repeat_count> <hour>",
	Short: "Score one report given as arguments (onehot model)",
	Long: `Score one report from eight positional arguments and print the score
with two decimals. is_rain is true for "true" (any case) or "1".

Exit codes:
  0   Score printed
  1   Invalid arguments or missing model
  65  Same as 1 with --strict`,
	Example: `  priority score Pothole 11.94 79.80 true 1 0.2 3 19`,
	RunE:    runScore,
}

var scoreStrict bool

func init() {
	scoreCmd.Flags().BoolVar(&scoreStrict, "strict", false, "exit 65 instead of 1 on failure")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)
	log := newLogger(cfg)

	rec, err := predict.ParseArgs(args)
	if err != nil {
		return strictError(scoreStrict, usageError(cmd, err))
	}

	artifacts, err := openStore(cfg, features.VariantOneHot, log).LoadArtifacts(features.VariantOneHot)
	if err != nil {
		return strictError(scoreStrict, err)
	}
	p, err := predict.NewOneHotPredictor(artifacts.Model)
	if err != nil {
		return strictError(scoreStrict, err)
	}

	score, err := p.Predict(rec)
	if err != nil {
		return strictError(scoreStrict, fmt.Errorf("prediction failed: %w", err))
	}
	log.Debug("scored report", "type", rec.Type, "score", score)

	fmt.Fprintln(cmd.OutOrStdout(), predict.FormatScore(score))
	return nil
}
