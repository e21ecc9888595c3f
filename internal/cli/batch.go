package cli

import (
	"github.com/spf13/cobra"

	"github.com/civora/priority/internal/config"
	"github.com/civora/priority/internal/features"
	"github.com/civora/priority/internal/predict"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score a JSON array of reports read from stdin (onehot model)",
	Long: `Read a JSON array of reports (or a single object) from stdin and print
{"success": true, "results": [{"id": ..., "priority_score": x}, ...]}.

Every input record yields exactly one result with its id echoed. A record that
cannot be scored gets priority_score 0.5 and an "error" field. Unparseable input
prints {"success": false, "error": "..."}.

Exit codes:
  0   Response printed
  65  Response contains a failure and --strict set`,
	Example: `  echo '[{"id":1,"type":"Pothole","latitude":11.93,"longitude":79.83,"is_rain":true}]' | priority batch
  cat reports.json | priority batch --levels --infer-context`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

var (
	batchLevels       bool
	batchInferContext bool
	batchStrict       bool
)

func init() {
	batchCmd.Flags().BoolVar(&batchLevels, "levels", false, "add a High/Medium/Low priority label")
	batchCmd.Flags().BoolVar(&batchInferContext, "infer-context", false, "estimate missing is_rain and traffic from coordinates")
	batchCmd.Flags().BoolVar(&batchStrict, "strict", false, "exit 65 when any record or the batch failed")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)
	log := newLogger(cfg)

	input, err := readInput(cmd)
	if err != nil {
		return err
	}

	var resp predict.BatchResponse
	artifacts, err := openStore(cfg, features.VariantOneHot, log).LoadArtifacts(features.VariantOneHot)
	if err == nil {
		var p *predict.OneHotPredictor
		if p, err = predict.NewOneHotPredictor(artifacts.Model); err == nil {
			p.Levels = batchLevels
			p.InferContext = batchInferContext
			resp = p.Batch(input)
		}
	}
	if err != nil {
		log.Error("failed to load model", "error", err)
		resp = predict.BatchResponse{Error: err.Error()}
	}

	if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
		return err
	}

	failures := resp.Failures()
	log.Debug("batch scored", "records", len(resp.Results), "failures", failures, "success", resp.Success)
	if batchStrict && (!resp.Success || failures > 0) {
		return &exitError{code: exitDataErr}
	}
	return nil
}
