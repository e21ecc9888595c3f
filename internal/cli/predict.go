package cli

import (
	"github.com/spf13/cobra"

	"github.com/civora/priority/internal/config"
	"github.com/civora/priority/internal/features"
	"github.com/civora/priority/internal/predict"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score one report read as JSON from stdin (encoded model)",
	Long: `Read one JSON object from stdin and print {"priority_score": x}.

Missing fields default to empty strings and zeros; unknown issue types and
weather values are encoded as 0. Failures are printed as
{"error": "...", "priority_score": 0.0} and exit 0 unless --strict is set.

Exit codes:
  0   Score or error object printed
  65  Error object printed and --strict set`,
	Example: `  echo '{"issue_type":"Garbage","weather":"Rain","temp":28,"traffic_delay":300,"repeat_count":4,"hour":10}' | priority predict`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

var predictStrict bool

func init() {
	predictCmd.Flags().BoolVar(&predictStrict, "strict", false, "exit 65 when an error object is printed")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)
	log := newLogger(cfg)

	input, err := readInput(cmd)
	if err != nil {
		return err
	}

	var resp predict.SingleResponse
	artifacts, err := openStore(cfg, features.VariantEncoded, log).LoadArtifacts(features.VariantEncoded)
	if err == nil {
		var p *predict.EncodedPredictor
		if p, err = predict.NewEncodedPredictor(artifacts); err == nil {
			resp = p.Respond(input)
		}
	}
	if err != nil {
		log.Error("failed to load model", "error", err)
		resp = predict.Failure(err)
	}

	if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
		return err
	}
	if resp.Failed() {
		log.Debug("prediction failed", "error", resp.Error)
		if predictStrict {
			return &exitError{code: exitDataErr}
		}
	}
	return nil
}
