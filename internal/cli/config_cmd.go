package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/civora/priority/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Display the effective configuration (file merged over defaults) and the
artifact root it resolves to.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var validateOnly bool

func init() {
	configCmd.Flags().BoolVar(&validateOnly, "validate", false, "only validate config, don't print")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Resolve(cfgFile)
	if err != nil {
		if jsonOut {
			_ = writeJSON(out, map[string]any{"valid": false, "error": err.Error()})
		} else {
			fmt.Fprintf(out, "Configuration invalid: %v\n", err)
		}
		return err
	}

	if validateOnly {
		if jsonOut {
			return writeJSON(out, map[string]any{"valid": true})
		}
		fmt.Fprintln(out, "Configuration is valid")
		return nil
	}

	// Show where artifacts will actually be read from.
	effective := *cfg
	effective.Artifacts.Dir = artifactRoot(cfg)

	if jsonOut {
		data, err := json.MarshalIndent(effective, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	data, err := yaml.Marshal(effective)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	return nil
}
