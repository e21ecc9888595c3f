package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/civora/priority/internal/config"
	"github.com/civora/priority/internal/features"
	"github.com/civora/priority/internal/logger"
	"github.com/civora/priority/internal/storage"
)

var (
	// Global flags
	cfgFile  string
	jsonOut  bool
	verbose  bool
	modelDir string

	// Version info (set from main)
	Version = "0.1.0"
)

// exitDataErr is EX_DATAERR from sysexits.h, used by --strict.
const exitDataErr = 65

// DefaultModelDir is the artifact root used when neither the config nor
// --model-dir names one. It is resolved against the executable's directory.
const DefaultModelDir = "models"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "priority",
	Short: "Civic issue priority scoring",
	Long: `Priority trains random-forest models that score civic issue reports
(potholes, garbage, water leaks, ...) and serves single and batch predictions
over stdin/stdout for the services that call it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				fmt.Fprintln(os.Stderr, ee.err)
			}
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&modelDir, "model-dir", "", "artifact root directory (overrides config)")
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// IsJSON returns whether JSON output is enabled
func IsJSON() bool {
	return jsonOut
}

// IsVerbose returns whether verbose output is enabled
func IsVerbose() bool {
	return verbose
}

// newLogger builds the command logger. --verbose forces debug level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logger.New(level, cfg.Logging.Format)
}

// artifactRoot picks the artifact root: --model-dir, then the config, then
// models/ beside the executable.
func artifactRoot(cfg *config.Config) string {
	if modelDir != "" {
		return modelDir
	}
	if cfg.Artifacts.Dir != "" {
		return cfg.Artifacts.Dir
	}
	exe, err := os.Executable()
	if err != nil {
		return DefaultModelDir
	}
	return filepath.Join(filepath.Dir(exe), DefaultModelDir)
}

func openStore(cfg *config.Config, v features.Variant, log *slog.Logger) *storage.Store {
	return storage.New(storage.VariantDir(artifactRoot(cfg), v), log)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func readInput(cmd *cobra.Command) ([]byte, error) {
	return io.ReadAll(cmd.InOrStdin())
}

// strictError wraps err in the --strict exit code when strict is set.
func strictError(strict bool, err error) error {
	if strict && !errors.As(err, new(*exitError)) {
		return &exitError{code: exitDataErr, err: err}
	}
	return err
}

// usageError appends the command usage line to err.
func usageError(cmd *cobra.Command, err error) error {
	return fmt.Errorf("%w\nUsage: %s", err, cmd.UseLine())
}
