package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 100, cfg.Training.NEstimators)
	assert.Equal(t, uint64(42), cfg.Training.Seed)
	assert.Equal(t, 1000, cfg.Training.Samples)
	assert.Equal(t, 0.2, cfg.Training.TestFraction)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "", cfg.Artifacts.Dir)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
artifacts:
  dir: "/srv/priority/models"

training:
  n_estimators: 25
  max_depth: 8
  samples: 400

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/priority/models", cfg.Artifacts.Dir)
	assert.Equal(t, 25, cfg.Training.NEstimators)
	assert.Equal(t, 8, cfg.Training.MaxDepth)
	assert.Equal(t, 400, cfg.Training.Samples)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// unspecified values keep their defaults
	assert.Equal(t, uint64(42), cfg.Training.Seed)
	assert.Equal(t, 0.2, cfg.Training.TestFraction)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "training: [unclosed"))
	assert.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "training:\n  n_estimators: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "n_estimators")
}

func TestResolve(t *testing.T) {
	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Resolve("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	assert.Equal(t, Default(), LoadOrDefault(""))
	assert.Equal(t, Default(), LoadOrDefault("/nonexistent/config.yaml"))

	path := writeConfig(t, "training:\n  n_estimators: 7\n")
	assert.Equal(t, 7, LoadOrDefault(path).Training.NEstimators)
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"defaults", "info", "text", false},
		{"json debug", "debug", "json", false},
		{"bad level", "trace", "text", true},
		{"bad format", "warn", "xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := LoggingConfig{Level: tt.level, Format: tt.format}
			err := l.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "err: %v", err)
		})
	}
}

func TestValidateTraining(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*TrainingConfig)
		wantErr string
	}{
		{"valid defaults", func(*TrainingConfig) {}, ""},
		{"no trees", func(c *TrainingConfig) { c.NEstimators = 0 }, "n_estimators"},
		{"negative depth", func(c *TrainingConfig) { c.MaxDepth = -1 }, "max_depth"},
		{"split too small", func(c *TrainingConfig) { c.MinSamplesSplit = 1 }, "min_samples_split"},
		{"leaf too small", func(c *TrainingConfig) { c.MinSamplesLeaf = 0 }, "min_samples_leaf"},
		{"too few samples", func(c *TrainingConfig) { c.Samples = 1 }, "samples"},
		{"test fraction one", func(c *TrainingConfig) { c.TestFraction = 1 }, "test_fraction"},
		{"negative workers", func(c *TrainingConfig) { c.Workers = -2 }, "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default().Training
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "got %v", err)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "loud"
	cfg.Training.NEstimators = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging:")
	assert.Contains(t, err.Error(), "training:")
}
