package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Training.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("training: %w", err))
	}

	return errors.Join(errs...)
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", l.Format)
	}

	return nil
}

func (t *TrainingConfig) Validate() error {
	var errs []error

	if t.NEstimators < 1 {
		errs = append(errs, fmt.Errorf("n_estimators must be at least 1, got %d", t.NEstimators))
	}

	if t.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must be non-negative (0 = unlimited)"))
	}

	if t.MinSamplesSplit < 2 {
		errs = append(errs, fmt.Errorf("min_samples_split must be at least 2"))
	}

	if t.MinSamplesLeaf < 1 {
		errs = append(errs, fmt.Errorf("min_samples_leaf must be at least 1"))
	}

	if t.Samples < 2 {
		errs = append(errs, fmt.Errorf("samples must be at least 2, got %d", t.Samples))
	}

	if t.TestFraction < 0 || t.TestFraction >= 1 {
		errs = append(errs, fmt.Errorf("test_fraction must be in [0, 1)"))
	}

	if t.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative (0 = all CPUs)"))
	}

	return errors.Join(errs...)
}
