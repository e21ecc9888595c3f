package config

type Config struct {
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Logging   LoggingConfig   `yaml:"logging"`
	Training  TrainingConfig  `yaml:"training"`
}

// ArtifactsConfig controls where model artifacts are read and written.
type ArtifactsConfig struct {
	// Dir is the artifact root; each variant uses a subdirectory.
	// Empty means "models" next to the executable.
	Dir string `yaml:"dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TrainingConfig holds forest hyperparameters and dataset options.
type TrainingConfig struct {
	NEstimators     int    `yaml:"n_estimators"`
	MaxDepth        int    `yaml:"max_depth"`
	MinSamplesSplit int    `yaml:"min_samples_split"`
	MinSamplesLeaf  int    `yaml:"min_samples_leaf"`
	Seed            uint64 `yaml:"seed"`

	// Synthetic dataset (onehot variant)
	Samples      int     `yaml:"samples"`
	DataSeed     uint64  `yaml:"data_seed"`
	TestFraction float64 `yaml:"test_fraction"`

	// Workers bounds concurrent tree fitting; 0 uses the logical CPU count.
	Workers int `yaml:"workers"`

	// ExportCSV writes the training table next to the model.
	ExportCSV bool `yaml:"export_csv"`
}
