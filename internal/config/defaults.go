package config

func Default() *Config {
	return &Config{
		Artifacts: ArtifactsConfig{
			Dir: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Training: TrainingConfig{
			NEstimators:     100,
			MaxDepth:        0,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
			Seed:            42,
			Samples:         1000,
			DataSeed:        42,
			TestFraction:    0.2,
			Workers:         0,
			ExportCSV:       true,
		},
	}
}
