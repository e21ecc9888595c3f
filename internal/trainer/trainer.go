// Package trainer fits and persists priority models.
package trainer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/civora/priority/internal/dataset"
	"github.com/civora/priority/internal/features"
	"github.com/civora/priority/internal/forest"
	"github.com/civora/priority/internal/storage"
)

// DatasetFile is the name of the exported training table.
const DatasetFile = "training_data.csv"

// Options controls one training run.
type Options struct {
	Variant features.Variant
	Forest  forest.Config

	// DataPath, when set, replaces the built-in or synthetic table with a CSV.
	DataPath string

	// Synthetic table size and seed (onehot variant only).
	Samples  int
	DataSeed uint64

	// TestFraction of rows held out for scoring (onehot variant only).
	TestFraction float64

	// ExportCSV writes the generated table next to the model.
	ExportCSV bool
}

// Report summarises a training run.
type Report struct {
	Variant   features.Variant `json:"variant"`
	Dir       string           `json:"dir"`
	Rows      int              `json:"rows"`
	TrainRows int              `json:"train_rows"`
	TestRows  int              `json:"test_rows"`
	Trees     int              `json:"trees"`
	TrainR2   float64          `json:"train_r2"`
	TestR2    *float64         `json:"test_r2,omitempty"`
	Dataset   string           `json:"dataset,omitempty"`
	Duration  time.Duration    `json:"duration"`
}

// Trainer builds datasets, fits forests and saves the artifacts.
type Trainer struct {
	store  *storage.Store
	logger *slog.Logger
}

// New creates a Trainer writing to store.
func New(store *storage.Store, logger *slog.Logger) *Trainer {
	return &Trainer{store: store, logger: logger}
}

// Train runs one training pass and overwrites the variant's artifacts.
func (t *Trainer) Train(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	logHostMemory(t.logger)

	switch opts.Variant {
	case features.VariantEncoded:
		return t.trainEncoded(ctx, opts, start)
	case features.VariantOneHot:
		return t.trainOneHot(ctx, opts, start)
	default:
		return nil, fmt.Errorf("unknown variant: %q", opts.Variant)
	}
}

func (t *Trainer) trainEncoded(ctx context.Context, opts Options, start time.Time) (*Report, error) {
	rows := dataset.ExampleTable()
	if opts.DataPath != "" {
		var err error
		rows, err = readCSV(opts.DataPath, dataset.ReadEncodedCSV)
		if err != nil {
			return nil, err
		}
	}

	table, issues, weather := dataset.EncodeRows(rows)
	t.logger.Info("training encoded model",
		"rows", table.Len(),
		"issue_types", len(issues.Classes()),
		"weather_types", len(weather.Classes()),
	)

	model := forest.New(opts.Forest)
	if err := model.Fit(ctx, table.X, table.Y, table.Columns); err != nil {
		return nil, err
	}
	trainR2, err := model.Score(table.X, table.Y)
	if err != nil {
		return nil, err
	}

	err = t.store.SaveArtifacts(&storage.Artifacts{
		Variant:        features.VariantEncoded,
		Model:          model,
		IssueEncoder:   issues,
		WeatherEncoder: weather,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{
		Variant:   features.VariantEncoded,
		Dir:       t.store.Dir(),
		Rows:      table.Len(),
		TrainRows: table.Len(),
		Trees:     len(model.Trees()),
		TrainR2:   trainR2,
	}

	if opts.ExportCSV && opts.DataPath == "" {
		if err := t.store.Save(DatasetFile, encodedCSV(rows)); err != nil {
			return nil, err
		}
		report.Dataset = t.store.Path(DatasetFile)
	}

	report.Duration = time.Since(start)
	t.logger.Info("model saved", "dir", report.Dir, "train_r2", report.TrainR2, "duration", report.Duration)
	return report, nil
}

func (t *Trainer) trainOneHot(ctx context.Context, opts Options, start time.Time) (*Report, error) {
	var (
		table dataset.Table
		rows  []dataset.OneHotRow
		err   error
	)
	if opts.DataPath != "" {
		table, err = readCSV(opts.DataPath, dataset.ReadOneHotCSV)
		if err != nil {
			return nil, err
		}
	} else {
		t.logger.Info("generating training data", "samples", opts.Samples, "seed", opts.DataSeed)
		rows = dataset.Generate(opts.Samples, opts.DataSeed)
		table = dataset.OneHotTable(rows)
	}

	train, test, err := table.Split(opts.TestFraction, opts.Forest.Seed)
	if err != nil {
		return nil, err
	}
	t.logger.Info("training onehot model", "train_rows", train.Len(), "test_rows", test.Len())

	model := forest.New(opts.Forest)
	if err := model.Fit(ctx, train.X, train.Y, train.Columns); err != nil {
		return nil, err
	}

	report := &Report{
		Variant:   features.VariantOneHot,
		Dir:       t.store.Dir(),
		Rows:      table.Len(),
		TrainRows: train.Len(),
		TestRows:  test.Len(),
		Trees:     len(model.Trees()),
	}
	if report.TrainR2, err = model.Score(train.X, train.Y); err != nil {
		return nil, err
	}
	if test.Len() > 0 {
		r2, err := model.Score(test.X, test.Y)
		if err != nil {
			return nil, err
		}
		report.TestR2 = &r2
	}

	if rows != nil && opts.ExportCSV {
		if err := t.store.Save(DatasetFile, oneHotCSV(rows)); err != nil {
			return nil, err
		}
		report.Dataset = t.store.Path(DatasetFile)
		t.logger.Info("saved training data", "path", report.Dataset)
	}

	if err := t.store.SaveArtifacts(&storage.Artifacts{Variant: features.VariantOneHot, Model: model}); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	t.logger.Info("model saved", "dir", report.Dir, "train_r2", report.TrainR2, "duration", report.Duration)
	return report, nil
}

func readCSV[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	out, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return out, nil
}

type oneHotCSV []dataset.OneHotRow

func (c oneHotCSV) Save(w io.Writer) error { return dataset.WriteOneHotCSV(w, c) }

type encodedCSV []dataset.EncodedRow

func (c encodedCSV) Save(w io.Writer) error { return dataset.WriteEncodedCSV(w, c) }
