package trainer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civora/priority/internal/dataset"
	"github.com/civora/priority/internal/features"
	"github.com/civora/priority/internal/forest"
	"github.com/civora/priority/internal/logger"
	"github.com/civora/priority/internal/storage"
)

func testOptions(v features.Variant) Options {
	fc := forest.DefaultConfig()
	fc.NEstimators = 10
	fc.Workers = 4
	return Options{
		Variant:      v,
		Forest:       fc,
		Samples:      200,
		DataSeed:     42,
		TestFraction: 0.2,
		ExportCSV:    true,
	}
}

func newTrainer(t *testing.T, v features.Variant) (*Trainer, *storage.Store) {
	t.Helper()
	store := storage.New(storage.VariantDir(t.TempDir(), v), logger.Discard())
	return New(store, logger.Discard()), store
}

func TestTrain_Encoded(t *testing.T) {
	tr, store := newTrainer(t, features.VariantEncoded)

	report, err := tr.Train(context.Background(), testOptions(features.VariantEncoded))
	require.NoError(t, err)

	assert.Equal(t, 6, report.Rows)
	assert.Equal(t, 6, report.TrainRows)
	assert.Equal(t, 10, report.Trees)
	assert.Nil(t, report.TestR2)
	assert.Greater(t, report.TrainR2, 0.0)
	assert.FileExists(t, report.Dataset)

	for _, name := range storage.Files(features.VariantEncoded) {
		assert.True(t, store.Exists(name), name)
	}

	a, err := store.LoadArtifacts(features.VariantEncoded)
	require.NoError(t, err)
	assert.Equal(t, []string{"Electricity", "Garbage", "Road", "Water"}, a.IssueEncoder.Classes())
}

func TestTrain_OneHot(t *testing.T) {
	tr, store := newTrainer(t, features.VariantOneHot)

	report, err := tr.Train(context.Background(), testOptions(features.VariantOneHot))
	require.NoError(t, err)

	assert.Equal(t, 200, report.Rows)
	assert.Equal(t, 160, report.TrainRows)
	assert.Equal(t, 40, report.TestRows)
	require.NotNil(t, report.TestR2)
	assert.Greater(t, report.TrainR2, 0.8)
	assert.Greater(t, *report.TestR2, 0.3)

	assert.True(t, store.Exists(storage.ModelFile))
	assert.False(t, store.Exists(storage.IssueEncoderFile))
	assert.FileExists(t, filepath.Join(store.Dir(), DatasetFile))
}

func TestTrain_Deterministic(t *testing.T) {
	opts := testOptions(features.VariantOneHot)

	tr1, s1 := newTrainer(t, features.VariantOneHot)
	_, err := tr1.Train(context.Background(), opts)
	require.NoError(t, err)

	opts.Forest.Workers = 1
	tr2, s2 := newTrainer(t, features.VariantOneHot)
	_, err = tr2.Train(context.Background(), opts)
	require.NoError(t, err)

	b1, err := os.ReadFile(s1.Path(storage.ModelFile))
	require.NoError(t, err)
	b2, err := os.ReadFile(s2.Path(storage.ModelFile))
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestTrain_FromCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dataset.WriteOneHotCSV(&buf, dataset.Generate(50, 3)))
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	tr, store := newTrainer(t, features.VariantOneHot)
	opts := testOptions(features.VariantOneHot)
	opts.DataPath = path

	report, err := tr.Train(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 50, report.Rows)
	assert.Empty(t, report.Dataset)
	assert.False(t, store.Exists(DatasetFile))
}

func TestTrain_EncodedFromCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := append(dataset.ExampleTable(), dataset.EncodedRow{
		Record:   features.EncodedRecord{IssueType: "Streetlight", Weather: "Fog", Temp: 22, TrafficDelay: 30, RepeatCount: 0, Hour: 23},
		Priority: 0.2,
	})
	require.NoError(t, dataset.WriteEncodedCSV(&buf, rows))
	path := filepath.Join(t.TempDir(), "reports.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	tr, store := newTrainer(t, features.VariantEncoded)
	opts := testOptions(features.VariantEncoded)
	opts.DataPath = path

	report, err := tr.Train(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 7, report.Rows)

	a, err := store.LoadArtifacts(features.VariantEncoded)
	require.NoError(t, err)
	assert.Contains(t, a.WeatherEncoder.Classes(), "Fog")
}

func TestTrain_MissingCSV(t *testing.T) {
	tr, _ := newTrainer(t, features.VariantOneHot)
	opts := testOptions(features.VariantOneHot)
	opts.DataPath = "/nonexistent/data.csv"

	_, err := tr.Train(context.Background(), opts)
	assert.Error(t, err)
}

func TestTrain_UnknownVariant(t *testing.T) {
	tr, _ := newTrainer(t, features.VariantOneHot)
	opts := testOptions(features.Variant("pickle"))

	_, err := tr.Train(context.Background(), opts)
	assert.Error(t, err)
}

func TestDefaultWorkers(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultWorkers(), 1)
}
