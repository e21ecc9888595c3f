package forest

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civora/priority/internal/features"
)

var testColumns = []string{"a", "b"}

// stepData returns rows where y is 1 when a > 5 and 0 otherwise; b is noise-free filler.
func stepData() ([][]float64, []float64) {
	var x [][]float64
	var y []float64
	for i := 0; i < 20; i++ {
		a := float64(i) / 2
		x = append(x, []float64{a, float64(i % 3)})
		if a > 5 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	return x, y
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.NEstimators = 10
	return cfg
}

func TestForest_ConfigDefaults(t *testing.T) {
	f := New(Config{})
	assert.Equal(t, 100, f.Config().NEstimators)
	assert.Equal(t, 2, f.Config().MinSamplesSplit)
	assert.Equal(t, 1, f.Config().MinSamplesLeaf)
	assert.Equal(t, 1, f.Config().Workers)
}

func TestForest_PredictNotFitted(t *testing.T) {
	f := New(DefaultConfig())
	_, err := f.Predict([]float64{1, 2})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestForest_FitValidation(t *testing.T) {
	f := New(smallConfig())
	ctx := context.Background()

	assert.Error(t, f.Fit(ctx, nil, nil, testColumns))
	assert.Error(t, f.Fit(ctx, [][]float64{{1, 2}}, []float64{1, 2}, testColumns))
	assert.ErrorIs(t, f.Fit(ctx, [][]float64{{1}}, []float64{1}, testColumns), features.ErrFeatureWidth)
}

func TestForest_LearnsStep(t *testing.T) {
	x, y := stepData()
	f := New(smallConfig())
	require.NoError(t, f.Fit(context.Background(), x, y, testColumns))

	low, err := f.Predict([]float64{1, 0})
	require.NoError(t, err)
	high, err := f.Predict([]float64{9, 0})
	require.NoError(t, err)

	assert.Less(t, low, 0.3)
	assert.Greater(t, high, 0.7)

	r2, err := f.Score(x, y)
	require.NoError(t, err)
	assert.Greater(t, r2, 0.8)
}

func TestForest_WidthMismatch(t *testing.T) {
	x, y := stepData()
	f := New(smallConfig())
	require.NoError(t, f.Fit(context.Background(), x, y, testColumns))

	_, err := f.Predict([]float64{1, 2, 3})
	assert.ErrorIs(t, err, features.ErrFeatureWidth)
}

func TestForest_DeterministicAcrossWorkers(t *testing.T) {
	x, y := stepData()

	cfg1 := smallConfig()
	cfg1.Workers = 1
	f1 := New(cfg1)
	require.NoError(t, f1.Fit(context.Background(), x, y, testColumns))

	cfg2 := smallConfig()
	cfg2.Workers = 8
	f2 := New(cfg2)
	require.NoError(t, f2.Fit(context.Background(), x, y, testColumns))

	for _, row := range [][]float64{{0, 0}, {5, 1}, {5.25, 2}, {7.5, 0}} {
		p1, err := f1.Predict(row)
		require.NoError(t, err)
		p2, err := f2.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, p1, p2, "row %v", row)
	}
}

func TestForest_SeedChangesForest(t *testing.T) {
	x, y := stepData()
	a := New(smallConfig())
	require.NoError(t, a.Fit(context.Background(), x, y, testColumns))

	cfg := smallConfig()
	cfg.Seed = 7
	b := New(cfg)
	require.NoError(t, b.Fit(context.Background(), x, y, testColumns))

	var sa, sb bytes.Buffer
	require.NoError(t, a.Save(&sa))
	require.NoError(t, b.Save(&sb))
	assert.NotEqual(t, sa.String(), sb.String())
}

func TestForest_RepeatedPredictionsIdentical(t *testing.T) {
	x, y := stepData()
	f := New(smallConfig())
	require.NoError(t, f.Fit(context.Background(), x, y, testColumns))

	first, err := f.Predict([]float64{4.5, 1})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		p, err := f.Predict([]float64{4.5, 1})
		require.NoError(t, err)
		assert.Equal(t, first, p)
	}
}

func TestForest_SaveLoad(t *testing.T) {
	x, y := stepData()
	f1 := New(smallConfig())
	require.NoError(t, f1.Fit(context.Background(), x, y, testColumns))

	var buf bytes.Buffer
	require.NoError(t, f1.Save(&buf))

	f2 := New(Config{})
	require.NoError(t, f2.Load(&buf))

	assert.Equal(t, f1.Columns(), f2.Columns())
	assert.Equal(t, len(f1.Trees()), len(f2.Trees()))
	for _, row := range x {
		p1, err := f1.Predict(row)
		require.NoError(t, err)
		p2, err := f2.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, p1, p2)
	}
}

func TestForest_SaveUnfitted(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, New(DefaultConfig()).Save(&buf), ErrNotFitted)
}

func TestForest_LoadRejectsBadTrees(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no trees", `{"config":{},"columns":["a"],"trees":[]}`},
		{"feature out of range", `{"config":{},"columns":["a"],"trees":[{"nodes":[{"f":3,"t":1,"l":1,"r":2,"v":0},{"f":-1,"v":0},{"f":-1,"v":1}]}]}`},
		{"cyclic children", `{"config":{},"columns":["a"],"trees":[{"nodes":[{"f":0,"t":1,"l":0,"r":0,"v":0}]}]}`},
		{"garbage", `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(DefaultConfig())
			assert.Error(t, f.Load(bytes.NewBufferString(tt.data)))
		})
	}
}

func TestForest_CancelledContext(t *testing.T) {
	x, y := stepData()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(smallConfig())
	assert.Error(t, f.Fit(ctx, x, y, testColumns))
}

func TestTree_SingleSplit(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{0, 0, 1, 1}
	tree := growTree(x, y, []int{0, 1, 2, 3}, treeParams{minSamplesSplit: 2, minSamplesLeaf: 1})

	require.Len(t, tree.Nodes, 3)
	assert.Equal(t, 0, tree.Nodes[0].Feature)
	assert.Equal(t, 2.5, tree.Nodes[0].Threshold)
	assert.Equal(t, 0.0, tree.Predict([]float64{2}))
	assert.Equal(t, 1.0, tree.Predict([]float64{3}))
	assert.Equal(t, 1, tree.Depth())
	assert.Equal(t, 2, tree.Leaves())
}

func TestTree_MaxDepth(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{0, 1, 2, 3}
	tree := growTree(x, y, []int{0, 1, 2, 3}, treeParams{maxDepth: 1, minSamplesSplit: 2, minSamplesLeaf: 1})

	assert.Equal(t, 1, tree.Depth())
	assert.True(t, math.Abs(tree.Predict([]float64{1})-0.5) < 1e-12)
}

func TestTree_ConstantFeatureIsLeaf(t *testing.T) {
	x := [][]float64{{1}, {1}, {1}}
	y := []float64{0, 1, 2}
	tree := growTree(x, y, []int{0, 1, 2}, treeParams{minSamplesSplit: 2, minSamplesLeaf: 1})

	require.Len(t, tree.Nodes, 1)
	assert.Equal(t, 1.0, tree.Predict([]float64{1}))
}
