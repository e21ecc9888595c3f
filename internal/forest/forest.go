package forest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/civora/priority/internal/features"
)

// ErrNotFitted is returned when predicting with a forest that has no trees.
var ErrNotFitted = errors.New("forest is not fitted")

// Config holds random forest hyperparameters.
type Config struct {
	NEstimators     int    `json:"n_estimators"`
	MaxDepth        int    `json:"max_depth"`
	MinSamplesSplit int    `json:"min_samples_split"`
	MinSamplesLeaf  int    `json:"min_samples_leaf"`
	Bootstrap       bool   `json:"bootstrap"`
	Seed            uint64 `json:"seed"`

	// Workers bounds concurrent tree fitting. Not persisted.
	Workers int `json:"-"`
}

// DefaultConfig returns the default forest configuration: 100 fully grown
// bootstrapped trees with seed 42.
func DefaultConfig() Config {
	return Config{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
		Seed:            42,
		Workers:         1,
	}
}

// Forest is a random forest regressor.
type Forest struct {
	config  Config
	columns []string
	trees   []*Tree
}

type forestState struct {
	Config  Config   `json:"config"`
	Columns []string `json:"columns"`
	Trees   []*Tree  `json:"trees"`
}

// New creates an unfitted forest. Zero values in cfg are replaced by defaults.
func New(cfg Config) *Forest {
	def := DefaultConfig()
	if cfg.NEstimators < 1 {
		cfg.NEstimators = def.NEstimators
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = def.MinSamplesSplit
	}
	if cfg.MinSamplesLeaf < 1 {
		cfg.MinSamplesLeaf = def.MinSamplesLeaf
	}
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Forest{config: cfg}
}

// Config returns the forest configuration.
func (f *Forest) Config() Config {
	return f.config
}

// Columns returns the feature column names the forest was fitted on.
func (f *Forest) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Trees returns the fitted trees.
func (f *Forest) Trees() []*Tree {
	return f.trees
}

// Fit trains the forest on x and y. Trees are fitted concurrently, each with a
// seed drawn in order from the master seed, so the result does not depend on
// the worker count.
func (f *Forest) Fit(ctx context.Context, x [][]float64, y []float64, columns []string) error {
	if len(x) == 0 {
		return fmt.Errorf("no training rows")
	}
	if len(x) != len(y) {
		return fmt.Errorf("got %d rows but %d targets", len(x), len(y))
	}
	for i, row := range x {
		if len(row) != len(columns) {
			return fmt.Errorf("%w: row %d has %d values, want %d", features.ErrFeatureWidth, i, len(row), len(columns))
		}
	}

	master := rand.New(rand.NewPCG(f.config.Seed, f.config.Seed))
	seeds := make([]uint64, f.config.NEstimators)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}

	params := treeParams{
		maxDepth:        f.config.MaxDepth,
		minSamplesSplit: f.config.MinSamplesSplit,
		minSamplesLeaf:  f.config.MinSamplesLeaf,
	}

	trees := make([]*Tree, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.config.Workers)
	for i, seed := range seeds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trees[i] = growTree(x, y, f.sample(len(x), seed), params)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to fit trees: %w", err)
	}

	f.columns = append([]string(nil), columns...)
	f.trees = trees
	return nil
}

func (f *Forest) sample(n int, seed uint64) []int {
	idx := make([]int, n)
	if !f.config.Bootstrap {
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

// Predict returns the mean prediction of all trees for x.
func (f *Forest) Predict(x []float64) (float64, error) {
	if len(f.trees) == 0 {
		return 0, ErrNotFitted
	}
	if len(x) != len(f.columns) {
		return 0, fmt.Errorf("%w: got %d values, want %d", features.ErrFeatureWidth, len(x), len(f.columns))
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(f.trees)), nil
}

// PredictAll predicts every row of x.
func (f *Forest) PredictAll(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, row := range x {
		p, err := f.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// Score returns the coefficient of determination R² of the predictions for x against y.
func (f *Forest) Score(x [][]float64, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("got %d rows but %d targets", len(x), len(y))
	}
	pred, err := f.PredictAll(x)
	if err != nil {
		return 0, err
	}
	return stat.RSquaredFrom(pred, y, nil), nil
}

// Save serializes the fitted forest to w.
func (f *Forest) Save(w io.Writer) error {
	if len(f.trees) == 0 {
		return ErrNotFitted
	}
	return json.NewEncoder(w).Encode(forestState{
		Config:  f.config,
		Columns: f.columns,
		Trees:   f.trees,
	})
}

// Load deserializes a forest from r, replacing any fitted state.
func (f *Forest) Load(r io.Reader) error {
	var state forestState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return err
	}
	if len(state.Trees) == 0 {
		return ErrNotFitted
	}
	for i, t := range state.Trees {
		if err := t.validate(len(state.Columns)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}

	workers := f.config.Workers
	f.config = state.Config
	f.config.Workers = max(workers, 1)
	f.columns = state.Columns
	f.trees = state.Trees
	return nil
}

func (t *Tree) validate(width int) error {
	if t == nil || len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Feature == leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= width {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: invalid children", i)
		}
	}
	return nil
}
