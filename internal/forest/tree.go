package forest

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

const leaf = -1

// node is one node of a flattened regression tree.
// Leaves have Feature == -1 and carry the prediction in Value.
type node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Value     float64 `json:"v"`
}

// Tree is a CART regression tree using the squared-error criterion.
type Tree struct {
	Nodes []node `json:"nodes"`
}

type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
}

type treeBuilder struct {
	x      [][]float64
	y      []float64
	params treeParams
	nodes  []node
}

// growTree fits a tree on the rows of x selected by idx. idx may repeat rows.
func growTree(x [][]float64, y []float64, idx []int, params treeParams) *Tree {
	b := &treeBuilder{x: x, y: y, params: params}
	b.build(idx, 0)
	return &Tree{Nodes: b.nodes}
}

func (b *treeBuilder) build(idx []int, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, node{Feature: leaf, Value: b.mean(idx)})

	if len(idx) < b.params.minSamplesSplit || len(idx) < 2*b.params.minSamplesLeaf {
		return id
	}
	if b.params.maxDepth > 0 && depth >= b.params.maxDepth {
		return id
	}
	if b.pure(idx) {
		return id
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return id
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[id] = node{Feature: feature, Threshold: threshold, Left: l, Right: r, Value: b.nodes[id].Value}
	return id
}

func (b *treeBuilder) mean(idx []int) float64 {
	vals := make([]float64, len(idx))
	for k, i := range idx {
		vals[k] = b.y[i]
	}
	return stat.Mean(vals, nil)
}

func (b *treeBuilder) pure(idx []int) bool {
	first := b.y[idx[0]]
	for _, i := range idx[1:] {
		if b.y[i] != first {
			return false
		}
	}
	return true
}

// bestSplit scans every feature for the threshold that minimises the summed
// squared error of the two children. Maximising sumL²/nL + sumR²/nR is equivalent.
func (b *treeBuilder) bestSplit(idx []int) (int, float64, bool) {
	n := len(idx)
	var total float64
	for _, i := range idx {
		total += b.y[i]
	}

	var (
		bestFeature   = -1
		bestThreshold float64
		bestProxy     float64
	)

	sorted := make([]int, n)
	width := len(b.x[idx[0]])
	for f := 0; f < width; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, c int) bool {
			return b.x[sorted[a]][f] < b.x[sorted[c]][f]
		})

		var leftSum float64
		for k := 1; k < n; k++ {
			leftSum += b.y[sorted[k-1]]

			lo, hi := b.x[sorted[k-1]][f], b.x[sorted[k]][f]
			if lo == hi {
				continue
			}
			if k < b.params.minSamplesLeaf || n-k < b.params.minSamplesLeaf {
				continue
			}

			rightSum := total - leftSum
			proxy := leftSum*leftSum/float64(k) + rightSum*rightSum/float64(n-k)
			if bestFeature < 0 || proxy > bestProxy {
				bestFeature = f
				bestProxy = proxy
				bestThreshold = lo + (hi-lo)/2
				if bestThreshold >= hi {
					bestThreshold = lo
				}
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// Predict walks the tree for x.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature == leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth returns the depth of the deepest leaf.
func (t *Tree) Depth() int {
	var walk func(i, d int) int
	walk = func(i, d int) int {
		n := t.Nodes[i]
		if n.Feature == leaf {
			return d
		}
		return max(walk(n.Left, d+1), walk(n.Right, d+1))
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return walk(0, 0)
}

// Leaves returns the number of leaf nodes.
func (t *Tree) Leaves() int {
	count := 0
	for _, n := range t.Nodes {
		if n.Feature == leaf {
			count++
		}
	}
	return count
}
