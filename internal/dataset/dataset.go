// Package dataset builds the labelled tables the priority model is trained on.
package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Table is a numeric training table in feature-column order.
type Table struct {
	Columns []string
	X       [][]float64
	Y       []float64
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Y)
}

// Append adds one row.
func (t *Table) Append(x []float64, y float64) {
	t.X = append(t.X, x)
	t.Y = append(t.Y, y)
}

// Split shuffles the rows with seed and holds out ceil(n*testFraction) of them.
// A fraction of 0 returns the whole table as train and an empty test table.
func (t Table) Split(testFraction float64, seed uint64) (train, test Table, err error) {
	if testFraction < 0 || testFraction >= 1 {
		return Table{}, Table{}, fmt.Errorf("test fraction must be in [0, 1), got %v", testFraction)
	}

	n := t.Len()
	nTest := int(math.Ceil(float64(n) * testFraction))
	if testFraction > 0 && nTest >= n {
		return Table{}, Table{}, fmt.Errorf("cannot hold out %d of %d rows", nTest, n)
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)

	train = Table{Columns: t.Columns}
	test = Table{Columns: t.Columns}
	for k, i := range perm {
		if k < nTest {
			test.Append(t.X[i], t.Y[i])
		} else {
			train.Append(t.X[i], t.Y[i])
		}
	}
	return train, test, nil
}
