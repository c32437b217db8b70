package topk

import (
	"math"
	"sort"

	"github.com/truenodb/trueno/internal/aggop"
)

// boundedHeap is a container/heap.Interface over up to k items, always
// exposing the currently "worst" (most evictable) item at the root so a
// new arrival can displace it in O(log k) (spec.md §4.6). NaN keys are
// mapped to +/-Inf at push time so ordinary float comparison already
// implements the "NaNs sort last" policy without special-casing NaN in the
// comparator itself.
type boundedHeap struct {
	items []item
	dir   aggop.Direction
}

func newBoundedHeap(k int, dir aggop.Direction) *boundedHeap {
	return &boundedHeap{items: make([]item, 0, k), dir: dir}
}

// sortKey maps a key for ranking purposes: descending keeps the largest
// values, so NaN (never selected ahead of a real value) becomes -Inf;
// ascending keeps the smallest values, so NaN becomes +Inf.
func (h *boundedHeap) sortKey(it item) float64 {
	if !it.isNaN {
		return it.key
	}
	if h.dir == aggop.Desc {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// worse reports whether items[i] is more evictable than items[j]: a lower
// rank for descending, a higher rank for ascending; ties broken toward
// evicting the higher source index (lower index is preferred, spec.md
// §4.6).
func (h *boundedHeap) worse(i, j int) bool {
	a, b := h.sortKey(h.items[i]), h.sortKey(h.items[j])
	if a != b {
		if h.dir == aggop.Desc {
			return a < b
		}
		return a > b
	}
	return h.items[i].idx > h.items[j].idx
}

func (h *boundedHeap) Len() int { return len(h.items) }

func (h *boundedHeap) Less(i, j int) bool { return h.worse(i, j) }

func (h *boundedHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *boundedHeap) Push(x any) { h.items = append(h.items, x.(item)) }

func (h *boundedHeap) Pop() any {
	old := h.items
	n := len(old)
	it := old[n-1]
	h.items = old[:n-1]
	return it
}

// sortedIndices returns the heap's items' source indices in final Top-K
// rank order (best first).
func (h *boundedHeap) sortedIndices() []int {
	items := append([]item(nil), h.items...)
	sort.Slice(items, func(i, j int) bool {
		return !h.rankedWorseOf(items, i, j)
	})
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.idx
	}
	return out
}

// rankedWorseOf is worse() generalized over an arbitrary items slice (used
// for the final sort, which operates on a copy rather than h.items).
func (h *boundedHeap) rankedWorseOf(items []item, i, j int) bool {
	a, b := h.sortKey(items[i]), h.sortKey(items[j])
	if a != b {
		if h.dir == aggop.Desc {
			return a < b
		}
		return a > b
	}
	return items[i].idx > items[j].idx
}

// fullySorted returns every index 0..len(keys)-1 sorted under dir (used
// when k >= n, spec.md §4.6 "k >= n returns the fully sorted input").
func fullySorted(keys []float64, dir aggop.Direction) []int {
	h := newBoundedHeap(len(keys), dir)
	for i, k := range keys {
		h.items = append(h.items, item{idx: i, key: k, isNaN: math.IsNaN(k)})
	}
	return h.sortedIndices()
}
