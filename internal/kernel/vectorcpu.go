package kernel

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
)

// laneWidth simulates the wide-lane/manual-unroll vector-CPU execution
// style (spec.md §4.4): each chunk of laneWidth elements is reduced as an
// independent partial, then partials combine in chunk order.
const laneWidth = 8

// vectorCpuParallelThreshold is the element count above which the
// vector-CPU float SUM (vectorSumFloat) stops running lane-chunked partials
// inline and fans them out across the dedicated blocking pool (spec.md §5
// "a dedicated blocking worker pool separate from the query goroutine that
// issued the request"). The other vector-CPU kernels always run inline.
const vectorCpuParallelThreshold = 1 << 16

// vectorCpuWorkers bounds the dedicated pool's concurrency.
const vectorCpuWorkers = 8

type vectorCpuSet struct{}

func (vectorCpuSet) Sum(col column.Column) (Value, error) {
	switch c := col.(type) {
	case *column.Int32Column:
		return IntValue(int64(vectorSumInt32(c.Values()))), nil
	case *column.Int64Column:
		return IntValue(vectorSumInt64(c.Values())), nil
	case *column.Float32Column, *column.Float64Column:
		vals, err := floats64(col)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(vectorSumFloat(vals)), nil
	default:
		return Value{}, fmt.Errorf("kernel: Sum unsupported on column type %s", col.Type())
	}
}

// vectorSumInt32 reduces in laneWidth-sized chunks, combining the partials
// in chunk order. Integer addition is associative under two's-complement
// wrap, so the chunking changes nothing about the result — only about how
// it's computed — unlike the float path below.
func vectorSumInt32(vals []int32) int32 {
	var total int32
	for i := 0; i < len(vals); i += laneWidth {
		end := i + laneWidth
		if end > len(vals) {
			end = len(vals)
		}
		total += sumWrapInt32(vals[i:end])
	}
	return total
}

func vectorSumInt64(vals []int64) int64 {
	var total int64
	for i := 0; i < len(vals); i += laneWidth {
		end := i + laneWidth
		if end > len(vals) {
			end = len(vals)
		}
		total += sumWrapInt64(vals[i:end])
	}
	return total
}

// vectorSumFloat runs Kahan summation per lane-chunk, then folds the
// per-chunk (sum, compensation) pairs together in chunk order with
// KahanCombine — a wide-lane SIMD reduction followed by a horizontal
// combine, modeled faithfully enough to land within the accelerator's
// tree-sum result under the 6-sigma tolerance (spec.md §4.4.2).
func vectorSumFloat(vals []float64) float64 {
	if len(vals) <= vectorCpuParallelThreshold {
		return vectorSumFloatChunks(vals)
	}
	return vectorSumFloatPooled(vals)
}

func vectorSumFloatChunks(vals []float64) float64 {
	var sum, c float64
	for i := 0; i < len(vals); i += laneWidth {
		end := i + laneWidth
		if end > len(vals) {
			end = len(vals)
		}
		lane := KahanSum(vals[i:end])
		sum, c = KahanCombine(sum, c, lane, 0)
	}
	return sum
}

// vectorSumFloatPooled splits vals into vectorCpuWorkers contiguous
// segments, sums each on the dedicated pool, then combines the segment
// partials in index order (not completion order) so the result stays
// deterministic regardless of goroutine scheduling.
func vectorSumFloatPooled(vals []float64) float64 {
	segments := splitContiguous(len(vals), vectorCpuWorkers)
	partials := make([]float64, len(segments))

	p := pool.New().WithMaxGoroutines(vectorCpuWorkers)
	for i, seg := range segments {
		i, seg := i, seg
		p.Go(func() {
			partials[i] = vectorSumFloatChunks(vals[seg.start:seg.end])
		})
	}
	p.Wait()

	var sum, c float64
	for _, part := range partials {
		sum, c = KahanCombine(sum, c, part, 0)
	}
	return sum
}

type segment struct{ start, end int }

// splitContiguous divides [0,n) into up to parts contiguous, non-empty
// segments covering every index exactly once, preserving order.
func splitContiguous(n, parts int) []segment {
	if parts > n {
		parts = n
	}
	if parts <= 0 {
		return nil
	}
	base := n / parts
	rem := n % parts
	segs := make([]segment, 0, parts)
	start := 0
	for i := 0; i < parts; i++ {
		size := base
		if i < rem {
			size++
		}
		segs = append(segs, segment{start: start, end: start + size})
		start += size
	}
	return segs
}

func (vectorCpuSet) Min(col column.Column) (Value, error) {
	return scalarMinMax(col, aggop.Min)
}

func (vectorCpuSet) Max(col column.Column) (Value, error) {
	return scalarMinMax(col, aggop.Max)
}

func (vectorCpuSet) Count(col column.Column) (Value, error) {
	return IntValue(int64(col.Len())), nil
}

func (v vectorCpuSet) Avg(col column.Column) (Value, error) {
	if col.Len() == 0 {
		return Value{}, emptyAggregateErr(aggop.Avg, col)
	}
	sum, err := v.Sum(col)
	if err != nil {
		return Value{}, err
	}
	n := float64(col.Len())
	if col.Type().Float() {
		return FloatValue(sum.F64 / n), nil
	}
	return FloatValue(float64(sum.I64) / n), nil
}

func (vectorCpuSet) Filter(col column.Column, op aggop.CompareOp, lit Literal) (*column.BitmapColumn, error) {
	return genericFilter(col, op, lit)
}

func (v vectorCpuSet) FusedFilterAgg(col column.Column, op aggop.CompareOp, lit Literal, aggOp aggop.Op) (Value, error) {
	switch col.Type() {
	case coltype.Int32, coltype.Int64:
		vals, err := asInt64Slice(col)
		if err != nil {
			return Value{}, err
		}
		return fusedInt(vals, op, lit, aggOp, col)
	case coltype.Float32, coltype.Float64:
		vals, err := floats64(col)
		if err != nil {
			return Value{}, err
		}
		return fusedFloat(vals, op, lit, aggOp, col)
	default:
		return Value{}, fmt.Errorf("kernel: FusedFilterAgg unsupported on column type %s", col.Type())
	}
}
