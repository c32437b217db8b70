package kernel

import (
	"fmt"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
)

// workgroupWidth simulates the accelerator's compute-shader workgroup size
// (spec.md §4.4.5): the column is partitioned into workgroupWidth-element
// groups, each reduced independently, then combined across groups.
const workgroupWidth = 256

// acceleratorWorkers bounds how many workgroups run concurrently; real
// hardware runs them on independent compute units, this simulates that with
// a goroutine pool of the same shape as the vector-CPU backend's.
const acceleratorWorkers = 16

type acceleratorSet struct{}

func (acceleratorSet) Sum(col column.Column) (Value, error) {
	switch c := col.(type) {
	case *column.Int32Column:
		return IntValue(int64(acceleratorSumInt32(c.Values()))), nil
	case *column.Int64Column:
		return IntValue(acceleratorSumInt64(c.Values())), nil
	case *column.Float32Column, *column.Float64Column:
		vals, err := floats64(col)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(acceleratorSumFloat(vals)), nil
	default:
		return Value{}, fmt.Errorf("kernel: Sum unsupported on column type %s", col.Type())
	}
}

// acceleratorSumInt32 partitions vals into workgroups, reduces each
// workgroup with sumWrapInt32 (two's-complement wrap at 32-bit width, same
// as the unfused scalar/vector-CPU path), and combines every workgroup's
// wrapped partial with a single atomic 32-bit accumulator. Addition mod
// 2^32 is commutative and associative, so the unordered atomic combine is
// safe and stays bit-identical to the sequential scalar result regardless
// of workgroup grouping (spec.md §4.4.1, §8 scenario 2).
func acceleratorSumInt32(vals []int32) int32 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	groups := workgroupCount(n)
	var total atomic.Int32

	p := pool.New().WithMaxGoroutines(acceleratorWorkers)
	for g := 0; g < groups; g++ {
		g := g
		p.Go(func() {
			start, end := workgroupBounds(g, n)
			total.Add(sumWrapInt32(vals[start:end]))
		})
	}
	p.Wait()
	return total.Load()
}

// acceleratorSumInt64 is acceleratorSumInt32's 64-bit-width counterpart.
func acceleratorSumInt64(vals []int64) int64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	groups := workgroupCount(n)
	var total atomic.Int64

	p := pool.New().WithMaxGoroutines(acceleratorWorkers)
	for g := 0; g < groups; g++ {
		g := g
		p.Go(func() {
			start, end := workgroupBounds(g, n)
			total.Add(sumWrapInt64(vals[start:end]))
		})
	}
	p.Wait()
	return total.Load()
}

// acceleratorSumFloat computes each workgroup's local sum with TreeSum
// (modeling the in-group parallel reduction tree), stores every group's
// partial into a pre-sized slot indexed by group number — so the result
// never depends on goroutine completion order — and folds the slots with
// one final TreeSum pass (spec.md §4.4.5).
func acceleratorSumFloat(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	groups := workgroupCount(n)
	partials := make([]float64, groups)

	p := pool.New().WithMaxGoroutines(acceleratorWorkers)
	for g := 0; g < groups; g++ {
		g := g
		p.Go(func() {
			start, end := workgroupBounds(g, n)
			partials[g] = TreeSum(vals[start:end])
		})
	}
	p.Wait()
	return TreeSum(partials)
}

func workgroupCount(n int) int {
	return (n + workgroupWidth - 1) / workgroupWidth
}

func workgroupBounds(g, n int) (start, end int) {
	start = g * workgroupWidth
	end = start + workgroupWidth
	if end > n {
		end = n
	}
	return
}

func (acceleratorSet) Min(col column.Column) (Value, error) {
	return scalarMinMax(col, aggop.Min)
}

func (acceleratorSet) Max(col column.Column) (Value, error) {
	return scalarMinMax(col, aggop.Max)
}

func (acceleratorSet) Count(col column.Column) (Value, error) {
	return IntValue(int64(col.Len())), nil
}

func (a acceleratorSet) Avg(col column.Column) (Value, error) {
	if col.Len() == 0 {
		return Value{}, emptyAggregateErr(aggop.Avg, col)
	}
	sum, err := a.Sum(col)
	if err != nil {
		return Value{}, err
	}
	n := float64(col.Len())
	if col.Type().Float() {
		return FloatValue(sum.F64 / n), nil
	}
	return FloatValue(float64(sum.I64) / n), nil
}

func (acceleratorSet) Filter(col column.Column, op aggop.CompareOp, lit Literal) (*column.BitmapColumn, error) {
	return genericFilter(col, op, lit)
}

func (a acceleratorSet) FusedFilterAgg(col column.Column, op aggop.CompareOp, lit Literal, aggOp aggop.Op) (Value, error) {
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
