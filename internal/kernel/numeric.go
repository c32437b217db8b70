package kernel

import (
	"fmt"
	"math"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/xerr"
)

// Number is the constraint satisfied by every fixed-width element type the
// kernel set aggregates or filters over (spec.md §4.4).
type Number interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// floats64 materializes any numeric column as a []float64, used by the
// float equivalence paths (Kahan/tree summation always operate in
// float64, matching the spec's "32/64-bit" float aggregates both routing
// through the same compensated path) and by PopulationSigma.
func floats64(col column.Column) ([]float64, error) {
	switch c := col.(type) {
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
		return nil, fmt.Errorf("kernel: column type %s is not float", col.Type())
	}
}

// sumWrapInt32 sums vals with two's-complement wrapping at 32-bit width
// (spec.md §4.4.1, and the Open Question decision in SPEC_FULL.md: wrap,
// never widen, before the final cast to the Int64 output column).
func sumWrapInt32(vals []int32) int32 {
	var sum int32
	for _, v := range vals {
		sum += v // Go's signed integer overflow wraps silently, matching two's-complement semantics.
	}
	return sum
}

func sumWrapInt64(vals []int64) int64 {
	var sum int64
	for _, v := range vals {
		sum += v
	}
	return sum
}

// minMaxInt32 returns (min, max) of vals. Callers must check len(vals)>0.
func minMaxInt32(vals []int32) (min, max int32) {
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return
}

func minMaxInt64(vals []int64) (min, max int64) {
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return
}

// minMaxFloat returns (min, max) of vals, with NaN propagation: any NaN
// input makes both outputs NaN (spec.md §4.4.2).
func minMaxFloat(vals []float64) (min, max float64) {
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if math.IsNaN(v) {
			return math.NaN(), math.NaN()
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if math.IsNaN(min) {
		return math.NaN(), math.NaN()
	}
	return
}

// compareFloat evaluates "lhs op rhs", returning false for any NaN operand
// regardless of op (spec.md §4.4.3 "NaN: any comparison involving NaN
// yields false"), including != (this engine does not use IEEE 754 NaN!=NaN
// semantics for the filter kernel — NaN never participates in a result).
func compareFloat(lhs float64, op aggop.CompareOp, rhs float64) bool {
	if math.IsNaN(lhs) || math.IsNaN(rhs) {
		return false
	}
	switch op {
	case aggop.LT:
		return lhs < rhs
	case aggop.LE:
		return lhs <= rhs
	case aggop.EQ:
		return lhs == rhs
	case aggop.NE:
		return lhs != rhs
	case aggop.GE:
		return lhs >= rhs
	case aggop.GT:
		return lhs > rhs
	default:
		return false
	}
}

func compareInt64(lhs int64, op aggop.CompareOp, rhs int64) bool {
	switch op {
	case aggop.LT:
		return lhs < rhs
	case aggop.LE:
		return lhs <= rhs
	case aggop.EQ:
		return lhs == rhs
	case aggop.NE:
		return lhs != rhs
	case aggop.GE:
		return lhs >= rhs
	case aggop.GT:
		return lhs > rhs
	default:
		return false
	}
}

// asInt64Slice widens an Int32 or Int64 column to []int64 for filtering,
// which only needs comparison, not the wrap-sensitive SUM path.
func asInt64Slice(col column.Column) ([]int64, error) {
	switch c := col.(type) {
	case *column.Int32Column:
		vals := c.Values()
		out := make([]int64, len(vals))
		for i, v := range vals {
			out[i] = int64(v)
		}
		return out, nil
	case *column.Int64Column:
		return c.Values(), nil
	default:
		return nil, fmt.Errorf("kernel: column type %s is not integer", col.Type())
	}
}

// emptyAggregateErr builds the xerr.EmptyAggregate failure for MIN/MAX over
// a zero-length column (spec.md §4.4.1: "empty input fails with
// EmptyAggregate").
func emptyAggregateErr(op aggop.Op, col column.Column) error {
	return xerr.Wrap(xerr.EmptyAggregate, fmt.Sprintf("%s over empty %s column", op, col.Type()), nil)
}

// genericFilter evaluates "col[i] op literal" elementwise using the
// comparison appropriate to col's type, returning the §4.4.3 bitmap.
func genericFilter(col column.Column, op aggop.CompareOp, lit Literal) (*column.BitmapColumn, error) {
	n := col.Len()
	out := make([]bool, n)
	switch col.Type() {
	case coltype.Int32, coltype.Int64:
		vals, err := asInt64Slice(col)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			out[i] = compareInt64(v, op, lit.I)
		}
	case coltype.Float32, coltype.Float64:
		vals, err := floats64(col)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			out[i] = compareFloat(v, op, lit.F)
		}
	default:
		return nil, fmt.Errorf("kernel: filter unsupported on column type %s", col.Type())
	}
	return column.NewBitmapColumn(out), nil
}

// predicateHolds evaluates the filter predicate for a single element,
// shared by the fused filter+aggregate kernels (spec.md §4.4.4) so the
// predicate logic never drifts from genericFilter's elementwise result.
func predicateHolds(colType coltype.Type, intVal int64, floatVal float64, op aggop.CompareOp, lit Literal) bool {
	if colType.Float() {
		return compareFloat(floatVal, op, lit.F)
	}
	return compareInt64(intVal, op, lit.I)
}
