package kernel

import (
	"fmt"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
)

// scalarSet is the reference backend: a single sequential pass per
// aggregate, no parallelism, no compensation beyond plain Kahan summation
// for floats. Every other backend's result is checked against this one
// under the cross-backend equivalence rules (spec.md §4.4, §8).
type scalarSet struct{}

func (scalarSet) Sum(col column.Column) (Value, error) {
	switch c := col.(type) {
	case *column.Int32Column:
		return IntValue(int64(sumWrapInt32(c.Values()))), nil
	case *column.Int64Column:
		return IntValue(sumWrapInt64(c.Values())), nil
	case *column.Float32Column, *column.Float64Column:
		vals, err := floats64(col)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(KahanSum(vals)), nil
	default:
		return Value{}, fmt.Errorf("kernel: Sum unsupported on column type %s", col.Type())
	}
}

func (scalarSet) Min(col column.Column) (Value, error) {
	return scalarMinMax(col, aggop.Min)
}

func (scalarSet) Max(col column.Column) (Value, error) {
	return scalarMinMax(col, aggop.Max)
}

func scalarMinMax(col column.Column, op aggop.Op) (Value, error) {
	if col.Len() == 0 {
		return Value{}, emptyAggregateErr(op, col)
	}
	switch c := col.(type) {
	case *column.Int32Column:
		lo, hi := minMaxInt32(c.Values())
		if op == aggop.Min {
			return IntValue(int64(lo)).Typed(coltype.Int32), nil
		}
		return IntValue(int64(hi)).Typed(coltype.Int32), nil
	case *column.Int64Column:
		lo, hi := minMaxInt64(c.Values())
		if op == aggop.Min {
			return IntValue(lo), nil
		}
		return IntValue(hi), nil
	case *column.Float32Column, *column.Float64Column:
		vals, err := floats64(col)
		if err != nil {
			return Value{}, err
		}
		lo, hi := minMaxFloat(vals)
		if op == aggop.Min {
			return FloatValue(lo).Typed(col.Type()), nil
		}
		return FloatValue(hi).Typed(col.Type()), nil
	default:
		return Value{}, fmt.Errorf("kernel: %s unsupported on column type %s", op, col.Type())
	}
}

func (scalarSet) Count(col column.Column) (Value, error) {
	return IntValue(int64(col.Len())), nil
}

func (scalarSet) Avg(col column.Column) (Value, error) {
	if col.Len() == 0 {
		return Value{}, emptyAggregateErr(aggop.Avg, col)
	}
	vals, err := floats64(col)
	if err != nil {
		// Integer columns still average to a float result (spec.md §4.4.1).
		ivals, ierr := asInt64Slice(col)
		if ierr != nil {
			return Value{}, err
		}
		vals = make([]float64, len(ivals))
		for i, v := range ivals {
			vals[i] = float64(v)
		}
	}
	return FloatValue(KahanSum(vals) / float64(len(vals))), nil
}

func (scalarSet) Filter(col column.Column, op aggop.CompareOp, lit Literal) (*column.BitmapColumn, error) {
	return genericFilter(col, op, lit)
}

func (s scalarSet) FusedFilterAgg(col column.Column, op aggop.CompareOp, lit Literal, aggOp aggop.Op) (Value, error) {
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

// fusedInt implements the §4.4.4 fused path for integer columns: one pass
// evaluating the predicate and folding into the aggregate, no intermediate
// bitmap or filtered column ever materialized. SUM/AVG accumulate in the
// column's own element width — wrapping at 32 bits for an Int32 column,
// exactly as the unfused sumWrapInt32 path does — so a fused filter+SUM
// never diverges from filter-then-SUM just because the matched subset
// overflows int32 (spec.md §4.4.4, SPEC_FULL OQ#3).
func fusedInt(vals []int64, op aggop.CompareOp, lit Literal, aggOp aggop.Op, col column.Column) (Value, error) {
	wrap32 := col.Type() == coltype.Int32
	var sum int64
	var sum32 int32
	var count int64
	var lo, hi int64
	haveExtreme := false
	for _, v := range vals {
		if !compareInt64(v, op, lit.I) {
			continue
		}
		if wrap32 {
			sum32 += int32(v)
		} else {
			sum += v
		}
		count++
		if !haveExtreme {
			lo, hi = v, v
			haveExtreme = true
		} else {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if wrap32 {
		sum = int64(sum32)
	}
	switch aggOp {
	case aggop.Count:
		return IntValue(count), nil
	case aggop.Sum:
		return IntValue(sum), nil
	case aggop.Avg:
		if count == 0 {
			return Value{}, emptyAggregateErr(aggOp, col)
		}
		return FloatValue(float64(sum) / float64(count)), nil
	case aggop.Min:
		if !haveExtreme {
			return Value{}, emptyAggregateErr(aggOp, col)
		}
		return IntValue(lo).Typed(col.Type()), nil
	case aggop.Max:
		if !haveExtreme {
			return Value{}, emptyAggregateErr(aggOp, col)
		}
		return IntValue(hi).Typed(col.Type()), nil
	default:
		return Value{}, fmt.Errorf("kernel: unknown aggregate op %s", aggOp)
	}
}

func fusedFloat(vals []float64, op aggop.CompareOp, lit Literal, aggOp aggop.Op, col column.Column) (Value, error) {
	matched := make([]float64, 0, len(vals))
	for _, v := range vals {
		if compareFloat(v, op, lit.F) {
			matched = append(matched, v)
		}
	}
	switch aggOp {
	case aggop.Count:
		return IntValue(int64(len(matched))), nil
	case aggop.Sum:
		return FloatValue(KahanSum(matched)), nil
	case aggop.Avg:
		if len(matched) == 0 {
			return Value{}, emptyAggregateErr(aggOp, col)
		}
		return FloatValue(KahanSum(matched) / float64(len(matched))), nil
	case aggop.Min, aggop.Max:
		if len(matched) == 0 {
			return Value{}, emptyAggregateErr(aggOp, col)
		}
		lo, hi := minMaxFloat(matched)
		if aggOp == aggop.Min {
			return FloatValue(lo).Typed(col.Type()), nil
		}
		return FloatValue(hi).Typed(col.Type()), nil
	default:
		return Value{}, fmt.Errorf("kernel: unknown aggregate op %s", aggOp)
	}
}
