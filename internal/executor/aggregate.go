package executor

import (
	"context"
	"errors"
	"math"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/kernel"
	"github.com/truenodb/trueno/internal/kernel/backend"
	"github.com/truenodb/trueno/internal/plan"
	"github.com/truenodb/trueno/internal/schema"
	"github.com/truenodb/trueno/internal/table"
	"github.com/truenodb/trueno/internal/xerr"
)

// accumulator folds per-morsel aggregate results into a single running
// value, matching spec.md §4.7 step 2c's combine functions: "sum adds, min
// takes minimum, max takes maximum, count adds, avg combines (sum,
// count)". AVG is tracked as a running (sum, count) pair rather than a
// running average, so morsel order never biases the final division.
type accumulator struct {
	op      aggop.Op
	column  string
	colType coltype.Type

	intSum     int64
	floatSum   float64
	floatC     float64 // Kahan compensation
	count      int64
	haveValue  bool
	intExtreme int64
	fltExtreme float64
}

func (a *accumulator) addSum(v kernel.Value) {
	if a.colType.Float() {
		a.floatSum, a.floatC = kernel.KahanCombine(a.floatSum, a.floatC, v.F64, 0)
	} else if a.colType == coltype.Int32 {
		a.intSum = int64(int32(a.intSum) + int32(v.I64))
	} else {
		a.intSum += v.I64
	}
	a.haveValue = true
}

func (a *accumulator) addCount(v kernel.Value) {
	a.count += v.I64
	a.haveValue = true
}

func (a *accumulator) addExtreme(v kernel.Value) {
	if a.colType.Float() {
		if !a.haveValue {
			a.fltExtreme = v.F64
		} else if math.IsNaN(v.F64) || math.IsNaN(a.fltExtreme) {
			a.fltExtreme = math.NaN()
		} else if (a.op == aggop.Min && v.F64 < a.fltExtreme) || (a.op == aggop.Max && v.F64 > a.fltExtreme) {
			a.fltExtreme = v.F64
		}
	} else {
		if !a.haveValue || (a.op == aggop.Min && v.I64 < a.intExtreme) || (a.op == aggop.Max && v.I64 > a.intExtreme) {
			a.intExtreme = v.I64
		}
	}
	a.haveValue = true
}

// finish produces the accumulator's final kernel.Value, or EmptyAggregate
// if MIN/MAX/AVG never saw a contributing row (spec.md §4.4.1, §7).
func (a *accumulator) finish() (kernel.Value, error) {
	switch a.op {
	case aggop.Count:
		return kernel.IntValue(a.count), nil
	case aggop.Sum:
		if a.colType.Float() {
			return kernel.FloatValue(a.floatSum), nil
		}
		return kernel.IntValue(a.intSum), nil
	case aggop.Avg:
		if a.count == 0 {
			return kernel.Value{}, xerr.Wrap(xerr.EmptyAggregate, "AVG("+a.column+")", nil)
		}
		sum := a.floatSum
		if !a.colType.Float() {
			sum = float64(a.intSum)
		}
		return kernel.FloatValue(sum / float64(a.count)), nil
	case aggop.Min, aggop.Max:
		if !a.haveValue {
			return kernel.Value{}, xerr.Wrap(xerr.EmptyAggregate, string(a.op)+"("+a.column+")", nil)
		}
		if a.colType.Float() {
			return kernel.FloatValue(a.fltExtreme).Typed(a.colType), nil
		}
		return kernel.IntValue(a.intExtreme).Typed(a.colType), nil
	default:
		return kernel.Value{}, xerr.Wrap(xerr.ExecutionFailed, "unknown aggregate op "+string(a.op), nil)
	}
}

// runAggregate handles plan.Plan execution steps 2a (filter+aggregate,
// fused) and 2c (aggregate only) — spec.md §4.7 — producing the single
// result row every aggregate plan yields.
func (e *Executor) runAggregate(ctx context.Context, t *table.Table, p *plan.Plan, s schema.Schema) (*batch.Batch, error) {
	accs := make([]*accumulator, len(p.Aggregates))
	for i, a := range p.Aggregates {
		f, _ := s.Field(a.Column)
		accs[i] = &accumulator{op: a.Op, column: a.Column, colType: f.Type}
	}

	q := e.streamMorsels(ctx, t)
	defer q.Close() // idempotent; unblocks the producer on any early return
	for {
		if err := e.checkCancelled(ctx); err != nil {
			return nil, err
		}
		morsel, ok := q.Dequeue()
		if !ok {
			break
		}
		for i, a := range p.Aggregates {
			if err := e.accumulateOne(morsel, a, p.Filter, accs[i]); err != nil {
				return nil, err
			}
		}
	}

	return buildAggregateResult(p.Aggregates, accs)
}

// accumulateOne folds one morsel's contribution for one aggregate into
// acc. AVG is always decomposed into SUM and COUNT sub-calls so cross-
// morsel combination never has to re-derive them from a lossy per-morsel
// average (spec.md §4.7 step 2c).
func (e *Executor) accumulateOne(morsel *batch.Batch, a plan.Aggregate, filter *plan.Filter, acc *accumulator) error {
	subOps := []aggop.Op{a.Op}
	if a.Op == aggop.Avg {
		subOps = []aggop.Op{aggop.Sum, aggop.Count}
	}
	for _, sub := range subOps {
		v, skip, err := e.runOneAggregate(morsel, a.Column, sub, filter)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		switch sub {
		case aggop.Sum:
			acc.addSum(v)
		case aggop.Count:
			acc.addCount(v)
		case aggop.Min, aggop.Max:
			acc.addExtreme(v)
		}
	}
	return nil
}

// runOneAggregate runs a single aggregate op (possibly fused with filter)
// over one morsel, dispatching to a backend and falling back one tier on
// BackendUnavailable. skip is true when the morsel contributed zero
// matching rows to a MIN/MAX/AVG-decomposed aggregate — not a failure, just
// nothing to combine from this morsel (spec.md §4.4.1's EmptyAggregate is
// about the *overall* input, not a single morsel's filtered subset).
func (e *Executor) runOneAggregate(morsel *batch.Batch, colName string, op aggop.Op, filter *plan.Filter) (kernel.Value, bool, error) {
	col := morsel.ColumnByName(colName)
	estFlops := dispatchFlopsForAgg(op, col.Len())
	b := e.Dispatcher.Select(int64(col.ByteSize()), estFlops)

	var v kernel.Value
	var err error
	if filter != nil {
		lit := literalFromFilter(filter, filterColumnType(morsel, filter))
		ck, cerr := e.Cache.GetOrCompile(b, kernel.TemplateParams{
			AggOp: op, PredOp: filter.Op, OperandType: col.Type(), Threshold: lit,
		})
		if cerr != nil {
			return kernel.Value{}, false, cerr
		}
		v, err = withFallback(ck.Backend, func(bk backend.Backend) (kernel.Value, error) {
			return kernel.For(bk).FusedFilterAgg(col, filter.Op, lit, op)
		})
	} else {
		v, err = withFallback(b, func(bk backend.Backend) (kernel.Value, error) {
			return runPlainAgg(kernel.For(bk), op, col)
		})
	}

	if err != nil {
		if (op == aggop.Min || op == aggop.Max || op == aggop.Avg) && errors.Is(err, xerr.EmptyAggregate) {
			return kernel.Value{}, true, nil
		}
		return kernel.Value{}, false, err
	}
	return v, false, nil
}

func runPlainAgg(set kernel.Set, op aggop.Op, col column.Column) (kernel.Value, error) {
	switch op {
	case aggop.Sum:
		return set.Sum(col)
	case aggop.Count:
		return set.Count(col)
	case aggop.Min:
		return set.Min(col)
	case aggop.Max:
		return set.Max(col)
	case aggop.Avg:
		return set.Avg(col)
	default:
		return kernel.Value{}, xerr.Wrap(xerr.ExecutionFailed, "unknown aggregate op "+string(op), nil)
	}
}

func filterColumnType(morsel *batch.Batch, f *plan.Filter) coltype.Type {
	return morsel.ColumnByName(f.Column).Type()
}

func dispatchFlopsForAgg(op aggop.Op, n int) float64 {
	return op.FlopsPerElement() * float64(n)
}

func buildAggregateResult(aggs []plan.Aggregate, accs []*accumulator) (*batch.Batch, error) {
	fields := make([]schema.Field, len(aggs))
	cols := make([]column.Column, len(aggs))
	for i, a := range aggs {
		val, err := accs[i].finish()
		if err != nil {
			return nil, err
		}
		outType := valueOutputType(a.Op, accs[i].colType)
		fields[i] = schema.Field{Name: aggName(a.Op, a.Column), Type: outType}
		cols[i] = valueColumn(val, outType)
	}
	return batch.New(schema.New(fields...), cols)
}

// valueOutputType picks the result column's type: COUNT is always Int64,
// AVG is always Float64, SUM widens to Int64/Float64, MIN/MAX preserve the
// input column's type (spec.md §8 scenario 1, kernel.Value's doc comment).
func valueOutputType(op aggop.Op, inputType coltype.Type) coltype.Type {
	switch op {
	case aggop.Count:
		return coltype.Int64
	case aggop.Avg:
		return coltype.Float64
	case aggop.Sum:
		if inputType.Float() {
			return coltype.Float64
		}
		return coltype.Int64
	default: // Min, Max
		return inputType
	}
}

func valueColumn(v kernel.Value, t coltype.Type) column.Column {
	switch t {
	case coltype.Int32:
		return column.NewInt32Column([]int32{int32(v.I64)})
	case coltype.Int64:
		return column.NewInt64Column([]int64{v.I64})
	case coltype.Float32:
		return column.NewFloat32Column([]float32{float32(v.F64)})
	case coltype.Float64:
		return column.NewFloat64Column([]float64{v.F64})
	default:
		return column.NewInt64Column([]int64{v.I64})
	}
}
