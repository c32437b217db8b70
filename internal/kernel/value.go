// Package kernel implements the three backend implementations of the
// kernel set (spec.md §4.4), the Kahan-summation helper, the JIT template
// engine and kernel cache (spec.md §4.5), and the cross-backend float
// equivalence test utility (spec.md §4.4.2, §8).
package kernel

import (
	"math"

	"github.com/truenodb/trueno/internal/coltype"
)

// Value is an aggregate result tagged with the output column type it
// belongs in. SUM/COUNT always widen their accumulator to Int64 for the
// output column (spec.md §8 scenario 1, "Expected SUM = 1,000,000 (as
// 64-bit)"); the wrapping arithmetic itself happens at the input column's
// native width first (spec.md's Open Question #3 decision: wrap, don't
// widen, before that final cast) so the widened value is a sign-extension
// of an already-wrapped narrower result. MIN/MAX preserve the input type.
// AVG is always Float64.
type Value struct {
	Type coltype.Type
	I64  int64
	F64  float64
}

func IntValue(v int64) Value     { return Value{Type: coltype.Int64, I64: v} }
func FloatValue(v float64) Value { return Value{Type: coltype.Float64, F64: v} }

// Typed returns v narrowed to t, used when MIN/MAX must preserve the input
// column's own type (Int32 stays Int32, etc).
func (v Value) Typed(t coltype.Type) Value {
	switch t {
	case coltype.Int32:
		return Value{Type: t, I64: int64(int32(v.I64))}
	case coltype.Int64:
		return Value{Type: t, I64: v.I64}
	case coltype.Float32:
		return Value{Type: t, F64: float64(float32(v.F64))}
	case coltype.Float64:
		return Value{Type: t, F64: v.F64}
	default:
		return v
	}
}

// IsNaN reports whether a float-typed value is NaN.
func (v Value) IsNaN() bool {
	return v.Type.Float() && math.IsNaN(v.F64)
}

// Literal is a typed scalar used as a filter constant (spec.md §3.6,
// §4.4.3). Int32/Int64 are compared at their own width (no float
// conversion, to avoid precision loss for large int64 constants); Float32/
// Float64 compare as float64.
type Literal struct {
	Type coltype.Type
	I    int64
	F    float64
}

func IntLiteral(t coltype.Type, v int64) Literal     { return Literal{Type: t, I: v} }
func FloatLiteral(t coltype.Type, v float64) Literal { return Literal{Type: t, F: v} }
