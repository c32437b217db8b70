package kernel

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/kernel/backend"
	"github.com/truenodb/trueno/internal/xerr"
)

// kernelTemplate is the deterministic text substituted per compiled kernel
// (spec.md §4.5). The JIT here doesn't emit machine code, but it generates
// and validates the kernel descriptor exactly the way a text-substitution
// JIT would: a bad operator/type combination fails compilation instead of
// misbehaving silently at execution time.
var kernelTemplate = template.Must(template.New("kernel").Parse(
	`fused({{.OperandType}}) = {{.AggOp}}(col) WHERE col {{.PredOp}} {{.Threshold}}`,
))

// TemplateParams identifies one compiled kernel: the fused filter+aggregate
// over one operand type, one predicate operator, one aggregate operator,
// bound to one threshold constant — together the cache key (spec.md §4.5).
type TemplateParams struct {
	AggOp       aggop.Op
	PredOp      aggop.CompareOp
	OperandType coltype.Type
	Threshold   Literal
}

func (p TemplateParams) cacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%d|%g", p.AggOp, p.PredOp, p.OperandType, p.Threshold.I, p.Threshold.F)
}

// CompiledKernel is a cached, ready-to-invoke fused filter+aggregate kernel
// bound to one Backend and one TemplateParams.
type CompiledKernel struct {
	Params  TemplateParams
	Backend backend.Backend
	source  string
}

// Source returns the rendered template text, exposed for diagnostics/tests.
func (k *CompiledKernel) Source() string { return k.source }

// Run invokes the compiled kernel against a concrete column, dispatching to
// the bound backend's fused kernel implementation.
func (k *CompiledKernel) Run(col column.Column) (Value, error) {
	return For(k.Backend).FusedFilterAgg(col, k.Params.PredOp, k.Params.Threshold, k.Params.AggOp)
}

// Compile renders the kernel template for params and validates the
// operator/type combination, returning xerr.CompileError for anything the
// kernel set cannot execute (spec.md §4.5, §7): MIN/MAX/SUM/AVG/COUNT and
// the six comparisons are defined over Int32/Int64/Float32/Float64 only —
// no String/Bool aggregation or filtering through this path.
func Compile(b backend.Backend, params TemplateParams) (*CompiledKernel, error) {
	var buf bytes.Buffer
	if err := kernelTemplate.Execute(&buf, params); err != nil {
		return nil, xerr.Wrap(xerr.CompileError, "render kernel template", err)
	}
	if !params.OperandType.Numeric() {
		return nil, xerr.Wrap(xerr.CompileError, fmt.Sprintf("operand type %s is not numeric", params.OperandType), nil)
	}
	switch params.PredOp {
	case aggop.LT, aggop.LE, aggop.EQ, aggop.NE, aggop.GE, aggop.GT:
	default:
		return nil, xerr.Wrap(xerr.CompileError, fmt.Sprintf("unknown predicate operator %q", params.PredOp), nil)
	}
	switch params.AggOp {
	case aggop.Sum, aggop.Avg, aggop.Count, aggop.Min, aggop.Max:
	default:
		return nil, xerr.Wrap(xerr.CompileError, fmt.Sprintf("unknown aggregate operator %q", params.AggOp), nil)
	}
	return &CompiledKernel{Params: params, Backend: b, source: buf.String()}, nil
}
