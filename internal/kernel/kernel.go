package kernel

import (
	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/kernel/backend"
)

// Set is the kernel set every backend implements (spec.md §4.4): the five
// aggregates, the comparison filter, and the fused filter+aggregate that
// skips materializing an intermediate bitmap or filtered column.
type Set interface {
	Sum(col column.Column) (Value, error)
	Min(col column.Column) (Value, error)
	Max(col column.Column) (Value, error)
	Count(col column.Column) (Value, error)
	Avg(col column.Column) (Value, error)
	Filter(col column.Column, op aggop.CompareOp, lit Literal) (*column.BitmapColumn, error)
	FusedFilterAgg(col column.Column, op aggop.CompareOp, lit Literal, aggOp aggop.Op) (Value, error)
}

// For returns the kernel Set implementing b. It never fails: every Backend
// value names a concrete implementation below.
func For(b backend.Backend) Set {
	switch b {
	case backend.Scalar:
		return scalarSet{}
	case backend.VectorCpu:
		return vectorCpuSet{}
	case backend.Accelerator:
		return acceleratorSet{}
	default:
		return scalarSet{}
	}
}
