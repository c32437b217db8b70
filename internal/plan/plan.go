// Package plan defines the structurally-validated query plan of spec.md
// §3.6: a projection, an optional filter, optional aggregates, and an
// optional Top-K, each checked against a table schema before the executor
// ever touches a row.
package plan

import (
	"fmt"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/schema"
	"github.com/truenodb/trueno/internal/xerr"
)

// Filter is a single comparison predicate (column, comparison_op, constant).
type Filter struct {
	Column string
	Op     aggop.CompareOp
	IntVal int64
	FltVal float64
}

// Aggregate is one aggregate operator applied to one column.
type Aggregate struct {
	Op     aggop.Op
	Column string
}

// TopK selects the k extreme values of Column under Direction. Unbounded
// means "no LIMIT was given" (ORDER BY alone): the executor resolves K to
// the table's row count once it knows it, rather than sqlplan guessing.
type TopK struct {
	Column    string
	Direction aggop.Direction
	K         int
	Unbounded bool
}

// Plan is the engine's unit of query execution (spec.md §3.6). Projection
// of ["*"] means "every column of the schema, in schema order."
type Plan struct {
	Projection []string
	Filter     *Filter
	Aggregates []Aggregate
	TopK       *TopK
}

// Validate checks every invariant spec.md §3.6 requires before a Plan may
// be executed: referenced columns exist, aggregate/Top-K operands are
// numeric, k is non-negative. It never mutates p.
func (p *Plan) Validate(s schema.Schema) error {
	for _, name := range p.resolvedProjection(s) {
		if _, ok := s.Field(name); !ok {
			return xerr.Wrap(xerr.InvalidInput, fmt.Sprintf("projected column %q not found", name), nil)
		}
	}
	if p.Filter != nil {
		f, ok := s.Field(p.Filter.Column)
		if !ok {
			return xerr.Wrap(xerr.InvalidInput, fmt.Sprintf("filter column %q not found", p.Filter.Column), nil)
		}
		if !f.Type.Numeric() {
			return xerr.Wrap(xerr.InvalidInput, fmt.Sprintf("filter column %q is not numeric", p.Filter.Column), nil)
		}
	}
	for _, agg := range p.Aggregates {
		f, ok := s.Field(agg.Column)
		if !ok {
			return xerr.Wrap(xerr.InvalidInput, fmt.Sprintf("aggregate column %q not found", agg.Column), nil)
		}
		if !f.Type.Numeric() {
			return xerr.Wrap(xerr.InvalidInput, fmt.Sprintf("aggregate column %q is not numeric", agg.Column), nil)
		}
	}
	if p.TopK != nil {
		if !p.TopK.Unbounded && p.TopK.K < 0 {
			return xerr.Wrap(xerr.InvalidInput, fmt.Sprintf("top-k k=%d must be >= 0", p.TopK.K), nil)
		}
		f, ok := s.Field(p.TopK.Column)
		if !ok {
			return xerr.Wrap(xerr.InvalidInput, fmt.Sprintf("top-k column %q not found", p.TopK.Column), nil)
		}
		if !f.Type.Numeric() {
			return xerr.Wrap(xerr.InvalidInput, fmt.Sprintf("top-k column %q is not numeric", p.TopK.Column), nil)
		}
	}
	return nil
}

// ResolvedProjection returns the projection list with "*" expanded to every
// schema field in declared order.
func (p *Plan) ResolvedProjection(s schema.Schema) []string {
	return p.resolvedProjection(s)
}

func (p *Plan) resolvedProjection(s schema.Schema) []string {
	if len(p.Projection) == 1 && p.Projection[0] == "*" {
		return s.Names()
	}
	return p.Projection
}
