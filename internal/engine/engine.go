package engine

import (
	"context"

	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/executor"
	"github.com/truenodb/trueno/internal/kernel"
	"github.com/truenodb/trueno/internal/plan"
	"github.com/truenodb/trueno/internal/schema"
	"github.com/truenodb/trueno/internal/sqlplan"
	"github.com/truenodb/trueno/internal/table"
)

// Engine owns one table and the executor that runs plans against it — the
// engine's single embeddable unit, analogous to the teacher's per-command
// connect-then-analyze sequence but held open across many queries instead
// of built fresh per invocation.
type Engine struct {
	cfg Config
	tbl *table.Table
	ex  *executor.Executor
}

// New creates an Engine over an empty table of schema s, using cfg's
// resolved knobs.
func New(s schema.Schema, cfg Config) *Engine {
	cfg = cfg.Resolve()
	return &Engine{
		cfg: cfg,
		tbl: table.New(s),
		ex: &executor.Executor{
			Dispatcher:  cfg.dispatcher(),
			Cache:       kernel.NewCache(),
			MorselLimit: cfg.MorselLimit,
			TransferCap: cfg.TransferCap,
		},
	}
}

// Schema returns the engine's table schema.
func (e *Engine) Schema() schema.Schema { return e.tbl.Schema() }

// NumRows returns the total row count ingested so far.
func (e *Engine) NumRows() int { return e.tbl.NumRows() }

// Load appends b to the engine's table. b's schema must match exactly
// (spec.md §3.3).
func (e *Engine) Load(b *batch.Batch) error {
	return e.tbl.Append(b)
}

// LoadAll appends every batch in bs, stopping at the first error (the
// table is left with whichever prefix succeeded).
func (e *Engine) LoadAll(bs []*batch.Batch) error {
	for _, b := range bs {
		if err := e.Load(b); err != nil {
			return err
		}
	}
	return nil
}

// Run executes a validated Plan against the engine's table.
func (e *Engine) Run(ctx context.Context, p *plan.Plan) (*batch.Batch, error) {
	return e.ex.Run(ctx, e.tbl, p)
}

// Query parses sql with the engine's SQL subset and runs it.
func (e *Engine) Query(ctx context.Context, sql string) (*batch.Batch, error) {
	p, err := sqlplan.Parse(sql)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, p)
}
