package executor

import (
	"context"

	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/kernel"
	"github.com/truenodb/trueno/internal/kernel/backend"
	"github.com/truenodb/trueno/internal/plan"
	"github.com/truenodb/trueno/internal/schema"
	"github.com/truenodb/trueno/internal/table"
	"github.com/truenodb/trueno/internal/topk"
)

// runRowwise handles plan.Plan execution steps 2b (filter only) and 2d
// (projection only) — spec.md §4.7 — plus Top-K over the accumulated
// result once streaming finishes.
func (e *Executor) runRowwise(ctx context.Context, t *table.Table, p *plan.Plan, s schema.Schema, projection []string) (*batch.Batch, error) {
	q := e.streamMorsels(ctx, t)
	defer q.Close() // idempotent; unblocks the producer on any early return
	var parts []*batch.Batch

	for {
		if err := e.checkCancelled(ctx); err != nil {
			return nil, err
		}
		morsel, ok := q.Dequeue()
		if !ok {
			break
		}
		if p.Filter != nil {
			kept, err := e.filterMorsel(morsel, p.Filter)
			if err != nil {
				return nil, err
			}
			if kept.NumRows() == 0 {
				continue
			}
			projected, err := kept.Project(projection)
			if err != nil {
				return nil, err
			}
			parts = append(parts, projected)
			continue
		}
		projected, err := morsel.Project(projection)
		if err != nil {
			return nil, err
		}
		parts = append(parts, projected)
	}

	var result *batch.Batch
	var err error
	switch len(parts) {
	case 0:
		result, err = emptyProjected(s, projection)
	case 1:
		result = parts[0]
	default:
		result, err = batch.Concat(parts)
	}
	if err != nil {
		return nil, err
	}

	if p.TopK != nil {
		return e.applyTopK(result, p.TopK)
	}
	return result, nil
}

// filterMorsel evaluates the plan's filter over one morsel on a
// dispatcher-selected backend (falling back one tier on
// BackendUnavailable) and gathers the matching rows.
func (e *Executor) filterMorsel(morsel *batch.Batch, f *plan.Filter) (*batch.Batch, error) {
	col := morsel.ColumnByName(f.Column)
	lit := literalFromFilter(f, col.Type())
	estFlops := dispatchFlopsPerElement(col.Len())
	b := e.Dispatcher.Select(int64(col.ByteSize()), estFlops)

	bm, err := withFallback(b, func(bk backend.Backend) (*column.BitmapColumn, error) {
		return kernel.For(bk).Filter(col, f.Op, lit)
	})
	if err != nil {
		return nil, err
	}
	idxs := trueIndices(bm)
	return morsel.Gather(idxs)
}

func dispatchFlopsPerElement(n int) float64 {
	return float64(n) // one comparison per element
}

func (e *Executor) applyTopK(result *batch.Batch, tk *plan.TopK) (*batch.Batch, error) {
	k := tk.K
	if tk.Unbounded {
		k = result.NumRows()
	}
	col := result.ColumnByName(tk.Column)
	idxs, err := topk.Select(col, k, tk.Direction)
	if err != nil {
		return nil, err
	}
	return result.Gather(idxs)
}
