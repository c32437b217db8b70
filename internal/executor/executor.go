// Package executor implements the Query Executor of spec.md §4.7: it
// drives a validated plan's projection, filter, aggregates, and Top-K over
// a table's morsel stream, selecting a backend per morsel via the
// dispatcher and falling back one tier on BackendUnavailable.
package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/dispatch"
	"github.com/truenodb/trueno/internal/kernel"
	"github.com/truenodb/trueno/internal/kernel/backend"
	"github.com/truenodb/trueno/internal/plan"
	"github.com/truenodb/trueno/internal/queue"
	"github.com/truenodb/trueno/internal/schema"
	"github.com/truenodb/trueno/internal/table"
	"github.com/truenodb/trueno/internal/topk"
	"github.com/truenodb/trueno/internal/xerr"
)

// defaultTransferCap is spec.md §6.3's TRANSFER_CAP default.
const defaultTransferCap = 2

// Executor runs validated plans against a table (spec.md §4.7).
type Executor struct {
	Dispatcher  *dispatch.Dispatcher
	Cache       *kernel.Cache
	MorselLimit int
	// TransferCap bounds the transfer queue every run streams morsels
	// through (spec.md §4.2, §6.3 TRANSFER_CAP). Zero means
	// defaultTransferCap.
	TransferCap int
}

// New returns an Executor with its own dispatcher and kernel cache.
func New(morselLimit int) *Executor {
	return &Executor{Dispatcher: dispatch.New(), Cache: kernel.NewCache(), MorselLimit: morselLimit}
}

func (e *Executor) transferCap() int {
	if e.TransferCap > 0 {
		return e.TransferCap
	}
	return defaultTransferCap
}

// streamMorsels feeds t's morsels into a bounded transfer queue from a
// dedicated producer goroutine, pinning at most transferCap() morsels
// in flight regardless of how fast the table can produce them (spec.md
// §4.2, §9 "Backpressure via bounded queue"). The producer closes the
// queue once the table is exhausted, or if ctx is cancelled first; a
// caller that dequeues until ok is false does not need to poll ctx on
// every iteration to observe that closure.
func (e *Executor) streamMorsels(ctx context.Context, t *table.Table) *queue.TransferQueue {
	q := queue.New(e.transferCap())
	go func() {
		it := t.Morsels(e.MorselLimit)
		for {
			select {
			case <-ctx.Done():
				q.Close()
				return
			default:
			}
			m, ok := it.Next()
			if !ok {
				q.Close()
				return
			}
			if err := q.Enqueue(m); err != nil {
				// Queue closed (by a racing cancellation) while we were
				// waiting for room; nothing left to do but stop.
				return
			}
		}
	}()
	return q
}

// Run validates p against t's schema, then interprets it end to end
// (spec.md §4.7's four-step execution order). Partial results are never
// returned: any error discards whatever the current run had accumulated.
func (e *Executor) Run(ctx context.Context, t *table.Table, p *plan.Plan) (*batch.Batch, error) {
	s := t.Schema()
	if err := p.Validate(s); err != nil {
		return nil, err
	}
	projection := p.ResolvedProjection(s)

	if len(p.Aggregates) > 0 {
		return e.runAggregate(ctx, t, p, s)
	}
	return e.runRowwise(ctx, t, p, s, projection)
}

func (e *Executor) checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return xerr.Wrap(xerr.Cancelled, "executor run", ctx.Err())
	default:
		return nil
	}
}

func literalFromFilter(f *plan.Filter, t coltype.Type) kernel.Literal {
	if t.Float() {
		return kernel.FloatLiteral(t, f.FltVal)
	}
	return kernel.IntLiteral(t, f.IntVal)
}

// withFallback runs call against b; on xerr.BackendUnavail it retries once
// against b's fallback tier, surfacing whatever the retry returns (spec.md
// §7: "a single fallback attempt... if the fallback also fails... the
// error is surfaced").
func withFallback[T any](b backend.Backend, call func(backend.Backend) (T, error)) (T, error) {
	v, err := call(b)
	if err == nil || !errors.Is(err, xerr.BackendUnavail) {
		return v, err
	}
	fb, ok := b.Fallback()
	if !ok {
		return v, err
	}
	return call(fb)
}

// emptyProjected builds a zero-row batch over the resolved projection,
// used when a table (or a filtered/topk result) has no rows at all.
func emptyProjected(s schema.Schema, names []string) (*batch.Batch, error) {
	fields := make([]schema.Field, len(names))
	cols := make([]column.Column, len(names))
	for i, name := range names {
		f, ok := s.Field(name)
		if !ok {
			return nil, xerr.Wrap(xerr.InvalidInput, fmt.Sprintf("projected column %q not found", name), nil)
		}
		fields[i] = f
		switch f.Type {
		case coltype.Int32:
			cols[i] = column.NewInt32Column(nil)
		case coltype.Int64:
			cols[i] = column.NewInt64Column(nil)
		case coltype.Float32:
			cols[i] = column.NewFloat32Column(nil)
		case coltype.Float64:
			cols[i] = column.NewFloat64Column(nil)
		case coltype.String:
			cols[i] = column.NewStringColumn(nil)
		case coltype.Bool:
			cols[i] = column.NewBitmapColumn(nil)
		}
	}
	return batch.New(schema.New(fields...), cols)
}

// trueIndices returns the row indices where bm is set, in ascending order.
func trueIndices(bm *column.BitmapColumn) []int {
	var idxs []int
	for i := 0; i < bm.Len(); i++ {
		if bm.At(i) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func aggName(op aggop.Op, col string) string {
	return fmt.Sprintf("%s(%s)", op, col)
}
