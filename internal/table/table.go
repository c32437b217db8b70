// Package table implements the append-only batch store and morsel iterator
// of spec.md §3.3, §3.4, §4.1.
package table

import (
	"fmt"
	"sync"

	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/schema"
	"github.com/truenodb/trueno/internal/xerr"
)

// Table owns an ordered sequence of batches sharing one schema. Append is
// the only mutation; there is no row-level update or delete (spec.md §3.3).
type Table struct {
	mu      sync.Mutex
	schema  schema.Schema
	batches []*batch.Batch
}

// New creates an empty table with the given schema.
func New(s schema.Schema) *Table {
	return &Table{schema: s}
}

// Schema returns the table's schema.
func (t *Table) Schema() schema.Schema {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.schema
}

// Append adds batch b to the end of the table. It fails with
// xerr.SchemaMismatch if b's schema differs from the table's; on failure
// the table is left unchanged (spec.md §4.1).
func (t *Table) Append(b *batch.Batch) error {
	if !b.Schema().Equal(t.Schema()) {
		return xerr.Wrap(xerr.SchemaMismatch, fmt.Sprintf("append: batch schema %s, table schema %s", b.Schema(), t.Schema()), nil)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.batches = append(t.batches, b)
	return nil
}

// NumRows returns the total row count across all appended batches.
func (t *Table) NumRows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, b := range t.batches {
		n += b.NumRows()
	}
	return n
}

// Snapshot captures the table's current batch sequence for iteration.
// Subsequent appends are not observed by a Snapshot taken before them
// (spec.md §3.7, "Snapshot").
func (t *Table) Snapshot() []*batch.Batch {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*batch.Batch, len(t.batches))
	copy(out, t.batches)
	return out
}
