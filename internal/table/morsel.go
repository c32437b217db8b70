package table

import (
	"github.com/truenodb/trueno/internal/batch"
)

// MorselIterator yields size-bounded sub-batches from a fixed snapshot of
// batches (spec.md §3.4, §4.1). It is single-pass but restartable: call
// Table.Morsels again for a fresh iterator over a fresh snapshot.
type MorselIterator struct {
	batches []*batch.Batch
	limit   int
	bi      int // index into batches
	offset  int // row offset within batches[bi] not yet yielded
}

// Morsels returns a morsel iterator over a snapshot of t's current batches,
// bounding each morsel to at most morselLimit bytes (spec.md §4.1
// "morsels(): returns a finite, single-pass, restartable sequence of
// morsels covering every row exactly once, in insertion order").
func (t *Table) Morsels(morselLimit int) *MorselIterator {
	return NewMorselIterator(t.Snapshot(), morselLimit)
}

// NewMorselIterator builds an iterator directly over an explicit batch
// sequence, useful for tests and for re-iterating an already-captured
// snapshot.
func NewMorselIterator(batches []*batch.Batch, morselLimit int) *MorselIterator {
	if morselLimit <= 0 {
		panic("table: morselLimit must be positive")
	}
	return &MorselIterator{batches: batches, limit: morselLimit}
}

// Next returns the next morsel, or (nil, false) once every row of the
// snapshot has been yielded exactly once. Morsels never cross batch
// boundaries (spec.md §3.4): a batch is split into one or more consecutive
// zero-copy slices, each at most morselLimit bytes.
func (m *MorselIterator) Next() (*batch.Batch, bool) {
	for m.bi < len(m.batches) {
		b := m.batches[m.bi]
		remaining := b.NumRows() - m.offset
		if remaining <= 0 {
			m.bi++
			m.offset = 0
			continue
		}
		rowsPerMorsel := rowsPerMorsel(b, m.limit)
		end := m.offset + rowsPerMorsel
		if end > b.NumRows() {
			end = b.NumRows()
		}
		morsel := b.Slice(m.offset, end)
		m.offset = end
		if m.offset >= b.NumRows() {
			m.bi++
			m.offset = 0
		}
		return morsel, true
	}
	return nil, false
}

// rowsPerMorsel computes ceil(morselLimit / bytes_per_row) from b's actual
// per-row footprint, never less than 1 (spec.md §3.4). Using the batch's
// measured ByteSize()/NumRows() rather than a purely schema-derived
// constant keeps the bound correct for variable-width (string) columns too.
func rowsPerMorsel(b interface {
	NumRows() int
	ByteSize() int
}, morselLimit int) int {
	rows := b.NumRows()
	if rows == 0 {
		return 1
	}
	bytesPerRow := b.ByteSize() / rows
	if bytesPerRow <= 0 {
		bytesPerRow = 1
	}
	n := morselLimit / bytesPerRow
	if morselLimit%bytesPerRow != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}
