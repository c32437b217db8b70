// Package batch implements the immutable, schema-tagged tuple of
// equal-length columns described in spec.md §3.2.
package batch

import (
	"fmt"

	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/schema"
)

// Batch is a schema plus a vector of columns of matching length. Batches
// are immutable once constructed; downstream operations build new batches
// rather than mutating one in place.
type Batch struct {
	schema  schema.Schema
	columns []column.Column
	rows    int
}

// New validates the invariants of spec.md §3.2 (column count matches the
// schema, all columns share one length, column order matches the schema)
// and returns an immutable Batch.
func New(s schema.Schema, cols []column.Column) (*Batch, error) {
	if len(cols) != s.Len() {
		return nil, fmt.Errorf("batch: %d columns for a %d-field schema", len(cols), s.Len())
	}
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	for i, c := range cols {
		if c.Len() != rows {
			return nil, fmt.Errorf("batch: column %q has length %d, want %d", s.Fields[i].Name, c.Len(), rows)
		}
		if c.Type() != s.Fields[i].Type {
			return nil, fmt.Errorf("batch: column %q has type %s, schema declares %s", s.Fields[i].Name, c.Type(), s.Fields[i].Type)
		}
	}
	return &Batch{schema: s, columns: append([]column.Column(nil), cols...), rows: rows}, nil
}

// Schema returns the batch's schema.
func (b *Batch) Schema() schema.Schema { return b.schema }

// NumRows returns the number of rows every column shares.
func (b *Batch) NumRows() int { return b.rows }

// Column returns the column at position i in schema order.
func (b *Batch) Column(i int) column.Column { return b.columns[i] }

// ColumnByName returns the column named name, or nil if absent.
func (b *Batch) ColumnByName(name string) column.Column {
	i := b.schema.IndexOf(name)
	if i < 0 {
		return nil
	}
	return b.columns[i]
}

// Columns returns the underlying column slice. Callers must not mutate it;
// it is shared with the Batch.
func (b *Batch) Columns() []column.Column { return b.columns }

// ByteSize is the batch's total footprint across all columns, used for
// morsel-size accounting (spec.md §3.4).
func (b *Batch) ByteSize() int {
	total := 0
	for _, c := range b.columns {
		total += c.ByteSize()
	}
	return total
}

// Slice returns a zero-copy sub-batch over rows [start, end); every column
// shares the parent's backing buffer (spec.md §3.4 "Slicing is zero-copy").
func (b *Batch) Slice(start, end int) *Batch {
	if start == 0 && end == b.rows {
		return b
	}
	cols := make([]column.Column, len(b.columns))
	for i, c := range b.columns {
		cols[i] = c.Slice(start, end)
	}
	return &Batch{schema: b.schema, columns: cols, rows: end - start}
}

// Project returns a new batch containing only the named columns, in the
// given order (spec.md §4.7 step 5, "materialize only the projected
// columns in declared order").
func (b *Batch) Project(names []string) (*Batch, error) {
	fields := make([]schema.Field, len(names))
	cols := make([]column.Column, len(names))
	for i, name := range names {
		f, ok := b.schema.Field(name)
		if !ok {
			return nil, fmt.Errorf("batch: unknown column %q", name)
		}
		fields[i] = f
		cols[i] = b.ColumnByName(name)
	}
	return New(schema.New(fields...), cols)
}

// Concat appends batches of identical schema into a single batch by
// materializing each column's values. Used by the executor to grow a
// filtered-projection result across morsels (spec.md §4.7 step 2b). Unlike
// Slice, this copies: concatenation has no zero-copy representation once
// morsels from non-adjacent source buffers must live in one column.
func Concat(batches []*Batch) (*Batch, error) {
	if len(batches) == 0 {
		return nil, fmt.Errorf("batch: Concat of zero batches")
	}
	s := batches[0].schema
	for _, b := range batches[1:] {
		if !b.schema.Equal(s) {
			return nil, fmt.Errorf("batch: Concat schema mismatch")
		}
	}
	cols := make([]column.Column, s.Len())
	for i, f := range s.Fields {
		cols[i] = concatColumn(f.Type, batches, i)
	}
	return New(s, cols)
}

// Gather returns a new batch containing rows[indices[0]], rows[indices[1]],
// ... in that order — an arbitrary reordering/selection, unlike Slice's
// contiguous zero-copy range. Used by Top-K to materialize its selected rows
// in rank order (spec.md §4.6 "Output: a batch ... in Top-K order").
func (b *Batch) Gather(indices []int) (*Batch, error) {
	cols := make([]column.Column, len(b.columns))
	for i, f := range b.schema.Fields {
		cols[i] = gatherColumn(f.Type, b.columns[i], indices)
	}
	return New(b.schema, cols)
}

func gatherColumn(t coltype.Type, col column.Column, indices []int) column.Column {
	switch t {
	case coltype.Int32:
		src := col.(*column.Int32Column)
		vals := make([]int32, len(indices))
		for i, idx := range indices {
			vals[i] = src.At(idx)
		}
		return column.NewInt32Column(vals)
	case coltype.Int64:
		src := col.(*column.Int64Column)
		vals := make([]int64, len(indices))
		for i, idx := range indices {
			vals[i] = src.At(idx)
		}
		return column.NewInt64Column(vals)
	case coltype.Float32:
		src := col.(*column.Float32Column)
		vals := make([]float32, len(indices))
		for i, idx := range indices {
			vals[i] = src.At(idx)
		}
		return column.NewFloat32Column(vals)
	case coltype.Float64:
		src := col.(*column.Float64Column)
		vals := make([]float64, len(indices))
		for i, idx := range indices {
			vals[i] = src.At(idx)
		}
		return column.NewFloat64Column(vals)
	case coltype.String:
		src := col.(*column.StringColumn)
		vals := make([]string, len(indices))
		for i, idx := range indices {
			vals[i] = src.At(idx)
		}
		return column.NewStringColumn(vals)
	case coltype.Bool:
		src := col.(*column.BitmapColumn)
		vals := make([]bool, len(indices))
		for i, idx := range indices {
			vals[i] = src.At(idx)
		}
		return column.NewBitmapColumn(vals)
	default:
		panic("batch: unsupported column type in Gather")
	}
}

func concatColumn(t coltype.Type, batches []*Batch, idx int) column.Column {
	switch t {
	case coltype.Int32:
		var vals []int32
		for _, b := range batches {
			vals = append(vals, b.columns[idx].(*column.Int32Column).Values()...)
		}
		return column.NewInt32Column(vals)
	case coltype.Int64:
		var vals []int64
		for _, b := range batches {
			vals = append(vals, b.columns[idx].(*column.Int64Column).Values()...)
		}
		return column.NewInt64Column(vals)
	case coltype.Float32:
		var vals []float32
		for _, b := range batches {
			vals = append(vals, b.columns[idx].(*column.Float32Column).Values()...)
		}
		return column.NewFloat32Column(vals)
	case coltype.Float64:
		var vals []float64
		for _, b := range batches {
			vals = append(vals, b.columns[idx].(*column.Float64Column).Values()...)
		}
		return column.NewFloat64Column(vals)
	case coltype.String:
		var vals []string
		for _, b := range batches {
			vals = append(vals, b.columns[idx].(*column.StringColumn).Values()...)
		}
		return column.NewStringColumn(vals)
	case coltype.Bool:
		var vals []bool
		for _, b := range batches {
			vals = append(vals, b.columns[idx].(*column.BitmapColumn).Values()...)
		}
		return column.NewBitmapColumn(vals)
	default:
		panic("batch: unsupported column type in Concat")
	}
}
