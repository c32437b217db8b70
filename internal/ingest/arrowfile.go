// Package ingest loads table data from the engine's two supported sources
// (spec.md §3.1's "ingested in whole batches, from either an Arrow IPC
// file or a MySQL query result"): Arrow IPC files and live MySQL queries.
package ingest

import (
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/ipc"
	"github.com/apache/arrow/go/v12/arrow/memory"

	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/schema"
	"github.com/truenodb/trueno/internal/xerr"
)

// ArrowFileSource loads every record batch out of an Arrow IPC (file
// format) reader into batch.Batch values sharing one schema, using a
// pooled Go allocator the way otel-arrow's record producer does.
type ArrowFileSource struct {
	pool memory.Allocator
}

// NewArrowFileSource returns a source backed by a fresh Go allocator.
func NewArrowFileSource() *ArrowFileSource {
	return &ArrowFileSource{pool: memory.NewGoAllocator()}
}

// Load reads every record batch from path and converts each into a
// batch.Batch. All returned batches share the schema translated from the
// Arrow file's own schema (spec.md §3.3: "all batches appended to a table
// share one schema").
func (s *ArrowFileSource) Load(path string) ([]*batch.Batch, schema.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, schema.Schema{}, xerr.Wrap(xerr.IngestFailed, fmt.Sprintf("opening %q", path), err)
	}
	defer f.Close()

	reader, err := ipc.NewFileReader(f, ipc.WithAllocator(s.pool))
	if err != nil {
		return nil, schema.Schema{}, xerr.Wrap(xerr.IngestFailed, fmt.Sprintf("opening Arrow IPC file %q", path), err)
	}
	defer reader.Close()

	sch, err := translateSchema(reader.Schema())
	if err != nil {
		return nil, schema.Schema{}, err
	}

	var out []*batch.Batch
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, schema.Schema{}, xerr.Wrap(xerr.IngestFailed, fmt.Sprintf("reading record from %q", path), err)
		}
		b, err := recordToBatch(sch, rec)
		rec.Release()
		if err != nil {
			return nil, schema.Schema{}, err
		}
		out = append(out, b)
	}
	return out, sch, nil
}

// translateSchema maps an Arrow schema onto the engine's closed coltype
// set. Unsupported Arrow types fail fast rather than silently truncating.
func translateSchema(s *arrow.Schema) (schema.Schema, error) {
	fields := make([]schema.Field, s.NumFields())
	for i, f := range s.Fields() {
		t, err := translateType(f.Type)
		if err != nil {
			return schema.Schema{}, xerr.Wrap(xerr.IngestFailed, fmt.Sprintf("column %q: %v", f.Name, err), nil)
		}
		fields[i] = schema.Field{Name: f.Name, Type: t, Nullable: f.Nullable}
	}
	return schema.New(fields...), nil
}

func translateType(t arrow.DataType) (coltype.Type, error) {
	switch t.ID() {
	case arrow.INT32:
		return coltype.Int32, nil
	case arrow.INT64:
		return coltype.Int64, nil
	case arrow.FLOAT32:
		return coltype.Float32, nil
	case arrow.FLOAT64:
		return coltype.Float64, nil
	case arrow.STRING, arrow.LARGE_STRING:
		return coltype.String, nil
	case arrow.BOOL:
		return coltype.Bool, nil
	default:
		return "", fmt.Errorf("unsupported Arrow type %s", t)
	}
}

// recordToBatch materializes one Arrow record into a batch.Batch, copying
// values out of Arrow's buffers into the engine's own column
// representation so batches no longer depend on the IPC reader's
// allocator lifetime once this call returns.
func recordToBatch(s schema.Schema, rec arrow.Record) (*batch.Batch, error) {
	cols := make([]column.Column, len(s.Fields))
	for i, f := range s.Fields {
		c, err := arrayToColumn(f.Type, rec.Column(i))
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return batch.New(s, cols)
}

func arrayToColumn(t coltype.Type, arr arrow.Array) (column.Column, error) {
	switch t {
	case coltype.Int32:
		a, ok := arr.(*array.Int32)
		if !ok {
			return nil, fmt.Errorf("expected Arrow int32 array, got %T", arr)
		}
		return column.NewInt32Column(append([]int32(nil), a.Int32Values()...)), nil
	case coltype.Int64:
		a, ok := arr.(*array.Int64)
		if !ok {
			return nil, fmt.Errorf("expected Arrow int64 array, got %T", arr)
		}
		return column.NewInt64Column(append([]int64(nil), a.Int64Values()...)), nil
	case coltype.Float32:
		a, ok := arr.(*array.Float32)
		if !ok {
			return nil, fmt.Errorf("expected Arrow float32 array, got %T", arr)
		}
		return column.NewFloat32Column(append([]float32(nil), a.Float32Values()...)), nil
	case coltype.Float64:
		a, ok := arr.(*array.Float64)
		if !ok {
			return nil, fmt.Errorf("expected Arrow float64 array, got %T", arr)
		}
		return column.NewFloat64Column(append([]float64(nil), a.Float64Values()...)), nil
	case coltype.Bool:
		a, ok := arr.(*array.Boolean)
		if !ok {
			return nil, fmt.Errorf("expected Arrow bool array, got %T", arr)
		}
		vals := make([]bool, a.Len())
		for i := range vals {
			vals[i] = a.Value(i)
		}
		return column.NewBitmapColumn(vals), nil
	case coltype.String:
		vals, err := stringValues(arr)
		if err != nil {
			return nil, err
		}
		return column.NewStringColumn(vals), nil
	default:
		return nil, fmt.Errorf("unsupported column type %s", t)
	}
}

func stringValues(arr arrow.Array) ([]string, error) {
	switch a := arr.(type) {
	case *array.String:
		vals := make([]string, a.Len())
		for i := range vals {
			vals[i] = a.Value(i)
		}
		return vals, nil
	case *array.LargeString:
		vals := make([]string, a.Len())
		for i := range vals {
			vals[i] = a.Value(i)
		}
		return vals, nil
	default:
		return nil, fmt.Errorf("expected Arrow string array, got %T", arr)
	}
}
