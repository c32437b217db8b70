package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/schema"
)

func benchResult(b *testing.B, rows int) *batch.Batch {
	b.Helper()
	s := schema.New(
		schema.Field{Name: "id", Type: coltype.Int64},
		schema.Field{Name: "name", Type: coltype.String},
		schema.Field{Name: "amount", Type: coltype.Float64},
	)
	ids := make([]int64, rows)
	names := make([]string, rows)
	amounts := make([]float64, rows)
	for i := range ids {
		ids[i] = int64(i)
		names[i] = "row"
		amounts[i] = float64(i) * 1.5
	}
	bt, err := batch.New(s, []column.Column{
		column.NewInt64Column(ids),
		column.NewStringColumn(names),
		column.NewFloat64Column(amounts),
	})
	if err != nil {
		b.Fatalf("batch.New: %v", err)
	}
	return bt
}

func BenchmarkTextRendererRenderResult(b *testing.B) {
	result := benchResult(b, 1000)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		r := &TextRenderer{w: &buf}
		r.RenderResult(result, time.Millisecond)
	}
}

func BenchmarkPlainRendererRenderResult(b *testing.B) {
	result := benchResult(b, 1000)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		r := &PlainRenderer{w: &buf}
		r.RenderResult(result, time.Millisecond)
	}
}

func BenchmarkJSONRendererRenderResult(b *testing.B) {
	result := benchResult(b, 1000)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		r := &JSONRenderer{w: &buf}
		r.RenderResult(result, time.Millisecond)
	}
}

func BenchmarkMarkdownRendererRenderResult(b *testing.B) {
	result := benchResult(b, 1000)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		r := &MarkdownRenderer{w: &buf}
		r.RenderResult(result, time.Millisecond)
	}
}
