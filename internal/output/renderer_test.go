package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/schema"
)

func sampleResult(t *testing.T) *batch.Batch {
	t.Helper()
	s := schema.New(
		schema.Field{Name: "id", Type: coltype.Int64},
		schema.Field{Name: "name", Type: coltype.String},
		schema.Field{Name: "amount", Type: coltype.Float64},
	)
	b, err := batch.New(s, []column.Column{
		column.NewInt64Column([]int64{1, 2, 3}),
		column.NewStringColumn([]string{"alice", "bob", "carol"}),
		column.NewFloat64Column([]float64{10.5, 20, 30.25}),
	})
	if err != nil {
		t.Fatalf("batch.New: %v", err)
	}
	return b
}

func sampleConfig() map[string]string {
	return map[string]string{
		"morsel_limit": "134217728",
		"transfer_cap": "2",
	}
}

func TestNewRendererSelectsByFormat(t *testing.T) {
	cases := map[string]any{
		"json":     &JSONRenderer{},
		"markdown": &MarkdownRenderer{},
		"plain":    &PlainRenderer{},
		"text":     &TextRenderer{},
		"":         &TextRenderer{},
	}
	for format, want := range cases {
		got := NewRenderer(format, &bytes.Buffer{})
		if gotType, wantType := typeName(got), typeName(want); gotType != wantType {
			t.Errorf("format %q: got %s, want %s", format, gotType, wantType)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *JSONRenderer:
		return "json"
	case *MarkdownRenderer:
		return "markdown"
	case *PlainRenderer:
		return "plain"
	case *TextRenderer:
		return "text"
	default:
		return "unknown"
	}
}

func TestTextRendererRenderResultContainsValues(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}
	r.RenderResult(sampleResult(t), 5*time.Millisecond)
	out := buf.String()
	for _, want := range []string{"id", "name", "amount", "alice", "carol", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextRendererRenderConfig(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}
	r.RenderConfig(sampleConfig())
	out := buf.String()
	if !strings.Contains(out, "morsel_limit") || !strings.Contains(out, "134217728") {
		t.Errorf("config output missing expected fields:\n%s", out)
	}
}

func TestPlainRendererIsTabSeparated(t *testing.T) {
	var buf bytes.Buffer
	r := &PlainRenderer{w: &buf}
	r.RenderResult(sampleResult(t), time.Millisecond)
	out := buf.String()
	if !strings.Contains(out, "id\tname\tamount") {
		t.Errorf("expected tab-separated header, got:\n%s", out)
	}
	if !strings.Contains(out, "2\tbob\t20") {
		t.Errorf("expected tab-separated row, got:\n%s", out)
	}
}

func TestMarkdownRendererProducesTable(t *testing.T) {
	var buf bytes.Buffer
	r := &MarkdownRenderer{w: &buf}
	r.RenderResult(sampleResult(t), time.Millisecond)
	out := buf.String()
	if !strings.Contains(out, "| id | name | amount |") {
		t.Errorf("expected markdown header row, got:\n%s", out)
	}
	if !strings.Contains(out, "|---|---|---|") {
		t.Errorf("expected markdown separator row, got:\n%s", out)
	}
}

func TestJSONRendererRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{w: &buf}
	r.RenderResult(sampleResult(t), 2500*time.Microsecond)

	var decoded jsonResultOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.NumRows != 3 {
		t.Fatalf("NumRows = %d, want 3", decoded.NumRows)
	}
	if decoded.ElapsedMs != 2.5 {
		t.Fatalf("ElapsedMs = %v, want 2.5", decoded.ElapsedMs)
	}
	if decoded.Rows[1]["name"] != "bob" {
		t.Fatalf("row 1 name = %v, want bob", decoded.Rows[1]["name"])
	}
}

func TestJSONRendererRenderConfig(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{w: &buf}
	r.RenderConfig(sampleConfig())

	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["transfer_cap"] != "2" {
		t.Fatalf("transfer_cap = %q, want 2", decoded["transfer_cap"])
	}
}

func TestFormatNumberAddsCommas(t *testing.T) {
	cases := map[int64]string{
		42:         "42",
		1234:       "1,234",
		1234567:    "1,234,567",
		0:          "0",
	}
	for n, want := range cases {
		if got := formatNumber(n); got != want {
			t.Errorf("formatNumber(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestColumnWidthsCoversHeaderAndCells(t *testing.T) {
	widths := columnWidths(sampleResult(t))
	if len(widths) != 3 {
		t.Fatalf("widths len = %d, want 3", len(widths))
	}
	if widths[1] < len("carol") {
		t.Fatalf("name column width %d too narrow for 'carol'", widths[1])
	}
}
