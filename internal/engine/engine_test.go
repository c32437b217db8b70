package engine

import (
	"context"
	"testing"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/kernel/backend"
	"github.com/truenodb/trueno/internal/plan"
	"github.com/truenodb/trueno/internal/schema"
)

func ordersSchema() schema.Schema {
	return schema.New(
		schema.Field{Name: "id", Type: coltype.Int64},
		schema.Field{Name: "amount", Type: coltype.Float64},
	)
}

func ordersBatch(t *testing.T, ids []int64, amounts []float64) *batch.Batch {
	t.Helper()
	b, err := batch.New(ordersSchema(), []column.Column{
		column.NewInt64Column(ids),
		column.NewFloat64Column(amounts),
	})
	if err != nil {
		t.Fatalf("batch.New: %v", err)
	}
	return b
}

func TestConfigResolveFillsDefaults(t *testing.T) {
	cfg := Config{}.Resolve()
	if cfg.MorselLimit != DefaultMorselLimit {
		t.Fatalf("MorselLimit = %d, want %d", cfg.MorselLimit, DefaultMorselLimit)
	}
	if cfg.TransferCap != DefaultTransferCap {
		t.Fatalf("TransferCap = %d, want %d", cfg.TransferCap, DefaultTransferCap)
	}
}

func TestConfigResolvePreservesExplicitValues(t *testing.T) {
	cfg := Config{MorselLimit: 4096, TransferCap: 7}.Resolve()
	if cfg.MorselLimit != 4096 || cfg.TransferCap != 7 {
		t.Fatalf("Resolve overrode explicit values: %+v", cfg)
	}
}

func TestEngineLoadAndRunSQL(t *testing.T) {
	e := New(ordersSchema(), Config{})
	if err := e.Load(ordersBatch(t, []int64{1, 2, 3}, []float64{10, 20, 30})); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e.NumRows() != 3 {
		t.Fatalf("NumRows = %d, want 3", e.NumRows())
	}

	result, err := e.Query(context.Background(), "SELECT SUM(amount) FROM orders")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	got := result.ColumnByName("SUM(amount)").(*column.Float64Column).At(0)
	if got != 60 {
		t.Fatalf("SUM = %v, want 60", got)
	}
}

func TestEngineLoadRejectsSchemaMismatch(t *testing.T) {
	e := New(ordersSchema(), Config{})
	wrongSchema := schema.New(schema.Field{Name: "id", Type: coltype.Int32})
	b, err := batch.New(wrongSchema, []column.Column{column.NewInt32Column([]int32{1})})
	if err != nil {
		t.Fatalf("batch.New: %v", err)
	}
	if err := e.Load(b); err == nil {
		t.Fatal("expected schema mismatch error")
	}
}

func TestEngineRunWithPlanDirectly(t *testing.T) {
	e := New(ordersSchema(), Config{})
	if err := e.Load(ordersBatch(t, []int64{1, 2}, []float64{5, 15})); err != nil {
		t.Fatalf("Load: %v", err)
	}
	p := &plan.Plan{
		Projection: []string{"*"},
		Filter:     &plan.Filter{Column: "amount", Op: aggop.GT, FltVal: 10},
	}
	result, err := e.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.NumRows() != 1 {
		t.Fatalf("NumRows = %d, want 1", result.NumRows())
	}
}

func TestEngineRespectsEnabledBackends(t *testing.T) {
	e := New(ordersSchema(), Config{EnabledBackends: []backend.Backend{backend.Scalar}})
	if err := e.Load(ordersBatch(t, []int64{1}, []float64{99})); err != nil {
		t.Fatalf("Load: %v", err)
	}
	result, err := e.Query(context.Background(), "SELECT SUM(amount) FROM orders")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if result.ColumnByName("SUM(amount)").(*column.Float64Column).At(0) != 99 {
		t.Fatal("expected correct sum even when restricted to Scalar backend")
	}
}
