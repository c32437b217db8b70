package sqlplan

import (
	"testing"

	"github.com/truenodb/trueno/internal/aggop"
)

func TestParseSimpleProjection(t *testing.T) {
	p, err := Parse("SELECT id, amount FROM orders")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"id", "amount"}
	if len(p.Projection) != len(want) {
		t.Fatalf("Projection = %v, want %v", p.Projection, want)
	}
	for i, w := range want {
		if p.Projection[i] != w {
			t.Fatalf("Projection = %v, want %v", p.Projection, want)
		}
	}
}

func TestParseStar(t *testing.T) {
	p, err := Parse("SELECT * FROM orders")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Projection) != 1 || p.Projection[0] != "*" {
		t.Fatalf("Projection = %v, want [*]", p.Projection)
	}
}

func TestParseAggregate(t *testing.T) {
	p, err := Parse("SELECT SUM(amount) FROM orders")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Aggregates) != 1 || p.Aggregates[0].Op != aggop.Sum || p.Aggregates[0].Column != "amount" {
		t.Fatalf("Aggregates = %+v", p.Aggregates)
	}
}

func TestParseWhere(t *testing.T) {
	p, err := Parse("SELECT * FROM orders WHERE amount > 100")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Filter == nil || p.Filter.Column != "amount" || p.Filter.Op != aggop.GT || p.Filter.IntVal != 100 {
		t.Fatalf("Filter = %+v", p.Filter)
	}
}

func TestParseOrderByLimit(t *testing.T) {
	p, err := Parse("SELECT * FROM orders ORDER BY amount DESC LIMIT 3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.TopK == nil || p.TopK.Column != "amount" || p.TopK.Direction != aggop.Desc || p.TopK.K != 3 {
		t.Fatalf("TopK = %+v", p.TopK)
	}
}

func TestParseOrderByWithoutLimitIsUnbounded(t *testing.T) {
	p, err := Parse("SELECT * FROM orders ORDER BY amount ASC")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.TopK == nil || !p.TopK.Unbounded || p.TopK.Direction != aggop.Asc {
		t.Fatalf("TopK = %+v", p.TopK)
	}
}

func TestParseRejectsNonSelect(t *testing.T) {
	_, err := Parse("DELETE FROM orders WHERE id = 1")
	if err == nil {
		t.Fatal("expected error for non-SELECT statement")
	}
}

func TestParseRejectsUnknownFunction(t *testing.T) {
	_, err := Parse("SELECT BOGUS(amount) FROM orders")
	if err == nil {
		t.Fatal("expected error for unsupported function")
	}
}

func TestParseRejectsCompoundWhere(t *testing.T) {
	_, err := Parse("SELECT * FROM orders WHERE amount > 100 AND id < 5")
	if err == nil {
		t.Fatal("expected error for compound WHERE clause")
	}
}
