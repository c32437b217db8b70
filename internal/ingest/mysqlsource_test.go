package ingest

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/truenodb/trueno/internal/coltype"
)

func TestBuildDSNTCP(t *testing.T) {
	dsn, err := buildDSN(ConnectionConfig{Host: "127.0.0.1", Port: 3306, User: "trueno", Password: "x", Database: "orders"})
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if !strings.Contains(dsn, "tcp(127.0.0.1:3306)") || !strings.Contains(dsn, "/orders") {
		t.Fatalf("dsn = %q", dsn)
	}
}

func TestBuildDSNSocket(t *testing.T) {
	dsn, err := buildDSN(ConnectionConfig{Socket: "/tmp/mysql.sock", User: "trueno"})
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if !strings.Contains(dsn, "unix(/tmp/mysql.sock)") {
		t.Fatalf("dsn = %q", dsn)
	}
}

func TestBuildDSNRejectsInvalidTLSMode(t *testing.T) {
	_, err := buildDSN(ConnectionConfig{Host: "h", TLSMode: "bogus"})
	if err == nil {
		t.Fatal("expected error for invalid TLS mode")
	}
}

func TestBuildDSNDefaultsToInformationSchema(t *testing.T) {
	dsn, err := buildDSN(ConnectionConfig{Host: "h"})
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if !strings.Contains(dsn, "/information_schema") {
		t.Fatalf("dsn = %q, want default database", dsn)
	}
}

func TestBuildDSNTLSModes(t *testing.T) {
	for _, tc := range []struct {
		mode string
		want string
	}{
		{"preferred", "tls=preferred"},
		{"required", "tls=true"},
		{"skip-verify", "tls=skip-verify"},
	} {
		dsn, err := buildDSN(ConnectionConfig{Host: "h", TLSMode: tc.mode})
		if err != nil {
			t.Fatalf("buildDSN(%s): %v", tc.mode, err)
		}
		if !strings.Contains(dsn, tc.want) {
			t.Fatalf("dsn for %s = %q, want contains %q", tc.mode, dsn, tc.want)
		}
	}
}

func nullString(s string, valid bool) sql.NullString {
	return sql.NullString{String: s, Valid: valid}
}

func TestInt64BuilderParsesValues(t *testing.T) {
	b := newColumnBuilder(coltype.Int64)
	if err := b.append(nullString("42", true), coltype.Int64); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := b.append(nullString("", false), coltype.Int64); err != nil {
		t.Fatalf("append null: %v", err)
	}
	col := b.build()
	if col.Len() != 2 {
		t.Fatalf("Len = %d, want 2", col.Len())
	}
}

func TestFloat64BuilderRejectsUnparseable(t *testing.T) {
	b := newColumnBuilder(coltype.Float64)
	if err := b.append(nullString("not-a-number", true), coltype.Float64); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBoolBuilderParsesMySQLTinyint(t *testing.T) {
	b := newColumnBuilder(coltype.Bool)
	if err := b.append(nullString("1", true), coltype.Bool); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := b.append(nullString("0", true), coltype.Bool); err != nil {
		t.Fatalf("append: %v", err)
	}
	col := b.build()
	if col.Len() != 2 {
		t.Fatalf("Len = %d, want 2", col.Len())
	}
}

func TestStringBuilderPassesThroughNull(t *testing.T) {
	b := newColumnBuilder(coltype.String)
	if err := b.append(nullString("", false), coltype.String); err != nil {
		t.Fatalf("append: %v", err)
	}
	col := b.build()
	if col.Len() != 1 {
		t.Fatalf("Len = %d, want 1", col.Len())
	}
}
