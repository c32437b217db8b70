package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/ipc"
	"github.com/apache/arrow/go/v12/arrow/memory"
)

func writeQueryTestArrowFile(t *testing.T, path string) {
	t.Helper()
	pool := memory.NewGoAllocator()
	sch := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "amount", Type: arrow.PrimitiveTypes.Float64},
	}, nil)

	idb := array.NewInt64Builder(pool)
	defer idb.Release()
	idb.AppendValues([]int64{1, 2, 3}, nil)
	ids := idb.NewInt64Array()
	defer ids.Release()

	ab := array.NewFloat64Builder(pool)
	defer ab.Release()
	ab.AppendValues([]float64{10, 20, 30}, nil)
	amounts := ab.NewFloat64Array()
	defer amounts.Release()

	rec := array.NewRecord(sch, []arrow.Array{ids, amounts}, 3)
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(sch), ipc.WithAllocator(pool))
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	if err := w.Write(rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestQueryCmdRendersResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.arrow")
	writeQueryTestArrowFile(t, path)

	queryCmd.Flags().Set("arrow-file", path)
	queryCmd.Flags().Set("mysql-query", "")
	defer func() {
		queryCmd.Flags().Set("arrow-file", "")
	}()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		buf := make([]byte, 0, 4096)
		tmp := make([]byte, 4096)
		for {
			n, err := r.Read(tmp)
			if n > 0 {
				buf = append(buf, tmp[:n]...)
			}
			if err != nil {
				break
			}
		}
		done <- string(buf)
	}()

	err = queryCmd.RunE(queryCmd, []string{"SELECT SUM(amount) FROM t"})
	w.Close()
	out := <-done
	os.Stdout = origStdout

	if err != nil {
		t.Fatalf("RunE: %v", err)
	}
	if !strings.Contains(out, "60") {
		t.Errorf("expected rendered result to contain the sum 60, got:\n%s", out)
	}
}

func TestQueryCmdRequiresExactlyOneArg(t *testing.T) {
	if queryCmd.Args == nil {
		t.Fatal("queryCmd.Args should be set")
	}
	if err := queryCmd.Args(queryCmd, []string{}); err == nil {
		t.Error("expected error for zero args")
	}
	if err := queryCmd.Args(queryCmd, []string{"a", "b"}); err == nil {
		t.Error("expected error for two args")
	}
	if err := queryCmd.Args(queryCmd, []string{"SELECT 1"}); err != nil {
		t.Errorf("expected no error for one arg, got %v", err)
	}
}

func TestQueryCommandRegistered(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "query" {
			found = true
		}
	}
	if !found {
		t.Fatal("query command should be registered with root")
	}
}
