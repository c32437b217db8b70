package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/truenodb/trueno/internal/batch"
)

// PlainRenderer produces unformatted text output safe for piping.
type PlainRenderer struct {
	w io.Writer
}

func (r *PlainRenderer) RenderResult(result *batch.Batch, elapsed time.Duration) {
	fmt.Fprintf(r.w, "=== trueno — Query Result ===\n\n")

	fields := result.Schema().Fields
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	fmt.Fprintln(r.w, strings.Join(names, "\t"))

	for i := 0; i < result.NumRows(); i++ {
		vals := make([]string, len(result.Columns()))
		for c, col := range result.Columns() {
			vals[c] = cellString(col, i)
		}
		fmt.Fprintln(r.w, strings.Join(vals, "\t"))
	}

	fmt.Fprintf(r.w, "\n%s rows in %s\n", formatNumber(int64(result.NumRows())), elapsed)
}

func (r *PlainRenderer) RenderConfig(cfg map[string]string) {
	fmt.Fprintf(r.w, "=== trueno — Engine Configuration ===\n\n")
	for _, k := range sortedKeys(cfg) {
		fmt.Fprintf(r.w, "%-20s %s\n", k+":", cfg[k])
	}
}
