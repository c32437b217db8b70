package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/truenodb/trueno/internal/batch"
)

// MarkdownRenderer produces markdown output for documentation/tickets.
type MarkdownRenderer struct {
	w io.Writer
}

func (r *MarkdownRenderer) RenderResult(result *batch.Batch, elapsed time.Duration) {
	fmt.Fprintf(r.w, "# trueno — Query Result\n\n")

	fields := result.Schema().Fields
	names := make([]string, len(fields))
	seps := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		seps[i] = "---"
	}
	fmt.Fprintf(r.w, "| %s |\n", strings.Join(names, " | "))
	fmt.Fprintf(r.w, "|%s|\n", strings.Join(seps, "|"))

	for i := 0; i < result.NumRows(); i++ {
		vals := make([]string, len(result.Columns()))
		for c, col := range result.Columns() {
			vals[c] = cellString(col, i)
		}
		fmt.Fprintf(r.w, "| %s |\n", strings.Join(vals, " | "))
	}

	fmt.Fprintf(r.w, "\n*%s rows in %s*\n", formatNumber(int64(result.NumRows())), elapsed)
}

func (r *MarkdownRenderer) RenderConfig(cfg map[string]string) {
	fmt.Fprintf(r.w, "# trueno — Engine Configuration\n\n")
	fmt.Fprintf(r.w, "| Property | Value |\n|---|---|\n")
	for _, k := range sortedKeys(cfg) {
		fmt.Fprintf(r.w, "| %s | %s |\n", k, cfg[k])
	}
}
