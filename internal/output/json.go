package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/truenodb/trueno/internal/batch"
)

// JSONRenderer produces machine-readable JSON output.
type JSONRenderer struct {
	w io.Writer
}

type jsonResultOutput struct {
	Columns   []string         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	NumRows   int              `json:"num_rows"`
	ElapsedMs float64          `json:"elapsed_ms"`
}

func (r *JSONRenderer) RenderResult(result *batch.Batch, elapsed time.Duration) {
	fields := result.Schema().Fields
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	rows := make([]map[string]any, result.NumRows())
	for i := 0; i < result.NumRows(); i++ {
		row := make(map[string]any, len(names))
		for c, col := range result.Columns() {
			row[names[c]] = cellValue(col, i)
		}
		rows[i] = row
	}

	out := jsonResultOutput{
		Columns:   names,
		Rows:      rows,
		NumRows:   result.NumRows(),
		ElapsedMs: float64(elapsed.Microseconds()) / 1000.0,
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func (r *JSONRenderer) RenderConfig(cfg map[string]string) {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(cfg)
}
