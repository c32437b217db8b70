// Package output renders query results in multiple formats, selected by a
// format flag exactly as the teacher's internal/output renders analysis
// plans: one Renderer interface, one concrete type per format.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
)

// Renderer defines the output interface for a query's result batch.
type Renderer interface {
	RenderResult(result *batch.Batch, elapsed time.Duration)
	RenderConfig(cfg map[string]string)
}

// NewRenderer creates a renderer for the given format.
func NewRenderer(format string, w io.Writer) Renderer {
	switch format {
	case "json":
		return &JSONRenderer{w: w}
	case "markdown":
		return &MarkdownRenderer{w: w}
	case "plain":
		return &PlainRenderer{w: w}
	default:
		return &TextRenderer{w: w}
	}
}

// cellString formats the value at row i of col as a display string, shared
// by the text, plain and markdown renderers so they agree on number/bool
// formatting (the JSON renderer uses cellValue instead).
func cellString(col column.Column, i int) string {
	switch col.Type() {
	case coltype.Int32:
		return fmt.Sprintf("%d", col.(*column.Int32Column).At(i))
	case coltype.Int64:
		return fmt.Sprintf("%d", col.(*column.Int64Column).At(i))
	case coltype.Float32:
		return fmt.Sprintf("%g", col.(*column.Float32Column).At(i))
	case coltype.Float64:
		return fmt.Sprintf("%g", col.(*column.Float64Column).At(i))
	case coltype.String:
		return col.(*column.StringColumn).At(i)
	case coltype.Bool:
		return fmt.Sprintf("%v", col.(*column.BitmapColumn).At(i))
	default:
		return "?"
	}
}

// cellValue returns the value at row i of col as a plain Go value, for
// renderers (JSON) that want native types rather than formatted strings.
func cellValue(col column.Column, i int) any {
	switch col.Type() {
	case coltype.Int32:
		return col.(*column.Int32Column).At(i)
	case coltype.Int64:
		return col.(*column.Int64Column).At(i)
	case coltype.Float32:
		return col.(*column.Float32Column).At(i)
	case coltype.Float64:
		return col.(*column.Float64Column).At(i)
	case coltype.String:
		return col.(*column.StringColumn).At(i)
	case coltype.Bool:
		return col.(*column.BitmapColumn).At(i)
	default:
		return nil
	}
}
