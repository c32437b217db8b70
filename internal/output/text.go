package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/truenodb/trueno/internal/batch"
)

// TextRenderer produces Lip Gloss styled terminal output.
type TextRenderer struct {
	w io.Writer
}

func (r *TextRenderer) RenderResult(result *batch.Batch, elapsed time.Duration) {
	fmt.Fprintln(r.w)

	fields := result.Schema().Fields
	widths := columnWidths(result)

	var header strings.Builder
	for i, f := range fields {
		if i > 0 {
			header.WriteString("  ")
		}
		header.WriteString(LabelStyle.Width(widths[i]).Render(f.Name))
	}

	var rows []string
	for i := 0; i < result.NumRows(); i++ {
		var row strings.Builder
		for c, col := range result.Columns() {
			if c > 0 {
				row.WriteString("  ")
			}
			row.WriteString(ValueStyle.Width(widths[c]).Render(cellString(col, i)))
		}
		rows = append(rows, row.String())
	}

	title := TitleStyle.Render("trueno — Query Result")
	body := header.String()
	if len(rows) > 0 {
		body += "\n" + strings.Join(rows, "\n")
	}
	box := BoxStyle.Render(title + "\n" + body)
	fmt.Fprintln(r.w, box)

	footer := MutedText.Render(fmt.Sprintf("%s rows in %s", formatNumber(int64(result.NumRows())), elapsed))
	fmt.Fprintln(r.w, footer)
	fmt.Fprintln(r.w)
}

func (r *TextRenderer) RenderConfig(cfg map[string]string) {
	fmt.Fprintln(r.w)
	var lines []string
	for _, k := range sortedKeys(cfg) {
		lines = append(lines, r.labelValue(k+":", cfg[k]))
	}
	title := TitleStyle.Render("trueno — Engine Configuration")
	box := BoxStyle.Render(title + "\n" + strings.Join(lines, "\n"))
	fmt.Fprintln(r.w, box)
	fmt.Fprintln(r.w)
}

// helpers

func (r *TextRenderer) labelValue(label, value string) string {
	return LabelStyle.Render(label) + " " + ValueStyle.Render(value)
}

// columnWidths picks a display width per column wide enough for the header
// name and every cell in the first few hundred rows.
func columnWidths(b *batch.Batch) []int {
	widths := make([]int, b.Schema().Len())
	for i, f := range b.Schema().Fields {
		widths[i] = len(f.Name)
	}
	limit := b.NumRows()
	if limit > 500 {
		limit = 500
	}
	for c, col := range b.Columns() {
		for i := 0; i < limit; i++ {
			if n := len(cellString(col, i)); n > widths[c] {
				widths[c] = n
			}
		}
	}
	return widths
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func formatNumber(n int64) string {
	if n >= 1_000_000_000 {
		return fmt.Sprintf("%.0f,000,000,000+", float64(n)/1_000_000_000)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
