package ingest

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
)

// columnBuilder accumulates one column's values out of the
// driver-agnostic sql.NullString scan buffer scanAll uses for every
// column, parsing into the concrete Go type coltype.Type calls for.
type columnBuilder interface {
	append(v sql.NullString, t coltype.Type) error
	build() column.Column
}

func newColumnBuilder(t coltype.Type) columnBuilder {
	switch t {
	case coltype.Int32:
		return &int32Builder{}
	case coltype.Int64:
		return &int64Builder{}
	case coltype.Float32:
		return &float32Builder{}
	case coltype.Float64:
		return &float64Builder{}
	case coltype.Bool:
		return &boolBuilder{}
	default:
		return &stringBuilder{}
	}
}

type int32Builder struct{ vals []int32 }

func (b *int32Builder) append(v sql.NullString, _ coltype.Type) error {
	if !v.Valid {
		b.vals = append(b.vals, 0)
		return nil
	}
	n, err := strconv.ParseInt(v.String, 10, 32)
	if err != nil {
		return fmt.Errorf("parsing %q as int32: %w", v.String, err)
	}
	b.vals = append(b.vals, int32(n))
	return nil
}
func (b *int32Builder) build() column.Column { return column.NewInt32Column(b.vals) }

type int64Builder struct{ vals []int64 }

func (b *int64Builder) append(v sql.NullString, _ coltype.Type) error {
	if !v.Valid {
		b.vals = append(b.vals, 0)
		return nil
	}
	n, err := strconv.ParseInt(v.String, 10, 64)
	if err != nil {
		return fmt.Errorf("parsing %q as int64: %w", v.String, err)
	}
	b.vals = append(b.vals, n)
	return nil
}
func (b *int64Builder) build() column.Column { return column.NewInt64Column(b.vals) }

type float32Builder struct{ vals []float32 }

func (b *float32Builder) append(v sql.NullString, _ coltype.Type) error {
	if !v.Valid {
		b.vals = append(b.vals, 0)
		return nil
	}
	f, err := strconv.ParseFloat(v.String, 32)
	if err != nil {
		return fmt.Errorf("parsing %q as float32: %w", v.String, err)
	}
	b.vals = append(b.vals, float32(f))
	return nil
}
func (b *float32Builder) build() column.Column { return column.NewFloat32Column(b.vals) }

type float64Builder struct{ vals []float64 }

func (b *float64Builder) append(v sql.NullString, _ coltype.Type) error {
	if !v.Valid {
		b.vals = append(b.vals, 0)
		return nil
	}
	f, err := strconv.ParseFloat(v.String, 64)
	if err != nil {
		return fmt.Errorf("parsing %q as float64: %w", v.String, err)
	}
	b.vals = append(b.vals, f)
	return nil
}
func (b *float64Builder) build() column.Column { return column.NewFloat64Column(b.vals) }

type boolBuilder struct{ vals []bool }

func (b *boolBuilder) append(v sql.NullString, _ coltype.Type) error {
	if !v.Valid {
		b.vals = append(b.vals, false)
		return nil
	}
	switch v.String {
	case "1", "true", "TRUE":
		b.vals = append(b.vals, true)
	case "0", "false", "FALSE":
		b.vals = append(b.vals, false)
	default:
		return fmt.Errorf("parsing %q as bool", v.String)
	}
	return nil
}
func (b *boolBuilder) build() column.Column { return column.NewBitmapColumn(b.vals) }

type stringBuilder struct{ vals []string }

func (b *stringBuilder) append(v sql.NullString, _ coltype.Type) error {
	b.vals = append(b.vals, v.String)
	return nil
}
func (b *stringBuilder) build() column.Column { return column.NewStringColumn(b.vals) }
