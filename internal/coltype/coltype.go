// Package coltype holds the engine's closed set of element types, shared by
// column, plan, and kernel so none of them need to import one another just
// to agree on what "Int64" means.
package coltype

// Type is one of the element types spec.md §3.1 supports. String-backed to
// read well in error messages and JSON output, the way the teacher's
// DDLOperation/StatementType enums are.
type Type string

const (
	Int32   Type = "INT32"
	Int64   Type = "INT64"
	Float32 Type = "FLOAT32"
	Float64 Type = "FLOAT64"
	String  Type = "STRING"
	Bool    Type = "BOOL"
)

// Numeric reports whether aggregates and Top-K may operate on values of
// this type (spec.md §3.6).
func (t Type) Numeric() bool {
	switch t {
	case Int32, Int64, Float32, Float64:
		return true
	default:
		return false
	}
}

// Float reports whether t uses the Kahan/tree-reduction float equivalence
// path (spec.md §4.4.2) rather than the bit-identical integer path.
func (t Type) Float() bool {
	return t == Float32 || t == Float64
}

// ElemSize returns the fixed per-element byte width used for morsel sizing
// (spec.md §3.4). String columns are variable-width and must not call this;
// callers measure string columns via their own ByteSize method instead.
func (t Type) ElemSize() int {
	switch t {
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	case Bool:
		return 8 // a Bool column stores one 64-bit word (0 or 1) per element; see column.BitmapColumn
	default:
		panic("coltype: ElemSize called on variable-width type " + string(t))
	}
}
