// Package schema defines the ordered (name, type, nullable) triples shared
// by column, batch, table, and plan (spec.md §3.2).
package schema

import (
	"strings"

	"github.com/truenodb/trueno/internal/coltype"
)

// Field is one (name, type, nullable) triple.
type Field struct {
	Name     string
	Type     coltype.Type
	Nullable bool
}

// Schema is an ordered sequence of fields. Two schemas are equal iff their
// field sequences match exactly (spec.md §3.3: "Appending a batch whose
// schema differs from the table's fails").
type Schema struct {
	Fields []Field
}

// New builds a Schema from fields, preserving order.
func New(fields ...Field) Schema {
	return Schema{Fields: append([]Field(nil), fields...)}
}

// Len returns the number of fields.
func (s Schema) Len() int { return len(s.Fields) }

// IndexOf returns the position of name in the schema, or -1 if absent.
func (s Schema) IndexOf(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Field returns the field at name, and whether it was found.
func (s Schema) Field(name string) (Field, bool) {
	i := s.IndexOf(name)
	if i < 0 {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Equal reports whether s and o declare the same fields in the same order.
func (s Schema) Equal(o Schema) bool {
	if len(s.Fields) != len(o.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i] != o.Fields[i] {
			return false
		}
	}
	return true
}

// Names returns the field names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

func (s Schema) String() string {
	var b strings.Builder
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(" ")
		b.WriteString(string(f.Type))
		if f.Nullable {
			b.WriteString(" NULL")
		}
	}
	return b.String()
}
