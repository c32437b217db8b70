// Package column implements the fixed-width typed column primitives of
// spec.md §3.1: an element count, a logical type, and an immutable backing
// byte buffer, shared read-only between producers and consumers.
package column

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/truenodb/trueno/internal/coltype"
)

// Column is the common interface every typed column satisfies. Concrete
// columns (Int32Column, ...) expose typed accessors on top; executor and
// kernel code type-switches on Type() to reach them.
type Column interface {
	Type() coltype.Type
	Len() int
	// ByteSize is the column's footprint in the shared buffer, used for
	// morsel sizing (spec.md §3.4) and dispatcher input (spec.md §4.3).
	ByteSize() int
	// Slice returns a zero-copy view over [start, end) sharing the same
	// backing buffer.
	Slice(start, end int) Column
	// Equal reports value equality: same length, same buffer contents.
	Equal(other Column) bool
}

// fixedWidth is the shared implementation backing the four numeric column
// types: an immutable byte buffer plus an element count and stride.
type fixedWidth struct {
	buf    []byte
	length int
	stride int
}

func (f fixedWidth) ByteSize() int { return f.length * f.stride }
func (f fixedWidth) Len() int      { return f.length }

func (f fixedWidth) slice(start, end int) fixedWidth {
	if start < 0 || end > f.length || start > end {
		panic("column: slice out of range")
	}
	return fixedWidth{
		buf:    f.buf[start*f.stride : end*f.stride],
		length: end - start,
		stride: f.stride,
	}
}

func (f fixedWidth) equalBytes(o fixedWidth) bool {
	return f.length == o.length && bytes.Equal(f.buf, o.buf)
}

// Int32Column holds signed 32-bit integers.
type Int32Column struct{ fixedWidth }

// NewInt32Column copies vals into a fresh immutable buffer.
func NewInt32Column(vals []int32) *Int32Column {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	return &Int32Column{fixedWidth{buf: buf, length: len(vals), stride: 4}}
}

func (c *Int32Column) Type() coltype.Type { return coltype.Int32 }

func (c *Int32Column) At(i int) int32 {
	return int32(binary.LittleEndian.Uint32(c.buf[i*4:]))
}

func (c *Int32Column) Values() []int32 {
	out := make([]int32, c.length)
	for i := range out {
		out[i] = c.At(i)
	}
	return out
}

func (c *Int32Column) Slice(start, end int) Column {
	return &Int32Column{c.slice(start, end)}
}

func (c *Int32Column) Equal(other Column) bool {
	o, ok := other.(*Int32Column)
	return ok && c.equalBytes(o.fixedWidth)
}

// Int64Column holds signed 64-bit integers.
type Int64Column struct{ fixedWidth }

func NewInt64Column(vals []int64) *Int64Column {
	buf := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(v))
	}
	return &Int64Column{fixedWidth{buf: buf, length: len(vals), stride: 8}}
}

func (c *Int64Column) Type() coltype.Type { return coltype.Int64 }

func (c *Int64Column) At(i int) int64 {
	return int64(binary.LittleEndian.Uint64(c.buf[i*8:]))
}

func (c *Int64Column) Values() []int64 {
	out := make([]int64, c.length)
	for i := range out {
		out[i] = c.At(i)
	}
	return out
}

func (c *Int64Column) Slice(start, end int) Column {
	return &Int64Column{c.slice(start, end)}
}

func (c *Int64Column) Equal(other Column) bool {
	o, ok := other.(*Int64Column)
	return ok && c.equalBytes(o.fixedWidth)
}

// Float32Column holds IEEE-754 single-precision floats.
type Float32Column struct{ fixedWidth }

func NewFloat32Column(vals []float32) *Float32Column {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return &Float32Column{fixedWidth{buf: buf, length: len(vals), stride: 4}}
}

func (c *Float32Column) Type() coltype.Type { return coltype.Float32 }

func (c *Float32Column) At(i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(c.buf[i*4:]))
}

func (c *Float32Column) Values() []float32 {
	out := make([]float32, c.length)
	for i := range out {
		out[i] = c.At(i)
	}
	return out
}

func (c *Float32Column) Slice(start, end int) Column {
	return &Float32Column{c.slice(start, end)}
}

func (c *Float32Column) Equal(other Column) bool {
	o, ok := other.(*Float32Column)
	return ok && c.equalBytes(o.fixedWidth)
}

// Float64Column holds IEEE-754 double-precision floats.
type Float64Column struct{ fixedWidth }

func NewFloat64Column(vals []float64) *Float64Column {
	buf := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return &Float64Column{fixedWidth{buf: buf, length: len(vals), stride: 8}}
}

func (c *Float64Column) Type() coltype.Type { return coltype.Float64 }

func (c *Float64Column) At(i int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(c.buf[i*8:]))
}

func (c *Float64Column) Values() []float64 {
	out := make([]float64, c.length)
	for i := range out {
		out[i] = c.At(i)
	}
	return out
}

func (c *Float64Column) Slice(start, end int) Column {
	return &Float64Column{c.slice(start, end)}
}

func (c *Float64Column) Equal(other Column) bool {
	o, ok := other.(*Float64Column)
	return ok && c.equalBytes(o.fixedWidth)
}

// BitmapColumn holds the 64-bit-wide boolean predicate output of the filter
// kernel (spec.md §3.1: "64-bit boolean predicates produced by filtering").
// Each element is stored as a full uint64 (0 or 1) rather than bit-packed,
// matching the spec's literal wording and keeping the filter kernel's output
// the same element width as any other fixed-width column.
type BitmapColumn struct{ fixedWidth }

func NewBitmapColumn(vals []bool) *BitmapColumn {
	buf := make([]byte, len(vals)*8)
	for i, v := range vals {
		if v {
			binary.LittleEndian.PutUint64(buf[i*8:], 1)
		}
	}
	return &BitmapColumn{fixedWidth{buf: buf, length: len(vals), stride: 8}}
}

func (c *BitmapColumn) Type() coltype.Type { return coltype.Bool }

func (c *BitmapColumn) At(i int) bool {
	return binary.LittleEndian.Uint64(c.buf[i*8:]) != 0
}

func (c *BitmapColumn) Values() []bool {
	out := make([]bool, c.length)
	for i := range out {
		out[i] = c.At(i)
	}
	return out
}

func (c *BitmapColumn) Slice(start, end int) Column {
	return &BitmapColumn{c.slice(start, end)}
}

func (c *BitmapColumn) Equal(other Column) bool {
	o, ok := other.(*BitmapColumn)
	return ok && c.equalBytes(o.fixedWidth)
}

// StringColumn holds UTF-8 text as a shared byte buffer plus an offsets
// table (length+1 entries), the standard "values+offsets" layout for
// variable-width columnar text.
type StringColumn struct {
	data    []byte
	offsets []int32 // length+1 entries; data[offsets[i]:offsets[i+1]] is element i
	length  int
}

func NewStringColumn(vals []string) *StringColumn {
	offsets := make([]int32, len(vals)+1)
	var total int32
	for i, v := range vals {
		total += int32(len(v))
		offsets[i+1] = total
	}
	data := make([]byte, 0, total)
	for _, v := range vals {
		data = append(data, v...)
	}
	return &StringColumn{data: data, offsets: offsets, length: len(vals)}
}

func (c *StringColumn) Type() coltype.Type { return coltype.String }
func (c *StringColumn) Len() int           { return c.length }

func (c *StringColumn) ByteSize() int {
	return len(c.data) + len(c.offsets)*4
}

func (c *StringColumn) At(i int) string {
	return string(c.data[c.offsets[i]:c.offsets[i+1]])
}

func (c *StringColumn) Values() []string {
	out := make([]string, c.length)
	for i := range out {
		out[i] = c.At(i)
	}
	return out
}

func (c *StringColumn) Slice(start, end int) Column {
	if start < 0 || end > c.length || start > end {
		panic("column: slice out of range")
	}
	offsets := make([]int32, end-start+1)
	base := c.offsets[start]
	for i := range offsets {
		offsets[i] = c.offsets[start+i] - base
	}
	return &StringColumn{
		data:    c.data[c.offsets[start]:c.offsets[end]],
		offsets: offsets,
		length:  end - start,
	}
}

func (c *StringColumn) Equal(other Column) bool {
	o, ok := other.(*StringColumn)
	if !ok || c.length != o.length {
		return false
	}
	for i := 0; i < c.length; i++ {
		if c.At(i) != o.At(i) {
			return false
		}
	}
	return true
}
