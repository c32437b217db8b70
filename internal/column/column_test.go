package column

import "testing"

func TestInt32ColumnRoundTrip(t *testing.T) {
	c := NewInt32Column([]int32{1, 2, 3, 4})
	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}
	if c.ByteSize() != 16 {
		t.Fatalf("ByteSize() = %d, want 16", c.ByteSize())
	}
	for i, want := range []int32{1, 2, 3, 4} {
		if got := c.At(i); got != want {
			t.Errorf("At(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestInt32ColumnSliceIsZeroCopy(t *testing.T) {
	c := NewInt32Column([]int32{10, 20, 30, 40, 50})
	s := c.Slice(1, 4).(*Int32Column)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	want := []int32{20, 30, 40}
	for i, w := range want {
		if got := s.At(i); got != w {
			t.Errorf("At(%d) = %d, want %d", i, got, w)
		}
	}
	// Slicing shares the backing array: both columns' buffers point into
	// the same underlying allocation.
	if &s.buf[0] != &c.buf[4] {
		t.Fatalf("slice does not share backing buffer")
	}
}

func TestColumnEqual(t *testing.T) {
	a := NewInt64Column([]int64{1, 2, 3})
	b := NewInt64Column([]int64{1, 2, 3})
	cc := NewInt64Column([]int64{1, 2, 4})
	if !a.Equal(b) {
		t.Errorf("expected equal columns to compare equal")
	}
	if a.Equal(cc) {
		t.Errorf("expected differing columns to compare unequal")
	}
	if a.Equal(NewInt32Column([]int32{1, 2, 3})) {
		t.Errorf("expected differing types to compare unequal")
	}
}

func TestBitmapColumn(t *testing.T) {
	c := NewBitmapColumn([]bool{true, false, true})
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	want := []bool{true, false, true}
	for i, w := range want {
		if got := c.At(i); got != w {
			t.Errorf("At(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestStringColumn(t *testing.T) {
	c := NewStringColumn([]string{"foo", "", "bazinga"})
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if c.At(0) != "foo" || c.At(1) != "" || c.At(2) != "bazinga" {
		t.Fatalf("unexpected values: %v", c.Values())
	}

	s := c.Slice(1, 3).(*StringColumn)
	if s.At(0) != "" || s.At(1) != "bazinga" {
		t.Fatalf("slice values = %v", s.Values())
	}
}

func TestStringColumnEqual(t *testing.T) {
	a := NewStringColumn([]string{"a", "bb"})
	b := NewStringColumn([]string{"a", "bb"})
	c := NewStringColumn([]string{"a", "bc"})
	if !a.Equal(b) {
		t.Errorf("expected equal")
	}
	if a.Equal(c) {
		t.Errorf("expected unequal")
	}
}

func TestFloatColumnRoundTrip(t *testing.T) {
	c := NewFloat64Column([]float64{1.5, -2.25, 3.0})
	for i, want := range []float64{1.5, -2.25, 3.0} {
		if got := c.At(i); got != want {
			t.Errorf("At(%d) = %v, want %v", i, got, want)
		}
	}
}
