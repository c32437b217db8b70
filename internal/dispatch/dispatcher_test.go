package dispatch

import (
	"testing"

	"github.com/truenodb/trueno/internal/kernel/backend"
)

func TestSelectBelowMinAccelBytes(t *testing.T) {
	d := New()
	got := d.Select(9_999_999, 1e11)
	if got != backend.VectorCpu {
		t.Fatalf("Select() = %v, want VectorCpu", got)
	}
}

func TestSelectCrossoverToAccelerator(t *testing.T) {
	d := New()
	// spec.md §8 scenario 7: total_bytes=1e9, estimated_flops=1e11 ->
	// compute_ms=1000, transfer_ms=31.25, compute > 5*transfer -> Accelerator.
	got := d.Select(1_000_000_000, 1e11)
	if got != backend.Accelerator {
		t.Fatalf("Select() = %v, want Accelerator", got)
	}
}

func TestSelectStaysVectorCpuWhenComputeLight(t *testing.T) {
	d := New()
	// Large transfer, tiny compute: compute_ms far below 5*transfer_ms.
	got := d.Select(1_000_000_000, 1e6)
	if got != backend.VectorCpu {
		t.Fatalf("Select() = %v, want VectorCpu", got)
	}
}

func TestSelectDeterministic(t *testing.T) {
	d := New()
	a := d.Select(50_000_000, 1e9)
	b := d.Select(50_000_000, 1e9)
	if a != b {
		t.Fatalf("non-deterministic: %v != %v", a, b)
	}
}

func TestSelectDegradesWhenAcceleratorDisabled(t *testing.T) {
	d := New()
	d.Enabled = map[backend.Backend]bool{backend.VectorCpu: true, backend.Scalar: true}
	got := d.Select(1_000_000_000, 1e11) // would otherwise choose Accelerator
	if got != backend.VectorCpu {
		t.Fatalf("Select() = %v, want VectorCpu (degraded from Accelerator)", got)
	}
}

func TestSelectDegradesToScalarWhenOnlyScalarEnabled(t *testing.T) {
	d := New()
	d.Enabled = map[backend.Backend]bool{backend.Scalar: true}
	got := d.Select(1_000_000_000, 1e11)
	if got != backend.Scalar {
		t.Fatalf("Select() = %v, want Scalar", got)
	}
}

func TestEstimatedFlops(t *testing.T) {
	if got := EstimatedFlops(2, 100); got != 200 {
		t.Fatalf("EstimatedFlops() = %v, want 200", got)
	}
}
