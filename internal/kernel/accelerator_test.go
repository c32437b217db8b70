package kernel

import (
	"math/rand"
	"testing"

	"github.com/truenodb/trueno/internal/column"
)

func TestAcceleratorSumIntBitIdenticalToScalar(t *testing.T) {
	vals := make([]int64, 20_000)
	r := rand.New(rand.NewSource(4))
	for i := range vals {
		vals[i] = int64(r.Intn(1_000_000) - 500_000)
	}
	col := column.NewInt64Column(vals)

	scalarSum, err := scalarSet{}.Sum(col)
	if err != nil {
		t.Fatalf("scalar Sum: %v", err)
	}
	accelSum, err := acceleratorSet{}.Sum(col)
	if err != nil {
		t.Fatalf("accelerator Sum: %v", err)
	}
	if scalarSum.I64 != accelSum.I64 {
		t.Fatalf("scalar %d != accelerator %d", scalarSum.I64, accelSum.I64)
	}
}

func TestAcceleratorSumFloatWithinTolerance(t *testing.T) {
	n := 20_000
	vals := make([]float64, n)
	r := rand.New(rand.NewSource(5))
	for i := range vals {
		vals[i] = r.NormFloat64() * 100
	}
	col := column.NewFloat64Column(vals)

	scalarSum, err := scalarSet{}.Sum(col)
	if err != nil {
		t.Fatalf("scalar Sum: %v", err)
	}
	accelSum, err := acceleratorSet{}.Sum(col)
	if err != nil {
		t.Fatalf("accelerator Sum: %v", err)
	}
	sigma := PopulationSigma(vals)
	if !ApproxEqual(scalarSum.F64, accelSum.F64, sigma, 6) {
		t.Fatalf("scalar %v and accelerator %v differ by more than 6 sigma (sigma=%v)", scalarSum.F64, accelSum.F64, sigma)
	}
}

func TestAcceleratorSumDeterministicAcrossRuns(t *testing.T) {
	vals := make([]float64, 5000)
	r := rand.New(rand.NewSource(6))
	for i := range vals {
		vals[i] = r.Float64()
	}
	col := column.NewFloat64Column(vals)

	first, err := acceleratorSet{}.Sum(col)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := acceleratorSet{}.Sum(col)
		if err != nil {
			t.Fatalf("Sum: %v", err)
		}
		if got.F64 != first.F64 {
			t.Fatalf("run %d produced %v, want %v (accelerator sum must be deterministic given fixed workgroup assignment)", i, got.F64, first.F64)
		}
	}
}

func TestAcceleratorEmptyColumn(t *testing.T) {
	col := column.NewFloat64Column(nil)
	got, err := acceleratorSet{}.Sum(col)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if got.F64 != 0 {
		t.Fatalf("Sum over empty column = %v, want 0", got.F64)
	}
}
