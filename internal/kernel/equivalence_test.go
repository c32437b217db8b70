package kernel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/kernel/backend"

	"github.com/truenodb/trueno/internal/column"
)

// TestCrossBackendIntSumBitIdentical exercises spec.md §8 scenario 1/4: the
// three backends must agree bit-for-bit on integer SUM, never merely
// approximately.
func TestCrossBackendIntSumBitIdentical(t *testing.T) {
	vals := make([]int32, 50_000)
	r := rand.New(rand.NewSource(42))
	for i := range vals {
		vals[i] = int32(r.Intn(2_000_000) - 1_000_000)
	}
	col := column.NewInt32Column(vals)

	results := make(map[backend.Backend]int64)
	for _, b := range []backend.Backend{backend.Scalar, backend.VectorCpu, backend.Accelerator} {
		got, err := For(b).Sum(col)
		if err != nil {
			t.Fatalf("%s Sum: %v", b, err)
		}
		results[b] = got.I64
	}
	if results[backend.Scalar] != results[backend.VectorCpu] || results[backend.Scalar] != results[backend.Accelerator] {
		t.Fatalf("backends disagree on integer SUM: %+v", results)
	}
}

// TestCrossBackendIntSumWrapsAt32BitAcrossBackends exercises spec.md §8
// scenario 2 directly: summing [MaxInt32, 1] over an Int32 column must wrap
// to math.MinInt32 on every backend, not just the scalar one. A random
// in-range fixture (as in TestCrossBackendIntSumBitIdentical) never
// triggers 32-bit overflow, so it can't catch a backend that widens to
// int64 before combining instead of wrapping at 32 bits first.
func TestCrossBackendIntSumWrapsAt32BitAcrossBackends(t *testing.T) {
	vals := []int32{math.MaxInt32, 1}
	col := column.NewInt32Column(vals)
	want := int64(math.MinInt32)

	for _, b := range []backend.Backend{backend.Scalar, backend.VectorCpu, backend.Accelerator} {
		got, err := For(b).Sum(col)
		if err != nil {
			t.Fatalf("%s Sum: %v", b, err)
		}
		if got.I64 != want {
			t.Errorf("%s Sum([MaxInt32, 1]) = %d, want %d (wrapped)", b, got.I64, want)
		}
	}
}

// TestCrossBackendIntSumWrapsAt32BitLargeFanout exercises the same wrap
// invariant with enough elements to span multiple accelerator workgroups
// and multiple vector-CPU lanes, so a backend that only wraps within a
// single group/lane (but widens across groups) would still be caught.
func TestCrossBackendIntSumWrapsAt32BitLargeFanout(t *testing.T) {
	n := workgroupWidth*3 + 7
	vals := make([]int32, n)
	for i := range vals {
		vals[i] = math.MaxInt32 / int32(n)
	}
	vals[0] = math.MaxInt32
	col := column.NewInt32Column(vals)

	want, err := For(backend.Scalar).Sum(col)
	if err != nil {
		t.Fatalf("Scalar Sum: %v", err)
	}

	for _, b := range []backend.Backend{backend.VectorCpu, backend.Accelerator} {
		got, err := For(b).Sum(col)
		if err != nil {
			t.Fatalf("%s Sum: %v", b, err)
		}
		if got.I64 != want.I64 {
			t.Errorf("%s Sum = %d, want %d (scalar, wrapped)", b, got.I64, want.I64)
		}
	}
}

// TestCrossBackendFusedFilterSumWrapsAt32Bit exercises spec.md §4.4.4: a
// fused filter+SUM over an Int32 column must wrap at 32 bits exactly like
// the unfused filter-then-SUM path, even when the matched subset overflows
// int32 on its own.
func TestCrossBackendFusedFilterSumWrapsAt32Bit(t *testing.T) {
	vals := []int32{math.MaxInt32, 1, -1}
	col := column.NewInt32Column(vals)
	want := int64(math.MinInt32)

	for _, b := range []backend.Backend{backend.Scalar, backend.VectorCpu, backend.Accelerator} {
		got, err := For(b).FusedFilterAgg(col, aggop.GE, Literal{I: 0}, aggop.Sum)
		if err != nil {
			t.Fatalf("%s FusedFilterAgg: %v", b, err)
		}
		if got.I64 != want {
			t.Errorf("%s fused filter+SUM(>=0) = %d, want %d (wrapped)", b, got.I64, want)
		}
	}
}

// TestCrossBackendFloatSumWithinSixSigma exercises spec.md §8 scenario 8/9:
// float SUM need not be bit-identical across backends, only within 6
// standard deviations of the input distribution.
func TestCrossBackendFloatSumWithinSixSigma(t *testing.T) {
	n := 100_000
	vals := make([]float64, n)
	r := rand.New(rand.NewSource(43))
	for i := range vals {
		vals[i] = r.NormFloat64()
	}
	col := column.NewFloat64Column(vals)
	sigma := PopulationSigma(vals)

	results := make(map[backend.Backend]float64)
	for _, b := range []backend.Backend{backend.Scalar, backend.VectorCpu, backend.Accelerator} {
		got, err := For(b).Sum(col)
		if err != nil {
			t.Fatalf("%s Sum: %v", b, err)
		}
		results[b] = got.F64
	}
	for _, b := range []backend.Backend{backend.VectorCpu, backend.Accelerator} {
		if !ApproxEqual(results[backend.Scalar], results[b], sigma, 6) {
			t.Fatalf("Scalar sum %v and %s sum %v differ by more than 6 sigma (sigma=%v)", results[backend.Scalar], b, results[b], sigma)
		}
	}
}

func TestApproxEqualBothNaN(t *testing.T) {
	if !ApproxEqual(math.NaN(), math.NaN(), 1, 6) {
		t.Fatalf("ApproxEqual(NaN, NaN) = false, want true")
	}
}

func TestApproxEqualOneNaN(t *testing.T) {
	if ApproxEqual(math.NaN(), 1, 1, 6) {
		t.Fatalf("ApproxEqual(NaN, 1) = true, want false")
	}
}

func TestApproxEqualZeroSigmaRequiresExact(t *testing.T) {
	if !ApproxEqual(1, 1, 0, 6) {
		t.Fatalf("ApproxEqual(1, 1, sigma=0) = false, want true")
	}
	if ApproxEqual(1, 1.0001, 0, 6) {
		t.Fatalf("ApproxEqual(1, 1.0001, sigma=0) = true, want false")
	}
}

func TestPopulationSigmaEmpty(t *testing.T) {
	if got := PopulationSigma(nil); got != 0 {
		t.Fatalf("PopulationSigma(nil) = %v, want 0", got)
	}
}

func TestPopulationSigmaKnownDistribution(t *testing.T) {
	// population stdev of {2,4,4,4,5,5,7,9} is 2.
	vals := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := PopulationSigma(vals)
	if math.Abs(got-2) > 1e-9 {
		t.Fatalf("PopulationSigma = %v, want 2", got)
	}
}
