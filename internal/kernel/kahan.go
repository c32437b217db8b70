package kernel

// KahanSum implements compensated (Kahan-Babuska) summation, required for
// scalar and vector-CPU float SUM/AVG (spec.md §4.4.2) so that their
// results land within the accelerator's parallel-reduction result under
// the 6-sigma cross-backend equivalence tolerance (spec.md §4.4.2, §8).
func KahanSum(vals []float64) float64 {
	var sum, c float64
	for _, v := range vals {
		y := v - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return sum
}

// KahanCombine folds two partial Kahan accumulators (sum, compensation)
// into one, used when combining per-morsel float sums across morsel
// boundaries (spec.md §5 "Ordering guarantees": non-commutative float
// combine happens in morsel order).
func KahanCombine(sum1, c1, sum2, c2 float64) (sum, c float64) {
	y := (sum2 - c2) - c1
	t := sum1 + y
	c = (t - sum1) - y
	return t, c
}

// TreeSum performs a pairwise (divide-and-conquer) summation, the
// reference shape for the accelerator's tree-combine stage (spec.md
// §4.4.5): splitting the input in half and summing each half recursively
// bounds rounding error to O(log n) rather than Kahan's O(1)-but-serial
// compensation, modeling what a parallel-reduction tree actually computes.
func TreeSum(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	if n <= 8 {
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum
	}
	mid := n / 2
	return TreeSum(vals[:mid]) + TreeSum(vals[mid:])
}
