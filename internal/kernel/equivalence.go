package kernel

import "math"

// PopulationSigma returns the population standard deviation of vals — the
// σ spec.md §9's Open Question pins float cross-backend equivalence to
// ("the standard deviation of the aggregate's input column values", not
// per-morsel partial sums).
func PopulationSigma(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	var mean float64
	for _, v := range vals {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for _, v := range vals {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	return math.Sqrt(variance)
}

// ApproxEqual is the test utility spec.md §4.4.2/§8 requires for checking
// cross-backend float aggregate equivalence: a and b agree if they differ
// by no more than tolerance standard deviations, i.e. |a-b| <= tolerance*sigma.
// If both are NaN they're considered equal (NaN propagation, spec.md
// §4.4.2); if exactly one is NaN they are not.
func ApproxEqual(a, b, sigma, tolerance float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if sigma == 0 {
		return a == b
	}
	return math.Abs(a-b) <= tolerance*sigma
}
