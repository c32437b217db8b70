// Package dispatch implements the cost-based backend dispatcher of
// spec.md §4.3: a pure, deterministic function from operand size and
// estimated work to a backend choice. Grounded in shape on the
// roofline-style transfer-vs-compute comparison in
// _examples/other_examples/…inference-sim-inference-sim__sim-latency-roofline.go.go
// (constants-first, a short ordered decision, no hidden state).
package dispatch

import "github.com/truenodb/trueno/internal/kernel/backend"

// Tunable physical constants (spec.md §6.3). Defaults match the spec;
// engine.Config overrides them per instance.
const (
	DefaultMinAccelBytes   = 10_000_000
	DefaultPCIeBytesPerMs  = 32_000_000
	DefaultAccelFlopsPerMs = 100_000_000
)

// Dispatcher selects a backend per physical operator from data size and a
// FLOP estimate. It carries no mutable state; Select is a pure function of
// its inputs and the dispatcher's fixed constants (spec.md "Guarantees:
// Deterministic for given inputs; no hidden state").
type Dispatcher struct {
	MinAccelBytes   int64
	PCIeBytesPerMs  int64
	AccelFlopsPerMs int64
	// Enabled restricts which backends Select may return (spec.md §6.3
	// BACKEND_ENABLED). A nil or empty map means all backends are enabled.
	Enabled map[backend.Backend]bool
}

// New builds a Dispatcher with the spec's default physical constants and
// every backend enabled.
func New() *Dispatcher {
	return &Dispatcher{
		MinAccelBytes:   DefaultMinAccelBytes,
		PCIeBytesPerMs:  DefaultPCIeBytesPerMs,
		AccelFlopsPerMs: DefaultAccelFlopsPerMs,
	}
}

func (d *Dispatcher) enabled(b backend.Backend) bool {
	if len(d.Enabled) == 0 {
		return true
	}
	return d.Enabled[b]
}

// Select implements the decision of spec.md §4.3, evaluated in order:
//  1. total_bytes < MIN_ACCEL_BYTES  -> VectorCpu
//  2. compute_ms > 5 * transfer_ms   -> Accelerator
//  3. otherwise                     -> VectorCpu
//
// then degrades the result to Scalar if the chosen backend (or VectorCpu,
// as the non-accelerator fallback) is disabled by configuration.
func (d *Dispatcher) Select(totalBytes int64, estimatedFlops float64) backend.Backend {
	choice := backend.VectorCpu
	if totalBytes >= d.MinAccelBytes {
		transferMs := float64(totalBytes) / float64(d.PCIeBytesPerMs)
		computeMs := estimatedFlops / float64(d.AccelFlopsPerMs)
		if computeMs > 5*transferMs {
			choice = backend.Accelerator
		}
	}
	return d.degrade(choice)
}

// degrade steps a preferred backend down the Accelerator -> VectorCpu ->
// Scalar chain until it lands on one this dispatcher allows (spec.md §4.3
// step 5, and the same fallback order the executor uses for
// BackendUnavailable recovery, spec.md §7).
func (d *Dispatcher) degrade(choice backend.Backend) backend.Backend {
	order := []backend.Backend{backend.Accelerator, backend.VectorCpu, backend.Scalar}
	start := 0
	for i, b := range order {
		if b == choice {
			start = i
			break
		}
	}
	for _, b := range order[start:] {
		if d.enabled(b) {
			return b
		}
	}
	return backend.Scalar
}

// EstimatedFlops returns the FLOP estimate for op over n elements, per the
// per-element rates of spec.md §4.3: 1 op/element for SUM/COUNT/MIN/MAX/
// FILTER, 2 ops/element for AVG and for the fused filter+aggregate.
func EstimatedFlops(opsPerElement float64, n int) float64 {
	return opsPerElement * float64(n)
}
