// Package engine wires together the construction surface of spec.md §6.3:
// a Config carrying the engine's tunable knobs and an Engine owning the
// table, dispatcher, kernel cache, and executor built from it. Grounded on
// the teacher's cmd/plan.go wiring sequence (connect -> detect -> collect
// -> analyze -> render), lifted out of cmd so both the CLI and tests can
// drive it without going through cobra.
package engine

import (
	"github.com/truenodb/trueno/internal/dispatch"
	"github.com/truenodb/trueno/internal/kernel/backend"
)

// Config holds every tunable knob spec.md §6.3 names. Zero-value fields
// are filled in from the spec's defaults by Resolve.
type Config struct {
	// MorselLimit bounds morsel memory in bytes (MORSEL_LIMIT).
	MorselLimit int
	// MinAccelBytes is the dispatcher's minimum operand size to consider
	// the accelerator (MIN_ACCEL_BYTES).
	MinAccelBytes int64
	// PCIeBytesPerMs is the assumed host<->accelerator bandwidth
	// (PCIE_BYTES_PER_MS).
	PCIeBytesPerMs int64
	// AccelFlopsPerMs is the assumed accelerator throughput
	// (ACCEL_FLOPS_PER_MS).
	AccelFlopsPerMs int64
	// TransferCap bounds the transfer queue's capacity (TRANSFER_CAP).
	TransferCap int
	// EnabledBackends restricts which backends the dispatcher may choose
	// (BACKEND_ENABLED). Nil or empty means every backend is enabled.
	EnabledBackends []backend.Backend
}

// Spec default knob values (spec.md §6.3).
const (
	DefaultMorselLimit = 128 * 1024 * 1024 // 128 MiB
	DefaultTransferCap = 2
)

// Resolve fills zero-valued fields of c with spec.md §6.3's defaults,
// returning a config ready to build an Engine from.
func (c Config) Resolve() Config {
	if c.MorselLimit <= 0 {
		c.MorselLimit = DefaultMorselLimit
	}
	if c.MinAccelBytes <= 0 {
		c.MinAccelBytes = dispatch.DefaultMinAccelBytes
	}
	if c.PCIeBytesPerMs <= 0 {
		c.PCIeBytesPerMs = dispatch.DefaultPCIeBytesPerMs
	}
	if c.AccelFlopsPerMs <= 0 {
		c.AccelFlopsPerMs = dispatch.DefaultAccelFlopsPerMs
	}
	if c.TransferCap <= 0 {
		c.TransferCap = DefaultTransferCap
	}
	return c
}

func (c Config) dispatcher() *dispatch.Dispatcher {
	d := &dispatch.Dispatcher{
		MinAccelBytes:   c.MinAccelBytes,
		PCIeBytesPerMs:  c.PCIeBytesPerMs,
		AccelFlopsPerMs: c.AccelFlopsPerMs,
	}
	if len(c.EnabledBackends) > 0 {
		d.Enabled = make(map[backend.Backend]bool, len(c.EnabledBackends))
		for _, b := range c.EnabledBackends {
			d.Enabled[b] = true
		}
	}
	return d
}
