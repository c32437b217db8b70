// Package backend names the three concrete kernel-set implementations of
// spec.md §4.4, kept as its own tiny package so the dispatcher, the kernel
// implementations, and the executor can all refer to the same closed enum
// without importing each other.
package backend

// Backend is one of the three kernel-set implementations. The dispatcher
// returns a tag; the executor uses the tag to select concrete functions —
// no virtual dispatch in the hot loop (spec.md §9 "Backend polymorphism").
type Backend string

const (
	Scalar      Backend = "Scalar"
	VectorCpu   Backend = "VectorCpu"
	Accelerator Backend = "Accelerator"
)

// Fallback returns the next tier down the Accelerator -> VectorCpu ->
// Scalar chain, and false if b is already Scalar (spec.md §7:
// BackendUnavailable triggers a single fallback attempt in that order).
func (b Backend) Fallback() (Backend, bool) {
	switch b {
	case Accelerator:
		return VectorCpu, true
	case VectorCpu:
		return Scalar, true
	default:
		return Scalar, false
	}
}
