// Package xerr defines the engine's error taxonomy as sentinel values so
// callers can classify failures with errors.Is/errors.As instead of string
// matching.
package xerr

import "fmt"

// Sentinel kinds. Wrap these with fmt.Errorf("...: %w", Kind) to attach
// detail; callers compare with errors.Is(err, xerr.SchemaMismatch) etc.
var (
	SchemaMismatch    = &Error{Code: "SchemaMismatch"}
	InvalidInput      = &Error{Code: "InvalidInput"}
	EmptyAggregate    = &Error{Code: "EmptyAggregate"}
	BackendUnavail    = &Error{Code: "BackendUnavailable"}
	CompileError      = &Error{Code: "CompileError"}
	ExecutionFailed   = &Error{Code: "ExecutionFailed"}
	QueueClosed       = &Error{Code: "QueueClosed"}
	Cancelled         = &Error{Code: "Cancelled"}
	IngestFailed      = &Error{Code: "IngestFailed"}
)

// Error is a classification marker. Two *Error values compare equal (for
// errors.Is) iff their Code matches; Detail is informational only.
type Error struct {
	Code   string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// Is implements errors.Is by comparing codes, so a wrapped instance with
// detail still matches the bare sentinel.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Code == e.Code
}

// With returns a new *Error of the same kind carrying a formatted detail
// message, e.g. xerr.InvalidInput.With("column %q not found in schema", name).
func (e *Error) With(format string, args ...any) *Error {
	return &Error{Code: e.Code, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind to an underlying error so both errors.Is(err, kind) and
// errors.Unwrap(err) work, identifying the offending column/op/morsel index
// per spec.md §7's propagation policy.
type wrapped struct {
	kind *Error
	op   string
	err  error
}

func (w *wrapped) Error() string {
	if w.err == nil {
		return fmt.Sprintf("%s: %s", w.kind.Code, w.op)
	}
	return fmt.Sprintf("%s: %s: %v", w.kind.Code, w.op, w.err)
}

func (w *wrapped) Unwrap() error { return w.err }

func (w *wrapped) Is(target error) bool {
	return w.kind.Is(target)
}

// Wrap builds an error identifying kind, a location string (e.g. "column
// revenue, op SUM, morsel 12"), and an optional underlying cause.
func Wrap(kind *Error, op string, cause error) error {
	return &wrapped{kind: kind, op: op, err: cause}
}
