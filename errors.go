package ogst

import "fmt"

// ErrAlphabetMismatch names the failure of supplying symbols of a type
// incompatible with the alphabet already in use by the indexed sequences.
// No method of Tree returns it: the generic type parameter of Tree makes
// every symbol passed to Extend or a query statically of type S, so the
// mismatch cannot arise at runtime.
var ErrAlphabetMismatch = fmt.Errorf("ogst: alphabet mismatch")

// assertf panics with a formatted message if cond is false. It guards
// internal invariants of the construction algorithm: violating one of them
// means the tree has been driven into an inconsistent state by a bug in
// this package, not by caller input, so there is no recoverable error path
// and no attempt at rollback.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("ogst: invariant violated: "+format, args...))
	}
}
