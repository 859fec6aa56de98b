// Package thread implements a named thread-group engine and thread
// manager: type-generic fan-out of a function over N workers with
// split-or-replicate argument dispatch, a one-shot start barrier, join,
// CPU pinning, and dual-level timing.
package thread

// Splittable is implemented by any argument that should be partitioned
// per worker rather than replicated, expressed as an ordinary interface
// instead of template metaprogramming.
type Splittable interface {
	// SplitN partitions the value into exactly n per-worker slivers.
	SplitN(n int) []any
}

// Split wraps a Splittable value so Group.precomputeSlivers
// recognizes it and slices it rather than replicating it by value.
type Split struct {
	Value Splittable
}
