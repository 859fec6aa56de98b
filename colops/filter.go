// Package colops implements the per-segment column operators the query
// pipeline fans out through thread.Group: filter, hash-semi-join
// build/probe, materialize, multiply, reduce-add. A vectorized SIMD
// kernel is out of scope here; only the per-segment contract is
// normative, which is what this package honors in plain Go.
package colops

import "github.com/momentics/numaq/vam"

// Filter bit-packs one predicate bit per element of in into out, 8 bits
// per output byte regardless of T's width.
func Filter[T vam.Integer](out []byte, in []T, pred func(T) bool) {
	need := (len(in) + 7) / 8
	for i := range out[:need] {
		out[i] = 0
	}
	for i, v := range in {
		if pred(v) {
			out[i/8] |= 1 << uint(i%8)
		}
	}
}

// FilterBit reports the i-th predicate bit packed by Filter.
func FilterBit(bits []byte, i int) bool {
	return bits[i/8]&(1<<uint(i%8)) != 0
}
