// Package verify provides an unoptimized, trustworthy reference path for
// validating the query pipeline's output, plus throughput reporting.
package verify

import "github.com/momentics/numaq/query"

// Checksum computes sum(a[i]*b[i]) over every row of t.R whose fk is
// present in t.S.PK, using a plain Go map instead of the pipeline's
// hash-semi-join and thread fan-out. Intended only as a correctness
// oracle — quadratic-memory-safe but not performance-competitive.
func Checksum(t query.Tables) int64 {
	present := make(map[uint32]bool, t.S.M)
	for _, k := range t.S.PK.Elements() {
		present[k] = true
	}

	a := t.R.A.Elements()
	b := t.R.B.Elements()
	fk := t.R.FK.Elements()

	var sum int64
	for i := range a {
		if present[fk[i]] {
			sum += a[i] * b[i]
		}
	}
	return sum
}

// Throughput reports bytes processed per second over seconds wall-clock
// time; seconds <= 0 reports zero rather than dividing by zero.
func Throughput(bytesProcessed uint64, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return float64(bytesProcessed) / seconds
}
