// Package cpuset encodes CPU-id sub-ranges and maps a worker index to a
// concrete CPU id. Platform-specific pinning lives in
// cpuset_linux.go / cpuset_stub.go, split by build tag.
package cpuset

// SubRange is a half-open CPU-id interval [Lo, Hi), optionally walked back
// to front when Reversed is set.
type SubRange struct {
	Lo, Hi   int
	Reversed bool
}

func (s SubRange) length() int { return s.Hi - s.Lo }

// Range is an ordered multi-range of CPU ids.
type Range []SubRange

// GetCPUID returns the cpu id of the i-th logical position in range,
// walking sub-ranges in order and wrapping modulo the range's total
// length.
func GetCPUID(i int, r Range) int {
	total := 0
	for _, sr := range r {
		total += sr.length()
	}
	if total <= 0 {
		return 0
	}
	i = i % total
	if i < 0 {
		i += total
	}

	idx := 0
	subrangeSize := r[0].length()
	for subrangeSize <= i {
		i -= subrangeSize
		idx = (idx + 1) % len(r)
		subrangeSize = r[idx].length()
	}
	if r[idx].Reversed {
		i = subrangeSize - 1 - i
	}
	return i + r[idx].Lo
}

// Pin pins the calling OS thread to cpuID. The caller must have already
// called runtime.LockOSThread(), matching the precondition worker
// goroutines observe before calling into platform affinity calls.
func Pin(cpuID int) error {
	return pinPlatform(cpuID)
}

// Profile selects a named CPU pinning layout (Crobat reference hardware).
type Profile string

const (
	ProfileTesting      Profile = "testing"
	ProfileBenchmarking Profile = "benchmarking"
)

const (
	cpusPerNode   = 12
	execNodeCount = 8
)

func nodeRange(execNode, hyperthread int) SubRange {
	nodeNumber := uint64(hyperthread)*execNodeCount + uint64(execNode)
	lo := cpusPerNode * int(nodeNumber)
	hi := cpusPerNode * int(nodeNumber+1)
	return SubRange{Lo: lo, Hi: hi}
}

// CrobatRanges reproduces a reference multi-socket CPU layout: 8 sockets,
// 12 physical CPUs per node, hyperthreads occupying
// cpus_per_node*(h*8+node)..+cpus_per_node for h in {0,1}. Testing covers
// nodes 0..3, benchmarking nodes 4..7.
func CrobatRanges(profile Profile) Range {
	var nodes []int
	switch profile {
	case ProfileBenchmarking:
		nodes = []int{4, 5, 6, 7}
	default:
		nodes = []int{0, 1, 2, 3}
	}
	var r Range
	for _, execNode := range nodes {
		for ht := 0; ht <= 1; ht++ {
			r = append(r, nodeRange(execNode, ht))
		}
	}
	return r
}
