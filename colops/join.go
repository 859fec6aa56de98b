package colops

// knuthMultiplier is Knuth's multiplicative hash constant for 32-bit keys.
// The exact mixing function is otherwise unconstrained: semi-join
// correctness only depends on build and probe agreeing on it, not on which
// one is used.
const knuthMultiplier = 2654435761

func slot(k uint32, capacity int) int {
	return int((k * knuthMultiplier)) % capacity
}

// HashSemiJoinBuild populates an open-addressing table from pk: insert key
// k at slot h(k) mod len(keys), linear probing on collision, used[slot]=1
// marks occupancy. No deletions; capacity must be >= 2*len(pk) to
// guarantee termination.
func HashSemiJoinBuild(keys []uint32, used []uint64, pk []uint32) {
	cap := len(keys)
	for _, k := range pk {
		s := slot(k, cap)
		for used[s] != 0 {
			s = (s + 1) % cap
		}
		keys[s] = k
		used[s] = 1
	}
}

// HashSemiJoinProbe writes into positions the R-row indices (relative to
// the start of the segment fk represents) whose fk is present in the
// table, in R-order, and returns the match count. Semi-join semantics: an
// fk not present in the table emits no position.
func HashSemiJoinProbe(positions []uint64, keys []uint32, used []uint64, fk []uint32) int {
	cap := len(keys)
	if cap == 0 {
		return 0 // empty build side: nothing can match
	}
	matched := 0
	for i, k := range fk {
		s := slot(k, cap)
		for used[s] != 0 {
			if keys[s] == k {
				positions[matched] = uint64(i)
				matched++
				break
			}
			s = (s + 1) % cap
		}
	}
	return matched
}
