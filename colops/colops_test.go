package colops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterPacksOneBitPerElement(t *testing.T) {
	in := []int32{1, -1, 0, 7, -8, 3, 0, -2, 9}
	out := make([]byte, (len(in)+7)/8)
	Filter(out, in, func(v int32) bool { return v < 0 })

	for i, v := range in {
		require.Equal(t, v < 0, FilterBit(out, i), "index %d", i)
	}
}

// Build+Probe with S.pk = {0,1,2,3} (identity), R.fk = {0,5,2,9,1}:
// positions = [0,2,4], lengths[0] = 3.
func TestHashSemiJoinBuildProbeIdentityKeys(t *testing.T) {
	pk := []uint32{0, 1, 2, 3}
	capacity := 2 * len(pk)
	keys := make([]uint32, capacity)
	used := make([]uint64, capacity)
	HashSemiJoinBuild(keys, used, pk)

	fk := []uint32{0, 5, 2, 9, 1}
	positions := make([]uint64, len(fk))
	matched := HashSemiJoinProbe(positions, keys, used, fk)

	require.Equal(t, 3, matched)
	require.Equal(t, []uint64{0, 2, 4}, positions[:matched])
}

func TestHashSemiJoinProbeEmptyTable(t *testing.T) {
	capacity := 2
	keys := make([]uint32, capacity)
	used := make([]uint64, capacity)

	fk := []uint32{1, 2, 3}
	positions := make([]uint64, len(fk))
	matched := HashSemiJoinProbe(positions, keys, used, fk)
	require.Equal(t, 0, matched)
}

func TestMaterializePositionListGathersByIndex(t *testing.T) {
	src := []int64{10, 20, 30, 40, 50}
	positions := []uint64{4, 0, 2}
	dst := make([]int64, 5)
	MaterializePositionList(dst, src, positions, 1, 3)
	require.Equal(t, []int64{0, 50, 10, 30, 0}, dst)
}

func TestMultiplyAndReduceAdd(t *testing.T) {
	a := []int64{1, 2, 3, 4}
	b := []int64{5, 6, 7, 8}
	dst := make([]int64, 4)
	Multiply(dst, a, b)
	require.Equal(t, []int64{5, 12, 21, 32}, dst)

	var sum int64
	ReduceAdd(&sum, dst)
	require.Equal(t, int64(70), sum)
}
