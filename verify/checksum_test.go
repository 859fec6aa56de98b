package verify

import (
	"testing"

	"github.com/momentics/numaq/config"
	"github.com/momentics/numaq/query"
	"github.com/momentics/numaq/vam"
	"github.com/stretchr/testify/require"
)

func testMemMap() *config.MemoryMap {
	return config.NewMemoryMap(map[int]config.MemoryClass{0: config.DRAM, 1: config.HBM})
}

func TestChecksumMatchesHandComputedSum(t *testing.T) {
	alloc := vam.NewNumaAllocator()
	mm := testMemMap()

	tables, err := query.Generate(alloc, 40, 10, query.DefaultElemsPerSegment, mm)
	require.NoError(t, err)

	a := tables.R.A.Elements()
	b := tables.R.B.Elements()
	fk := tables.R.FK.Elements()
	pk := tables.S.PK.Elements()

	present := make(map[uint32]bool, len(pk))
	for _, k := range pk {
		present[k] = true
	}
	var want int64
	for i := range a {
		if present[fk[i]] {
			want += a[i] * b[i]
		}
	}

	require.Equal(t, want, Checksum(tables))
}

func TestChecksumZeroWhenDimensionTableEmpty(t *testing.T) {
	alloc := vam.NewNumaAllocator()
	mm := testMemMap()

	tables, err := query.Generate(alloc, 30, 0, query.DefaultElemsPerSegment, mm)
	require.NoError(t, err)

	require.Equal(t, int64(0), Checksum(tables))
}

func TestThroughputHandlesZeroDuration(t *testing.T) {
	require.Equal(t, 0.0, Throughput(1024, 0))
	require.Equal(t, 1024.0, Throughput(1024, 1))
}
