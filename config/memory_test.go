package config

import (
	"testing"

	"github.com/momentics/numaq/numaerr"
	"github.com/stretchr/testify/require"
)

func TestFirstNodePrefersHBMFallback(t *testing.T) {
	mm := NewMemoryMap(map[int]MemoryClass{0: DRAM, 1: HBM})
	node, err := mm.FirstNode(HBM)
	require.NoError(t, err)
	require.Equal(t, 1, node)

	node, err = mm.FirstNode(DRAM)
	require.NoError(t, err)
	require.Equal(t, 0, node)
}

func TestFirstNodeFallsBackToAnyWhenNoHBM(t *testing.T) {
	mm := NewMemoryMap(map[int]MemoryClass{0: DRAM})
	_, err := mm.FirstNode(HBM)
	require.ErrorIs(t, err, numaerr.ErrNoSuchMemoryClass)

	node, err := mm.FirstNode(AnyClass)
	require.NoError(t, err)
	require.Equal(t, 0, node)
}

func TestFirstNodeEmptyMapIsConfigMissing(t *testing.T) {
	mm := NewMemoryMap(nil)
	_, err := mm.FirstNode(AnyClass)
	require.ErrorIs(t, err, numaerr.ErrConfigMissing)
}

func TestLoadProfiles(t *testing.T) {
	for _, name := range []string{ProfileTesting, ProfileBenchmarking} {
		mm, err := LoadProfile(name)
		require.NoError(t, err)
		require.True(t, mm.Len() > 0)
	}

	_, err := LoadProfile("nope")
	require.Error(t, err)
}
