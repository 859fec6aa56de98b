package cpuset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetCPUIDWalksSubranges(t *testing.T) {
	r := Range{{Lo: 0, Hi: 4}, {Lo: 10, Hi: 12}}
	require.Equal(t, 0, GetCPUID(0, r))
	require.Equal(t, 3, GetCPUID(3, r))
	require.Equal(t, 10, GetCPUID(4, r))
	require.Equal(t, 11, GetCPUID(5, r))
	// wraps modulo total length (6)
	require.Equal(t, 0, GetCPUID(6, r))
}

func TestGetCPUIDReversedSubrange(t *testing.T) {
	r := Range{{Lo: 0, Hi: 4, Reversed: true}}
	require.Equal(t, 3, GetCPUID(0, r))
	require.Equal(t, 2, GetCPUID(1, r))
	require.Equal(t, 0, GetCPUID(3, r))
}

func TestCrobatRangesShape(t *testing.T) {
	testRanges := CrobatRanges(ProfileTesting)
	require.Len(t, testRanges, 8) // 4 nodes * 2 hyperthread ranges
	bench := CrobatRanges(ProfileBenchmarking)
	require.Len(t, bench, 8)
	require.NotEqual(t, testRanges[0], bench[0])
}
