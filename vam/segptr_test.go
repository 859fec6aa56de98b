package vam

import (
	"testing"

	"github.com/momentics/numaq/config"
	"github.com/stretchr/testify/require"
)

func testAlloc() *NumaAllocator { return NewNumaAllocator() }

func testMemMap() *config.MemoryMap {
	return config.NewMemoryMap(map[int]config.MemoryClass{0: config.DRAM, 1: config.HBM})
}

// SegPtr<u32,16> over 10 elements (size_bytes=40) yields
// segment_count()=3, segment sizes (4,4,2).
func TestSegmentCountAndSizes(t *testing.T) {
	p, err := Vmalloc[uint32](testAlloc(), 10, 16, RANDOM, testMemMap())
	require.NoError(t, err)
	defer p.Release()

	require.Equal(t, 10, p.Size())
	require.Equal(t, 3, p.SegmentCount())

	wantCounts := []int{4, 4, 2}
	sum := 0
	for k := 0; k < p.SegmentCount(); k++ {
		seg, err := p.GetSegment(k)
		require.NoError(t, err)
		require.Equal(t, wantCounts[k], seg.Count)
		sum += seg.Count
	}
	require.Equal(t, p.Size(), sum)
}

// split(3) of a pointer with 7 segments yields slivers with
// (3,2,2) segments respectively.
func TestSplitDistributesSegmentsEvenly(t *testing.T) {
	segBytes := 16
	elemsPerSeg := segBytes / 4 // uint32
	n := elemsPerSeg*6 + 3      // 7 segments: six full, one partial (3 elems)
	p, err := Vmalloc[uint32](testAlloc(), n, segBytes, RANDOM, testMemMap())
	require.NoError(t, err)
	defer p.Release()
	require.Equal(t, 7, p.SegmentCount())

	slivers, err := p.Split(3)
	require.NoError(t, err)
	require.Len(t, slivers, 3)

	wantSegs := []int{3, 2, 2}
	totalElems := 0
	for i, sl := range slivers {
		require.Equal(t, wantSegs[i], sl.SegmentCount())
		totalElems += sl.Size()
		sl.Release()
	}
	require.Equal(t, p.Size(), totalElems)
}

func TestSplitSliverAlignmentAndConcatenation(t *testing.T) {
	p, err := Vmalloc[uint32](testAlloc(), 10, 16, RANDOM, testMemMap())
	require.NoError(t, err)
	defer p.Release()

	slivers, err := p.Split(3)
	require.NoError(t, err)
	sum := 0
	for _, sl := range slivers {
		sum += sl.Size()
		sl.Release()
	}
	require.Equal(t, p.Size(), sum)
}

// Oracle placement preferences.
func TestOraclePrefersHBMForLinearAndFallsBack(t *testing.T) {
	both := config.NewMemoryMap(map[int]config.MemoryClass{0: config.DRAM, 1: config.HBM})
	node, err := Predict(LINEAR, both)
	require.NoError(t, err)
	require.Equal(t, 1, node)

	node, err = Predict(RANDOM, both)
	require.NoError(t, err)
	require.Equal(t, 0, node)

	dramOnly := config.NewMemoryMap(map[int]config.MemoryClass{0: config.DRAM})
	node, err = Predict(LINEAR, dramOnly)
	require.NoError(t, err)
	require.Equal(t, 0, node)
}

func TestManipulateSizeRejectsBeyondCapacity(t *testing.T) {
	p, err := Vmalloc[uint32](testAlloc(), 10, 16, RANDOM, testMemMap())
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.ManipulateSize(5))
	require.Equal(t, 5, p.Size())

	err = p.ManipulateSize(1000)
	require.Error(t, err)
}

func TestReinterpretCastPreservesBytes(t *testing.T) {
	p, err := Vmalloc[uint8](testAlloc(), 8, 8, RANDOM, testMemMap())
	require.NoError(t, err)
	defer p.Release()
	require.NoError(t, p.Set(0, 0xEF))
	require.NoError(t, p.Set(1, 0xBE))

	u16 := ReinterpretCast[uint16](p)
	defer u16.Release()

	v, err := u16.Index(0)
	require.NoError(t, err)
	require.Equal(t, uint16(0xBEEF), v)
}

func TestCloneAndReleaseRefCounting(t *testing.T) {
	p, err := Vmalloc[uint32](testAlloc(), 4, 16, RANDOM, testMemMap())
	require.NoError(t, err)

	c1 := p.Clone()
	c2 := p.Clone()

	require.False(t, p.Release())
	require.False(t, c1.Release())
	require.True(t, c2.Release())
}

func TestIndexOutOfRange(t *testing.T) {
	p, err := Vmalloc[uint32](testAlloc(), 4, 16, RANDOM, testMemMap())
	require.NoError(t, err)
	defer p.Release()

	_, err = p.Index(4)
	require.Error(t, err)
}
