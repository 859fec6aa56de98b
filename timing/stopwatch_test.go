package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestForbiddenDoubleStartPanics(t *testing.T) {
	sw := New(time.Now(), Forbidden, Forbidden)
	sw.Start()
	require.PanicsWithValue(t, doubleStartPanic{}, func() { sw.Start() })
}

func TestSaveEarliestIgnoresSecondStart(t *testing.T) {
	sw := New(time.Now(), SaveEarliest, SaveLatest)
	sw.Start()
	first := sw.rounds[0].Start
	time.Sleep(time.Millisecond)
	sw.Start()
	require.Equal(t, first, sw.rounds[0].Start)
}

func TestSaveLatestOverwritesStop(t *testing.T) {
	sw := New(time.Now(), SaveEarliest, SaveLatest)
	sw.Start()
	sw.Stop()
	firstEnd := sw.rounds[0].End
	time.Sleep(time.Millisecond)
	sw.Stop()
	require.True(t, sw.rounds[0].End.After(firstEnd))
}

func TestDurationSumAcrossRounds(t *testing.T) {
	sw := New(time.Now(), Forbidden, Forbidden)
	sw.Start()
	time.Sleep(2 * time.Millisecond)
	sw.Stop()
	sw.Start()
	time.Sleep(2 * time.Millisecond)
	sw.Stop()
	require.Len(t, sw.Durations(), 2)
	require.True(t, sw.DurationSum() > 0)
	require.True(t, sw.DurationMax() >= sw.DurationMin())
}

func TestConcurrentStopWatchEarliestLatest(t *testing.T) {
	c := NewConcurrent(time.Now())
	c.Start()
	c.Start() // SaveEarliest: ignored
	c.Stop()
	c.Stop() // SaveLatest: overwrites
	require.Len(t, c.Durations(), 1)
}
