package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRecordsStageDurationAndCounters(t *testing.T) {
	r := NewRegistry()

	r.StageDuration("probe").Observe(0.01)
	r.AddRowsProbed(100)
	r.AddRowsMatched(37)
	r.SetThroughput(123456.0)

	mfs, err := r.reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestNewRegistryTwiceDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		NewRegistry()
		NewRegistry()
	})
}
