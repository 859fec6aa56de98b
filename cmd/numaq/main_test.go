package main

import (
	"testing"

	"github.com/momentics/numaq/config"
	"github.com/stretchr/testify/require"
)

func TestMergeFlagsPrefersExplicitFlagsOverLoadedConfig(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Set("workers", "7"))
	require.NoError(t, cmd.Flags().Set("r-size", "99"))
	// profile/s-size/metrics-addr left untouched: should defer to rc.

	loaded := config.RuntimeConfig{
		Profile:     "benchmarking",
		Workers:     3,
		RSize:       1000,
		SSize:       42,
		MetricsAddr: ":9090",
	}

	merged := mergeFlags(loaded, cmd, "testing", 7, 99, 1024, "")

	require.Equal(t, 7, merged.Workers)
	require.Equal(t, uint64(99), merged.RSize)
	require.Equal(t, "benchmarking", merged.Profile)
	require.Equal(t, uint64(42), merged.SSize)
	require.Equal(t, ":9090", merged.MetricsAddr)
}

func TestMergeFlagsKeepsLoadedConfigWhenNoFlagsChanged(t *testing.T) {
	cmd := newRootCmd()
	loaded := config.RuntimeConfig{
		Profile:      "benchmarking",
		Workers:      9,
		RSize:        500,
		SSize:        20,
		SegmentBytes: 2048,
		MetricsAddr:  ":9100",
	}

	merged := mergeFlags(loaded, cmd, "testing", 5, 1<<27, 1024, "")

	require.Equal(t, loaded, merged)
}

func TestRootCommandDeclaresExpectedFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"profile", "workers", "r-size", "s-size", "config", "metrics-addr"} {
		require.NotNil(t, cmd.Flags().Lookup(name), "missing flag %q", name)
	}
}
