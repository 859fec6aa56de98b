package numaerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructuredErrorUnwrapsToItsSentinel(t *testing.T) {
	err := New(CodeOutOfRange, "index out of range").WithContext("i", 5)
	require.True(t, errors.Is(err, ErrOutOfRange))
	require.False(t, errors.Is(err, ErrNullDeref))
}

func TestEveryCodeHasASentinel(t *testing.T) {
	codes := []Code{
		CodeConfigMissing, CodeNoSuchMemoryClass, CodeAllocFailed,
		CodeNullDeref, CodeOutOfRange, CodeDuplicateGroup, CodeZeroWorkers,
		CodeAlreadyStarted, CodePinFailed, CodeDoubleStart, CodeDoubleStop,
		CodeResultMismatch,
	}
	for _, c := range codes {
		err := New(c, "x")
		require.NotNil(t, err.Unwrap(), "code %v has no sentinel mapping", c)
	}
}
