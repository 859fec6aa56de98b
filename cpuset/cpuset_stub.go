//go:build !linux

package cpuset

import "github.com/momentics/numaq/numaerr"

// pinPlatform is a stub for platforms without sched_setaffinity.
func pinPlatform(cpuID int) error {
	return numaerr.ErrPinFailed
}
