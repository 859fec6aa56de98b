//go:build linux

package cpuset

import (
	"fmt"

	"github.com/momentics/numaq/numaerr"
	"golang.org/x/sys/unix"
)

// pinPlatform pins the calling OS thread via sched_setaffinity, replacing
// a cgo pthread_setaffinity_np call with golang.org/x/sys/unix
// (no cgo needed; the same library choice the pack uses throughout for
// low-level syscalls).
func pinPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("%w: sched_setaffinity cpu %d: %v", numaerr.ErrPinFailed, cpuID, err)
	}
	return nil
}
