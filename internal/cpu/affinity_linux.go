//go:build linux

package cpu

import (
	"golang.org/x/sys/unix"
)

func pinToCore(core int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)

	// pid 0 is the calling thread
	return unix.SchedSetaffinity(0, &mask)
}
