//go:build windows

package cpu

import (
	"golang.org/x/sys/windows"
)

var setThreadAffinityMask = windows.NewLazySystemDLL("kernel32.dll").NewProc("SetThreadAffinityMask")

func pinToCore(core int) error {
	thread, err := windows.GetCurrentThread()
	if err != nil {
		return err
	}

	// Bit N selects CPU N. A zero return is the failure case.
	prev, _, err := setThreadAffinityMask.Call(uintptr(thread), uintptr(1)<<uint(core))
	if prev == 0 {
		return err
	}
	return nil
}
