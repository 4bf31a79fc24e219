//go:build windows

package main

import (
	"golang.org/x/sys/windows"
)

// enableWindowsANSI turns on virtual terminal processing so colors and the
// progress bar render in the Windows console.
func enableWindowsANSI() {
	for _, h := range []uint32{windows.STD_OUTPUT_HANDLE, windows.STD_ERROR_HANDLE} {
		handle, err := windows.GetStdHandle(h)
		if err != nil {
			continue
		}
		var mode uint32
		if err := windows.GetConsoleMode(handle, &mode); err != nil {
			continue
		}
		_ = windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	}
}
