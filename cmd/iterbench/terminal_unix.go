//go:build !windows

package main

// enableWindowsANSI is a no-op; Unix terminals understand ANSI sequences.
func enableWindowsANSI() {}
