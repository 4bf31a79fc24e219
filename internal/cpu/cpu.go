// Package cpu pins worker goroutines to OS threads and CPU cores.
package cpu

import (
	"errors"
	"runtime"
)

// ErrUnsupported is returned by Pin on platforms without thread affinity control.
var ErrUnsupported = errors.New("cpu affinity not supported on this platform")

// CoreFor maps a worker ID onto the available logical CPUs.
func CoreFor(workerID int) int {
	n := runtime.NumCPU()
	core := workerID % n
	if core < 0 {
		core += n
	}
	return core
}

// SetupWorkerAffinity locks the calling goroutine to its OS thread and pins
// that thread to CoreFor(workerID). Pinning failures are ignored: the thread
// stays locked and the scheduler keeps choosing the core.
// The returned function unlocks the thread and should be deferred.
func SetupWorkerAffinity(workerID int) func() {
	runtime.LockOSThread()
	_ = Pin(CoreFor(workerID))

	return runtime.UnlockOSThread
}

// Pin binds the current OS thread to core. The caller must hold
// runtime.LockOSThread, otherwise the goroutine may migrate away.
func Pin(core int) error {
	if core < 0 || core >= runtime.NumCPU() {
		core = CoreFor(core)
	}
	return pinToCore(core)
}
