package cpu

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoreFor(t *testing.T) {
	n := runtime.NumCPU()

	assert.Equal(t, 0, CoreFor(0))
	assert.Equal(t, 0, CoreFor(n))
	assert.Equal(t, 1%n, CoreFor(n+1))
	assert.Equal(t, n-1, CoreFor(-1))
}

func TestSetupWorkerAffinity_Restores(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		cleanup := SetupWorkerAffinity(0)
		cleanup()
	}()
	<-done
}
