//go:build !linux && !windows

package cpu

// macOS and the BSDs only offer affinity hints; the thread stays locked.
func pinToCore(int) error {
	return ErrUnsupported
}
