//go:build !tinygo

package kernel

import "runtime"

// captureStack returns the calling goroutine's stack, cut at maxStackBytes.
func captureStack() []byte {
	buf := make([]byte, maxStackBytes)
	return buf[:runtime.Stack(buf, false)]
}
