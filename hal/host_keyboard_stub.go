//go:build !tinygo && !cgo

package hal

// hostKeyboard without cgo has no window to read from. Events returns a nil
// channel, so a select on it never fires.
type hostKeyboard struct{}

func newHostKeyboard() *hostKeyboard { return &hostKeyboard{} }

func (k *hostKeyboard) Events() <-chan KeyEvent { return nil }

func (k *hostKeyboard) poll() {}
