//go:build !tinygo

package hal

import "time"

// HostTickDuration is the length of one kernel tick on the host.
const HostTickDuration = time.Millisecond

// hostTime converts wall-clock progress between runner steps into
// whole kernel ticks so that the tick rate does not depend on the
// runner's frame rate.
type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) step(n uint64) {
	t.advance(time.Now(), n)
}

func (t *hostTime) advance(now time.Time, min uint64) {
	if t.last.IsZero() {
		t.last = now
		t.acc = 0
		t.emit(min)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	ticks := uint64(t.acc / HostTickDuration)
	if ticks == 0 {
		return
	}
	t.acc %= HostTickDuration
	t.emit(ticks)
}

func (t *hostTime) emit(n uint64) {
	for i := uint64(0); i < n; i++ {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
