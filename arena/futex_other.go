//go:build !linux

package arena

import (
	"sync/atomic"
	"time"
)

// epoch is the portable fallback for non-Linux platforms: the same counter
// semantics as futex_linux.go's epoch, but waiters poll with a short sleep
// instead of parking on a futex word (no futex syscall outside Linux).
type epoch struct {
	v int32
}

func (e *epoch) load() int32 { return atomic.LoadInt32(&e.v) }

func (e *epoch) bump() { atomic.AddInt32(&e.v, 1) }

func (e *epoch) waitForAdvance(since int32, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if e.load() != since {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return e.load() != since
}
