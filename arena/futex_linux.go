//go:build linux

package arena

import (
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// epoch is a futex-backed counter the cleaner and compactor bump once per
// completed iteration, and gc_flush waits on. Adapted from the teacher's
// parallel_unix.go (FutexWait/FutexWake/Barrier), which used the same
// SYS_FUTEX pair to park and release worker threads without spinning. There
// the barrier released N cloned OS threads; here a single epoch releases any
// number of gc_flush callers waiting for "one more GC pass happened".
type epoch struct {
	v int32
}

func (e *epoch) load() int32 { return atomic.LoadInt32(&e.v) }

// bump increments the epoch and wakes every waiter.
func (e *epoch) bump() {
	atomic.AddInt32(&e.v, 1)
	_, _, _ = unix.Syscall(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(&e.v)),
		uintptr(unix.FUTEX_WAKE|unix.FUTEX_PRIVATE_FLAG),
		uintptr(1<<30), // wake all waiters
	)
}

// waitForAdvance blocks until the epoch differs from `since`, or until
// timeout elapses. Returns true if it observed an advance.
func (e *epoch) waitForAdvance(since int32, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		cur := e.load()
		if cur != since {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		wait := remaining
		if wait > 20*time.Millisecond {
			wait = 20 * time.Millisecond
		}
		ts := unix.NsecToTimespec(wait.Nanoseconds())
		_, _, errno := unix.Syscall6(unix.SYS_FUTEX,
			uintptr(unsafe.Pointer(&e.v)),
			uintptr(unix.FUTEX_WAIT|unix.FUTEX_PRIVATE_FLAG),
			uintptr(cur),
			uintptr(unsafe.Pointer(&ts)),
			0, 0,
		)
		if errno != 0 && errno != unix.EAGAIN && errno != unix.EINTR && errno != unix.ETIMEDOUT {
			// Unexpected futex failure: fall back to a short sleep
			// rather than spinning tightly.
			time.Sleep(time.Millisecond)
		}
	}
}
