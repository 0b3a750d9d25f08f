package redirect

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/timandy/routine"

	"github.com/xyproto/varena/arena"
	"github.com/xyproto/varena/internal/platform"
)

// Frame is the goroutine-local analogue of the original runtime's
// thread-local redirect frame (spec.md §5, "guard against reentrancy"):
// every redirect.Alloc/Free/Realloc call on a goroutine operates against
// the Frame currently pushed for that goroutine, found via a
// github.com/timandy/routine thread-local rather than OS TLS, since a
// goroutine — not an OS thread — is the unit of concurrency a Go program
// actually schedules.
type Frame struct {
	policy Policy
	logger logrus.FieldLogger

	mu     sync.Mutex
	blocks map[*block]struct{}
}

// NewFrame creates a frame with policy governing its Free/Realloc behavior.
// A nil logger discards everything.
func NewFrame(policy Policy, logger logrus.FieldLogger) *Frame {
	if logger == nil {
		logger = nopLogger
	}
	logger.WithField("strategy", platform.Current().RedirectStrategy()).
		Debug("redirect: frame created; varena does not implement true interception on this platform")
	return &Frame{policy: policy, logger: logger, blocks: make(map[*block]struct{})}
}

var frameStack = routine.NewThreadLocalWithInitial[[]*Frame](func() []*Frame {
	return nil
})

// Push installs f as the active frame for the calling goroutine, on top of
// any frame already pushed there.
func Push(f *Frame) {
	stack := frameStack.Get()
	frameStack.Set(append(stack, f))
}

// Pop removes the calling goroutine's innermost frame. Fatal if none is
// pushed — callers that Pop without a matching Push have already hit a
// bookkeeping bug, the same class spec.md §7 treats as unrecoverable for
// pin/unpin underflow.
func Pop() *Frame {
	stack := frameStack.Get()
	if len(stack) == 0 {
		arena.Fatal(arena.KindLeaseUnderflow, "redirect: Pop without a matching Push")
	}
	f := stack[len(stack)-1]
	frameStack.Set(stack[:len(stack)-1])
	return f
}

// Current returns the calling goroutine's innermost pushed frame, or nil if
// none is active.
func Current() *Frame {
	stack := frameStack.Get()
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}
