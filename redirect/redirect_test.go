package redirect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyproto/varena/redirect"
)

func TestAllocFreeRoundTrip(t *testing.T) {
	t.Parallel()
	f := redirect.NewFrame(redirect.DefaultPolicy(), nil)
	redirect.Push(f)
	defer redirect.Pop()

	buf := redirect.Alloc(32)
	require.Len(t, buf, 32)
	for i := range buf {
		buf[i] = byte(i)
	}
	redirect.Free(buf)
}

func TestCallocZeroes(t *testing.T) {
	t.Parallel()
	f := redirect.NewFrame(redirect.DefaultPolicy(), nil)
	redirect.Push(f)
	defer redirect.Pop()

	buf := redirect.Calloc(4, 8)
	require.Len(t, buf, 32)
	for _, b := range buf {
		assert.Zero(t, b)
	}
}

func TestReallocPreservesContents(t *testing.T) {
	t.Parallel()
	f := redirect.NewFrame(redirect.DefaultPolicy(), nil)
	redirect.Push(f)
	defer redirect.Pop()

	buf := redirect.Alloc(4)
	copy(buf, []byte{1, 2, 3, 4})
	grown := redirect.Realloc(buf, 8)
	assert.Equal(t, []byte{1, 2, 3, 4}, grown[:4])
}

func TestFreeOfForeignPointerDoesNotAbortUnderDefaultTrackPolicy(t *testing.T) {
	t.Parallel()
	f := redirect.NewFrame(redirect.DefaultPolicy(), nil)
	redirect.Push(f)
	defer redirect.Pop()

	foreign := make([]byte, 16)
	assert.NotPanics(t, func() { redirect.Free(foreign) })
}

func TestFreeOfForeignPointerAbortsUnderAbortPolicy(t *testing.T) {
	t.Parallel()
	f := redirect.NewFrame(redirect.Policy{Free: redirect.FreeAbort, Overflow: redirect.OverflowGrow}, nil)
	redirect.Push(f)
	defer redirect.Pop()

	foreign := make([]byte, 16)
	assert.Panics(t, func() { redirect.Free(foreign) })
}

func TestAllocWithoutFrameIsFatal(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { redirect.Alloc(16) })
}

func TestPopWithoutPushIsFatal(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { redirect.Pop() })
}
