package arena_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyproto/varena/arena"
)

func testConfig() arena.Config {
	cfg := arena.DefaultConfig()
	cfg.BlockSize = 4096
	cfg.GCInterval = time.Millisecond
	cfg.CompactInterval = 2 * time.Millisecond
	cfg.FlushCap = 200 * time.Millisecond
	return cfg
}

func TestAllocAndPin(t *testing.T) {
	t.Parallel()

	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := root.Alloc(arena.NullHandle, 64)
	require.NotEqual(t, arena.NullHandle, h)

	buf := root.Pin(h)
	require.Len(t, buf, 64)
	for i := range buf {
		buf[i] = byte(i)
	}
	root.Unpin(h)

	assert.EqualValues(t, 64, root.TotalAllocated())
	assert.Equal(t, 1, root.LiveCount())
}

func TestAllocReplacesOldHandle(t *testing.T) {
	t.Parallel()

	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h1 := root.Alloc(arena.NullHandle, 16)
	h2 := root.Alloc(h1, 32)

	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 1, root.DeadCount())
	assert.Equal(t, 1, root.LiveCount())
}

func TestMarkDeadThenCleanerRecycles(t *testing.T) {
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := root.Alloc(arena.NullHandle, 8)
	root.MarkDead(h)
	arena.GCFlush(root)

	assert.Equal(t, 0, root.DeadCount())
}

func TestUnpinOfNullHandleIsFatal(t *testing.T) {
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := root.Alloc(arena.NullHandle, 8)
	_ = root.Pin(h)

	assert.Panics(t, func() { root.Unpin(arena.NullHandle) })
}

func TestChildArenaIndependentOffset(t *testing.T) {
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	child := arena.CreateChild(root)
	defer arena.DestroyChild(child)

	hr := root.Alloc(arena.NullHandle, 8)
	hc := child.Alloc(arena.NullHandle, 8)

	assert.NotEqual(t, hr, hc)
	assert.Same(t, root, child.Root())
}

func TestPromoteMovesHandleToAncestor(t *testing.T) {
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	child := arena.CreateChild(root)
	defer arena.DestroyChild(child)

	h := child.Alloc(arena.NullHandle, 4)
	buf := child.Pin(h)
	copy(buf, []byte{1, 2, 3, 4})
	child.Unpin(h)

	promoted := root.Promote(child, h)
	out := root.Pin(promoted)
	defer root.Unpin(promoted)

	assert.Equal(t, []byte{1, 2, 3, 4}, out)
	assert.Equal(t, 1, child.DeadCount())
}

func TestPromoteRejectsNonAncestor(t *testing.T) {
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	a := arena.CreateChild(root)
	defer arena.DestroyChild(a)
	b := arena.CreateChild(root)
	defer arena.DestroyChild(b)

	h := a.Alloc(arena.NullHandle, 4)
	assert.Panics(t, func() { b.Promote(a, h) })
}

func TestStrdupAndAppend(t *testing.T) {
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := root.Strdup(arena.NullHandle, "hello")
	h2 := root.Append(h, ", world")

	buf := root.StringBytes(h2)
	defer root.Unpin(h2)
	assert.Equal(t, "hello, world", string(buf))
}

func TestResetFreesEverything(t *testing.T) {
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	root.Alloc(arena.NullHandle, 32)
	root.Alloc(arena.NullHandle, 32)
	arena.Reset(root)

	assert.Equal(t, 0, root.LiveCount())
	assert.Equal(t, 0, root.DeadCount())
	assert.EqualValues(t, 0, root.TotalAllocated())
}

func TestForceCompactReclaimsFragmentation(t *testing.T) {
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	var handles []arena.Handle
	for i := 0; i < 64; i++ {
		handles = append(handles, root.Alloc(arena.NullHandle, 256))
	}
	for _, h := range handles[:48] {
		root.MarkDead(h)
	}

	before := root.FragmentationRatio()
	root.ForceCompact()
	after := root.FragmentationRatio()

	assert.Less(t, after, before)
}

func TestConcurrentAllocationsAreAllDistinct(t *testing.T) {
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	const n = 200
	results := make(chan arena.Handle, n)
	for i := 0; i < n; i++ {
		go func() {
			results <- root.Alloc(arena.NullHandle, 32)
		}()
	}

	seen := make(map[arena.Handle]bool, n)
	for i := 0; i < n; i++ {
		h := <-results
		require.False(t, seen[h])
		seen[h] = true
	}
}

func TestInternConstantSharesHandle(t *testing.T) {
	cfg := testConfig()
	cfg.InternStrings = true
	root := arena.CreateRoot(cfg)
	defer arena.Destroy(root)

	a := root.InternConstant("shared")
	b := root.InternConstant("shared")
	assert.Equal(t, a, b)
}
