package container_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyproto/varena/arena"
	"github.com/xyproto/varena/container"
)

func testConfig() arena.Config {
	cfg := arena.DefaultConfig()
	cfg.BlockSize = 4096
	cfg.GCInterval = time.Millisecond
	cfg.CompactInterval = 2 * time.Millisecond
	cfg.FlushCap = 200 * time.Millisecond
	return cfg
}

func TestCreateAndLength(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 3, []int64{1, 2, 3})
	assert.Equal(t, 3, container.Length(root, h))
}

func TestPushGrowsInPlaceThenReallocates(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 0, nil)
	for i := int64(0); i < 10; i++ {
		h = container.Push[int64](root, h, i)
	}
	assert.Equal(t, 10, container.Length(root, h))
	for i := int64(0); i < 10; i++ {
		assert.True(t, container.Contains[int64](root, h, i))
	}
}

func TestPushCopyLeavesOriginalUntouched(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 2, []int64{1, 2})
	h2 := container.PushCopy[int64](root, h, 3)

	assert.Equal(t, 2, container.Length(root, h))
	assert.Equal(t, 3, container.Length(root, h2))
}

func TestPopRemovesLastElement(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 3, []int64{1, 2, 3})
	h, v := container.Pop[int64](root, h)
	assert.EqualValues(t, 3, v)
	assert.Equal(t, 2, container.Length(root, h))
}

func TestPopOfEmptyArrayIsFatal(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 0, nil)
	assert.Panics(t, func() { container.Pop[int64](root, h) })
}

func TestSliceWithNegativeIndicesAndStep(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 6, []int64{0, 1, 2, 3, 4, 5})

	full := container.Slice[int64](root, h, container.SliceSentinel, container.SliceSentinel, 1)
	assert.Equal(t, 6, container.Length(root, full))

	lastTwo := container.Slice[int64](root, h, -2, container.SliceSentinel, 1)
	assert.Equal(t, 2, container.Length(root, lastTwo))
	assert.True(t, container.Eq[int64](root, lastTwo, container.Create[int64](root, 2, []int64{4, 5})))

	stepped := container.Slice[int64](root, h, 0, container.SliceSentinel, 2)
	assert.True(t, container.Eq[int64](root, stepped, container.Create[int64](root, 3, []int64{0, 2, 4})))
}

func TestSliceRejectsNonPositiveStep(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 3, []int64{1, 2, 3})
	assert.Panics(t, func() {
		container.Slice[int64](root, h, 0, container.SliceSentinel, 0)
	})
}

func TestReverseRemoveInsert(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 3, []int64{1, 2, 3})

	rev := container.Reverse[int64](root, h)
	assert.True(t, container.Eq[int64](root, rev, container.Create[int64](root, 3, []int64{3, 2, 1})))

	removed := container.RemoveAt[int64](root, h, 1)
	assert.True(t, container.Eq[int64](root, removed, container.Create[int64](root, 2, []int64{1, 3})))

	inserted := container.InsertAt[int64](root, h, 1, 99)
	assert.True(t, container.Eq[int64](root, inserted, container.Create[int64](root, 4, []int64{1, 99, 2, 3})))
}

func TestInsertAtOutOfBoundsIsFatal(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 1, []int64{1})
	assert.Panics(t, func() { container.InsertAt[int64](root, h, 5, 1) })
}

func TestCloneAndConcat(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 2, []int64{1, 2})
	clone := container.Clone[int64](root, h)
	assert.True(t, container.Eq[int64](root, h, clone))

	y := container.Create[int64](root, 2, []int64{3, 4})
	cat := container.Concat[int64](root, h, y)
	assert.True(t, container.Eq[int64](root, cat, container.Create[int64](root, 4, []int64{1, 2, 3, 4})))
}

func TestJoinAndToString(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 3, []int64{1, 2, 3})
	joined := container.Join[int64](root, h, "-")
	assert.Equal(t, "1-2-3", string(root.StringBytes(joined)))
	root.Unpin(joined)

	str := container.ToString[int64](root, h)
	assert.Equal(t, "[1, 2, 3]", string(root.StringBytes(str)))
	root.Unpin(str)
}

func TestRangeInts(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.RangeInts(root, 3, 7)
	assert.True(t, container.Eq[int64](root, h, container.Create[int64](root, 4, []int64{3, 4, 5, 6})))
}

func TestAllocFillsDefault(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Alloc[int64](root, 4, 7)
	assert.True(t, container.Eq[int64](root, h, container.Create[int64](root, 4, []int64{7, 7, 7, 7})))
}

func TestClearKeepsCapacity(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Create[int64](root, 3, []int64{1, 2, 3})
	h = container.Clear(root, h)
	require.Equal(t, 0, container.Length(root, h))

	h = container.Push[int64](root, h, 9)
	assert.Equal(t, 1, container.Length(root, h))
}
