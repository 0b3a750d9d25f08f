package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xyproto/varena/arena"
	"github.com/xyproto/varena/container"
)

func TestPromoteStringArrayMovesLeavesBeforeContainer(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	child := arena.CreateChild(root)
	defer arena.DestroyChild(child)

	h := makeStringArray(t, child, "one", "two")

	promoted := container.PromoteStringArray(root, child, h)
	assert.True(t, container.ContainsString(root, promoted, "one"))
	assert.True(t, container.ContainsString(root, promoted, "two"))

	joined := container.JoinStrings(root, promoted, ",")
	assert.Equal(t, "one,two", string(root.StringBytes(joined)))
	root.Unpin(joined)
}

func TestPromoteNestedArray2(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	child := arena.CreateChild(root)
	defer arena.DestroyChild(child)

	g1 := makeStringArray(t, child, "a", "b")
	g2 := makeStringArray(t, child, "c")
	outer := container.Create[arena.Handle](child, 2, []arena.Handle{g1, g2})

	promoted := container.PromoteNestedArray2(root, child, outer)
	joined := container.JoinNested2(root, promoted, ";", "|")
	assert.Equal(t, "a|b;c", string(root.StringBytes(joined)))
	root.Unpin(joined)
}

func TestPromoteNestedArray3(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	child := arena.CreateChild(root)
	defer arena.DestroyChild(child)

	g1 := makeStringArray(t, child, "a", "b")
	g2 := makeStringArray(t, child, "c")
	mid1 := container.Create[arena.Handle](child, 2, []arena.Handle{g1, g2})
	mid2 := container.Create[arena.Handle](child, 1, []arena.Handle{makeStringArray(t, child, "d")})
	outer := container.Create[arena.Handle](child, 2, []arena.Handle{mid1, mid2})

	promoted := container.PromoteNestedArray3(root, child, outer)
	joined := container.JoinNested3(root, promoted, "/", ";", "|")
	assert.Equal(t, "a|b;c/d", string(root.StringBytes(joined)))
	root.Unpin(joined)
}
