package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xyproto/varena/arena"
	"github.com/xyproto/varena/container"
)

func makeStringArray(t *testing.T, a *arena.Arena, ss ...string) arena.Handle {
	t.Helper()
	handles := make([]arena.Handle, len(ss))
	for i, s := range ss {
		handles[i] = a.Strdup(arena.NullHandle, s)
	}
	return container.Create[arena.Handle](a, len(handles), handles)
}

func TestIndexOfAndContainsString(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := makeStringArray(t, root, "alpha", "beta", "gamma")
	assert.Equal(t, 1, container.IndexOfString(root, h, "beta"))
	assert.Equal(t, -1, container.IndexOfString(root, h, "delta"))
	assert.True(t, container.ContainsString(root, h, "gamma"))
}

func TestJoinStringsAndToStringArray(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := makeStringArray(t, root, "a", "b", "c")

	joined := container.JoinStrings(root, h, ",")
	assert.Equal(t, "a,b,c", string(root.StringBytes(joined)))
	root.Unpin(joined)

	str := container.ToStringArray(root, h)
	assert.Equal(t, "[a, b, c]", string(root.StringBytes(str)))
	root.Unpin(str)
}

func TestJoinNested2(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	g1 := makeStringArray(t, root, "a", "b")
	g2 := makeStringArray(t, root, "c")
	outer := container.Create[arena.Handle](root, 2, []arena.Handle{g1, g2})

	joined := container.JoinNested2(root, outer, ";", "|")
	assert.Equal(t, "a|b;c", string(root.StringBytes(joined)))
	root.Unpin(joined)
}

func TestJoinNested3(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	g1 := makeStringArray(t, root, "a", "b")
	g2 := makeStringArray(t, root, "c")
	mid1 := container.Create[arena.Handle](root, 2, []arena.Handle{g1, g2})
	mid2 := container.Create[arena.Handle](root, 1, []arena.Handle{makeStringArray(t, root, "d")})
	outer := container.Create[arena.Handle](root, 2, []arena.Handle{mid1, mid2})

	joined := container.JoinNested3(root, outer, "/", ";", "|")
	assert.Equal(t, "a|b;c/d", string(root.StringBytes(joined)))
	root.Unpin(joined)
}

func TestBoxUnboxRoundTrip(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Box[int64](root, container.TagLong, 42)
	assert.Equal(t, container.TagLong, container.Tag(root, h))
	assert.EqualValues(t, 42, container.Unbox[int64](root, h, container.TagLong))
}

func TestUnboxWrongTagIsFatal(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	h := container.Box[int64](root, container.TagLong, 42)
	assert.Panics(t, func() { container.Unbox[float64](root, h, container.TagDouble) })
}

func TestToAnyFromAnyRoundTrip(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	arr := container.Create[int64](root, 3, []int64{1, 2, 3})
	boxed := container.ToAny[int64](root, arr, container.TagLong)
	back := container.FromAny[int64](root, boxed, container.TagLong)

	assert.True(t, container.Eq[int64](root, arr, back))
}

func TestAnyEqualComparesStringContent(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	s1 := root.Strdup(arena.NullHandle, "same")
	s2 := root.Strdup(arena.NullHandle, "same")
	b1 := container.Box[arena.Handle](root, container.TagString, s1)
	b2 := container.Box[arena.Handle](root, container.TagString, s2)

	assert.NotEqual(t, s1, s2)
	assert.True(t, container.AnyEqual(root, b1, b2))
}

func TestAnyIndexOfAndContains(t *testing.T) {
	t.Parallel()
	root := arena.CreateRoot(testConfig())
	defer arena.Destroy(root)

	boxes := []arena.Handle{
		container.Box[int64](root, container.TagLong, 1),
		container.Box[int64](root, container.TagLong, 2),
		container.Box[int64](root, container.TagLong, 3),
	}
	arr := container.Create[arena.Handle](root, len(boxes), boxes)

	needle := container.Box[int64](root, container.TagLong, 2)
	assert.Equal(t, 1, container.AnyIndexOf(root, arr, needle))
	assert.True(t, container.AnyContains(root, arr, needle))

	missing := container.Box[int64](root, container.TagLong, 99)
	assert.False(t, container.AnyContains(root, arr, missing))
}
