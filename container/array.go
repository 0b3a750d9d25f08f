package container

import (
	"fmt"
	"strings"

	"github.com/xyproto/varena/arena"
)

// Create allocates a fresh inline-element array of the given family holding
// count elements, optionally initialized from data (spec.md §4.6,
// "create(count, optional_data)"). Capacity starts at max(count,
// initialCapacity).
func Create[T comparable](a *arena.Arena, count int, data []T) arena.Handle {
	if count < 0 {
		arena.Fatal(arena.KindOverflow, "create: negative count %d", count)
	}
	capacity := count
	if capacity < initialCapacity {
		capacity = initialCapacity
	}
	h := a.Alloc(arena.NullHandle, byteLen[T](capacity))
	raw := a.Pin(h)
	defer a.Unpin(h)
	arena.WriteArrayHeader(raw, count, capacity)
	if data != nil {
		copy(typedView[T](raw, count), data[:count])
	}
	return h
}

// Length returns the array's element count in O(1) via the metadata prefix
// (spec.md §4.6, "length(arr)").
func Length(a *arena.Arena, h arena.Handle) int {
	raw := a.Pin(h)
	defer a.Unpin(h)
	size, _ := arena.ReadArrayHeader(raw)
	return size
}

// Clear truncates the array to zero elements in place, keeping its current
// capacity and handle (spec.md §4.6, "clear(arr)").
func Clear(a *arena.Arena, h arena.Handle) arena.Handle {
	raw := a.Pin(h)
	_, capacity := arena.ReadArrayHeader(raw)
	arena.WriteArrayHeader(raw, 0, capacity)
	a.Unpin(h)
	return h
}

// Push appends elem, growing in place if capacity allows or reallocating
// and doubling capacity otherwise (spec.md §4.6, "Growth policy"). A
// reallocating push leaves the caller's old handle dead; this function
// never calls arena.Alloc(old, ...) directly for the growing case because
// that would mark old dead before its payload has been copied out.
func Push[T comparable](a *arena.Arena, old arena.Handle, elem T) arena.Handle {
	raw := a.Pin(old)
	size, capacity := arena.ReadArrayHeader(raw)
	if size < capacity {
		typedView[T](raw, capacity)[size] = elem
		arena.WriteArrayHeader(raw, size+1, capacity)
		a.Unpin(old)
		return old
	}

	newCapacity := capacity * 2
	if newCapacity == 0 {
		newCapacity = initialCapacity
	}
	nh := a.Alloc(arena.NullHandle, byteLen[T](newCapacity))
	nraw := a.Pin(nh)
	arena.WriteArrayHeader(nraw, size+1, newCapacity)
	dst := typedView[T](nraw, size+1)
	copy(dst, typedView[T](raw, size))
	dst[size] = elem
	a.Unpin(nh)
	a.Unpin(old)
	a.MarkDead(old)
	return nh
}

// PushCopy returns a new array equal to arr with elem appended, leaving arr
// itself untouched (spec.md §4.6, "push_copy(arr, e) (non-mutating)").
func PushCopy[T comparable](a *arena.Arena, h arena.Handle, elem T) arena.Handle {
	raw := a.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	src := typedView[T](raw, size)
	newCapacity := size + 1
	if newCapacity < initialCapacity {
		newCapacity = initialCapacity
	}
	nh := a.Alloc(arena.NullHandle, byteLen[T](newCapacity))
	nraw := a.Pin(nh)
	arena.WriteArrayHeader(nraw, size+1, newCapacity)
	dst := typedView[T](nraw, size+1)
	copy(dst, src)
	dst[size] = elem
	a.Unpin(nh)
	a.Unpin(h)
	return nh
}

// Pop removes and returns the last element (spec.md §8, "array_pop_ret").
// The array shrinks in place; its handle does not change.
func Pop[T comparable](a *arena.Arena, h arena.Handle) (arena.Handle, T) {
	raw := a.Pin(h)
	defer a.Unpin(h)
	size, capacity := arena.ReadArrayHeader(raw)
	if size == 0 {
		arena.Fatal(arena.KindIndexOutOfBounds, "pop of empty array")
	}
	v := typedView[T](raw, size)[size-1]
	arena.WriteArrayHeader(raw, size-1, capacity)
	return h, v
}

// Alloc creates an array of n elements, all initialized to def (spec.md
// §4.6, "alloc(n, default)").
func Alloc[T comparable](a *arena.Arena, n int, def T) arena.Handle {
	h := Create[T](a, n, nil)
	raw := a.Pin(h)
	defer a.Unpin(h)
	dst := typedView[T](raw, n)
	for i := range dst {
		dst[i] = def
	}
	return h
}

// Clone returns a fresh array with the same elements, same capacity
// (spec.md §4.6, "clone(arr)"). For handle-element families the handles
// are copied shallowly; see promote.go for deep cross-arena copies.
func Clone[T comparable](a *arena.Arena, h arena.Handle) arena.Handle {
	raw := a.Pin(h)
	defer a.Unpin(h)
	size, capacity := arena.ReadArrayHeader(raw)
	nh := a.Alloc(arena.NullHandle, byteLen[T](capacity))
	nraw := a.Pin(nh)
	defer a.Unpin(nh)
	arena.WriteArrayHeader(nraw, size, capacity)
	copy(typedView[T](nraw, size), typedView[T](raw, size))
	return nh
}

// Concat returns a fresh array containing x's elements followed by y's
// (spec.md §4.6, "concat(a, b)").
func Concat[T comparable](a *arena.Arena, x, y arena.Handle) arena.Handle {
	xraw := a.Pin(x)
	xsize, _ := arena.ReadArrayHeader(xraw)
	xs := typedView[T](xraw, xsize)

	yraw := a.Pin(y)
	ysize, _ := arena.ReadArrayHeader(yraw)
	ys := typedView[T](yraw, ysize)

	total := xsize + ysize
	capacity := total
	if capacity < initialCapacity {
		capacity = initialCapacity
	}
	nh := a.Alloc(arena.NullHandle, byteLen[T](capacity))
	nraw := a.Pin(nh)
	arena.WriteArrayHeader(nraw, total, capacity)
	dst := typedView[T](nraw, total)
	copy(dst, xs)
	copy(dst[xsize:], ys)

	a.Unpin(nh)
	a.Unpin(y)
	a.Unpin(x)
	return nh
}

// resolveIndex turns a possibly-negative, possibly-sentinel index into an
// absolute offset into a length-n array (spec.md §4.6, "Slice semantics").
// sentinel marks "unspecified" (the caller passed the begin/end-of-array
// default); def is substituted in that case.
func resolveIndex(idx, n, sentinel, def int) int {
	if idx == sentinel {
		return def
	}
	if idx < 0 {
		idx += n
	}
	if idx < 0 {
		idx = 0
	}
	if idx > n {
		idx = n
	}
	return idx
}

// SliceSentinel is the index value meaning "unspecified" for Slice's start
// and end parameters (spec.md §4.6, "start/end sentinel values").
const SliceSentinel = -1 << 62

// Slice returns a fresh array containing every step'th element of
// arr[start:end) (spec.md §4.6, "slice(arr, start, end, step)"). step must
// be positive.
func Slice[T comparable](a *arena.Arena, h arena.Handle, start, end, step int) arena.Handle {
	if step <= 0 {
		arena.Fatal(arena.KindOverflow, "slice: non-positive step %d", step)
	}
	raw := a.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	src := typedView[T](raw, size)

	s := resolveIndex(start, size, SliceSentinel, 0)
	e := resolveIndex(end, size, SliceSentinel, size)
	if e < s {
		e = s
	}

	var out []T
	for i := s; i < e; i += step {
		out = append(out, src[i])
	}
	a.Unpin(h)
	return Create[T](a, len(out), out)
}

// Reverse returns a fresh array with arr's elements in reverse order
// (spec.md §4.6, "reverse(arr)").
func Reverse[T comparable](a *arena.Arena, h arena.Handle) arena.Handle {
	raw := a.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	src := typedView[T](raw, size)
	out := make([]T, size)
	for i, v := range src {
		out[size-1-i] = v
	}
	a.Unpin(h)
	return Create[T](a, size, out)
}

// RemoveAt returns a fresh array with the element at index i removed
// (spec.md §4.6, "remove_at(arr, i)").
func RemoveAt[T comparable](a *arena.Arena, h arena.Handle, i int) arena.Handle {
	raw := a.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	if i < 0 || i >= size {
		a.Unpin(h)
		arena.Fatal(arena.KindIndexOutOfBounds, "remove_at: index %d out of bounds (len %d)", i, size)
	}
	src := typedView[T](raw, size)
	out := make([]T, 0, size-1)
	out = append(out, src[:i]...)
	out = append(out, src[i+1:]...)
	a.Unpin(h)
	return Create[T](a, len(out), out)
}

// InsertAt returns a fresh array with e inserted at index i (spec.md §4.6,
// "insert_at(arr, i, e)").
func InsertAt[T comparable](a *arena.Arena, h arena.Handle, i int, e T) arena.Handle {
	raw := a.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	if i < 0 || i > size {
		a.Unpin(h)
		arena.Fatal(arena.KindIndexOutOfBounds, "insert_at: index %d out of bounds (len %d)", i, size)
	}
	src := typedView[T](raw, size)
	out := make([]T, 0, size+1)
	out = append(out, src[:i]...)
	out = append(out, e)
	out = append(out, src[i:]...)
	a.Unpin(h)
	return Create[T](a, len(out), out)
}

// IndexOf returns the index of the first element equal to e, or -1
// (spec.md §4.6, "indexOf(arr, e)"). Inline families compare by value,
// matching original_source/src/runtime/runtime_array_search.c.
func IndexOf[T comparable](a *arena.Arena, h arena.Handle, e T) int {
	raw := a.Pin(h)
	defer a.Unpin(h)
	size, _ := arena.ReadArrayHeader(raw)
	for i, v := range typedView[T](raw, size) {
		if v == e {
			return i
		}
	}
	return -1
}

// Contains reports whether e appears in arr (spec.md §4.6, "contains(arr, e)").
func Contains[T comparable](a *arena.Arena, h arena.Handle, e T) bool {
	return IndexOf[T](a, h, e) >= 0
}

// Eq reports whether x and y have equal length and element-wise equal
// contents (spec.md §4.6, "eq(a, b)").
func Eq[T comparable](a *arena.Arena, x, y arena.Handle) bool {
	xraw := a.Pin(x)
	xsize, _ := arena.ReadArrayHeader(xraw)
	xs := typedView[T](xraw, xsize)
	a.Unpin(x)

	yraw := a.Pin(y)
	ysize, _ := arena.ReadArrayHeader(yraw)
	ys := typedView[T](yraw, ysize)
	a.Unpin(y)

	if xsize != ysize {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

// Join formats every element with fmt.Sprint and joins them with sep
// (spec.md §4.6, "join(arr, sep)").
func Join[T comparable](a *arena.Arena, h arena.Handle, sep string) arena.Handle {
	raw := a.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	parts := make([]string, size)
	for i, v := range typedView[T](raw, size) {
		parts[i] = fmt.Sprint(v)
	}
	a.Unpin(h)
	return a.Strdup(arena.NullHandle, strings.Join(parts, sep))
}

// ToString formats arr as "[e1, e2, ...]" (spec.md §4.6, "to_string(arr)").
func ToString[T comparable](a *arena.Arena, h arena.Handle) arena.Handle {
	raw := a.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	parts := make([]string, size)
	for i, v := range typedView[T](raw, size) {
		parts[i] = fmt.Sprint(v)
	}
	a.Unpin(h)
	return a.Strdup(arena.NullHandle, "["+strings.Join(parts, ", ")+"]")
}

// RangeInts returns a fresh int64 array containing start, start+1, ...,
// end-1 (spec.md §4.6, "range(start, end)").
func RangeInts(a *arena.Arena, start, end int64) arena.Handle {
	if end < start {
		end = start
	}
	out := make([]int64, 0, end-start)
	for v := start; v < end; v++ {
		out = append(out, v)
	}
	return Create[int64](a, len(out), out)
}
