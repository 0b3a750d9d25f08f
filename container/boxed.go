package container

import (
	"github.com/dolthub/maphash"
	"github.com/flier/goutil/pkg/xunsafe"

	"github.com/xyproto/varena/arena"
)

// AnyTag identifies which family a boxed-any value actually holds (spec.md
// §4.6, "Array-of-any conversions").
type AnyTag byte

const (
	TagLong AnyTag = iota
	TagUint
	TagInt32
	TagUint32
	TagDouble
	TagFloat
	TagByte
	TagBool
	TagChar
	TagString
	TagArray
	TagPointer
)

// boxedSize is the on-wire layout of one boxed-any value: a 1-byte tag,
// padded to the 8-byte payload's alignment, followed by either the raw
// inline bits or (for TagString/TagArray) the arena.Handle of the payload.
const boxedSize = 16

// Box allocates one boxed-any value tagging v as family tag (spec.md §4.6,
// "to_any(arr)" applied to a single element). T's in-memory layout is
// reinterpreted directly into the box's payload bytes via xunsafe.Cast,
// the same pointer-reinterpretation helper flier-goutil/pkg/arena/swiss
// uses for its group slots.
func Box[T comparable](a *arena.Arena, tag AnyTag, v T) arena.Handle {
	h := a.Alloc(arena.NullHandle, boxedSize)
	raw := a.Pin(h)
	defer a.Unpin(h)
	raw[0] = byte(tag)
	*xunsafe.Cast[T](&raw[8]) = v
	return h
}

// Tag returns the family tag a boxed-any value carries.
func Tag(a *arena.Arena, h arena.Handle) AnyTag {
	raw := a.Pin(h)
	defer a.Unpin(h)
	return AnyTag(raw[0])
}

// Unbox reads v back out of a boxed-any value, fatal if its tag doesn't
// match the requested family (spec.md §4.6, "from_any(arr, family);
// mismatched family is a fatal error").
func Unbox[T comparable](a *arena.Arena, h arena.Handle, tag AnyTag) T {
	raw := a.Pin(h)
	defer a.Unpin(h)
	if AnyTag(raw[0]) != tag {
		arena.Fatal(arena.KindCrossFamilyUnbox, "from_any: expected tag %d, got %d", tag, raw[0])
	}
	return *xunsafe.Cast[T](&raw[8])
}

// ToAny converts an inline-family array into an array of boxed-any handles
// (spec.md §4.6, "to_any(arr)").
func ToAny[T comparable](a *arena.Arena, arr arena.Handle, tag AnyTag) arena.Handle {
	raw := a.Pin(arr)
	size, _ := arena.ReadArrayHeader(raw)
	src := append([]T(nil), typedView[T](raw, size)...)
	a.Unpin(arr)

	boxes := make([]arena.Handle, size)
	for i, v := range src {
		boxes[i] = Box[T](a, tag, v)
	}
	return Create[arena.Handle](a, size, boxes)
}

// FromAny converts an array of boxed-any handles back into an inline-family
// array, fatal if any element's tag disagrees with family (spec.md §4.6,
// "from_any(arr, family)").
func FromAny[T comparable](a *arena.Arena, arr arena.Handle, tag AnyTag) arena.Handle {
	raw := a.Pin(arr)
	size, _ := arena.ReadArrayHeader(raw)
	boxes := append([]arena.Handle(nil), typedView[arena.Handle](raw, size)...)
	a.Unpin(arr)

	out := make([]T, size)
	for i, bh := range boxes {
		out[i] = Unbox[T](a, bh, tag)
	}
	return Create[T](a, size, out)
}

// boxKey is the comparable projection of a boxed-any value used for
// hash-assisted equality: the tag plus either its raw inline bits or (for
// strings) a content hash, never the string's handle identity.
type boxKey struct {
	tag  AnyTag
	bits uint64
}

var boxHasher = maphash.NewHasher[boxKey]()

// anyKey computes h's boxKey and, for TagString, its decoded content (kept
// alongside the hash since a 64-bit hash collision must still fall back to
// an exact comparison).
func anyKey(a *arena.Arena, h arena.Handle) (boxKey, string) {
	raw := a.Pin(h)
	tag := AnyTag(raw[0])
	if tag == TagString {
		sh := *xunsafe.Cast[arena.Handle](&raw[8])
		a.Unpin(h)
		s := string(a.StringBytes(sh))
		a.Unpin(sh)
		return boxKey{tag: tag, bits: maphash.NewHasher[string]().Hash(s)}, s
	}
	bits := *xunsafe.Cast[uint64](&raw[8])
	a.Unpin(h)
	return boxKey{tag: tag, bits: bits}, ""
}

// AnyEqual reports whether two boxed-any handles hold the same family and
// value, comparing string contents rather than handle identity (spec.md
// §4.6, "eq(a, b)" applied to any-boxed elements).
func AnyEqual(a *arena.Arena, x, y arena.Handle) bool {
	kx, sx := anyKey(a, x)
	ky, sy := anyKey(a, y)
	if boxHasher.Hash(kx) != boxHasher.Hash(ky) {
		return false
	}
	if kx.tag == TagString {
		return sx == sy
	}
	return kx == ky
}

// AnyIndexOf returns the index of the first element of arr equal to
// needle under AnyEqual, or -1.
func AnyIndexOf(a *arena.Arena, arr, needle arena.Handle) int {
	kn, sn := anyKey(a, needle)
	hn := boxHasher.Hash(kn)

	raw := a.Pin(arr)
	size, _ := arena.ReadArrayHeader(raw)
	boxes := append([]arena.Handle(nil), typedView[arena.Handle](raw, size)...)
	a.Unpin(arr)

	for i, bh := range boxes {
		k, s := anyKey(a, bh)
		if boxHasher.Hash(k) != hn {
			continue
		}
		if k.tag == TagString {
			if s == sn {
				return i
			}
			continue
		}
		if k == kn {
			return i
		}
	}
	return -1
}

// AnyContains reports whether needle appears in arr under AnyEqual.
func AnyContains(a *arena.Arena, arr, needle arena.Handle) bool {
	return AnyIndexOf(a, arr, needle) >= 0
}
