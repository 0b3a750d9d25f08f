package container

import (
	"strings"

	"github.com/xyproto/varena/arena"
)

// Arrays whose element family is string share the handle-element array
// engine (container.Create[arena.Handle], container.Push[arena.Handle],
// ...) for their structural operations; this file adds the string-content-
// aware search and join/to_string behavior spec.md §4.6 calls out as
// different from the inline families' byte-wise versions
// (original_source/src/runtime/runtime_array_search.c: "indexOf/contains
// use element-family-aware equality ... not handle-identity equality").

// IndexOfString returns the index of the first element whose string
// content equals needle, or -1.
func IndexOfString(a *arena.Arena, h arena.Handle, needle string) int {
	raw := a.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	handles := append([]arena.Handle(nil), typedView[arena.Handle](raw, size)...)
	a.Unpin(h)

	for i, eh := range handles {
		if string(a.StringBytes(eh)) == needle {
			a.Unpin(eh)
			return i
		}
		a.Unpin(eh)
	}
	return -1
}

// ContainsString reports whether needle appears by content in h.
func ContainsString(a *arena.Arena, h arena.Handle, needle string) bool {
	return IndexOfString(a, h, needle) >= 0
}

// joinStringArray concatenates the string contents of h's elements with
// sep, without allocating a new arena handle for the result.
func joinStringArray(a *arena.Arena, h arena.Handle, sep string) string {
	raw := a.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	handles := append([]arena.Handle(nil), typedView[arena.Handle](raw, size)...)
	a.Unpin(h)

	parts := make([]string, size)
	for i, sh := range handles {
		parts[i] = string(a.StringBytes(sh))
		a.Unpin(sh)
	}
	return strings.Join(parts, sep)
}

// JoinStrings returns a fresh string handle equal to h's elements joined by
// sep (spec.md §4.6, "join(arr, sep)" for the string family).
func JoinStrings(a *arena.Arena, h arena.Handle, sep string) arena.Handle {
	return a.Strdup(arena.NullHandle, joinStringArray(a, h, sep))
}

// ToStringArray formats h as "[s1, s2, ...]" (spec.md §4.6, "to_string(arr)"
// for the string family).
func ToStringArray(a *arena.Arena, h arena.Handle) arena.Handle {
	raw := a.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	handles := append([]arena.Handle(nil), typedView[arena.Handle](raw, size)...)
	a.Unpin(h)

	parts := make([]string, size)
	for i, sh := range handles {
		parts[i] = string(a.StringBytes(sh))
		a.Unpin(sh)
	}
	return a.Strdup(arena.NullHandle, "["+strings.Join(parts, ", ")+"]")
}

// JoinNested2 joins a 2-level nested array of strings (array of
// array-of-string) using outerSep between groups and innerSep within a
// group (spec.md §6 example "a|b;c"; recovered from
// original_source/src/runtime/runtime_array_tostring_nested.c, dropped by
// the spec.md distillation).
func JoinNested2(a *arena.Arena, outer arena.Handle, outerSep, innerSep string) arena.Handle {
	raw := a.Pin(outer)
	size, _ := arena.ReadArrayHeader(raw)
	inners := append([]arena.Handle(nil), typedView[arena.Handle](raw, size)...)
	a.Unpin(outer)

	parts := make([]string, size)
	for i, inner := range inners {
		parts[i] = joinStringArray(a, inner, innerSep)
	}
	return a.Strdup(arena.NullHandle, strings.Join(parts, outerSep))
}

// JoinNested3 joins a 3-level nested array of strings, with outerSep between
// the outermost groups, midSep between inner groups, and innerSep between
// strings.
func JoinNested3(a *arena.Arena, outer arena.Handle, outerSep, midSep, innerSep string) arena.Handle {
	raw := a.Pin(outer)
	size, _ := arena.ReadArrayHeader(raw)
	mids := append([]arena.Handle(nil), typedView[arena.Handle](raw, size)...)
	a.Unpin(outer)

	parts := make([]string, size)
	for i, mid := range mids {
		midRaw := a.Pin(mid)
		midSize, _ := arena.ReadArrayHeader(midRaw)
		inners := append([]arena.Handle(nil), typedView[arena.Handle](midRaw, midSize)...)
		a.Unpin(mid)

		innerParts := make([]string, midSize)
		for j, inner := range inners {
			innerParts[j] = joinStringArray(a, inner, innerSep)
		}
		parts[i] = strings.Join(innerParts, midSep)
	}
	return a.Strdup(arena.NullHandle, strings.Join(parts, outerSep))
}
