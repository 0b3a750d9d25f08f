package container

import "github.com/xyproto/varena/arena"

// arena.Arena.Promote copies raw bytes verbatim, which is correct for
// inline-element families but not for handle-element families: the bytes it
// copies are themselves src-local handles, meaningless once reinterpreted in
// dest. Promoting a string array or a nested array therefore has to promote
// every leaf first, then the outer container, then go back and overwrite
// each slot with the handle Promote actually returned — promoting the
// container before its leaves would leave it holding slots that still point
// into src and are dangling the moment src is reset or destroyed (spec.md
// §4.4, "promote(dest, src, handle)" extended to composite handles by
// original_source/src/runtime/runtime_gc_promote.c's "promote children
// before parent" ordering, dropped by the spec.md distillation).

// PromoteStringArray promotes a 1-level array of strings from src to dest,
// promoting every string leaf before the array itself.
func PromoteStringArray(dest, src *arena.Arena, h arena.Handle) arena.Handle {
	if dest == src {
		return h
	}
	raw := src.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	leaves := append([]arena.Handle(nil), typedView[arena.Handle](raw, size)...)
	src.Unpin(h)

	promoted := make([]arena.Handle, size)
	for i, leaf := range leaves {
		promoted[i] = dest.Promote(src, leaf)
	}

	outer := dest.Promote(src, h)
	oraw := dest.Pin(outer)
	copy(typedView[arena.Handle](oraw, size), promoted)
	dest.Unpin(outer)
	return outer
}

// PromoteNestedArray2 promotes a 2-level nested array (array of
// array-of-string) from src to dest, promoting depth-first: every innermost
// string, then each middle string array, then the outer array.
func PromoteNestedArray2(dest, src *arena.Arena, h arena.Handle) arena.Handle {
	if dest == src {
		return h
	}
	raw := src.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	mids := append([]arena.Handle(nil), typedView[arena.Handle](raw, size)...)
	src.Unpin(h)

	promotedMids := make([]arena.Handle, size)
	for i, mid := range mids {
		promotedMids[i] = PromoteStringArray(dest, src, mid)
	}

	outer := dest.Promote(src, h)
	oraw := dest.Pin(outer)
	copy(typedView[arena.Handle](oraw, size), promotedMids)
	dest.Unpin(outer)
	return outer
}

// PromoteNestedArray3 promotes a 3-level nested array from src to dest,
// promoting depth-first: innermost strings, then inner arrays, then middle
// arrays, then the outer array.
func PromoteNestedArray3(dest, src *arena.Arena, h arena.Handle) arena.Handle {
	if dest == src {
		return h
	}
	raw := src.Pin(h)
	size, _ := arena.ReadArrayHeader(raw)
	outers := append([]arena.Handle(nil), typedView[arena.Handle](raw, size)...)
	src.Unpin(h)

	promoted := make([]arena.Handle, size)
	for i, mid := range outers {
		promoted[i] = PromoteNestedArray2(dest, src, mid)
	}

	outer := dest.Promote(src, h)
	oraw := dest.Pin(outer)
	copy(typedView[arena.Handle](oraw, size), promoted)
	dest.Unpin(outer)
	return outer
}
