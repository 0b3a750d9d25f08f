package container

import "github.com/xyproto/varena/arena"

// Raw-pointer arrays (spec.md §4.6, element family "pointer" — used for
// closures and FFI call sites) hold an opaque 8-byte value per slot that the
// generated program treats as a platform pointer or function address. This
// package never dereferences it; uintptr satisfies comparable, so the
// pointer family is just the generic engine instantiated at T = uintptr,
// the same way original_source/src/runtime/runtime_array_core.c wraps its
// generic core once per concrete C type.

// CreatePointers allocates a fresh pointer-family array (spec.md §4.6,
// "create(count, optional_data)").
func CreatePointers(a *arena.Arena, count int, data []uintptr) arena.Handle {
	return Create[uintptr](a, count, data)
}

// PushPointer appends a raw pointer value (spec.md §4.6, "push(arr, e)").
func PushPointer(a *arena.Arena, old arena.Handle, p uintptr) arena.Handle {
	return Push[uintptr](a, old, p)
}
