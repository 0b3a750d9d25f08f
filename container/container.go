// Package container implements the array and mutable-string value types of
// spec.md §4.6-§4.7 on top of arena handles: inline fixed-width element
// families (long/uint/int32/uint32/double/float/byte/bool/char), the
// handle-element family (nested arrays, strings, boxed-any), and the
// raw-pointer family (closures/FFI).
//
// Rather than the teacher's per-opcode C-style dispatch (one hand-written
// function per concrete element type, as original_source/src/runtime/
// runtime_array_core.c does with a generic core plus thin wrappers), this
// package uses one generic engine parameterized by a comparable element
// type T, grounded on the same generics-over-raw-memory pattern
// flier-goutil/pkg/arena/swiss uses for its Map[K, V]: the element type is
// a Go type parameter, and github.com/flier/goutil/pkg/xunsafe reinterprets
// the arena's raw byte payload as a typed slice instead of copying through
// encoding/binary per element.
package container

import (
	"unsafe"

	"github.com/flier/goutil/pkg/xunsafe"

	"github.com/xyproto/varena/arena"
)

// initialCapacity is the capacity a fresh array gets on its first push
// (spec.md §4.6, "Growth policy: capacity starts at 4").
const initialCapacity = 4

func elemSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// payload returns the element bytes of a raw Pin'd buffer, i.e. everything
// after the metadata header.
func payload(raw []byte) []byte {
	return raw[arena.MetadataSize:]
}

// typedView reinterprets the first n elements of raw's payload as a []T,
// aliasing the arena's backing storage rather than copying it.
func typedView[T any](raw []byte, n int) []T {
	if n == 0 {
		return nil
	}
	p := payload(raw)
	return unsafe.Slice(xunsafe.Cast[T](&p[0]), n)
}

func byteLen[T any](n int) int {
	return arena.MetadataSize + n*elemSize[T]()
}
