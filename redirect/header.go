// Package redirect implements the portable subset of spec.md §6's
// malloc-redirect extension: an explicit allocation API carrying the same
// 16-byte header and four-policy matrix the original C runtime installs by
// intercepting libc's malloc/free/realloc symbols. True PLT rewriting /
// two-level namespace rebinding is not achievable from portable, memory-safe
// Go (see DESIGN.md's Open Question resolution for §6); callers that want
// the policy semantics route their allocations through redirect.Alloc /
// redirect.Free / redirect.Realloc explicitly instead.
package redirect

import (
	"encoding/binary"
	"math"
)

// arenaMagic identifies redirect-owned allocations, recovered from
// original_source/experiments/malloc/src/runtime/runtime_malloc_redirect.c
// ("header.magic = 'ARNA'").
const arenaMagic uint32 = 0x41524e41 // "ARNA" big-endian byte order

// headerSize is the fixed 16-byte header installed immediately before every
// redirect-owned allocation: {size uint64, magic uint32, flags uint32}.
const headerSize = 16

// Flag bits stored in a header's flags word.
type Flag uint32

const (
	// FlagNone marks a plain allocation.
	FlagNone Flag = 0
	// FlagZeroed marks an allocation that Calloc zero-initialized.
	FlagZeroed Flag = 1 << 0
)

// block is one redirect-owned allocation: the 16-byte header followed by
// the user-visible payload, both backed by a single Go byte slice so the
// "pointer" spec.md describes is really the slice header the caller holds.
type block struct {
	buf   []byte
	flags Flag
}

func newBlock(size int, flags Flag) *block {
	buf := make([]byte, headerSize+size)
	putHeader(buf, uint64(size), flags)
	return &block{buf: buf, flags: flags}
}

func putHeader(buf []byte, size uint64, flags Flag) {
	binary.BigEndian.PutUint64(buf[0:8], size)
	binary.BigEndian.PutUint32(buf[8:12], arenaMagic)
	binary.BigEndian.PutUint32(buf[12:16], uint32(flags))
}

// readHeader decodes a block's header, reporting ok=false if buf is too
// short to hold one or its magic doesn't match (i.e. it was never a
// redirect-owned allocation).
func readHeader(buf []byte) (size uint64, flags Flag, ok bool) {
	if len(buf) < headerSize {
		return 0, 0, false
	}
	if binary.BigEndian.Uint32(buf[8:12]) != arenaMagic {
		return 0, 0, false
	}
	size = binary.BigEndian.Uint64(buf[0:8])
	flags = Flag(binary.BigEndian.Uint32(buf[12:16]))
	return size, flags, true
}

func (b *block) payload() []byte {
	return b.buf[headerSize:]
}

// maxGrowable is the largest size Realloc/grow will attempt before treating
// further growth as overflow (spec.md §6, "overflow policy"); chosen well
// below math.MaxInt to leave headroom for the header and any doubling.
const maxGrowable = math.MaxInt64 / 4
