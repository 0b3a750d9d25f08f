package arena

import (
	"sync/atomic"
	"unsafe"
)

// block is one backing memory segment in an arena's chain (spec.md §4.1,
// "Backing block chain"). Allocation within a block is lock-free: bump
// CAS-advances used, falling back to the arena's allocMu only when the
// block has no more room.
type block struct {
	data []byte // backing storage; data[0] is the block's base address

	capacity int64
	used     int64 // atomic bump cursor

	leaseCount  int32 // entries in this block currently leased (pin_mutex-protected)
	pinnedCount int32 // entries in this block permanently pinned (pin_mutex-protected)

	retired     bool // not set anywhere: compactNow decides retirement from a per-pass map of referenced blocks
	next        *block
	retiredNext *block // link within the arena's separate retired-block list
}

func newBlock(size int) *block {
	if size < 1 {
		size = 1
	}
	return &block{
		data:     mmapAlloc(size),
		capacity: int64(size),
	}
}

func (b *block) free() {
	mmapFree(b.data)
	b.data = nil
}

// basePtr returns the address of byte 0 of the block's backing storage.
func (b *block) basePtr() uintptr {
	if len(b.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b.data[0]))
}

// bump attempts the lock-free fast path: reserve n aligned bytes starting at
// the current used cursor. Returns the byte slice for the reservation and
// true, or false if the block doesn't have room (caller falls back to the
// slow path in (*Arena).bump).
func (b *block) bump(n int, align int) ([]byte, bool) {
	for {
		used := atomic.LoadInt64(&b.used)
		alignedStart := alignUp(used, int64(align))
		newUsed := alignedStart + int64(n)
		if newUsed > b.capacity {
			return nil, false
		}
		if atomic.CompareAndSwapInt64(&b.used, used, newUsed) {
			return b.data[alignedStart:newUsed:newUsed], true
		}
		// Lost the race to a concurrent bumper; retry against the
		// (possibly advanced) cursor.
	}
}

func alignUp(v, align int64) int64 {
	if align <= 1 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// inBounds reports whether ptr lies within this block's backing storage.
// It has no caller in this package.
func (b *block) inBounds(ptr []byte) bool {
	if len(b.data) == 0 || len(ptr) == 0 {
		return false
	}
	base := uintptr(unsafe.Pointer(&b.data[0]))
	end := base + uintptr(len(b.data))
	p := uintptr(unsafe.Pointer(&ptr[0]))
	return p >= base && p < end
}
