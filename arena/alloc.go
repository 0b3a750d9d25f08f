package arena

import (
	"sync/atomic"
)

const pointerAlign = 8

// Alloc allocates size bytes, optionally retiring an old handle in the same
// call (spec.md §4.3, "alloc(old, size)"). If old is not NullHandle, it is
// marked dead as part of the same operation, matching the ABI generated
// code relies on: "x = alloc(x, newSize)" replaces in place from the
// caller's point of view.
func (a *Arena) Alloc(old Handle, size int) Handle {
	if size < 0 {
		fatal(KindOverflow, "negative allocation size %d", size)
	}
	buf, src := a.bump(size, pointerAlign)
	h := a.newHandle(buf, src, size)
	if old != NullHandle {
		a.MarkDead(old)
	}
	atomic.AddInt64(&a.totalAllocated, int64(size))
	atomic.AddInt64(&a.liveBytes, int64(size))
	return h
}

// newHandle installs buf (carved from src) as the payload for a freshly
// minted handle. allocIndex, get, and the entry install all happen under
// allocMu: get grows a.table.pages when a new page is needed, which races
// against concurrent allocations and against the compactor/cleaner ranging
// over a.table.pages under their own locks if it isn't serialized the same
// way (spec.md §5, "allocation_mutex ... protects handle-table growth").
func (a *Arena) newHandle(buf []byte, src *block, size int) Handle {
	a.allocMu.Lock()
	idx := a.table.allocIndex()
	e := a.table.get(idx)
	*e = entry{ptr: buf, size: size, block: src}
	a.allocMu.Unlock()
	return a.toHandle(idx)
}

// bump is the allocation entry point combining the lock-free fast path
// (spec.md §4.1) with the mutex-protected slow path for new-block
// allocation. It returns the reserved slice and the block it was carved
// from (recorded directly rather than rediscovered by scanning the chain,
// which would otherwise need its own synchronization against concurrent
// compaction).
func (a *Arena) bump(size int, align int) ([]byte, *block) {
	root := a.Root()
	for {
		epochBefore := atomic.LoadUint32(&root.blockEpoch)
		cur := a.current.Load()
		if buf, ok := cur.bump(size, align); ok {
			if atomic.LoadUint32(&root.blockEpoch) == epochBefore {
				return buf, cur
			}
			// The compactor swapped in a new chain between our CAS
			// and this check — cur may now be a retired block that
			// is about to be unmapped. Don't trust the allocation;
			// retry against the fresh chain (spec.md §4.1, "Epoch
			// counter"). The bytes we just reserved in the stale
			// block are simply abandoned; they will be freed with
			// the rest of that block once it drains.
			continue
		}
		if buf, src, ok := a.slowAlloc(size, align); ok {
			return buf, src
		}
	}
}

// slowAlloc takes allocMu and either finds room in the (possibly just
// advanced) current block or appends a fresh one sized to fit the request.
func (a *Arena) slowAlloc(size, align int) ([]byte, *block, bool) {
	a.allocMu.Lock()
	defer a.allocMu.Unlock()

	cur := a.current.Load()
	if buf, ok := cur.bump(size, align); ok {
		return buf, cur, true
	}

	newSize := a.blockSize
	if size > newSize {
		newSize = size
	}
	nb := newBlock(newSize)
	cur.next = nb
	a.current.Store(nb)

	buf, ok := nb.bump(size, align)
	if !ok {
		fatal(KindExhaustion, "allocation of %d bytes exceeds fresh block capacity %d", size, nb.capacity)
	}
	return buf, nb, true
}
