package arena

import "sync/atomic"

// Pin returns the raw bytes behind h and increments its lease count
// (spec.md §4.4, "pin(handle)"). While leased, the compactor will not
// relocate the entry's payload; the caller must call Unpin exactly once per
// Pin before the returned slice is no longer safe to read through.
func (a *Arena) Pin(h Handle) []byte {
	idx, ok := a.localIndex(h)
	if !ok {
		fatal(KindInvalidHandle, "pin of invalid handle %d", h)
	}
	e := a.table.get(idx)

	root := a.Root()
	root.pinMu.Lock()
	defer root.pinMu.Unlock()

	if e.dead {
		fatal(KindInvalidHandle, "pin of dead handle %d", h)
	}
	e.addLease(1)
	if e.block != nil {
		e.block.leaseCount++
	}
	return e.ptr
}

// Unpin releases one lease taken by Pin (spec.md §4.4, "unpin(handle)").
func (a *Arena) Unpin(h Handle) {
	idx, ok := a.localIndex(h)
	if !ok {
		fatal(KindInvalidHandle, "unpin of invalid handle %d", h)
	}
	e := a.table.get(idx)

	root := a.Root()
	root.pinMu.Lock()
	defer root.pinMu.Unlock()

	if e.addLease(-1) < 0 {
		fatal(KindLeaseUnderflow, "unpin of handle %d without a matching pin", h)
	}
	if e.block != nil {
		e.block.leaseCount--
	}
}

// PinPermanent marks h as permanently pinned: the compactor will never
// relocate its payload or retire its block, for the lifetime of the arena
// (spec.md §4.4, "pin_permanent(handle)"). Used for handles wrapping host
// resources (mutexes, FILE*, OS handles) whose identity must be address
// stable. There is no corresponding unpin; the pin only ends at Destroy.
func (a *Arena) PinPermanent(h Handle) []byte {
	idx, ok := a.localIndex(h)
	if !ok {
		fatal(KindInvalidHandle, "pin_permanent of invalid handle %d", h)
	}
	e := a.table.get(idx)

	root := a.Root()
	root.pinMu.Lock()
	defer root.pinMu.Unlock()

	if e.dead {
		fatal(KindInvalidHandle, "pin_permanent of dead handle %d", h)
	}
	if !e.pinned {
		e.pinned = true
		if e.block != nil {
			e.block.pinnedCount++
		}
	}
	return e.ptr
}

// MarkDead retires h: the cleaner recycles its table slot once it is no
// longer leased (spec.md §4.4, "mark_dead(handle)"). A permanently pinned
// handle can still be marked dead — the pin only protects the payload's
// address, not its liveness.
func (a *Arena) MarkDead(h Handle) {
	idx, ok := a.localIndex(h)
	if !ok {
		fatal(KindInvalidHandle, "mark_dead of invalid handle %d", h)
	}
	e := a.table.get(idx)

	root := a.Root()
	root.pinMu.Lock()
	defer root.pinMu.Unlock()

	if e.dead {
		return
	}
	e.dead = true
	atomic.AddInt64(&a.deadBytes, int64(e.size))
	atomic.AddInt64(&a.liveBytes, -int64(e.size))
}
