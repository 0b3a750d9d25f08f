package arena

import (
	"sync/atomic"
	"time"
)

// compactorLoop runs on the root arena only (spec.md §4.5, "Compactor").
// Each pass has two phases: Phase A frees blocks that finished draining
// during a previous pass; Phase B relocates live data out of any arena
// whose fragmentation ratio has crossed cfg.CompactThreshold.
func (root *Arena) compactorLoop() {
	defer root.wg.Done()
	ticker := time.NewTicker(root.cfg.CompactInterval)
	defer ticker.Stop()

	for root.running.Load() {
		select {
		case <-ticker.C:
		case <-root.stopCh:
			return
		}
		if !root.running.Load() {
			return
		}
		snapshot := root.snapshotTree(MaxArenaSnapshot)
		for _, a := range snapshot {
			a.freeRetiredBlocks()
		}
		for _, a := range snapshot {
			a.maybeCompact()
		}
		root.compactorEpoch.bump()
	}
}

// freeRetiredBlocks is Phase A (spec.md §4.5, "retire-then-free"). A block
// only reaches a's retiredHead list once Phase B found it holds no leased,
// pinned, or still-referenced entry; freeRetiredBlocks re-checks the
// block's lease and pin counts under pinMu before unmapping it, since a pin
// taken in the instant between relocation and this check must still be
// honored. It does not scan the handle table for entries that still point
// into a retired block, and copies nothing out of the block before
// unmapping it.
func (a *Arena) freeRetiredBlocks() {
	root := a.Root()
	root.pinMu.Lock()
	defer root.pinMu.Unlock()

	var keep, free *block
	for b := a.retiredHead; b != nil; {
		next := b.retiredNext
		if b.leaseCount == 0 && b.pinnedCount == 0 {
			b.retiredNext = free
			free = b
		} else {
			b.retiredNext = keep
			keep = b
		}
		b = next
	}
	a.retiredHead = keep

	for b := free; b != nil; b = b.retiredNext {
		b.free()
	}
}

// maybeCompact is Phase B. If a's fragmentation ratio has crossed
// cfg.CompactThreshold, it builds a fresh block chain, relocates every
// live, unleased, unpinned entry into it, and retires whichever old blocks
// end up with nothing left pointing into them (spec.md §4.5, "single pass
// relocation"). Blocks still holding a leased, pinned, or dead-but-uncleaned
// entry are spliced onto the tail of the new chain instead of being
// retired — they remain part of the arena's backing store until the
// cleaner and a later compaction pass can let them go.
func (a *Arena) maybeCompact() {
	if a.fragmentationRatio() < a.cfg.CompactThreshold {
		return
	}
	a.compactNow()
}

// fragmentationRatio is dead_bytes / (live_bytes + dead_bytes), 0 when the
// arena has never allocated anything (spec.md §4.5, "fragmentation ratio").
func (a *Arena) fragmentationRatio() float64 {
	live := atomic.LoadInt64(&a.liveBytes)
	dead := atomic.LoadInt64(&a.deadBytes)
	total := live + dead
	if total == 0 {
		return 0
	}
	return float64(dead) / float64(total)
}

// compactNow runs Phase B unconditionally, regardless of fragmentation
// ratio (spec.md §6, "force_compact").
func (a *Arena) compactNow() {
	a.allocMu.Lock()
	defer a.allocMu.Unlock()
	root := a.Root()
	root.pinMu.Lock()
	defer root.pinMu.Unlock()

	oldFirst := a.first
	if oldFirst == nil {
		return
	}

	newHead := newBlock(a.blockSize)
	newTail := newHead

	relocate := func(e *entry) {
		buf, ok := newTail.bump(e.size, pointerAlign)
		if !ok {
			nb := newBlock(max(a.blockSize, e.size))
			newTail.next = nb
			newTail = nb
			buf, ok = newTail.bump(e.size, pointerAlign)
			if !ok {
				fatal(KindExhaustion, "compaction: cannot relocate %d-byte entry into fresh block", e.size)
			}
		}
		copy(buf, e.ptr)
		e.ptr = buf
		e.block = newTail
	}

	for _, page := range a.table.pages {
		for i := range page {
			e := &page[i]
			if e.ptr == nil || e.dead || e.pinned || e.isLeased() {
				continue
			}
			relocate(e)
		}
	}

	// Anything still pointing at an old block (leased, permanently
	// pinned, or dead-but-not-yet-cleaned) keeps that block alive by
	// splicing it onto the new chain's tail instead of retiring it.
	referenced := make(map[*block]bool)
	for _, page := range a.table.pages {
		for i := range page {
			e := &page[i]
			if e.block != nil && e.ptr != nil && (e.dead || e.pinned || e.isLeased()) {
				referenced[e.block] = true
			}
		}
	}

	for b := oldFirst; b != nil; {
		next := b.next
		b.next = nil
		if referenced[b] {
			newTail.next = b
			newTail = b
		} else {
			b.retiredNext = a.retiredHead
			a.retiredHead = b
		}
		b = next
	}

	a.first = newHead
	a.current.Store(newTail)
	atomic.StoreInt64(&a.deadBytes, 0)
	atomic.AddUint32(&root.blockEpoch, 1)
}
