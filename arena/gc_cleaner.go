package arena

import (
	"sync/atomic"
	"time"
)

// cleanerLoop runs on the root arena only, walking the whole tree on a
// timer and recycling handle-table slots for entries that are dead and no
// longer leased (spec.md §4.5, "Cleaner"). It never frees bytes back to the
// block chain or decrements dead_bytes — that bookkeeping belongs to the
// compactor, which is the only thing allowed to actually relocate or free
// backing storage.
func (root *Arena) cleanerLoop() {
	defer root.wg.Done()
	ticker := time.NewTicker(root.cfg.GCInterval)
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
		root.runCleanerPass()
		root.cleanerEpoch.bump()
	}
}

// runCleanerPass walks a bounded BFS snapshot of the arena tree (spec.md
// §4.5, "bounded snapshot") and recycles every dead, unleased slot it finds.
func (root *Arena) runCleanerPass() {
	snapshot := root.snapshotTree(MaxArenaSnapshot)
	for _, a := range snapshot {
		a.cleanOne()
	}
}

// snapshotTree returns up to limit arenas from the tree rooted at root, in
// BFS order, so the cleaner never gives one deeply nested subtree
// disproportionate service on a tree that grows between passes.
func (root *Arena) snapshotTree(limit int) []*Arena {
	out := make([]*Arena, 0, limit)
	queue := []*Arena{root}
	for len(queue) > 0 && len(out) < limit {
		a := queue[0]
		queue = queue[1:]
		out = append(out, a)

		a.childrenMu.Lock()
		for c := a.firstChild; c != nil; c = c.nextSibling {
			queue = append(queue, c)
		}
		a.childrenMu.Unlock()
	}
	return out
}

// cleanOne recycles every dead, unleased, unpinned slot in a's handle table.
// Permanently pinned entries are left in place even when dead: their slot
// identity (and the compactor's refusal to touch their block) only ends at
// Destroy. table.recycle appends to the same free-list allocIndex pops
// under allocMu (spec.md §5, "allocation_mutex ... protects ... the
// free-list"; §4.4, "acquire allocation mutex + root pin-mutex"), so both
// locks are held here, allocMu outermost — the same order compactNow uses.
func (a *Arena) cleanOne() {
	if !atomic.CompareAndSwapInt32(&a.gcProcessing, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&a.gcProcessing, 0)

	a.allocMu.Lock()
	defer a.allocMu.Unlock()

	root := a.Root()
	root.pinMu.Lock()
	defer root.pinMu.Unlock()

	for p, page := range a.table.pages {
		for i := range page {
			e := &page[i]
			if e.dead && !e.pinned && !e.isLeased() && e.ptr != nil {
				idx := uint32(p)*handlePageSize + uint32(i)
				*e = entry{}
				a.table.recycle(idx)
			}
		}
	}
}
