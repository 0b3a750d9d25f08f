package arena

import "sync/atomic"

// Reset frees everything allocated from a and restores it to a single fresh
// block, without tearing the arena itself down (spec.md §6, "reset"). It
// runs a's cleanup hooks first, in priority order, exactly as Destroy would.
// a must have no live children: resetting out from under a child arena
// would leave that child's handles pointing at freed memory, which is the
// same hazard spec.md §7 raises for destroy.
func Reset(a *Arena) {
	a.childrenMu.Lock()
	hasChildren := a.firstChild != nil
	a.childrenMu.Unlock()
	if hasChildren {
		fatal(KindCycleInDestroy, "reset of arena with live children")
	}

	a.runCleanups()

	root := a.Root()
	root.pinMu.Lock()
	a.freeAllBlocks()
	a.table = newHandleTable()
	a.first = newBlock(a.blockSize)
	a.current.Store(a.first)
	root.pinMu.Unlock()

	atomic.StoreInt64(&a.liveBytes, 0)
	atomic.StoreInt64(&a.deadBytes, 0)
	atomic.StoreInt64(&a.totalAllocated, 0)
}

// DestroyChild tears down child and unlinks it from its parent's child list
// (spec.md §6, "destroy(arena)" applied to a non-root arena). child must
// have no live children of its own.
func DestroyChild(child *Arena) {
	if child.parent == nil {
		fatal(KindInvalidHandle, "destroy_child: arena has no parent")
	}
	child.childrenMu.Lock()
	hasChildren := child.firstChild != nil
	child.childrenMu.Unlock()
	if hasChildren {
		fatal(KindCycleInDestroy, "destroy of arena with live children")
	}

	if !child.destroying.CompareAndSwap(false, true) {
		return
	}

	child.runCleanups()

	parent := child.parent
	parent.childrenMu.Lock()
	unlinkSibling(&parent.firstChild, child)
	parent.childrenMu.Unlock()

	root := child.Root()
	root.pinMu.Lock()
	child.freeAllBlocks()
	root.pinMu.Unlock()

	root.releaseChildOffset(child.indexOffset)
}

func unlinkSibling(head **Arena, target *Arena) {
	if *head == target {
		*head = target.nextSibling
		return
	}
	for cur := *head; cur != nil; cur = cur.nextSibling {
		if cur.nextSibling == target {
			cur.nextSibling = target.nextSibling
			return
		}
	}
}

// Destroy tears down an entire arena tree (spec.md §6, "destroy(arena)"
// applied to a root): it stops the cleaner and compactor goroutines, runs
// root's cleanup hooks in priority order, and frees root's backing blocks.
// root must have no live children — callers are expected to
// DestroyChild their way down first, matching the scope-exit order a
// generated program actually runs in.
func Destroy(root *Arena) {
	if root.parent != nil {
		fatal(KindInvalidHandle, "destroy: not a root arena")
	}
	root.childrenMu.Lock()
	hasChildren := root.firstChild != nil
	root.childrenMu.Unlock()
	if hasChildren {
		fatal(KindCycleInDestroy, "destroy of root with live children")
	}

	if !root.destroying.CompareAndSwap(false, true) {
		return
	}
	root.running.Store(false)
	close(root.stopCh)
	root.wg.Wait()

	root.runCleanups()

	root.pinMu.Lock()
	root.freeAllBlocks()
	root.pinMu.Unlock()
}

// freeAllBlocks frees a's active chain and anything still sitting on its
// retired-block list. Caller holds root.pinMu.
func (a *Arena) freeAllBlocks() {
	for b := a.first; b != nil; {
		next := b.next
		b.free()
		b = next
	}
	a.first = nil
	for b := a.retiredHead; b != nil; {
		next := b.retiredNext
		b.free()
		b = next
	}
	a.retiredHead = nil
}
