package arena

import "sync/atomic"

// Promote copies the payload behind h (owned by src) into dest, marks h dead
// in src, and returns a fresh handle valid in dest (spec.md §4.4,
// "promote(dest, src, handle)"). Promotion is one-way, child to ancestor
// only: dest must be src or an ancestor of src, never the reverse, which
// rules out promotion cycles by construction.
func (dest *Arena) Promote(src *Arena, h Handle) Handle {
	if dest == src {
		return h
	}
	if !dest.isAncestorOf(src) {
		fatal(KindInvalidHandle, "promote: destination is not an ancestor of the source arena")
	}

	// Pin holds a lease on h for the whole copy, so the compactor can't
	// relocate or retire its block between reading payload and copying
	// out of it — the same use-after-free hazard Append guards against.
	payload := src.Pin(h)
	size := len(payload)

	buf, blk := dest.bump(size, pointerAlign)
	copy(buf, payload)
	src.Unpin(h)

	newH := dest.newHandle(buf, blk, size)
	atomic.AddInt64(&dest.totalAllocated, int64(size))
	atomic.AddInt64(&dest.liveBytes, int64(size))

	src.MarkDead(h)
	return newH
}

// isAncestorOf reports whether a is other, or an ancestor of other, by
// walking other's parent chain. Both arenas must share the same root.
func (a *Arena) isAncestorOf(other *Arena) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == a {
			return true
		}
	}
	return false
}
