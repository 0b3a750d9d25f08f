package arena

import "sync/atomic"

// TotalAllocated returns the cumulative number of bytes this arena has
// carved out of its block chain since it was created or last Reset,
// including bytes since marked dead (spec.md §6, "total_allocated").
func (a *Arena) TotalAllocated() int64 {
	return atomic.LoadInt64(&a.totalAllocated)
}

// LiveCount returns the number of handle-table slots currently holding a
// live (non-dead) entry.
func (a *Arena) LiveCount() int {
	live, _ := a.countEntries()
	return live
}

// DeadCount returns the number of handle-table slots holding an entry
// marked dead but not yet recycled by the cleaner.
func (a *Arena) DeadCount() int {
	_, dead := a.countEntries()
	return dead
}

func (a *Arena) countEntries() (live, dead int) {
	root := a.Root()
	root.pinMu.Lock()
	defer root.pinMu.Unlock()

	for _, page := range a.table.pages {
		for i := range page {
			e := &page[i]
			if e.ptr == nil {
				continue
			}
			if e.dead {
				dead++
			} else {
				live++
			}
		}
	}
	return
}

// FragmentationRatio exposes the same dead_bytes/(live+dead) ratio the
// compactor uses to decide whether to run (spec.md §4.5).
func (a *Arena) FragmentationRatio() float64 {
	return a.fragmentationRatio()
}

// ForceCompact runs one compaction pass on a immediately, bypassing the
// fragmentation-ratio trigger (spec.md §6, "force_compact"). Intended for
// tests and for callers that know a large batch of handles just died and
// don't want to wait for the timer-driven pass.
func (a *Arena) ForceCompact() {
	a.compactNow()
}
