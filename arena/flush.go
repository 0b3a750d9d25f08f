package arena

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// GCFlush blocks until the cleaner and compactor have each completed at
// least one full pass that started after the call, or until cfg.FlushCap
// elapses, whichever comes first
// (spec.md §4.5, "gc_flush"). The two waits run concurrently via
// golang.org/x/sync/errgroup, the same bounded-fan-out helper
// alex60217101990-opa uses for waiting on independent background passes, so
// GCFlush's wall-clock cost is max(cleaner wait, compactor wait) rather than
// their sum. It is meant for tests and benchmarks that want a deterministic
// point to inspect diagnostics after forcing garbage collection, not for
// production code on a hot path.
func GCFlush(a *Arena) {
	root := a.Root()
	cleanerSince := root.cleanerEpoch.load()
	compactorSince := root.compactorEpoch.load()
	deadline := root.cfg.FlushCap
	start := time.Now()

	// The first advance may only close a pass that was already running when
	// GCFlush was called; the second closes one that started after it.
	var g errgroup.Group
	g.Go(func() error {
		if root.cleanerEpoch.waitForAdvance(cleanerSince, deadline) {
			root.cleanerEpoch.waitForAdvance(cleanerSince+1, deadline-time.Since(start))
		}
		return nil
	})
	g.Go(func() error {
		if root.compactorEpoch.waitForAdvance(compactorSince, deadline) {
			root.compactorEpoch.waitForAdvance(compactorSince+1, deadline-time.Since(start))
		}
		return nil
	})
	_ = g.Wait()
}
