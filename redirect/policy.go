package redirect

// FreePolicy governs what happens when Free is called on a pointer redirect
// does not recognize as one of its own allocations — the same four-way
// matrix original_source/experiments/malloc/src/runtime/
// runtime_malloc_redirect.c applies to "free of arena pointer" (spec.md §6).
type FreePolicy int

const (
	// FreeIgnore silently does nothing.
	FreeIgnore FreePolicy = iota
	// FreeTrack logs the event via logrus but does not abort.
	FreeTrack
	// FreeWarn logs at warning level and does not abort.
	FreeWarn
	// FreeAbort raises a FatalError.
	FreeAbort
)

// OverflowPolicy governs what Realloc does when a growth request would
// exceed maxGrowable (spec.md §6, "overflow policy").
type OverflowPolicy int

const (
	// OverflowGrow attempts the growth regardless, still bounded by
	// maxGrowable to avoid an actual overflow in the size computation.
	OverflowGrow OverflowPolicy = iota
	// OverflowFallback allocates exactly the requested size without
	// doubling headroom.
	OverflowFallback
	// OverflowNull returns a nil slice instead of growing.
	OverflowNull
	// OverflowAbort raises a FatalError.
	OverflowAbort
)

// Policy bundles the free and overflow policies active for a Frame.
type Policy struct {
	Free     FreePolicy
	Overflow OverflowPolicy
}

// DefaultPolicy matches the original runtime's default: track foreign frees
// (don't crash a process over a policy violation) and grow on overflow
// until the hard maxGrowable ceiling.
func DefaultPolicy() Policy {
	return Policy{Free: FreeTrack, Overflow: OverflowGrow}
}
