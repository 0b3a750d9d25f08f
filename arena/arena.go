// Package arena implements a handle-based managed memory arena with a
// concurrent background garbage collector: lock-free bump allocation,
// explicit pin/unpin leases, permanent pins for host-resource objects, a
// tree of scope-linked sub-arenas, and cleaner/compactor threads that
// reclaim dead slots and relocate live data. See spec.md and SPEC_FULL.md
// for the full design; this file is L3 ("Managed arena").
package arena

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/automaxprocs/maxprocs"
)

// ScopeMode mirrors the three scope modes spec.md §4.3 exposes to the
// source language.
type ScopeMode int

const (
	// ScopeDefault and ScopePrivate both create a child arena; the
	// distinction (whether escaping values are allowed) is an escape
	// analysis concern external to this package (spec.md §1, out of
	// scope: "the source-language ... type-checker").
	ScopeDefault ScopeMode = iota
	ScopePrivate
	// ScopeShared reuses the caller's arena; no child is created. Callers
	// that want this simply keep using their existing *Arena instead of
	// calling CreateChild.
	ScopeShared
)

// cleanupNode is one registered callback, kept in a priority-sorted
// singly-linked list (spec.md §4.3, "Cleanup hooks").
type cleanupNode struct {
	data     any
	fn       func(any)
	priority int
	next     *cleanupNode
}

// Arena is one node in the scope tree (spec.md §3, "Arena"). Every
// allocation, pin, and promotion goes through a *Arena; only the root of a
// tree owns the cleaner and compactor goroutines, which walk the whole tree.
type Arena struct {
	id uuid.UUID

	// Backing store (L1). current is read without a lock on the
	// allocation fast path (spec.md §4.1), so it is an atomic pointer;
	// first is touched by the compactor under allocMu+pinMu and by
	// Reset/Destroy/DestroyChild under pinMu.
	first          *block
	current        atomic.Pointer[block]
	blockSize      int
	totalAllocated int64 // atomic; bytes carved out of blocks by this arena since creation or the last Reset

	retiredHead *block // chain of retired blocks awaiting free (Phase A)

	// Handle table (L2).
	table       *handleTable
	indexOffset uint32 // this arena's disjoint base into the shared handle space

	// Tree structure.
	parent      *Arena
	firstChild  *Arena
	nextSibling *Arena
	childrenMu  sync.Mutex
	destroying  atomic.Bool
	gcProcessing int32 // atomic; GC passes currently touching this arena

	// Root-only fields (nil/zero on children).
	root            *Arena // self, for root arenas; always points to the tree root
	running         atomic.Bool
	stopCh          chan struct{}  // closed by Destroy to wake cleanerLoop/compactorLoop off their ticker wait
	wg              sync.WaitGroup // cleaner + compactor goroutines, joined by Destroy
	cleanerEpoch    epoch
	compactorEpoch  epoch
	blockEpoch      uint32 // atomic; bumped when the compactor installs a new chain
	nextChildOffset uint32 // atomic; next never-used child index-offset to hand out
	offsetMu        sync.Mutex
	freeOffsets     []uint32   // recycled index-offset ranges from destroyed children
	pinMu           sync.Mutex // protects lease/pinned/block counters tree-wide
	retiredArenas   *Arena     // never populated: DestroyChild frees a child's blocks directly and keeps no list of destroyed children

	// Synchronization local to this node.
	allocMu sync.Mutex

	// Stats.
	liveBytes int64 // atomic
	deadBytes int64 // atomic

	cleanupList *cleanupNode

	cfg     Config
	logger  logrus.FieldLogger
	intern  *internCache
	metrics *metricSet
}

// rootIndexReserve is the handle range reserved for the root arena's own
// table ([1, rootIndexReserve); handle 0 is NullHandle); childOffsetStride is the span reserved per
// child arena beyond it (spec.md §4.2, "Child indexing"). Because a 32-bit
// handle space can't give every child arena an unboundedly large permanent
// range over a long-running program, destroyed children return their range
// to root.freeOffsets for reuse by the next CreateChild — scope churn
// (function calls entering and leaving) recycles ranges instead of
// exhausting the space.
const (
	rootIndexReserve  = 1 << 24
	childOffsetStride = 1 << 16
)

// CreateRoot creates a new root arena and starts its cleaner and compactor
// goroutines (spec.md §6, "create_root"). cfg may be the zero Config{}, in
// which case DefaultConfig() values are used for every numeric and duration
// field left at zero; InternStrings, RegisterCollector and Logger are taken
// as given, so a zero Config{} has interning off.
func CreateRoot(cfg Config) *Arena {
	cfg = fillConfigDefaults(cfg)

	// Align GOMAXPROCS with the container/cgroup CPU quota before
	// spinning up GC goroutines, so the cleaner/compactor don't compete
	// with application goroutines for more OS threads than the host
	// actually grants. Mirrors alex60217101990-opa's use of
	// go.uber.org/automaxprocs at process start.
	logger := loggerFor(&cfg)
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debugf(format, args...)
	}))

	a := &Arena{
		id:        uuid.New(),
		blockSize: cfg.BlockSize,
		table:     newHandleTable(),
		cfg:       cfg,
		logger:    logger,
	}
	a.root = a
	// Table index 0 would otherwise map to Handle 0, which is NullHandle;
	// starting the root's range at 1 keeps every minted handle non-null.
	a.indexOffset = 1
	a.nextChildOffset = rootIndexReserve
	a.first = newBlock(a.blockSize)
	a.current.Store(a.first)
	a.running.Store(true)
	a.stopCh = make(chan struct{})
	if cfg.InternStrings {
		a.intern = newInternCache(InternCacheSize)
	}
	if cfg.RegisterCollector {
		a.metrics = newMetricSet(a)
	}

	a.wg.Add(2)
	go a.cleanerLoop()
	go a.compactorLoop()

	a.logger.WithField("arena", a.id).Debug("varena: root arena created")
	return a
}

func fillConfigDefaults(cfg Config) Config {
	d := DefaultConfig()
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = d.BlockSize
	}
	if cfg.CompactThreshold <= 0 {
		cfg.CompactThreshold = d.CompactThreshold
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = d.GCInterval
	}
	if cfg.CompactInterval <= 0 {
		cfg.CompactInterval = d.CompactInterval
	}
	if cfg.FlushCap <= 0 {
		cfg.FlushCap = d.FlushCap
	}
	return cfg
}

// CreateChild creates a child arena under parent for a lexical scope
// (spec.md §4.3, "default / private" scope modes; §3, "Child arena"). The
// child starts no GC threads of its own — the root's cleaner and compactor
// walk the whole tree.
func CreateChild(parent *Arena) *Arena {
	root := parent.Root()
	reserved := root.reserveChildOffset()
	child := &Arena{
		id:          uuid.New(),
		blockSize:   parent.blockSize,
		table:       newHandleTable(),
		indexOffset: reserved,
		parent:      parent,
		root:        root,
		cfg:         parent.cfg,
		logger:      parent.logger,
		intern:      parent.intern,
	}
	child.first = newBlock(child.blockSize)
	child.current.Store(child.first)

	parent.childrenMu.Lock()
	child.nextSibling = parent.firstChild
	parent.firstChild = child
	parent.childrenMu.Unlock()

	return child
}

// reserveChildOffset hands out a free-list range if one is available
// (recycled from a destroyed child), else extends the monotonic counter.
func (root *Arena) reserveChildOffset() uint32 {
	root.offsetMu.Lock()
	defer root.offsetMu.Unlock()
	if n := len(root.freeOffsets); n > 0 {
		off := root.freeOffsets[n-1]
		root.freeOffsets = root.freeOffsets[:n-1]
		return off
	}
	return atomic.AddUint32(&root.nextChildOffset, childOffsetStride) - childOffsetStride
}

func (root *Arena) releaseChildOffset(off uint32) {
	root.offsetMu.Lock()
	root.freeOffsets = append(root.freeOffsets, off)
	root.offsetMu.Unlock()
}

// Root returns the root arena of the tree any arena belongs to (spec.md §6,
// "root(any_arena)").
func (a *Arena) Root() *Arena {
	if a.root != nil {
		return a.root
	}
	return a
}

// localIndex translates a public Handle into this arena's table-local
// index. Handles below this arena's offset, or the null handle, are
// rejected.
func (a *Arena) localIndex(h Handle) (uint32, bool) {
	if h == NullHandle {
		return 0, false
	}
	v := uint32(h)
	if v < a.indexOffset {
		return 0, false
	}
	idx := v - a.indexOffset
	if idx >= a.table.count {
		return 0, false
	}
	return idx, true
}

func (a *Arena) toHandle(idx uint32) Handle {
	return Handle(a.indexOffset + idx)
}

// RegisterCleanup inserts a callback into the priority-sorted cleanup list
// (spec.md §4.3, "register_cleanup"). Lower priority runs first on
// reset/destroy.
func (a *Arena) RegisterCleanup(data any, fn func(any), priority int) {
	a.allocMu.Lock()
	defer a.allocMu.Unlock()
	node := &cleanupNode{data: data, fn: fn, priority: priority}
	if a.cleanupList == nil || priority < a.cleanupList.priority {
		node.next = a.cleanupList
		a.cleanupList = node
		return
	}
	cur := a.cleanupList
	for cur.next != nil && cur.next.priority <= priority {
		cur = cur.next
	}
	node.next = cur.next
	cur.next = node
}

// RemoveCleanup removes every registered callback matching data by identity
// (spec.md §6, "remove_cleanup").
func (a *Arena) RemoveCleanup(data any) {
	a.allocMu.Lock()
	defer a.allocMu.Unlock()
	var prev *cleanupNode
	cur := a.cleanupList
	for cur != nil {
		if cur.data == data {
			if prev == nil {
				a.cleanupList = cur.next
			} else {
				prev.next = cur.next
			}
			cur = cur.next
			continue
		}
		prev = cur
		cur = cur.next
	}
}

func (a *Arena) runCleanups() {
	a.allocMu.Lock()
	list := a.cleanupList
	a.cleanupList = nil
	a.allocMu.Unlock()

	for n := list; n != nil; n = n.next {
		n.fn(n.data)
	}
}
