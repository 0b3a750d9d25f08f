package arena

import "sync/atomic"

// Handle is a 32-bit opaque identifier indexing into an arena's handle
// table (spec.md §3, "Handle"). The zero value is the null handle.
type Handle uint32

// NullHandle is the reserved "no allocation" value.
const NullHandle Handle = 0

// entry is one handle table slot (spec.md §3, "Handle entry"). leased is
// read and written atomically; Pin and Unpin change it while holding
// pinMu, which also serializes entry.ptr/entry.block mutation against the
// compactor — see (*Arena).Pin.
type entry struct {
	ptr     []byte // window into some block's backing storage; nil if dead/free
	size    int
	block   *block
	leased  int32 // atomic lease (pin) count; 0 = relocatable
	pinned  bool  // permanent pin; pin_mutex-protected, never cleared
	dead    bool  // awaiting cleaner; pin_mutex-protected alongside alloc_mutex
}

// handlePageSize entries per page. Paging keeps entry addresses stable
// across table growth (spec.md §4.2, "Table growth"): appending a new page
// never touches previously issued pages, so a raw *entry obtained by get()
// stays valid for the arena's whole lifetime.
const handlePageSize = InitialTableCapacity

// handleTable is the paginated, append-only dense array of handle entries
// for one arena (L2, spec.md §4.2).
type handleTable struct {
	pages []*[handlePageSize]entry
	count uint32 // high-water mark of table-local indices handed out; slots recycled onto freeList stay counted

	freeList []uint32 // stack of recyclable indices; cleaner pushes, allocator pops
}

func newHandleTable() *handleTable {
	return &handleTable{}
}

// get returns a stable pointer to the entry for the given table-local
// index. The caller is responsible for translating a public Handle to a
// table-local index first (see (*Arena).localIndex).
func (t *handleTable) get(idx uint32) *entry {
	page := idx / handlePageSize
	off := idx % handlePageSize
	for uint32(len(t.pages)) <= page {
		t.pages = append(t.pages, new([handlePageSize]entry))
	}
	return &t.pages[page][off]
}

// allocIndex returns a fresh table-local index: pop the free list if
// non-empty, else append to the table tail.
func (t *handleTable) allocIndex() uint32 {
	if n := len(t.freeList); n > 0 {
		idx := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		return idx
	}
	idx := t.count
	t.count++
	return idx
}

// recycle pushes idx onto the free list. Only the cleaner calls this
// (spec.md §4.2, "recycle").
func (t *handleTable) recycle(idx uint32) {
	t.freeList = append(t.freeList, idx)
}

func (e *entry) isLeased() bool { return atomic.LoadInt32(&e.leased) > 0 }

func (e *entry) addLease(delta int32) int32 { return atomic.AddInt32(&e.leased, delta) }
