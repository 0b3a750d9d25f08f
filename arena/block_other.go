//go:build !linux && !darwin && !freebsd

package arena

// mmapAlloc/mmapFree fall back to plain Go-heap allocation on platforms
// without a golang.org/x/sys/unix mmap binding (e.g. Windows). The block
// still behaves correctly — bump allocation, handle indirection, and
// compaction never assumed anything about the backing memory's provenance —
// it is simply subject to the Go GC's own scanning until freed, same as any
// other []byte.
func mmapAlloc(size int) []byte {
	return make([]byte, size)
}

func mmapFree(b []byte) {
	// Nothing to release explicitly; the Go GC reclaims it once
	// unreferenced.
}
