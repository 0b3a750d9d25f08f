//go:build linux || darwin || freebsd

package arena

import (
	"golang.org/x/sys/unix"
)

// mmapAlloc and mmapFree back each arena block with an anonymous private
// mapping rather than a Go-GC-managed slice. This mirrors the teacher's own
// arena.go, which issues a raw sys_mmap(addr=NULL, prot=RW, flags=PRIVATE|
// ANONYMOUS) for its generated programs' arena memory — the same call this
// package makes through golang.org/x/sys/unix instead of hand-assembled
// syscall arguments. Keeping block storage outside the Go heap means the
// handle table's raw []byte windows into it are never scanned or moved by
// the Go runtime's own GC, which matters because the compactor (arena/
// gc_compactor.go) is the only thing allowed to relocate this memory.
func mmapAlloc(size int) []byte {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		fatal(KindExhaustion, "mmap %d bytes: %v", size, err)
	}
	return b
}

func mmapFree(b []byte) {
	if len(b) == 0 {
		return
	}
	_ = unix.Munmap(b)
}
