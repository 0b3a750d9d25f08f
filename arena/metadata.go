package arena

import "encoding/binary"

// metadataSize is the on-wire prefix every array/string handle's payload
// carries before its element data (spec.md §3 "Array value", §4.6
// "Representation"): two little-endian uint64s, size then capacity.
//
// The C original also stores the owning arena's pointer in this header
// (RtArrayMetadata.arena). Doing the same here — stashing a Go *Arena
// inside raw mmap'd bytes — would hide that reference from the Go garbage
// collector: nothing GC-visible would keep the Arena alive, so it could be
// collected out from under a live array. Every API in this package already
// takes the owning *Arena as an explicit argument (Pin, Push, Concat, ...),
// so ArrayMeta carries Owner as a normal Go-managed field instead; the
// invariant "an array's arena metadata field equals the arena holding its
// handle" (spec.md §3, invariant 7) is enforced by construction — wrappers
// that mint a Handle always return it paired with the *Arena that minted it.
const metadataSize = 16

// ArrayMeta is the decoded form of an array/string payload's header, plus
// the owning arena (kept in Go-land, not serialized — see above).
type ArrayMeta struct {
	Owner    *Arena
	Size     int
	Capacity int
}

func putMetaHeader(buf []byte, size, capacity int) {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(size))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(capacity))
}

func getMetaHeader(buf []byte) (size, capacity int) {
	size = int(binary.LittleEndian.Uint64(buf[0:8]))
	capacity = int(binary.LittleEndian.Uint64(buf[8:16]))
	return
}

// MetadataSize is metadataSize, exported for the container package, which
// builds its own payload layouts on top of the same header (spec.md §4.6,
// "[metadata | elements]").
const MetadataSize = metadataSize

// WriteArrayHeader writes the size/capacity header container.* operations
// share with strings. buf is the full raw slice returned by Pin, not just
// the payload.
func WriteArrayHeader(buf []byte, size, capacity int) { putMetaHeader(buf, size, capacity) }

// ReadArrayHeader reads the size/capacity header back out of buf.
func ReadArrayHeader(buf []byte) (size, capacity int) { return getMetaHeader(buf) }
