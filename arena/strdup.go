package arena

import "sync/atomic"

// Mutable strings share the array family's representation (spec.md §4.6,
// "Mutable string"): a metadataSize header followed by the byte payload,
// always kept NUL-terminated so the bytes can be handed to C-style host
// callers without a copy. Size counts the string's length, not counting the
// trailing NUL; Capacity is the allocated payload length, which always
// exceeds Size by at least one byte.

// Strdup allocates a fresh mutable string containing a copy of s (spec.md
// §4.6, "strdup"). If old is not NullHandle it is retired in the same call.
func (a *Arena) Strdup(old Handle, s string) Handle {
	return a.newString(old, s)
}

// Strndup allocates a mutable string containing at most n bytes of s
// (spec.md §4.6, "strndup").
func (a *Arena) Strndup(old Handle, s string, n int) Handle {
	if n < 0 {
		fatal(KindOverflow, "strndup: negative length %d", n)
	}
	if n < len(s) {
		s = s[:n]
	}
	return a.newString(old, s)
}

func (a *Arena) newString(old Handle, s string) Handle {
	capacity := len(s) + 1
	buf, src := a.bump(metadataSize+capacity, pointerAlign)
	putMetaHeader(buf, len(s), capacity)
	payload := buf[metadataSize:]
	copy(payload, s)
	payload[len(s)] = 0

	h := a.newHandle(buf, src, metadataSize+capacity)
	a.bumpStats(metadataSize + capacity)
	if old != NullHandle {
		a.MarkDead(old)
	}
	return h
}

// Append grows the mutable string behind old by suffix, reallocating if the
// current capacity can't hold the result, and returns the (possibly new)
// handle (spec.md §4.6, "append"). The C-level ABI treats this exactly like
// Alloc(old, newSize): callers always rebind their variable to the returned
// handle.
func (a *Arena) Append(old Handle, suffix string) Handle {
	// Pin keeps old leased for the rest of this call, so the compactor
	// won't relocate or retire its block out from under the in-place
	// write below (the same hazard container.Push avoids by holding a
	// Pin across its in-place element write).
	oldBuf := a.Pin(old)

	size, capacity := getMetaHeader(oldBuf)
	newSize := size + len(suffix)
	if newSize+1 <= capacity {
		payload := oldBuf[metadataSize:]
		copy(payload[size:], suffix)
		payload[newSize] = 0
		putMetaHeader(oldBuf, newSize, capacity)
		a.Unpin(old)
		return old
	}

	newCapacity := capacity * 2
	if newCapacity < newSize+1 {
		newCapacity = newSize + 1
	}
	buf, src := a.bump(metadataSize+newCapacity, pointerAlign)
	putMetaHeader(buf, newSize, newCapacity)
	payload := buf[metadataSize:]
	copy(payload, oldBuf[metadataSize:metadataSize+size])
	copy(payload[size:], suffix)
	payload[newSize] = 0
	a.Unpin(old)

	h := a.newHandle(buf, src, metadataSize+newCapacity)
	a.bumpStats(metadataSize + newCapacity)
	a.MarkDead(old)
	return h
}

// StringBytes returns just the character data behind a string handle —
// Pin's full slice minus the metadataSize header and the trailing NUL
// (spec.md §4.6, "string contents"). The returned slice aliases the
// arena's storage exactly like Pin's; the same pin/unpin discipline
// applies.
func (a *Arena) StringBytes(h Handle) []byte {
	buf := a.Pin(h)
	size, _ := getMetaHeader(buf)
	return buf[metadataSize : metadataSize+size]
}

func (a *Arena) bumpStats(n int) {
	atomic.AddInt64(&a.totalAllocated, int64(n))
	atomic.AddInt64(&a.liveBytes, int64(n))
}
