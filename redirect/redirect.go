package redirect

import (
	"github.com/xyproto/varena/arena"
)

// Alloc allocates size bytes through the calling goroutine's active frame,
// returning the user-visible payload (the 16-byte header sits immediately
// before it in the same backing array, exactly as
// runtime_malloc_redirect.c installs it, but is never exposed to the
// caller). Fatal if no frame is active.
func Alloc(size int) []byte {
	f := Current()
	if f == nil {
		arena.Fatal(arena.KindInvalidHandle, "redirect: Alloc with no frame pushed")
	}
	b := newBlock(size, FlagNone)
	f.mu.Lock()
	f.blocks[b] = struct{}{}
	f.mu.Unlock()
	return b.payload()
}

// Calloc allocates a zero-initialized block of n*size bytes.
func Calloc(n, size int) []byte {
	f := Current()
	if f == nil {
		arena.Fatal(arena.KindInvalidHandle, "redirect: Calloc with no frame pushed")
	}
	total := n * size
	b := newBlock(total, FlagZeroed)
	f.mu.Lock()
	f.blocks[b] = struct{}{}
	f.mu.Unlock()
	return b.payload()
}

// blockFor finds the *block a previously-Alloc'd payload slice belongs to
// by comparing the payload's first byte address against the payload start
// of every block this frame tracks. The header's magic is not consulted.
func (f *Frame) blockFor(payload []byte) (*block, bool) {
	if cap(payload) == 0 {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for b := range f.blocks {
		if cap(b.buf) > headerSize && &b.buf[headerSize] == &payload[:1][0] {
			return b, true
		}
	}
	return nil, false
}

// Free releases payload back to its frame under the frame's FreePolicy. A
// payload this frame never allocated is "foreign"; the policy decides
// whether that's ignored, logged, or fatal (spec.md §6, "free of arena
// pointer").
func Free(payload []byte) {
	f := Current()
	if f == nil {
		arena.Fatal(arena.KindInvalidHandle, "redirect: Free with no frame pushed")
	}
	if len(payload) == 0 {
		return
	}
	b, ok := f.blockFor(payload)
	if !ok {
		switch f.policy.Free {
		case FreeIgnore:
		case FreeTrack:
			f.logger.WithField("size", len(payload)).Info("redirect: free of foreign pointer")
		case FreeWarn:
			f.logger.WithField("size", len(payload)).Warn("redirect: free of foreign pointer")
		case FreeAbort:
			arena.Fatal(arena.KindInvalidHandle, "redirect: free of foreign pointer")
		}
		return
	}
	f.mu.Lock()
	delete(f.blocks, b)
	f.mu.Unlock()
}

// Realloc resizes payload to newSize, copying its contents, and folds in
// the frame's OverflowPolicy once newSize exceeds maxGrowable (spec.md §6,
// "overflow policy").
func Realloc(payload []byte, newSize int) []byte {
	f := Current()
	if f == nil {
		arena.Fatal(arena.KindInvalidHandle, "redirect: Realloc with no frame pushed")
	}

	if int64(newSize) > maxGrowable {
		switch f.policy.Overflow {
		case OverflowGrow:
			newSize = maxGrowable
		case OverflowFallback:
			// fall through to a plain allocation at the requested size,
			// best-effort, no doubling headroom.
		case OverflowNull:
			return nil
		case OverflowAbort:
			arena.Fatal(arena.KindOverflow, "redirect: realloc overflow (requested %d)", newSize)
		}
	}

	old, ok := f.blockFor(payload)
	nb := newBlock(newSize, FlagNone)
	if ok {
		copy(nb.payload(), old.payload())
		f.mu.Lock()
		delete(f.blocks, old)
		f.blocks[nb] = struct{}{}
		f.mu.Unlock()
	} else {
		copy(nb.payload(), payload)
		switch f.policy.Free {
		case FreeAbort:
			arena.Fatal(arena.KindInvalidHandle, "redirect: realloc of foreign pointer")
		default:
		}
		f.mu.Lock()
		f.blocks[nb] = struct{}{}
		f.mu.Unlock()
	}
	return nb.payload()
}
