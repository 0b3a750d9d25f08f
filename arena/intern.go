package arena

import (
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// internCache deduplicates short, read-only string constants (spec.md §4.6,
// "string literal pool"): generated code for a source-language string
// literal calls InternConstant instead of Strdup, so the same literal
// appearing twice in a program shares one allocation. It is keyed by
// content hash rather than content, accepting the vanishingly small
// collision risk in exchange for not having to hold the string bytes
// twice just to use them as a map key.
type internCache struct {
	table *lru.Cache[uint64, Handle]
}

func newInternCache(size int) *internCache {
	c, err := lru.New[uint64, Handle](size)
	if err != nil {
		// Only returns an error for size <= 0, which never happens: size
		// is always InternCacheSize here.
		panic(err)
	}
	return &internCache{table: c}
}

// InternConstant returns a shared, permanently pinned handle for s (spec.md
// §6, "intern"). Interned handles are never valid arguments to Append or
// MarkDead individually — every caller holding the same literal shares the
// same bytes, and mutating or retiring one copy would corrupt the others.
// If InternStrings is off in a's Config, this degrades to a plain Strdup
// call with no sharing.
func (a *Arena) InternConstant(s string) Handle {
	if a.intern == nil || len(s) > MaxInternableLen {
		return a.Strdup(NullHandle, s)
	}

	key := xxhash.Sum64String(s)
	if h, ok := a.intern.table.Get(key); ok {
		return h
	}

	h := a.Strdup(NullHandle, s)
	a.PinPermanent(h)
	a.intern.table.Add(key, h)
	return h
}
