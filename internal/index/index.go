// Package index holds the read-only snapshots shared by every concurrent
// resolution: the merged book-name index and the version registry.
//
// A reload builds a complete new Snapshot and swaps it in atomically, so
// in-flight requests never observe a half-updated index.
package index

import (
	"sync"
	"time"
)

// NameIndex publishes the current Snapshot.
type NameIndex struct {
	mu         sync.RWMutex
	snap       *Snapshot
	lastReload time.Time
}

// NewNameIndex creates an index holding an empty snapshot, usable (as a
// matcher that matches nothing) until the first reload publishes real data.
func NewNameIndex() *NameIndex {
	return &NameIndex{snap: emptySnapshot()}
}

// Current returns the live snapshot. The returned value is immutable and
// safe to use for the whole lifetime of a request.
func (idx *NameIndex) Current() *Snapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.snap
}

// Swap publishes a new snapshot.
func (idx *NameIndex) Swap(snap *Snapshot) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.snap = snap
	idx.lastReload = time.Now()
}

// LastReload returns when the live snapshot was published.
func (idx *NameIndex) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.lastReload
}
