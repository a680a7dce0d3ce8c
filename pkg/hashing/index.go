package hashing

import "sync"

// Index is an append-only set of fingerprints.
//
// Index's methods are concurrency safe. Add is the check-and-insert primitive:
// two workers adding the same fingerprint concurrently see exactly one true.
type Index struct {
	mu     sync.Mutex
	hashes map[Fingerprint]struct{}
}

// NewIndex returns a new, empty index.
func NewIndex() *Index {
	return &Index{hashes: make(map[Fingerprint]struct{})}
}

// Add inserts fp and reports whether it was not already present.
func (idx *Index) Add(fp Fingerprint) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.hashes[fp]; ok {
		return false
	}
	idx.hashes[fp] = struct{}{}
	return true
}

// Contains reports whether fp has been added.
func (idx *Index) Contains(fp Fingerprint) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	_, ok := idx.hashes[fp]
	return ok
}

// Len returns the number of distinct fingerprints in the index.
func (idx *Index) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return len(idx.hashes)
}
