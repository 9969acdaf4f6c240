package ui

import (
	"encoding/binary"
	"hash/fnv"
	"sync"
)

// RenderCache memoizes rendered strings by a hash of their inputs. When
// full it is cleared rather than evicting entry by entry.
type RenderCache struct {
	mu      sync.Mutex
	entries map[uint64]string
	maxSize int
	hits    int
	misses  int
}

// NewRenderCache creates a cache holding at most maxSize entries.
func NewRenderCache(maxSize int) *RenderCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &RenderCache{entries: make(map[uint64]string), maxSize: maxSize}
}

// ComputeKey hashes strings, ints and bools with FNV-1a. Other types are ignored.
func ComputeKey(inputs ...interface{}) uint64 {
	h := fnv.New64a()
	var b [8]byte
	for _, input := range inputs {
		switch v := input.(type) {
		case string:
			_, _ = h.Write([]byte(v))
			_, _ = h.Write([]byte{0})
		case int:
			binary.LittleEndian.PutUint64(b[:], uint64(v))
			_, _ = h.Write(b[:])
		case bool:
			if v {
				_, _ = h.Write([]byte{1})
			} else {
				_, _ = h.Write([]byte{0})
			}
		}
	}
	return h.Sum64()
}

// GetOrCompute returns the cached value for key, computing it on a miss.
func (rc *RenderCache) GetOrCompute(key uint64, compute func() string) string {
	rc.mu.Lock()
	if content, ok := rc.entries[key]; ok {
		rc.hits++
		rc.mu.Unlock()
		return content
	}
	rc.misses++
	rc.mu.Unlock()

	content := compute()

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.entries) >= rc.maxSize {
		rc.entries = make(map[uint64]string, rc.maxSize)
	}
	rc.entries[key] = content
	return content
}

// Len returns the number of cached entries.
func (rc *RenderCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

// Stats returns hit and miss counts.
func (rc *RenderCache) Stats() (hits, misses int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.hits, rc.misses
}
