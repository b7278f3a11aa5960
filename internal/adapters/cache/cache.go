// Package cache implements the write-once file cache used by the builder.
package cache

import (
	"slices"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/stitch/internal/core/domain"
	"go.trai.ch/stitch/internal/core/ports"
)

var _ ports.FileCache = (*FileCache)(nil)

// FileCache maps interned paths to file records. A record is stored at most once
// per path until Clear is called.
type FileCache struct {
	mu      sync.RWMutex
	entries map[unique.Handle[string]]*domain.FileRecord
}

// New creates an empty FileCache.
func New() *FileCache {
	return &FileCache{
		entries: make(map[unique.Handle[string]]*domain.FileRecord),
	}
}

// Get returns the record cached for path.
func (c *FileCache) Get(path string) (*domain.FileRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.entries[unique.Make(path)]
	return rec, ok
}

// Has reports whether path is cached.
func (c *FileCache) Has(path string) bool {
	_, ok := c.Get(path)
	return ok
}

// Insert stores rec if its path is not cached yet and fills in its digest.
// The record held by the cache is returned either way.
func (c *FileCache) Insert(rec *domain.FileRecord) (*domain.FileRecord, bool) {
	key := rec.Path.Value()

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		return existing, false
	}

	rec.Digest = Digest(rec.Content)
	c.entries[key] = rec
	return rec, true
}

// Len returns the number of cached records.
func (c *FileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Paths returns every cached path in lexical order.
func (c *FileCache) Paths() []string {
	c.mu.RLock()
	paths := make([]string, 0, len(c.entries))
	for key := range c.entries {
		paths = append(paths, key.Value())
	}
	c.mu.RUnlock()

	slices.Sort(paths)
	return paths
}

// Clear drops every record.
func (c *FileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}

// Digest returns the xxhash64 of content.
func Digest(content string) uint64 {
	return xxhash.Sum64String(content)
}
