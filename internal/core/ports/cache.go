package ports

import "go.trai.ch/stitch/internal/core/domain"

// FileCache maps absolute paths to write-once file records.
type FileCache interface {
	// Get returns the record for path, if cached.
	Get(path string) (*domain.FileRecord, bool)
	// Has reports whether path is cached.
	Has(path string) bool
	// Insert stores rec unless its path is already cached. It returns the record
	// held by the cache afterwards and whether rec was the one stored.
	Insert(rec *domain.FileRecord) (*domain.FileRecord, bool)
	// Len returns the number of cached files.
	Len() int
	// Paths returns the cached paths in lexical order.
	Paths() []string
	// Clear empties the cache.
	Clear()
}
