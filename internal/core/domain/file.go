// Package domain contains the core models of the header-driven dependency bundler.
package domain

// NoHeader marks a file without a dependency header.
const NoHeader = -1

// Header is the result of parsing a file's leading dependency annotations.
type Header struct {
	// Dependencies are the declared paths, in declaration order, exactly as written.
	Dependencies []string
	// End is the byte offset just past the header, or NoHeader.
	End int
}

// HasHeader reports whether the file declared a header at all.
func (h Header) HasHeader() bool {
	return h.End != NoHeader
}

// FileRecord is a cached file. It is created on the first successful read of a path
// and never replaced for the lifetime of the cache that owns it.
type FileRecord struct {
	Path InternedString
	// Content is the transformed (and possibly header-stripped) text.
	Content string
	// AnnotationEnd is the header end offset in the transformed text before stripping.
	AnnotationEnd int
	// Digest is the xxhash64 of Content, filled in by the cache on insert.
	Digest uint64
}
