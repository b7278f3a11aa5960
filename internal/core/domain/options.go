package domain

// DefaultMaxConcurrent bounds in-flight reads and stats when no limit is configured.
const DefaultMaxConcurrent = 10

// TransformFunc rewrites a file's text. It receives the absolute path of the file.
type TransformFunc func(content, path string) string

// RootLocator maps a dependency's extension (".js") to the directory it is resolved against.
type RootLocator func(ext string) string

// BuildOptions configures a single graph build.
type BuildOptions struct {
	// Transform is applied to every file before it is cached and parsed.
	Transform TransformFunc
	// ShouldParse filters files; rejected files are never read or cached.
	ShouldParse func(path string) bool
	// RemoveHeaders strips the dependency header before the content is cached.
	RemoveHeaders bool
	// MaxConcurrent caps in-flight file system operations. Zero means DefaultMaxConcurrent.
	MaxConcurrent int
}

// Concurrency returns the effective concurrency cap.
func (o BuildOptions) Concurrency() int {
	if o.MaxConcurrent <= 0 {
		return DefaultMaxConcurrent
	}
	return o.MaxConcurrent
}

// ConcatOptions configures a single concatenation.
type ConcatOptions struct {
	// Transform is applied per file at assembly time. Its result is never cached.
	Transform TransformFunc
}
