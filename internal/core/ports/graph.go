package ports

// DependencyGraph stores "file depends on file" edges and answers chain queries.
type DependencyGraph interface {
	// AddEdge records that from depends on to. Duplicate edges are ignored.
	AddEdge(from, to string) error
	// Chain returns the transitive dependencies of path, deepest first,
	// without duplicates and without path itself.
	Chain(path string) []string
	// Reset removes every vertex and edge.
	Reset()
}
