package ports

// PathResolver turns a declared dependency into an absolute path.
type PathResolver interface {
	// Resolve maps dependency, as written in declaringFile's header, to a path.
	Resolve(declaringFile, dependency string) string
}
