// Package ports defines the core interfaces for the application.
package ports

import "io/fs"

// FileSystem is the file system boundary consumed by the builder.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// ReadFile reads the file at path as text.
	ReadFile(path string) (string, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
	// WalkFiles lists every regular file under root, recursively, as absolute paths.
	// The order is lexical and therefore stable across runs.
	WalkFiles(root string) ([]string, error)
}
