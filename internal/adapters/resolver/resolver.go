// Package resolver maps declared dependencies to absolute paths.
package resolver

import (
	"path/filepath"

	"go.trai.ch/stitch/internal/core/domain"
	"go.trai.ch/stitch/internal/core/ports"
)

var (
	_ ports.PathResolver = Relative{}
	_ ports.PathResolver = Located{}
)

// Relative resolves a dependency against the directory of the file declaring it.
type Relative struct{}

// Resolve implements ports.PathResolver.
func (Relative) Resolve(declaringFile, dependency string) string {
	return filepath.Join(filepath.Dir(declaringFile), dependency)
}

// Located resolves a dependency against the root its extension maps to,
// regardless of where the declaring file lives.
type Located struct {
	Locate domain.RootLocator
}

// NewLocated creates a Located resolver.
func NewLocated(locate domain.RootLocator) Located {
	return Located{Locate: locate}
}

// Resolve implements ports.PathResolver.
func (l Located) Resolve(_, dependency string) string {
	return filepath.Join(l.Locate(filepath.Ext(dependency)), dependency)
}

// ExtensionRoots builds a RootLocator from an extension to directory table.
// Extensions are matched with or without their leading dot. Unknown extensions
// map to fallback.
func ExtensionRoots(roots map[string]string, fallback string) domain.RootLocator {
	table := make(map[string]string, len(roots))
	for ext, dir := range roots {
		if ext != "" && ext[0] != '.' {
			ext = "." + ext
		}
		table[ext] = dir
	}

	return func(ext string) string {
		if dir, ok := table[ext]; ok {
			return dir
		}
		return fallback
	}
}
