// Package builder discovers file dependencies from header annotations and
// concatenates files in dependency order.
package builder

import (
	"path/filepath"

	"go.trai.ch/stitch/internal/adapters/cache"
	"go.trai.ch/stitch/internal/adapters/graph"
	"go.trai.ch/stitch/internal/adapters/resolver"
	"go.trai.ch/stitch/internal/adapters/telemetry"
	"go.trai.ch/stitch/internal/core/domain"
	"go.trai.ch/stitch/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder owns one dependency graph and one file cache. Separate Builders share
// nothing; a single Builder must not run two builds at once.
type Builder struct {
	fs       ports.FileSystem
	parser   ports.HeaderParser
	resolver ports.PathResolver
	graph    ports.DependencyGraph
	cache    ports.FileCache
	logger   ports.Logger
	tracer   ports.Tracer
	roots    []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithRootLocator resolves dependencies against the directory returned for
// their extension instead of the declaring file's directory.
func WithRootLocator(locate domain.RootLocator) Option {
	return func(b *Builder) {
		b.resolver = resolver.NewLocated(locate)
	}
}

// WithResolver replaces the path resolver.
func WithResolver(r ports.PathResolver) Option {
	return func(b *Builder) {
		b.resolver = r
	}
}

// WithGraph replaces the dependency graph.
func WithGraph(g ports.DependencyGraph) Option {
	return func(b *Builder) {
		b.graph = g
	}
}

// WithCache replaces the file cache.
func WithCache(c ports.FileCache) Option {
	return func(b *Builder) {
		b.cache = c
	}
}

// WithLogger sets the logger used for per-file debug records.
func WithLogger(l ports.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithTracer sets the tracer used for build and read spans.
func WithTracer(t ports.Tracer) Option {
	return func(b *Builder) {
		b.tracer = t
	}
}

// NewForFiles creates a Builder whose builds start from a target file passed to BuildFile.
func NewForFiles(fsys ports.FileSystem, parser ports.HeaderParser, opts ...Option) *Builder {
	b := &Builder{
		fs:       fsys,
		parser:   parser,
		resolver: resolver.Relative{},
		graph:    graph.New(),
		cache:    cache.New(),
		logger:   discardLogger{},
		tracer:   telemetry.NewNoOpTracer(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewForRoots creates a Builder that walks every file below roots in BuildRoots.
func NewForRoots(fsys ports.FileSystem, parser ports.HeaderParser, roots []string, opts ...Option) (*Builder, error) {
	if len(roots) == 0 {
		return nil, domain.ErrNoRootDirectories
	}

	b := NewForFiles(fsys, parser, opts...)
	b.roots = make([]string, len(roots))
	for i, root := range roots {
		if root == "" {
			return nil, zerr.With(domain.ErrNoRootDirectories, "index", i)
		}
		b.roots[i] = filepath.Clean(root)
	}
	return b, nil
}

// Roots returns the root directories of a Builder created with NewForRoots.
func (b *Builder) Roots() []string {
	return append([]string(nil), b.roots...)
}

// Graph returns the dependency graph.
func (b *Builder) Graph() ports.DependencyGraph {
	return b.graph
}

// Cache returns the file cache.
func (b *Builder) Cache() ports.FileCache {
	return b.cache
}

// Files returns the dependencies of path in concatenation order, path excluded.
func (b *Builder) Files(path string) []string {
	return b.graph.Chain(filepath.Clean(path))
}

// ClearCache empties the file cache and leaves the graph alone, so the next
// build reads every file again while existing edges remain.
func (b *Builder) ClearCache() {
	b.cache.Clear()
}

// Reset empties both the file cache and the graph.
func (b *Builder) Reset() {
	b.cache.Clear()
	b.graph.Reset()
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(error)          {}
