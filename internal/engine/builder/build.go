package builder

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"go.trai.ch/stitch/internal/core/domain"
	"go.trai.ch/stitch/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// BuildFile discovers the dependencies of path and returns its chain.
// On failure no chain is returned; files cached before the failure stay cached.
func (b *Builder) BuildFile(ctx context.Context, path string, opts domain.BuildOptions) ([]string, error) {
	path = filepath.Clean(path)

	ctx, span := b.tracer.Start(ctx, "build_file",
		ports.WithAttribute("target", path),
		ports.WithAttribute("max_concurrent", opts.Concurrency()),
	)
	defer span.End()

	run := b.newBuildRun(opts)
	if err := run.processFile(ctx, path); err != nil {
		span.RecordError(err)
		return nil, err
	}

	chain := b.graph.Chain(path)
	span.SetAttribute("files", len(chain)+1)
	return chain, nil
}

// BuildRoots walks every root and builds each regular file found. Living under
// a root adds no edge.
func (b *Builder) BuildRoots(ctx context.Context, opts domain.BuildOptions) error {
	ctx, span := b.tracer.Start(ctx, "build_roots",
		ports.WithAttribute("roots", b.roots),
		ports.WithAttribute("max_concurrent", opts.Concurrency()),
	)
	defer span.End()

	if len(b.roots) == 0 {
		span.RecordError(domain.ErrNoRootDirectories)
		return domain.ErrNoRootDirectories
	}

	run := b.newBuildRun(opts)
	g, gctx := errgroup.WithContext(ctx)
	for _, root := range b.roots {
		g.Go(func() error {
			files, err := run.walk(gctx, root)
			if err != nil {
				return err
			}
			return run.processAll(gctx, files)
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// buildRun holds the state of one BuildFile or BuildRoots call.
type buildRun struct {
	b    *Builder
	opts domain.BuildOptions
	sem  *semaphore.Weighted
	// claimed holds every path a goroutine of this run has started on, so a file
	// reached through several dependents (or a cycle) is processed once.
	claimed sync.Map
}

func (b *Builder) newBuildRun(opts domain.BuildOptions) *buildRun {
	return &buildRun{
		b:    b,
		opts: opts,
		sem:  semaphore.NewWeighted(int64(opts.Concurrency())),
	}
}

// processAll processes paths concurrently. The first failure cancels the rest.
func (r *buildRun) processAll(ctx context.Context, paths []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		g.Go(func() error {
			return r.processFile(gctx, p)
		})
	}
	return g.Wait()
}

func (r *buildRun) processFile(ctx context.Context, path string) error {
	if r.b.cache.Has(path) {
		return nil
	}

	if r.opts.ShouldParse != nil && !r.opts.ShouldParse(path) {
		r.b.logger.Debug("file skipped", "path", path)
		return nil
	}

	if _, loaded := r.claimed.LoadOrStore(path, struct{}{}); loaded {
		return nil
	}

	content, err := r.read(ctx, path)
	if err != nil {
		return err
	}

	if r.opts.Transform != nil {
		content = r.opts.Transform(content, path)
	}

	header := r.b.parser.Parse(content)
	if r.opts.RemoveHeaders && header.HasHeader() {
		content = r.b.parser.Strip(content)
	}

	rec, inserted := r.b.cache.Insert(&domain.FileRecord{
		Path:          domain.NewInternedString(path),
		Content:       content,
		AnnotationEnd: header.End,
	})
	if !inserted {
		return nil
	}
	r.b.logger.Debug("file cached", "path", path, "dependencies", len(header.Dependencies), "bytes", len(rec.Content))

	if len(header.Dependencies) == 0 {
		return nil
	}

	targets, err := r.resolveAll(ctx, path, header.Dependencies)
	if err != nil {
		return err
	}

	for _, target := range targets {
		if err := r.b.graph.AddEdge(path, target); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to record dependency"), "path", path)
		}
	}

	return r.processAll(ctx, targets)
}

// resolveAll resolves and stats the declared dependencies of path. Directories
// are replaced by the files below them. The result keeps declaration order.
func (r *buildRun) resolveAll(ctx context.Context, path string, deps []string) ([]string, error) {
	expanded := make([][]string, len(deps))

	g, gctx := errgroup.WithContext(ctx)
	for i, dep := range deps {
		g.Go(func() error {
			resolved := r.b.resolver.Resolve(path, dep)
			files, err := r.expand(gctx, resolved)
			if err != nil {
				return zerr.With(err, "declared_by", path)
			}
			expanded[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var targets []string
	for _, files := range expanded {
		targets = append(targets, files...)
	}
	return targets, nil
}

// expand returns resolved itself for a file and every file below it for a directory.
func (r *buildRun) expand(ctx context.Context, resolved string) ([]string, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	info, err := r.b.fs.Stat(resolved)
	r.sem.Release(1)
	if err != nil {
		return nil, errors.Join(domain.ErrPathStatFailed, zerr.With(err, "path", resolved))
	}

	if !info.IsDir() {
		return []string{resolved}, nil
	}
	return r.walk(ctx, resolved)
}

func (r *buildRun) walk(ctx context.Context, dir string) ([]string, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)

	files, err := r.b.fs.WalkFiles(dir)
	if err != nil {
		return nil, errors.Join(domain.ErrDirectoryWalkFailed, zerr.With(err, "path", dir))
	}
	return files, nil
}

func (r *buildRun) read(ctx context.Context, path string) (string, error) {
	_, span := r.b.tracer.Start(ctx, "read_file", ports.WithAttribute("path", path))
	defer span.End()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	content, err := r.b.fs.ReadFile(path)
	r.sem.Release(1)

	if err != nil {
		err = errors.Join(domain.ErrFileReadFailed, zerr.With(err, "path", path))
		span.RecordError(err)
		return "", err
	}
	span.SetAttribute("bytes", len(content))
	return content, nil
}
