// Package app implements the application layer for stitch.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/stitch/internal/adapters/cache"    //nolint:depguard // Wired in app layer
	"go.trai.ch/stitch/internal/adapters/header"   //nolint:depguard // Wired in app layer
	"go.trai.ch/stitch/internal/adapters/resolver" //nolint:depguard // Wired in app layer
	"go.trai.ch/stitch/internal/adapters/watcher"  //nolint:depguard // Wired in app layer
	"go.trai.ch/stitch/internal/core/domain"
	"go.trai.ch/stitch/internal/core/ports"
	"go.trai.ch/stitch/internal/engine/builder"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	fs           ports.FileSystem
	graph        ports.DependencyGraph
	cache        ports.FileCache
	logger       ports.Logger
	tracer       ports.Tracer
	watcher      ports.Watcher
	stdout       io.Writer
	debounce     time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	fsys ports.FileSystem,
	g ports.DependencyGraph,
	c ports.FileCache,
	log ports.Logger,
	tracer ports.Tracer,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		fs:           fsys,
		graph:        g,
		cache:        c,
		logger:       log,
		tracer:       tracer,
		watcher:      w,
		stdout:       os.Stdout,
		debounce:     watcher.DefaultDebounceWindow,
	}
}

// WithStdout redirects bundles that have no output file.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithDebounceWindow sets how long watch mode waits for changes to settle.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounce = d
	return a
}

// RunOptions configuration for the Bundle, Files and Watch methods.
type RunOptions struct {
	// ConfigPath selects a configuration file instead of searching from the working directory.
	ConfigPath string
	// Entry replaces the configured bundles with a single entry file.
	Entry string
	// Output is where Entry is written. Empty or "-" means stdout.
	Output string
	// Dialect overrides the configured header dialect.
	Dialect string
	// RemoveHeaders forces header removal on.
	RemoveHeaders bool
	// MaxConcurrent overrides the configured concurrency cap when positive.
	MaxConcurrent int
}

// project is a loaded configuration together with the builder serving it.
type project struct {
	cfg     *domain.Config
	bundles []domain.Bundle
	builder *builder.Builder
}

// Bundle builds every bundle once and writes its concatenation.
func (a *App) Bundle(ctx context.Context, opts RunOptions) error {
	p, err := a.prepare(opts)
	if err != nil {
		return err
	}
	return a.bundle(ctx, p)
}

// Files prints the dependencies of opts.Entry in concatenation order, one per line.
func (a *App) Files(ctx context.Context, opts RunOptions, w io.Writer) error {
	if opts.Entry == "" {
		return domain.ErrNoEntries
	}
	opts.Output = ""

	p, err := a.prepare(opts)
	if err != nil {
		return err
	}
	if err := a.build(ctx, p); err != nil {
		return err
	}

	for _, file := range p.builder.Files(p.bundles[0].Entry) {
		if _, err := fmt.Fprintln(w, file); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) prepare(opts RunOptions) (*project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	cfg, err := a.loadConfig(cwd, opts)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return nil, err
	}

	bundles := cfg.Bundles
	if opts.Entry != "" {
		bundle := domain.Bundle{Entry: absolute(cwd, opts.Entry)}
		if opts.Output != "" && opts.Output != "-" {
			bundle.Output = absolute(cwd, opts.Output)
		}
		bundles = []domain.Bundle{bundle}
	}
	if len(bundles) == 0 {
		return nil, domain.ErrNoEntries
	}

	b, err := a.newBuilder(cfg)
	if err != nil {
		return nil, err
	}
	// The graph and cache outlive a single command; start from nothing.
	b.Reset()
	return &project{cfg: cfg, bundles: bundles, builder: b}, nil
}

// loadConfig reads the configuration file. Without one, a single entry given
// on the command line is bundled with defaults rooted at cwd.
func (a *App) loadConfig(cwd string, opts RunOptions) (*domain.Config, error) {
	if opts.ConfigPath != "" {
		cfg, err := a.configLoader.LoadFile(absolute(cwd, opts.ConfigPath))
		if err != nil {
			return nil, zerr.Wrap(err, "failed to load configuration")
		}
		return cfg, nil
	}

	cfg, err := a.configLoader.Load(cwd)
	if errors.Is(err, domain.ErrConfigNotFound) && opts.Entry != "" {
		a.logger.Debug("no configuration found, using defaults", "root", cwd)
		return &domain.Config{Root: cwd, Dialect: domain.DefaultDialect}, nil
	}
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

func applyOverrides(cfg *domain.Config, opts RunOptions) error {
	if opts.Dialect != "" {
		dialect, err := domain.ParseDialect(opts.Dialect)
		if err != nil {
			return err
		}
		cfg.Dialect = dialect
	}
	if opts.RemoveHeaders {
		cfg.RemoveHeaders = true
	}
	if opts.MaxConcurrent > 0 {
		cfg.MaxConcurrent = opts.MaxConcurrent
	}
	return nil
}

func (a *App) newBuilder(cfg *domain.Config) (*builder.Builder, error) {
	parser, err := header.New(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	opts := []builder.Option{
		builder.WithGraph(a.graph),
		builder.WithCache(a.cache),
		builder.WithLogger(a.logger),
		builder.WithTracer(a.tracer),
	}
	if len(cfg.ExtensionRoots) > 0 {
		opts = append(opts, builder.WithRootLocator(resolver.ExtensionRoots(cfg.ExtensionRoots, cfg.Root)))
	}

	if cfg.RootMode() {
		return builder.NewForRoots(a.fs, parser, cfg.Roots, opts...)
	}
	return builder.NewForFiles(a.fs, parser, opts...), nil
}

// build discovers the graph for every bundle entry. In root mode the roots are
// walked first and entries outside them are built on top.
func (a *App) build(ctx context.Context, p *project) error {
	opts := domain.BuildOptions{
		RemoveHeaders: p.cfg.RemoveHeaders,
		MaxConcurrent: p.cfg.MaxConcurrent,
	}

	if p.cfg.RootMode() {
		if err := p.builder.BuildRoots(ctx, opts); err != nil {
			return errors.Join(domain.ErrBuildFailed, err)
		}
	}

	for _, bundle := range p.bundles {
		if _, err := p.builder.BuildFile(ctx, bundle.Entry, opts); err != nil {
			return errors.Join(domain.ErrBuildFailed, zerr.With(err, "entry", bundle.Entry))
		}
	}
	return nil
}

func (a *App) bundle(ctx context.Context, p *project) error {
	start := time.Now()
	if err := a.build(ctx, p); err != nil {
		return err
	}

	for _, bundle := range p.bundles {
		content, err := p.builder.Concatenate(bundle.Entry, domain.ConcatOptions{})
		if err != nil {
			return err
		}
		if err := a.write(p.cfg.Root, bundle, content); err != nil {
			return err
		}
	}

	a.logger.Debug("bundles finished", "bundles", len(p.bundles), "files", p.builder.Cache().Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// write stores content at bundle.Output, leaving the file untouched when its
// digest already matches.
func (a *App) write(root string, bundle domain.Bundle, content string) error {
	if bundle.Output == "" {
		if _, err := io.WriteString(a.stdout, content); err != nil {
			return errors.Join(domain.ErrOutputWriteFailed, zerr.With(err, "path", "stdout"))
		}
		return nil
	}

	output := relative(root, bundle.Output)
	if existing, err := a.fs.ReadFile(bundle.Output); err == nil && cache.Digest(existing) == cache.Digest(content) {
		a.logger.Debug("bundle unchanged", "output", output)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(bundle.Output), domain.DirPerm); err != nil {
		return errors.Join(domain.ErrOutputWriteFailed, zerr.With(err, "path", bundle.Output))
	}
	//nolint:gosec // bundles are meant to be readable by other tools
	if err := os.WriteFile(bundle.Output, []byte(content), domain.FilePerm); err != nil {
		return errors.Join(domain.ErrOutputWriteFailed, zerr.With(err, "path", bundle.Output))
	}

	a.logger.Info("bundle written", "entry", relative(root, bundle.Entry), "output", output, "bytes", len(content))
	return nil
}

func absolute(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// relative shortens path for log output when it lives below root.
func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
