package app

import (
	"context"

	"go.trai.ch/stitch/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/zerr"
)

// Watch bundles once, then rebuilds from scratch whenever a file below the
// project root changes. Build failures are logged and watching continues.
// It returns when ctx is done.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	p, err := a.prepare(opts)
	if err != nil {
		return err
	}

	if err := a.bundle(ctx, p); err != nil {
		a.logger.Error(err)
	}

	if err := a.watcher.Start(ctx, p.cfg.Root); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to start file watcher"), "root", p.cfg.Root)
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	outputs := make(map[string]bool, len(p.bundles))
	for _, bundle := range p.bundles {
		if bundle.Output != "" {
			outputs[bundle.Output] = true
		}
	}

	rebuild := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func(paths []string) {
		select {
		case rebuild <- paths:
		default:
			// A rebuild is already queued and will see these changes.
		}
	})

	go func() {
		for event := range a.watcher.Events() {
			if outputs[event.Path] {
				continue
			}
			debouncer.Add(event.Path)
		}
	}()

	a.logger.Info("watching for changes", "root", p.cfg.Root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-rebuild:
			a.logger.Info("change detected, rebuilding", "files", len(paths))
			p.builder.Reset()
			if err := a.bundle(ctx, p); err != nil && ctx.Err() == nil {
				a.logger.Error(err)
			}
		}
	}
}
