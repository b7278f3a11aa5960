package builder

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/stitch/internal/core/domain"
	"go.trai.ch/zerr"
)

// Concatenate joins the cached contents of path's chain followed by path itself,
// without separators. Every file must have been built; the first one missing
// from the cache fails the call. opts.Transform is applied per file and its
// result is not cached.
func (b *Builder) Concatenate(path string, opts domain.ConcatOptions) (string, error) {
	path = filepath.Clean(path)
	files := append(b.graph.Chain(path), path)

	var out strings.Builder
	for _, file := range files {
		rec, ok := b.cache.Get(file)
		if !ok {
			return "", missingCacheEntry(file, path)
		}

		content := rec.Content
		if opts.Transform != nil {
			content = opts.Transform(content, file)
		}
		out.WriteString(content)
	}

	return out.String(), nil
}

func missingCacheEntry(file, target string) error {
	err := zerr.Wrap(domain.ErrMissingCacheEntry,
		fmt.Sprintf("file %q is not in the file cache (attempting to concatenate %q)", file, target))
	err = zerr.With(err, "file", file)
	return zerr.With(err, "target", target)
}
