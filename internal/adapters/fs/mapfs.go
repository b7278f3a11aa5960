package fs

import (
	"io/fs"
	"path/filepath"
	"strings"

	"go.trai.ch/stitch/internal/core/ports"
)

var _ ports.FileSystem = (*MapFSAdapter)(nil)

// MapFSAdapter mounts an fs.FS (typically fstest.MapFS) at an absolute Root so
// that code addressing absolute paths can run against an in-memory tree.
type MapFSAdapter struct {
	FS   fs.FS
	Root string
}

// NewMapFSAdapter creates a new MapFSAdapter with the given root path and filesystem.
func NewMapFSAdapter(root string, fsys fs.FS) *MapFSAdapter {
	return &MapFSAdapter{
		FS:   fsys,
		Root: filepath.Clean(root),
	}
}

// ReadFile reads the file at path as text.
func (m *MapFSAdapter) ReadFile(path string) (string, error) {
	rel, ok := m.toRelPath(path)
	if !ok {
		return "", &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	data, err := fs.ReadFile(m.FS, rel)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Stat returns file info for path.
func (m *MapFSAdapter) Stat(path string) (fs.FileInfo, error) {
	rel, ok := m.toRelPath(path)
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return fs.Stat(m.FS, rel)
}

// WalkFiles lists every regular file below root as absolute paths.
func (m *MapFSAdapter) WalkFiles(root string) ([]string, error) {
	rel, ok := m.toRelPath(root)
	if !ok {
		return nil, &fs.PathError{Op: "lstat", Path: root, Err: fs.ErrNotExist}
	}
	w := walker{
		walkDir: func(dir string, fn fs.WalkDirFunc) error {
			return fs.WalkDir(m.FS, dir, fn)
		},
		stat: func(p string) (fs.FileInfo, error) {
			return fs.Stat(m.FS, p)
		},
		join: func(p string) string {
			return filepath.Join(m.Root, filepath.FromSlash(p))
		},
	}
	return w.walk(rel)
}

// toRelPath converts an absolute path to a slash-separated path inside FS.
// It reports false for paths outside Root.
func (m *MapFSAdapter) toRelPath(absPath string) (string, bool) {
	if !filepath.IsAbs(absPath) {
		return filepath.ToSlash(absPath), true
	}

	absPath = filepath.Clean(absPath)
	if absPath == m.Root {
		return ".", true
	}
	if m.Root != string(filepath.Separator) && !strings.HasPrefix(absPath, m.Root+string(filepath.Separator)) {
		return "", false
	}

	rel := strings.TrimPrefix(absPath, m.Root)
	rel = strings.TrimPrefix(rel, string(filepath.Separator))
	return filepath.ToSlash(rel), true
}
