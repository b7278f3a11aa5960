// Package fs provides the file system adapters read by the builder.
package fs

import (
	"io/fs"
	"path/filepath"
)

// skipDir reports whether a directory is excluded from walks. This covers
// root walks and directory dependencies alike.
func skipDir(d fs.DirEntry) bool {
	if !d.IsDir() {
		return false
	}
	switch d.Name() {
	case ".git", ".jj":
		return true
	default:
		return false
	}
}

// walker binds a directory walk to one file system. stat must follow
// symlinks. join maps a walked path back to the path reported to callers.
type walker struct {
	walkDir func(string, fs.WalkDirFunc) error
	stat    func(string) (fs.FileInfo, error)
	join    func(string) string
}

// walk collects regular files below root in lexical order. Symlinks are
// kept when their target is a regular file.
func (w walker) walk(root string) ([]string, error) {
	var files []string
	err := w.walkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && skipDir(d) {
			return filepath.SkipDir
		}
		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := w.stat(path)
			if statErr != nil {
				return statErr
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, w.join(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
