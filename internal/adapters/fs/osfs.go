package fs

import (
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/stitch/internal/core/ports"
)

var _ ports.FileSystem = (*OSFS)(nil)

// OSFS implements ports.FileSystem using the operating system.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// ReadFile reads the file at path as text.
func (o *OSFS) ReadFile(path string) (string, error) {
	// #nosec G304 -- paths come from dependency headers of the project being bundled
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Stat returns file info for path.
func (o *OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// WalkFiles lists every regular file below root, skipping .git and .jj.
// Symlinked files are followed.
func (o *OSFS) WalkFiles(root string) ([]string, error) {
	w := walker{
		walkDir: filepath.WalkDir,
		stat:    os.Stat,
		join:    func(p string) string { return p },
	}
	return w.walk(filepath.Clean(root))
}
