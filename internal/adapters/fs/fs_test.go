package fs_test

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stitch/internal/adapters/fs"
)

func TestOSFS_ReadFileAndStat(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a.js")
	require.NoError(t, os.WriteFile(path, []byte("var a;"), 0o600))

	osfs := fs.NewOSFS()

	content, err := osfs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "var a;", content)

	info, err := osfs.Stat(tmpDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = osfs.ReadFile(filepath.Join(tmpDir, "missing.js"))
	require.ErrorIs(t, err, iofs.ErrNotExist)

	_, err = osfs.ReadFile(tmpDir)
	require.Error(t, err, "reading a directory must fail")
}

func TestOSFS_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "another"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".git", "objects"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".jj"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "2.js"), []byte("2"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "1.js"), []byte("1"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "another", "3.js"), []byte("3"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".git", "config"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".jj", "store"), []byte("x"), 0o600))

	files, err := fs.NewOSFS().WalkFiles(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(tmpDir, "1.js"),
		filepath.Join(tmpDir, "2.js"),
		filepath.Join(tmpDir, "another", "3.js"),
	}, files)
}

func TestOSFS_WalkFiles_FollowsSymlinkedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.js")
	require.NoError(t, os.WriteFile(target, []byte("b"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.js"), []byte("a"), 0o600))
	if err := os.Symlink(target, filepath.Join(tmpDir, "b.js")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(t.TempDir(), filepath.Join(tmpDir, "linked-dir")))

	files, err := fs.NewOSFS().WalkFiles(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.js"),
		filepath.Join(tmpDir, "b.js"),
	}, files)
}

func TestOSFS_WalkFiles_MissingRoot(t *testing.T) {
	_, err := fs.NewOSFS().WalkFiles(filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, iofs.ErrNotExist)
}

func TestMapFSAdapter(t *testing.T) {
	root := filepath.FromSlash("/project")
	mapfs := fstest.MapFS{
		"src/a.js":             {Data: []byte("a")},
		"src/lib/1.js":         {Data: []byte("1")},
		"src/lib/2.js":         {Data: []byte("2")},
		"src/lib/another/3.js": {Data: []byte("3")},
		"src/.git/HEAD":        {Data: []byte("ref")},
	}
	adapter := fs.NewMapFSAdapter(root, mapfs)

	t.Run("read file", func(t *testing.T) {
		content, err := adapter.ReadFile(filepath.Join(root, "src", "a.js"))
		require.NoError(t, err)
		assert.Equal(t, "a", content)
	})

	t.Run("read missing file", func(t *testing.T) {
		_, err := adapter.ReadFile(filepath.Join(root, "src", "b.js"))
		require.ErrorIs(t, err, iofs.ErrNotExist)
	})

	t.Run("stat directory", func(t *testing.T) {
		info, err := adapter.Stat(filepath.Join(root, "src", "lib"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("stat root", func(t *testing.T) {
		info, err := adapter.Stat(root)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("outside root", func(t *testing.T) {
		outside := filepath.FromSlash("/elsewhere/a.js")

		_, err := adapter.Stat(outside)
		require.ErrorIs(t, err, iofs.ErrNotExist)

		_, err = adapter.ReadFile(outside)
		require.ErrorIs(t, err, iofs.ErrNotExist)

		_, err = adapter.WalkFiles(filepath.FromSlash("/elsewhere"))
		require.ErrorIs(t, err, iofs.ErrNotExist)
	})

	t.Run("walk files", func(t *testing.T) {
		files, err := adapter.WalkFiles(filepath.Join(root, "src", "lib"))
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "src", "lib", "1.js"),
			filepath.Join(root, "src", "lib", "2.js"),
			filepath.Join(root, "src", "lib", "another", "3.js"),
		}, files)
	})

	t.Run("walk skips git", func(t *testing.T) {
		files, err := adapter.WalkFiles(filepath.Join(root, "src"))
		require.NoError(t, err)
		assert.Len(t, files, 4)
		assert.NotContains(t, files, filepath.Join(root, "src", ".git", "HEAD"))
	})
}
