package builder_test

import (
	iofs "io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"go.trai.ch/stitch/internal/adapters/fs"
	"go.trai.ch/stitch/internal/adapters/header"
	"go.trai.ch/stitch/internal/core/domain"
	"go.trai.ch/stitch/internal/core/ports"
	"go.trai.ch/stitch/internal/engine/builder"
)

var root = filepath.FromSlash("/project")

// p returns the absolute path of a slash-separated path below root.
func p(rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

func ps(rels ...string) []string {
	out := make([]string, len(rels))
	for i, rel := range rels {
		out[i] = p(rel)
	}
	return out
}

func tree(files map[string]string) fstest.MapFS {
	m := make(fstest.MapFS, len(files))
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

// recordingFS counts file system calls and tracks how many run at once.
type recordingFS struct {
	ports.FileSystem
	delay func(path string) time.Duration

	mu    sync.Mutex
	reads map[string]int
	stats map[string]int

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newRecordingFS(files map[string]string) *recordingFS {
	return &recordingFS{
		FileSystem: fs.NewMapFSAdapter(root, tree(files)),
		reads:      make(map[string]int),
		stats:      make(map[string]int),
	}
}

func (r *recordingFS) enter(path string) func() {
	n := r.inFlight.Add(1)
	for {
		highest := r.maxInFlight.Load()
		if n <= highest || r.maxInFlight.CompareAndSwap(highest, n) {
			break
		}
	}
	if r.delay != nil {
		time.Sleep(r.delay(path))
	}
	return func() { r.inFlight.Add(-1) }
}

func (r *recordingFS) ReadFile(path string) (string, error) {
	defer r.enter(path)()
	r.mu.Lock()
	r.reads[path]++
	r.mu.Unlock()
	return r.FileSystem.ReadFile(path)
}

func (r *recordingFS) Stat(path string) (iofs.FileInfo, error) {
	defer r.enter(path)()
	r.mu.Lock()
	r.stats[path]++
	r.mu.Unlock()
	return r.FileSystem.Stat(path)
}

func (r *recordingFS) WalkFiles(dir string) ([]string, error) {
	defer r.enter(dir)()
	return r.FileSystem.WalkFiles(dir)
}

func (r *recordingFS) totalReads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, n := range r.reads {
		total += n
	}
	return total
}

func (r *recordingFS) readsOf(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads[path]
}

func newBlockBuilder(t *testing.T, fsys ports.FileSystem, opts ...builder.Option) *builder.Builder {
	t.Helper()
	parser, err := header.New(domain.DialectBlock)
	if err != nil {
		t.Fatal(err)
	}
	return builder.NewForFiles(fsys, parser, opts...)
}

// scenarioFiles is a.js -> b.js, b.js -> c.js and d.js, c.js -> d.js.
var scenarioFiles = map[string]string{
	"a.js": "/** @depends\n * b.js\n */\nvar a;\n",
	"b.js": "/** @depends\n * c.js\n * d.js\n */\nvar b;\n",
	"c.js": "/** @depends\n * d.js\n */\nvar c;\n",
	"d.js": "var d;\n",
}
