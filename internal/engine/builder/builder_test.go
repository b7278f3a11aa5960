package builder_test

import (
	"context"
	iofs "io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stitch/internal/adapters/fs"
	"go.trai.ch/stitch/internal/adapters/graph"
	"go.trai.ch/stitch/internal/adapters/header"
	"go.trai.ch/stitch/internal/core/domain"
	"go.trai.ch/stitch/internal/core/ports/mocks"
	"go.trai.ch/stitch/internal/engine/builder"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestBuildFile_Scenario(t *testing.T) {
	b := newBlockBuilder(t, newRecordingFS(scenarioFiles))

	chain, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, ps("d.js", "c.js", "b.js"), chain)
	assert.Equal(t, ps("d.js", "c.js", "b.js"), b.Files(p("a.js")))
	assert.Equal(t, ps("d.js", "c.js"), b.Files(p("b.js")))
	assert.Equal(t, ps("d.js"), b.Files(p("c.js")))
	assert.Empty(t, b.Files(p("d.js")))
	assert.Equal(t, ps("a.js", "b.js", "c.js", "d.js"), b.Cache().Paths())
}

func TestBuildFile_LinearChain(t *testing.T) {
	files := map[string]string{
		"A.js": "/** @depends\n * B.js\n */\nvar a;\n",
		"B.js": "/** @depends\n * C.js\n */\nvar b;\n",
		"C.js": "var c;\n",
	}
	b := newBlockBuilder(t, newRecordingFS(files))

	_, err := b.BuildFile(context.Background(), p("A.js"), domain.BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, ps("C.js", "B.js"), b.Files(p("A.js")))

	out, err := b.Concatenate(p("A.js"), domain.ConcatOptions{})
	require.NoError(t, err)
	assert.Equal(t, files["C.js"]+files["B.js"]+files["A.js"], out)
}

func TestBuildFile_WithoutHeader(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no header", content: "var x = 1;\n"},
		{name: "unterminated header", content: "/** @depends\n * y.js\nvar x = 1;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBlockBuilder(t, newRecordingFS(map[string]string{"x.js": tt.content}))

			chain, err := b.BuildFile(context.Background(), p("x.js"), domain.BuildOptions{})
			require.NoError(t, err)
			assert.Empty(t, chain)
			assert.Empty(t, b.Files(p("x.js")))

			out, err := b.Concatenate(p("x.js"), domain.ConcatOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.content, out)

			rec, ok := b.Cache().Get(p("x.js"))
			require.True(t, ok)
			assert.Equal(t, domain.NoHeader, rec.AnnotationEnd)
		})
	}
}

func TestBuildFile_DirectoryDependency(t *testing.T) {
	g := graph.New()
	b := newBlockBuilder(t, newRecordingFS(map[string]string{
		"main.js":              "/** @depends\n * lib\n * tail.js\n */\nmain();\n",
		"lib/1.js":             "one();\n",
		"lib/2.js":             "two();\n",
		"lib/another/3.js":     "three();\n",
		"tail.js":              "tail();\n",
		"unrelated/ignored.js": "nope();\n",
	}), builder.WithGraph(g))

	chain, err := b.BuildFile(context.Background(), p("main.js"), domain.BuildOptions{})
	require.NoError(t, err)

	expected := ps("lib/1.js", "lib/2.js", "lib/another/3.js", "tail.js")
	assert.Equal(t, expected, chain)
	assert.Equal(t, expected, g.Dependencies(p("main.js")), "one edge per discovered file")

	for _, f := range expected {
		assert.True(t, b.Cache().Has(f), f)
	}
	assert.False(t, b.Cache().Has(p("unrelated/ignored.js")))
	assert.False(t, b.Cache().Has(p("lib")))

	out, err := b.Concatenate(p("main.js"), domain.ConcatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "one();\ntwo();\nthree();\ntail();\n/** @depends\n * lib\n * tail.js\n */\nmain();\n", out)
}

func TestBuildFile_DirectoryDependenciesAreBuilt(t *testing.T) {
	b := newBlockBuilder(t, newRecordingFS(map[string]string{
		"main.js":   "/** @depends\n * lib\n */\n",
		"lib/x.js":  "/** @depends\n * ../dep.js\n */\nx();\n",
		"dep.js":    "dep();\n",
		"lib/y.txt": "y",
	}))

	chain, err := b.BuildFile(context.Background(), p("main.js"), domain.BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, ps("dep.js", "lib/x.js", "lib/y.txt"), chain)
}

func TestBuildFile_DirectoryDependencySkipsVCS(t *testing.T) {
	b := newBlockBuilder(t, newRecordingFS(map[string]string{
		"main.js":       "/** @depends\n * lib\n */\n",
		"lib/1.js":      "one();\n",
		"lib/.git/HEAD": "ref",
		"lib/.jj/store": "x",
		"lib/sub/2.js":  "two();\n",
	}))

	chain, err := b.BuildFile(context.Background(), p("main.js"), domain.BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, ps("lib/1.js", "lib/sub/2.js"), chain)
}

func TestConcatenate_MissingCacheEntry(t *testing.T) {
	t.Run("never built", func(t *testing.T) {
		b := newBlockBuilder(t, newRecordingFS(scenarioFiles))

		_, err := b.Concatenate(p("a.js"), domain.ConcatOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingCacheEntry)
		assert.ErrorContains(t, err, p("a.js"))
	})

	t.Run("hand-built graph", func(t *testing.T) {
		g := graph.New()
		require.NoError(t, g.AddEdge(p("x.js"), p("ghost.js")))

		b := newBlockBuilder(t, newRecordingFS(map[string]string{"x.js": "x();\n"}), builder.WithGraph(g))
		_, err := b.BuildFile(context.Background(), p("x.js"), domain.BuildOptions{})
		require.NoError(t, err)

		_, err = b.Concatenate(p("x.js"), domain.ConcatOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingCacheEntry)
		assert.ErrorContains(t, err, `file "`+p("ghost.js")+`" is not in the file cache`)
		assert.ErrorContains(t, err, `attempting to concatenate "`+p("x.js")+`"`)

		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		meta := zErr.Metadata()
		assert.Equal(t, p("ghost.js"), meta["file"])
		assert.Equal(t, p("x.js"), meta["target"])
	})
}

func TestBuildFile_ShouldParse(t *testing.T) {
	rec := newRecordingFS(map[string]string{
		"a.js":      "/** @depends\n * vendor.js\n * b.js\n */\nvar a;\n",
		"vendor.js": "/** @depends\n * never.js\n */\nvar v;\n",
		"b.js":      "var b;\n",
	})
	g := graph.New()
	b := newBlockBuilder(t, rec, builder.WithGraph(g))

	_, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{
		ShouldParse: func(path string) bool { return !strings.HasSuffix(path, "vendor.js") },
	})
	require.NoError(t, err, "dependents of a skipped file still build")

	assert.False(t, b.Cache().Has(p("vendor.js")))
	assert.Zero(t, rec.readsOf(p("vendor.js")))
	assert.Empty(t, g.Dependencies(p("vendor.js")), "skipped files contribute no edges")
	assert.True(t, b.Cache().Has(p("a.js")))
	assert.True(t, b.Cache().Has(p("b.js")))
}

func TestBuildFile_RemoveHeaders(t *testing.T) {
	b := newBlockBuilder(t, newRecordingFS(map[string]string{
		"a.js": "/** @depends\n * b.js\n */\nvar foo;",
		"b.js": "/** @depends\n * c.js\n */\n/** @depends\n * d.js\n */\nvar b;",
		"c.js": "var c;",
		"d.js": "var d;",
	}))

	_, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{RemoveHeaders: true})
	require.NoError(t, err)

	rec, ok := b.Cache().Get(p("a.js"))
	require.True(t, ok)
	assert.Equal(t, "\nvar foo;", rec.Content)
	assert.Equal(t, len("/** @depends\n * b.js\n */"), rec.AnnotationEnd)

	stacked, ok := b.Cache().Get(p("b.js"))
	require.True(t, ok)
	assert.Equal(t, "\nvar b;", stacked.Content)

	assert.Equal(t, ps("c.js", "d.js", "b.js"), b.Files(p("a.js")))
}

func TestBuildFile_StackedHeaders(t *testing.T) {
	b := newBlockBuilder(t, newRecordingFS(map[string]string{
		"a.js": "/** @depends\n * b.js\n */\n/** @depends\n * c.js\n */\nvar a;\n",
		"e.js": "\n  /** @depends\n * b.js\n */\nvar e;\n",
		"b.js": "var b;\n",
		"c.js": "var c;\n",
	}))

	chain, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{RemoveHeaders: true})
	require.NoError(t, err)
	assert.Equal(t, ps("b.js", "c.js"), chain)

	rec, ok := b.Cache().Get(p("a.js"))
	require.True(t, ok)
	assert.Equal(t, "\nvar a;\n", rec.Content)

	chain, err = b.BuildFile(context.Background(), p("e.js"), domain.BuildOptions{RemoveHeaders: true})
	require.NoError(t, err)
	assert.Equal(t, ps("b.js"), chain)

	rec, ok = b.Cache().Get(p("e.js"))
	require.True(t, ok)
	assert.Equal(t, "\nvar e;\n", rec.Content)
}

func TestBuildFile_Idempotent(t *testing.T) {
	rec := newRecordingFS(scenarioFiles)
	b := newBlockBuilder(t, rec)

	first, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, 4, rec.totalReads())

	second, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, rec.totalReads(), "cached files are not read again")
	assert.Equal(t, first, second)

	_, err = b.BuildFile(context.Background(), p("b.js"), domain.BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, rec.totalReads())
}

func TestBuildFile_SharedDependencyReadOnce(t *testing.T) {
	files := map[string]string{
		"main.js":   "/** @depends\n * a.js\n * b.js\n * c.js\n */\n",
		"a.js":      "/** @depends\n * shared.js\n */\n",
		"b.js":      "/** @depends\n * shared.js\n */\n",
		"c.js":      "/** @depends\n * shared.js\n */\n",
		"shared.js": "shared();\n",
	}
	rec := newRecordingFS(files)
	b := newBlockBuilder(t, rec)

	_, err := b.BuildFile(context.Background(), p("main.js"), domain.BuildOptions{MaxConcurrent: 8})
	require.NoError(t, err)

	assert.Equal(t, 1, rec.readsOf(p("shared.js")))
	assert.Equal(t, ps("shared.js", "a.js", "b.js", "c.js"), b.Files(p("main.js")))
}

func TestBuildFile_Failures(t *testing.T) {
	t.Run("missing target", func(t *testing.T) {
		b := newBlockBuilder(t, newRecordingFS(scenarioFiles))

		chain, err := b.BuildFile(context.Background(), p("nope.js"), domain.BuildOptions{})
		require.Error(t, err)
		assert.Nil(t, chain)
		assert.ErrorIs(t, err, domain.ErrFileReadFailed)
		assert.ErrorContains(t, err, "nope.js")
	})

	t.Run("target is a directory", func(t *testing.T) {
		b := newBlockBuilder(t, newRecordingFS(map[string]string{"lib/a.js": ""}))

		_, err := b.BuildFile(context.Background(), p("lib"), domain.BuildOptions{})
		assert.ErrorIs(t, err, domain.ErrFileReadFailed)
	})

	t.Run("missing dependency keeps earlier cache entries", func(t *testing.T) {
		b := newBlockBuilder(t, newRecordingFS(map[string]string{
			"a.js": "/** @depends\n * b.js\n */\n",
			"b.js": "/** @depends\n * gone.js\n */\n",
		}))

		chain, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{})
		require.Error(t, err)
		assert.Nil(t, chain)
		assert.ErrorIs(t, err, domain.ErrPathStatFailed)
		assert.ErrorContains(t, err, "gone.js")

		assert.True(t, b.Cache().Has(p("a.js")))
		assert.True(t, b.Cache().Has(p("b.js")))
	})
}

func TestBuildFile_Transform(t *testing.T) {
	b := newBlockBuilder(t, newRecordingFS(map[string]string{
		"a.js": "var a;\n",
		"b.js": "var b;\n",
	}))

	var seen []string
	_, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{
		Transform: func(content, path string) string {
			seen = append(seen, path)
			if path == p("a.js") {
				return "/** @depends\n * b.js\n */\n" + strings.ToUpper(content)
			}
			return strings.ToUpper(content)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, ps("a.js", "b.js"), seen)
	assert.Equal(t, ps("b.js"), b.Files(p("a.js")), "headers are parsed from transformed text")

	out, err := b.Concatenate(p("a.js"), domain.ConcatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "VAR B;\n/** @depends\n * b.js\n */\nVAR A;\n", out)
}

func TestConcatenate_Transform(t *testing.T) {
	b := newBlockBuilder(t, newRecordingFS(scenarioFiles))
	_, err := b.BuildFile(context.Background(), p("c.js"), domain.BuildOptions{})
	require.NoError(t, err)

	wrap := func(content, path string) string {
		return "// " + path + "\n" + content
	}
	out, err := b.Concatenate(p("c.js"), domain.ConcatOptions{Transform: wrap})
	require.NoError(t, err)
	assert.Equal(t, "// "+p("d.js")+"\nvar d;\n// "+p("c.js")+"\n"+scenarioFiles["c.js"], out)

	rec, _ := b.Cache().Get(p("d.js"))
	assert.Equal(t, "var d;\n", rec.Content, "concatenation transforms are not cached")
}

func TestBuildFile_Cycle(t *testing.T) {
	b := newBlockBuilder(t, newRecordingFS(map[string]string{
		"a.js": "/** @depends\n * b.js\n */\na();\n",
		"b.js": "/** @depends\n * a.js\n */\nb();\n",
	}))

	chain, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, ps("b.js"), chain)
	assert.Equal(t, ps("a.js"), b.Files(p("b.js")))
}

func TestBuildFile_RootLocator(t *testing.T) {
	b := newBlockBuilder(t, newRecordingFS(map[string]string{
		"app/main.js":           "/** @depends\n * util/dom.js\n * theme.css\n */\n",
		"assets/js/util/dom.js": "/** @depends\n * core.js\n */\n",
		"assets/js/core.js":     "core();\n",
		"assets/css/theme.css":  "body{}\n",
	}), builder.WithRootLocator(func(ext string) string {
		if ext == ".css" {
			return p("assets/css")
		}
		return p("assets/js")
	}))

	chain, err := b.BuildFile(context.Background(), p("app/main.js"), domain.BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, ps("assets/js/core.js", "assets/js/util/dom.js", "assets/css/theme.css"), chain)
}

func TestBuildFile_LineDialect(t *testing.T) {
	parser, err := header.New(domain.DialectLine)
	require.NoError(t, err)

	b := builder.NewForFiles(fs.NewMapFSAdapter(root, tree(map[string]string{
		"app.js":  "/*\n//= require lib.js\n *//= require util.js\n@@ end */\n//= require ignored.js\napp();\n",
		"lib.js":  "//= require util.js\nlib();\n",
		"util.js": "util();\n",
	})), parser)

	chain, err := b.BuildFile(context.Background(), p("app.js"), domain.BuildOptions{RemoveHeaders: true})
	require.NoError(t, err)
	assert.Equal(t, ps("util.js", "lib.js"), chain)

	out, err := b.Concatenate(p("app.js"), domain.ConcatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "util();\nlib();\n\n//= require ignored.js\napp();\n", out)
}

func TestNewForRoots(t *testing.T) {
	parser, err := header.New(domain.DialectBlock)
	require.NoError(t, err)
	fsys := fs.NewMapFSAdapter(root, tree(scenarioFiles))

	_, err = builder.NewForRoots(fsys, parser, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoRootDirectories)

	_, err = builder.NewForRoots(fsys, parser, []string{""})
	assert.ErrorContains(t, err, domain.ErrNoRootDirectories.Error())

	b, err := builder.NewForRoots(fsys, parser, []string{root + "/"})
	require.NoError(t, err)
	assert.Equal(t, []string{root}, b.Roots())
}

func TestBuildRoots(t *testing.T) {
	parser, err := header.New(domain.DialectBlock)
	require.NoError(t, err)

	g := graph.New()
	rec := newRecordingFS(map[string]string{
		"src/a.js":        "/** @depends\n * b.js\n */\n",
		"src/b.js":        "b();\n",
		"src/nested/c.js": "/** @depends\n * ../../lib/d.js\n */\n",
		"lib/d.js":        "d();\n",
		"lib/e.js":        "e();\n",
		"other/f.js":      "f();\n",
	})
	b, err := builder.NewForRoots(rec, parser, []string{p("src"), p("lib")}, builder.WithGraph(g))
	require.NoError(t, err)

	require.NoError(t, b.BuildRoots(context.Background(), domain.BuildOptions{MaxConcurrent: 3}))

	assert.Equal(t, ps("lib/d.js", "lib/e.js", "src/a.js", "src/b.js", "src/nested/c.js"), b.Cache().Paths())
	assert.Equal(t, ps("src/b.js"), b.Files(p("src/a.js")))
	assert.Equal(t, ps("lib/d.js"), b.Files(p("src/nested/c.js")))
	assert.Empty(t, g.Dependencies(p("src")), "roots add no edges")
	assert.Equal(t, 1, rec.readsOf(p("lib/d.js")))
}

func TestBuildRoots_Failures(t *testing.T) {
	parser, err := header.New(domain.DialectBlock)
	require.NoError(t, err)
	fsys := fs.NewMapFSAdapter(root, tree(map[string]string{"src/a.js": ""}))

	b, err := builder.NewForRoots(fsys, parser, []string{p("missing")})
	require.NoError(t, err)
	err = b.BuildRoots(context.Background(), domain.BuildOptions{})
	assert.ErrorIs(t, err, domain.ErrDirectoryWalkFailed)

	err = newBlockBuilder(t, fsys).BuildRoots(context.Background(), domain.BuildOptions{})
	assert.ErrorIs(t, err, domain.ErrNoRootDirectories)
}

func TestClearCacheAndReset(t *testing.T) {
	rec := newRecordingFS(scenarioFiles)
	b := newBlockBuilder(t, rec)

	_, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{})
	require.NoError(t, err)

	b.ClearCache()
	assert.Equal(t, 0, b.Cache().Len())
	assert.Equal(t, ps("d.js", "c.js", "b.js"), b.Files(p("a.js")), "clearing the cache keeps the graph")

	_, err = b.Concatenate(p("a.js"), domain.ConcatOptions{})
	assert.ErrorIs(t, err, domain.ErrMissingCacheEntry)

	_, err = b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 8, rec.totalReads(), "a cleared cache is read again")

	b.Reset()
	assert.Equal(t, 0, b.Cache().Len())
	assert.Empty(t, b.Files(p("a.js")), "reset drops the graph too")
}

func TestBuildFile_Canceled(t *testing.T) {
	b := newBlockBuilder(t, newRecordingFS(scenarioFiles))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.BuildFile(ctx, p("a.js"), domain.BuildOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, b.Cache().Has(p("a.js")))
}

func TestBuildFile_FileSystemErrors(t *testing.T) {
	dirInfo, err := iofs.Stat(fstest.MapFS{"lib/x.js": {}}, "lib")
	require.NoError(t, err)

	t.Run("walk", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsys := mocks.NewMockFileSystem(ctrl)
		fsys.EXPECT().ReadFile(p("a.js")).Return("/** @depends\n * lib\n */\n", nil)
		fsys.EXPECT().Stat(p("lib")).Return(dirInfo, nil)
		fsys.EXPECT().WalkFiles(p("lib")).Return(nil, iofs.ErrPermission)

		b := newBlockBuilder(t, fsys)
		_, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDirectoryWalkFailed)
		assert.ErrorIs(t, err, iofs.ErrPermission)
		assert.True(t, b.Cache().Has(p("a.js")))
	})

	t.Run("read", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsys := mocks.NewMockFileSystem(ctrl)
		fsys.EXPECT().ReadFile(p("a.js")).Return("", iofs.ErrPermission)

		b := newBlockBuilder(t, fsys)
		_, err := b.BuildFile(context.Background(), p("a.js"), domain.BuildOptions{})
		assert.ErrorIs(t, err, domain.ErrFileReadFailed)
		assert.ErrorIs(t, err, iofs.ErrPermission)
		assert.Zero(t, b.Cache().Len())
	})
}
