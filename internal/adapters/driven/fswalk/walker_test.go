package fswalk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, root, relPath, content string) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// fixtureTree builds a small source-tree-shaped directory with files
// both inside and outside the conventionally excluded directories.
func fixtureTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeTestFile(t, root, ".git/config", "[core]")
	writeTestFile(t, root, "a.txt", "alpha")
	writeTestFile(t, root, "b.md", "# beta")
	writeTestFile(t, root, "node_modules/pkg/readme.txt", "dep docs")
	writeTestFile(t, root, "sub/c.txt", "gamma")
	writeTestFile(t, root, "sub/d.bin", "\x00\x01")
	return root
}

func relPaths(files []File) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	return paths
}

func TestWalker_DefaultsIncludeEverything(t *testing.T) {
	root := fixtureTree(t)

	files, err := NewWalker(Config{}).Walk(context.Background(), root)

	require.NoError(t, err)
	// WalkDir visits entries in lexical order, so the result is
	// deterministic.
	assert.Equal(t, []string{
		".git/config",
		"a.txt",
		"b.md",
		"node_modules/pkg/readme.txt",
		"sub/c.txt",
		"sub/d.bin",
	}, relPaths(files))
}

func TestWalker_FileFields(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "sub/doc.txt", "hello world")

	files, err := NewWalker(Config{}).Walk(context.Background(), root)

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "sub", "doc.txt"), files[0].Path)
	assert.Equal(t, "sub/doc.txt", files[0].RelPath)
	assert.Equal(t, int64(11), files[0].Size)
	assert.WithinDuration(t, time.Now(), files[0].ModTime, time.Minute)
}

func TestWalker_IncludeFiltering(t *testing.T) {
	root := fixtureTree(t)
	w := NewWalker(Config{Includes: []string{"**/*.txt"}})

	files, err := w.Walk(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"a.txt",
		"node_modules/pkg/readme.txt",
		"sub/c.txt",
	}, relPaths(files))
}

func TestWalker_DefaultExcludesPruneDirectories(t *testing.T) {
	root := fixtureTree(t)
	w := NewWalker(Config{Excludes: DefaultExcludes})

	files, err := w.Walk(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"a.txt",
		"b.md",
		"sub/c.txt",
		"sub/d.bin",
	}, relPaths(files))
}

func TestWalker_ExcludesRejectFiles(t *testing.T) {
	root := fixtureTree(t)
	w := NewWalker(Config{Excludes: []string{"**/*.bin"}})

	files, err := w.Walk(context.Background(), root)

	require.NoError(t, err)
	assert.NotContains(t, relPaths(files), "sub/d.bin")
	assert.Contains(t, relPaths(files), "sub/c.txt")
}

func TestWalker_SingleFileRootBypassesFilters(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "report.txt", "quarterly numbers")

	// Patterns and the size cap would all reject this file during a
	// directory walk. Naming it directly returns it anyway.
	w := NewWalker(Config{
		Includes:    []string{"**/*.md"},
		Excludes:    []string{"**/*.txt"},
		MaxFileSize: 4,
	})

	files, err := w.Walk(context.Background(), filepath.Join(root, "report.txt"))

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "report.txt", files[0].RelPath)
	assert.Equal(t, int64(17), files[0].Size)
}

func TestWalker_SkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "small.txt", "ok")
	writeTestFile(t, root, "large.txt", strings.Repeat("x", 64))
	w := NewWalker(Config{MaxFileSize: 16})

	files, err := w.Walk(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []string{"small.txt"}, relPaths(files))
}

func TestWalker_SkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "real.txt", "data")
	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))

	files, err := NewWalker(Config{}).Walk(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []string{"real.txt"}, relPaths(files))
}

func TestWalker_MissingRoot(t *testing.T) {
	_, err := NewWalker(Config{}).Walk(context.Background(), filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat root")
}

func TestWalker_CancelledContext(t *testing.T) {
	root := fixtureTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWalker(Config{}).Walk(ctx, root)

	require.ErrorIs(t, err, context.Canceled)
}
