// Package fswalk walks directory trees for bulk ingestion, selecting
// files with doublestar include and exclude patterns.
package fswalk

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxFileSize caps the size of files the walker will return.
// Matches the extraction size guard so walked files are never rejected
// later in the pipeline.
const DefaultMaxFileSize = 10 << 20

// DefaultExcludes skips directories that never hold ingestable
// documents. Callers pass it explicitly so an empty exclude list still
// means "exclude nothing".
var DefaultExcludes = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/__pycache__/**",
}

// File is a single file selected by a walk.
type File struct {
	// Path is the absolute path on disk.
	Path string

	// RelPath is the path relative to the walk root, always
	// slash-separated regardless of platform.
	RelPath string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the last modification time.
	ModTime time.Time
}

// Config holds walker configuration.
type Config struct {
	// Includes selects files by doublestar pattern, matched against the
	// slash-separated path relative to the walk root. Defaults to
	// everything ("**/*").
	Includes []string

	// Excludes rejects files and prunes directories. A directory is
	// tested with a trailing slash, so "**/.git/**" prunes the .git
	// tree itself.
	Excludes []string

	// MaxFileSize skips files larger than this many bytes. Defaults to
	// DefaultMaxFileSize.
	MaxFileSize int64
}

// Walker selects files under a root directory by pattern.
type Walker struct {
	includes    []string
	excludes    []string
	maxFileSize int64
}

// NewWalker creates a pattern-filtered directory walker.
func NewWalker(cfg Config) *Walker {
	includes := cfg.Includes
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	maxFileSize := cfg.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	return &Walker{
		includes:    includes,
		excludes:    cfg.Excludes,
		maxFileSize: maxFileSize,
	}
}

// Walk returns the files under root that match the include patterns
// and none of the exclude patterns, in lexical order. Oversized files
// are skipped. When root is a regular file it is returned as the
// single entry with no filtering applied, since naming a file is
// already a selection.
func (w *Walker) Walk(ctx context.Context, root string) ([]File, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if info.Mode().IsRegular() {
		return []File{{
			Path:    root,
			RelPath: filepath.Base(root),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}}, nil
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walk %s: not a file or directory", root)
	}

	var files []File

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped rather than aborting the
			// walk. The root itself was already checked above.
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		if d.IsDir() {
			if w.shouldExclude(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks and other irregular files are skipped.
		if !d.Type().IsRegular() {
			return nil
		}

		if !w.shouldInclude(relPath) || w.shouldExclude(relPath) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		if fi.Size() > w.maxFileSize {
			return nil
		}

		files = append(files, File{
			Path:    path,
			RelPath: relPath,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (w *Walker) shouldInclude(relPath string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(pattern, relPath)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Walker) shouldExclude(relPath string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, relPath)
		if err == nil && matched {
			return true
		}
	}
	return false
}
