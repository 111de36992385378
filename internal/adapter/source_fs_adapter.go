// Package adapter contains infrastructure adapters for the reimport CLI.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	m "reimport.dev/pkg/reimport/internal/model"
)

// ErrNotDirectory is returned by Scan when the root exists but is a file.
var ErrNotDirectory = errors.New("not a directory")

// skippedDirs are never descended into.
var skippedDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
}

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when rewriting a source tree. It hides direct `os` access so the
// workflow logic can be tested without touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Scan walks root and returns every regular file whose extension is in
	// extensions and whose slash-separated path relative to root matches none
	// of the exclude regexes. Entries that cannot be read are reported in
	// ScanResult.Errors instead of aborting the walk.
	Scan(ctx context.Context, root m.Path, extensions []string, exclude ...string) (ScanResult, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// Exists reports whether anything (including a dangling symlink) occupies path.
	Exists(ctx context.Context, path m.Path) (bool, error)

	// Rename moves a file.
	Rename(ctx context.Context, from, to m.Path) error

	// WriteFileAtomic writes content to a temporary file next to path and
	// renames it into place, so path is either absent or fully written.
	WriteFileAtomic(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)
}

// ScanResult is the outcome of Scan.
type ScanResult struct {
	Files  []m.Path
	Errors []ScanError
}

// ScanError records an entry the walk could not read.
type ScanError struct {
	Path m.Path
	Err  error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ScanError) Unwrap() error {
	return e.Err
}

// LocalSourceFSAdapter implements SourceFSAdapter on top of the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Scan walks root in lexical order collecting candidate files.
func (a *LocalSourceFSAdapter) Scan(ctx context.Context, root m.Path, extensions []string, exclude ...string) (ScanResult, error) {
	rootStr := string(root)

	info, err := os.Stat(rootStr)
	if err != nil {
		return ScanResult{}, err
	}

	if !info.IsDir() {
		return ScanResult{}, fmt.Errorf("%s: %w", rootStr, ErrNotDirectory)
	}

	excludes, err := compileExcludes(exclude)
	if err != nil {
		return ScanResult{}, err
	}

	exts := normalizeExtensions(extensions)

	var result ScanResult

	err = filepath.WalkDir(rootStr, func(path string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if walkErr != nil {
			slog.Warn("Skipping unreadable entry", "path", path, "error", walkErr)
			result.Errors = append(result.Errors, ScanError{Path: m.Path(path), Err: walkErr})

			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			if _, skip := skippedDirs[d.Name()]; skip && path != rootStr {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if _, ok := exts[filepath.Ext(path)]; !ok {
			return nil
		}

		rel, relErr := filepath.Rel(rootStr, path)
		if relErr != nil {
			rel = path
		}

		if isExcluded(filepath.ToSlash(rel), excludes) {
			slog.Debug("Excluded by pattern", "path", path)
			return nil
		}

		result.Files = append(result.Files, m.Path(path))

		return nil
	})
	if err != nil {
		return result, err
	}

	slog.Debug("Scan finished", "root", rootStr, "files", len(result.Files), "errors", len(result.Errors))

	return result, nil
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func isExcluded(rel string, excludes []*regexp.Regexp) bool {
	for _, re := range excludes {
		if re.MatchString(rel) {
			return true
		}
	}

	return false
}

func normalizeExtensions(extensions []string) map[string]struct{} {
	exts := make(map[string]struct{}, len(extensions))

	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}

		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		exts[ext] = struct{}{}
	}

	return exts
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(_ context.Context, path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(_ context.Context, path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Exists reports whether path is occupied.
func (a *LocalSourceFSAdapter) Exists(_ context.Context, path m.Path) (bool, error) {
	_, err := os.Lstat(string(path))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, err
}

// Rename moves a file.
func (a *LocalSourceFSAdapter) Rename(_ context.Context, from, to m.Path) error {
	return os.Rename(string(from), string(to))
}

// WriteFileAtomic writes through a temporary sibling file.
func (a *LocalSourceFSAdapter) WriteFileAtomic(_ context.Context, path m.Path, content []byte, perm os.FileMode) error {
	target := string(path)

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".reimport-*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()
	committed := false

	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}

	if err := os.Rename(tmpName, target); err != nil {
		return err
	}

	committed = true

	return nil
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}
