// Package fs provides file-based output for generated site artifacts.
package fs

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fwojciec/docsite"
)

// Ensure ArtifactStore implements docsite.ArtifactStore at compile time.
var _ docsite.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore implements docsite.ArtifactStore with atomic update semantics.
// Files are saved to a temporary directory, then moved into place on Commit.
// Files in the output directory that were not saved are left alone.
type ArtifactStore struct {
	dir string

	mu    sync.Mutex
	saved map[string]bool
}

// NewArtifactStore creates a new ArtifactStore writing into dir.
// Files are staged in dir.tmp, a sibling of dir.
func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{
		dir:   filepath.Clean(dir),
		saved: make(map[string]bool),
	}
}

func (s *ArtifactStore) tempDir() string {
	return s.dir + ".tmp"
}

// Save stages a file. Saving the same path twice keeps the last content.
func (s *ArtifactStore) Save(ctx context.Context, path string, write func(w io.Writer) error) error {
	rel, err := cleanPath(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), rel)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	s.mu.Lock()
	s.saved[rel] = true
	s.mu.Unlock()
	return nil
}

// Commit moves every staged file into the output directory, replacing
// existing files, and removes the staging directory.
func (s *ArtifactStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.saved))
	for p := range s.saved {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		dst := filepath.Join(s.dir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := os.Rename(filepath.Join(s.tempDir(), rel), dst); err != nil {
			return err
		}
		delete(s.saved, rel)
	}

	return os.RemoveAll(s.tempDir())
}

// Abort removes the staging directory.
func (s *ArtifactStore) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.saved)
	return os.RemoveAll(s.tempDir())
}

// cleanPath converts a slash-separated artifact path to a clean relative
// file path inside the output directory.
func cleanPath(path string) (string, error) {
	if path == "" || strings.HasPrefix(path, "/") || filepath.IsAbs(path) {
		return "", docsite.Errorf(docsite.EINVALID, "artifact path %q must be relative", path)
	}
	rel := filepath.Clean(filepath.FromSlash(path))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", docsite.Errorf(docsite.EINVALID, "artifact path %q leaves the output directory", path)
	}
	return rel, nil
}
