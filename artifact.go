package docsite

import (
	"context"
	"io"
)

// Paths of the generated front-end artifacts, relative to the site root.
const (
	SearchIndexPath  = "search_index.js"
	LoaderConfigPath = "assets/latex.js"
)

// ArtifactStore writes generated files so that they appear all at once.
type ArtifactStore interface {
	// Save stages the file at path with the content produced by write.
	// Returns EINVALID if path is absolute or leaves the site root.
	Save(ctx context.Context, path string, write func(w io.Writer) error) error

	// Commit publishes every staged file.
	Commit() error

	// Abort discards every staged file.
	Abort() error
}
