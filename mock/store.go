package mock

import (
	"context"
	"io"

	"github.com/fwojciec/docsite"
)

var _ docsite.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is a mock implementation of docsite.ArtifactStore.
type ArtifactStore struct {
	SaveFn   func(ctx context.Context, path string, write func(w io.Writer) error) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *ArtifactStore) Save(ctx context.Context, path string, write func(w io.Writer) error) error {
	return s.SaveFn(ctx, path, write)
}

func (s *ArtifactStore) Commit() error {
	return s.CommitFn()
}

func (s *ArtifactStore) Abort() error {
	return s.AbortFn()
}
