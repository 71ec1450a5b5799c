package fs_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

// Story: Atomic Artifact Output
// The store stages files in a temp directory and publishes them on commit

func TestArtifactStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	out := filepath.Join(t.TempDir(), "build")
	store := fs.NewArtifactStore(out)

	// When I save the loader configuration
	err := store.Save(context.Background(), docsite.LoaderConfigPath, writeString("require([]);\n"))

	// Then no error occurs
	require.NoError(t, err)

	// And the file exists in the temp directory
	_, err = os.Stat(filepath.Join(out+".tmp", "assets", "latex.js"))
	require.NoError(t, err, "file should exist in temp directory")

	// And not in the output directory
	_, err = os.Stat(filepath.Join(out, "assets", "latex.js"))
	assert.True(t, os.IsNotExist(err), "file should not be published until commit")
}

func TestArtifactStore_CommitPublishesFiles(t *testing.T) {
	t.Parallel()

	// Given an output directory with an unrelated file and a stale index
	out := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.MkdirAll(out, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "index.html"), []byte("<html></html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "search_index.js"), []byte("stale"), 0644))

	store := fs.NewArtifactStore(out)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, docsite.SearchIndexPath, writeString("fresh")))
	require.NoError(t, store.Save(ctx, docsite.LoaderConfigPath, writeString("config")))

	// When I commit
	err := store.Commit()

	// Then the staged files replace the old ones
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(out, "search_index.js"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))

	data, err = os.ReadFile(filepath.Join(out, "assets", "latex.js"))
	require.NoError(t, err)
	assert.Equal(t, "config", string(data))

	// And unrelated files survive
	_, err = os.Stat(filepath.Join(out, "index.html"))
	require.NoError(t, err)

	// And the temp directory is gone
	_, err = os.Stat(out + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestArtifactStore_AbortDiscardsFiles(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "build")
	store := fs.NewArtifactStore(out)
	require.NoError(t, store.Save(context.Background(), docsite.SearchIndexPath, writeString("x")))

	err := store.Abort()

	require.NoError(t, err)
	_, err = os.Stat(out + ".tmp")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(out, "search_index.js"))
	assert.True(t, os.IsNotExist(err))
}

func TestArtifactStore_SaveRejectsEscapingPaths(t *testing.T) {
	t.Parallel()

	store := fs.NewArtifactStore(filepath.Join(t.TempDir(), "build"))

	for _, path := range []string{"", "/etc/passwd", "../outside.js", "assets/../../x.js", "."} {
		err := store.Save(context.Background(), path, writeString("x"))
		assert.Equal(t, docsite.EINVALID, docsite.ErrorCode(err), "path %q", path)
	}
}

func TestArtifactStore_SavePropagatesWriteError(t *testing.T) {
	t.Parallel()

	store := fs.NewArtifactStore(filepath.Join(t.TempDir(), "build"))
	boom := errors.New("boom")

	err := store.Save(context.Background(), docsite.SearchIndexPath, func(io.Writer) error { return boom })

	assert.ErrorIs(t, err, boom)
}
