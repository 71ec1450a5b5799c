package main_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/docsite"
	main "github.com/fwojciec/docsite/cmd/docsite"
	"github.com/fwojciec/docsite/documenter"
	"github.com/fwojciec/docsite/fs"
	"github.com/fwojciec/docsite/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes loader configuration and index from file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "build")
		deps, stdout, _ := testDeps(t)
		deps.NewStore = func(dir string) docsite.ArtifactStore { return fs.NewArtifactStore(dir) }

		err := (&main.GenerateCmd{Dir: out, Index: sampleIndexPath}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote assets/latex.js")
		assert.Contains(t, stdout.String(), "Wrote search_index.js (4 records)")

		script, err := os.ReadFile(filepath.Join(out, "assets", "latex.js"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(script), "requirejs.config({"))
		assert.Contains(t, string(script), `exports: "MathJax"`)

		f, err := os.Open(filepath.Join(out, "search_index.js"))
		require.NoError(t, err)
		defer f.Close()
		idx, err := documenter.ReadSearchIndex(f)
		require.NoError(t, err)
		assert.Len(t, idx.Docs, 4)
		assert.Equal(t, docsite.DefaultIndexName, idx.Name)
	})

	t.Run("writes index of a stored site", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "build")
		deps, _, _ := testDeps(t)
		deps.NewStore = func(dir string) docsite.ArtifactStore { return fs.NewArtifactStore(dir) }
		deps.Sites = &mock.SiteService{
			FindSitesFn: func(context.Context, docsite.SiteFilter) ([]*docsite.Site, error) {
				return []*docsite.Site{{ID: "site-1", Name: "polys"}}, nil
			},
		}
		deps.Records = &mock.RecordService{
			FindRecordsFn: func(_ context.Context, siteID string) (*docsite.SearchIndex, error) {
				assert.Equal(t, "site-1", siteID)
				return &docsite.SearchIndex{Docs: []docsite.Record{
					{Location: "#", Page: "Home", Title: "Home", Category: docsite.CategoryPage},
				}}, nil
			},
		}

		err := (&main.GenerateCmd{Dir: out, Site: "polys"}).Run(deps)

		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(out, "search_index.js"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"title":"Home"`)
	})

	t.Run("aborts on failure", func(t *testing.T) {
		t.Parallel()

		aborted := false
		deps, _, _ := testDeps(t)
		deps.NewStore = func(string) docsite.ArtifactStore {
			return &mock.ArtifactStore{
				SaveFn: func(context.Context, string, func(w io.Writer) error) error {
					return errors.New("disk full")
				},
				AbortFn: func() error {
					aborted = true
					return nil
				},
			}
		}

		err := (&main.GenerateCmd{Dir: t.TempDir()}).Run(deps)

		require.Error(t, err)
		assert.True(t, aborted)
	})

	t.Run("rejects both site and index", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := testDeps(t)

		err := (&main.GenerateCmd{Dir: t.TempDir(), Site: "polys", Index: sampleIndexPath}).Run(deps)

		assert.Equal(t, docsite.EINVALID, docsite.ErrorCode(err))
	})
}
