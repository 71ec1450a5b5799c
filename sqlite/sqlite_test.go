package sqlite_test

import (
	"context"
	"os"
	"testing"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/documenter"
	"github.com/fwojciec/docsite/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()

		var siteCount int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sites").Scan(&siteCount)
		require.NoError(t, err)

		var recordCount int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&recordCount)
		require.NoError(t, err)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		var journalMode string
		err = db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})

	t.Run("limits pool to a single connection", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	})

	t.Run("enables foreign keys", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		var on int
		err := db.QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&on)
		require.NoError(t, err)
		assert.Equal(t, 1, on)
	})
}

// setupTestDB creates an in-memory database closed at test cleanup.
func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

// createSite stores a site with the given name.
func createSite(t *testing.T, db *sqlite.DB, name string) *docsite.Site {
	t.Helper()

	site := &docsite.Site{Name: name, SourceURL: "https://example.com/" + name + "/"}
	require.NoError(t, sqlite.NewSiteService(db).CreateSite(context.Background(), site))
	return site
}

// sampleIndex reads the search index shipped in documenter testdata.
func sampleIndex(t *testing.T) *docsite.SearchIndex {
	t.Helper()

	f, err := os.Open("../documenter/testdata/search_index.js")
	require.NoError(t, err)
	defer f.Close()

	idx, err := documenter.ReadSearchIndex(f)
	require.NoError(t, err)
	return idx
}
