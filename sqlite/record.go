package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docsite"
)

// Compile-time interface verification.
var _ docsite.RecordService = (*RecordService)(nil)

// RecordService implements docsite.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// ReplaceRecords swaps the stored records of a site for the snapshot in a
// single transaction, so readers never observe a partial snapshot.
func (s *RecordService) ReplaceRecords(ctx context.Context, siteID string, idx *docsite.SearchIndex) error {
	hash, err := HashIndex(idx)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE sites SET index_name = ?, content_hash = ?, record_count = ?, updated_at = ?
		WHERE id = ?
	`, idx.Name, hash, len(idx.Docs), formatRFC3339(now()), siteID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return docsite.Errorf(docsite.ENOTFOUND, "site not found")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE site_id = ?", siteID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (site_id, position, location, page, title, text, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range idx.Docs {
		if _, err := stmt.ExecContext(ctx, siteID, i, rec.Location, rec.Page, rec.Title, rec.Text, string(rec.Category)); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// FindRecords returns the stored snapshot of a site in snapshot order.
func (s *RecordService) FindRecords(ctx context.Context, siteID string) (*docsite.SearchIndex, error) {
	var name string
	err := s.db.QueryRowContext(ctx, "SELECT index_name FROM sites WHERE id = ?", siteID).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, docsite.Errorf(docsite.ENOTFOUND, "site not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT location, page, title, text, category
		FROM records WHERE site_id = ? ORDER BY position
	`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	idx := &docsite.SearchIndex{Name: name, Docs: []docsite.Record{}}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		idx.Docs = append(idx.Docs, rec)
	}
	return idx, rows.Err()
}

// HashIndex returns a content hash of the snapshot's records. The import
// command compares it with Site.ContentHash to skip unchanged snapshots.
func HashIndex(idx *docsite.SearchIndex) (string, error) {
	h := xxhash.New()
	enc := json.NewEncoder(h)
	for _, rec := range idx.Docs {
		if err := enc.Encode(rec); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

func scanRecord(row scanner) (docsite.Record, error) {
	var rec docsite.Record
	var category string
	if err := row.Scan(&rec.Location, &rec.Page, &rec.Title, &rec.Text, &category); err != nil {
		return docsite.Record{}, err
	}
	rec.Category = docsite.Category(category)
	return rec, nil
}
