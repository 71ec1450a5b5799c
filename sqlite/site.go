package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fwojciec/docsite"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docsite.SiteService = (*SiteService)(nil)

// SiteService implements docsite.SiteService using SQLite.
type SiteService struct {
	db *DB
}

// NewSiteService creates a new SiteService.
func NewSiteService(db *DB) *SiteService {
	return &SiteService{db: db}
}

const siteColumns = "id, name, source_url, index_url, content_hash, record_count, created_at, updated_at"

// CreateSite creates a new site with no records.
func (s *SiteService) CreateSite(ctx context.Context, site *docsite.Site) error {
	if err := site.Validate(); err != nil {
		return err
	}

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sites WHERE name = ?", site.Name).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return docsite.Errorf(docsite.ECONFLICT, "site %q already exists", site.Name)
	}

	site.ID = uuid.New().String()
	site.CreatedAt = now()
	site.UpdatedAt = site.CreatedAt
	site.ContentHash = ""
	site.RecordCount = 0

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sites (id, name, source_url, index_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, site.ID, site.Name, site.SourceURL, site.IndexURL,
		formatRFC3339(site.CreatedAt), formatRFC3339(site.UpdatedAt))

	return err
}

// FindSiteByID retrieves a site by ID.
func (s *SiteService) FindSiteByID(ctx context.Context, id string) (*docsite.Site, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+siteColumns+" FROM sites WHERE id = ?", id)

	site, err := scanSite(row)
	if err == sql.ErrNoRows {
		return nil, docsite.Errorf(docsite.ENOTFOUND, "site not found")
	}
	if err != nil {
		return nil, err
	}
	return site, nil
}

// FindSites retrieves sites matching the filter, ordered by name.
func (s *SiteService) FindSites(ctx context.Context, filter docsite.SiteFilter) ([]*docsite.Site, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + siteColumns + " FROM sites WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY name")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []*docsite.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}

	return sites, rows.Err()
}

// UpdateSite updates the location fields of an existing site.
func (s *SiteService) UpdateSite(ctx context.Context, id string, upd docsite.SiteUpdate) (*docsite.Site, error) {
	site, err := s.FindSiteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.SourceURL != nil {
		site.SourceURL = *upd.SourceURL
	}
	if upd.IndexURL != nil {
		site.IndexURL = *upd.IndexURL
	}

	if err := site.Validate(); err != nil {
		return nil, err
	}

	site.UpdatedAt = now()

	_, err = s.db.ExecContext(ctx, `
		UPDATE sites SET source_url = ?, index_url = ?, updated_at = ?
		WHERE id = ?
	`, site.SourceURL, site.IndexURL, formatRFC3339(site.UpdatedAt), id)
	if err != nil {
		return nil, err
	}

	return site, nil
}

// DeleteSite permanently removes a site. Its records are removed by the
// cascading foreign key.
func (s *SiteService) DeleteSite(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sites WHERE id = ?", id)
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

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSite(row scanner) (*docsite.Site, error) {
	var site docsite.Site
	var createdAt, updatedAt string

	if err := row.Scan(&site.ID, &site.Name, &site.SourceURL, &site.IndexURL, &site.ContentHash,
		&site.RecordCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if site.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if site.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &site, nil
}
