package docsite

import (
	"context"
	"time"
)

// Site is a documentation website whose search index has been imported.
type Site struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SourceURL   string    `json:"sourceUrl"`
	IndexURL    string    `json:"indexUrl"`
	ContentHash string    `json:"contentHash"`
	RecordCount int       `json:"recordCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the site contains invalid fields.
func (s *Site) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "site name required")
	}
	if s.SourceURL == "" {
		return Errorf(EINVALID, "site source URL required")
	}
	return nil
}

// SiteService represents a service for managing sites.
type SiteService interface {
	// CreateSite creates a new site.
	// Returns ECONFLICT if a site with the same name exists.
	CreateSite(ctx context.Context, site *Site) error

	// FindSiteByID retrieves a site by ID.
	// Returns ENOTFOUND if site does not exist.
	FindSiteByID(ctx context.Context, id string) (*Site, error)

	// FindSites retrieves sites matching the filter.
	FindSites(ctx context.Context, filter SiteFilter) ([]*Site, error)

	// UpdateSite updates an existing site.
	// Returns ENOTFOUND if site does not exist.
	UpdateSite(ctx context.Context, id string, upd SiteUpdate) (*Site, error)

	// DeleteSite permanently removes a site and all of its records.
	// Returns ENOTFOUND if site does not exist.
	DeleteSite(ctx context.Context, id string) error
}

// SiteFilter represents a filter for FindSites.
type SiteFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SiteUpdate represents fields that can be updated on a site.
type SiteUpdate struct {
	SourceURL *string `json:"sourceUrl"`
	IndexURL  *string `json:"indexUrl"`
}

// RecordService stores the search records of a site.
type RecordService interface {
	// ReplaceRecords swaps the stored snapshot of a site for idx and
	// updates the site's content hash and record count.
	// Returns ENOTFOUND if site does not exist.
	ReplaceRecords(ctx context.Context, siteID string, idx *SearchIndex) error

	// FindRecords returns the stored snapshot of a site in snapshot order.
	// Returns ENOTFOUND if site does not exist.
	FindRecords(ctx context.Context, siteID string) (*SearchIndex, error)
}
