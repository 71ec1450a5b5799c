package mock

import (
	"context"

	"github.com/fwojciec/docsite"
)

var _ docsite.SiteService = (*SiteService)(nil)

// SiteService is a mock implementation of docsite.SiteService.
type SiteService struct {
	CreateSiteFn   func(ctx context.Context, site *docsite.Site) error
	FindSiteByIDFn func(ctx context.Context, id string) (*docsite.Site, error)
	FindSitesFn    func(ctx context.Context, filter docsite.SiteFilter) ([]*docsite.Site, error)
	UpdateSiteFn   func(ctx context.Context, id string, upd docsite.SiteUpdate) (*docsite.Site, error)
	DeleteSiteFn   func(ctx context.Context, id string) error
}

func (s *SiteService) CreateSite(ctx context.Context, site *docsite.Site) error {
	return s.CreateSiteFn(ctx, site)
}

func (s *SiteService) FindSiteByID(ctx context.Context, id string) (*docsite.Site, error) {
	return s.FindSiteByIDFn(ctx, id)
}

func (s *SiteService) FindSites(ctx context.Context, filter docsite.SiteFilter) ([]*docsite.Site, error) {
	return s.FindSitesFn(ctx, filter)
}

func (s *SiteService) UpdateSite(ctx context.Context, id string, upd docsite.SiteUpdate) (*docsite.Site, error) {
	return s.UpdateSiteFn(ctx, id, upd)
}

func (s *SiteService) DeleteSite(ctx context.Context, id string) error {
	return s.DeleteSiteFn(ctx, id)
}

var _ docsite.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of docsite.RecordService.
type RecordService struct {
	ReplaceRecordsFn func(ctx context.Context, siteID string, idx *docsite.SearchIndex) error
	FindRecordsFn    func(ctx context.Context, siteID string) (*docsite.SearchIndex, error)
}

func (s *RecordService) ReplaceRecords(ctx context.Context, siteID string, idx *docsite.SearchIndex) error {
	return s.ReplaceRecordsFn(ctx, siteID, idx)
}

func (s *RecordService) FindRecords(ctx context.Context, siteID string) (*docsite.SearchIndex, error) {
	return s.FindRecordsFn(ctx, siteID)
}
