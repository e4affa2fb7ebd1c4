package repository

import (
	"context"
	"errors"

	"github.com/Alwanly/service-remote-update/internal/models"
)

var (
	ErrSiteNotFound = errors.New("site not found")
	ErrDuplicateURL = errors.New("a site with this URL already exists")
	ErrInvalidURL   = errors.New("invalid site URL")
)

// ISiteRegistry stores Site records keyed by id. URLs are canonicalized
// and unique.
type ISiteRegistry interface {
	CreateSite(ctx context.Context, name, url, apiToken string) (*models.Site, error)
	GetSite(ctx context.Context, id string) (*models.Site, error)
	ListSites(ctx context.Context) ([]models.Site, error)
	UpdateSite(ctx context.Context, id, name, url, apiToken string) (*models.Site, error)
	// DeleteSite removes the site and every log entry that references it.
	DeleteSite(ctx context.Context, id string) error
	TouchLastChecked(ctx context.Context, id string) error
}

// IUpdateLog is append-only.
type IUpdateLog interface {
	AppendLog(ctx context.Context, entry *models.UpdateLog) error
	ListLogsBySite(ctx context.Context, siteID string, limit int) ([]models.UpdateLog, error)
	ListLogs(ctx context.Context, limit int) ([]models.UpdateLogWithSite, error)
}

type IRepository interface {
	ISiteRegistry
	IUpdateLog
}

// IAgentClient calls one site's agent. It never returns an error: every
// outcome, transport failures included, is a RemoteResult.
type IAgentClient interface {
	CheckStatus(ctx context.Context, site *models.Site) *models.RemoteResult
	UpdateCore(ctx context.Context, site *models.Site) *models.RemoteResult
	UpdatePlugins(ctx context.Context, site *models.Site, selectors []string) *models.RemoteResult
	UpdateThemes(ctx context.Context, site *models.Site, selectors []string) *models.RemoteResult
}
