package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/Alwanly/service-remote-update/internal/config"
	"github.com/Alwanly/service-remote-update/internal/server/controller/dto"
	"github.com/Alwanly/service-remote-update/internal/server/controller/repository"
	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/wrapper"
)

const (
	defaultAllLogsLimit = 100
	maxLogsLimit        = 500
)

type UseCase struct {
	Repo   repository.IRepository
	Client repository.IAgentClient
	Config *config.ControllerConfig
	Logger *logger.CanonicalLogger
}

type UseCaseInterface interface {
	CreateSite(ctx context.Context, req *dto.SiteRequest) wrapper.JSONResult
	ListSites(ctx context.Context) wrapper.JSONResult
	GetSite(ctx context.Context, id string) wrapper.JSONResult
	UpdateSite(ctx context.Context, id string, req *dto.SiteRequest) wrapper.JSONResult
	DeleteSite(ctx context.Context, id string) wrapper.JSONResult
	CheckSite(ctx context.Context, id string) wrapper.JSONResult
	CheckAllSites(ctx context.Context) wrapper.JSONResult
	UpdateSiteComponents(ctx context.Context, id string, req *dto.UpdateRequest) wrapper.JSONResult
	SiteLogs(ctx context.Context, id string, limit int) wrapper.JSONResult
	Logs(ctx context.Context, limit int) wrapper.JSONResult
}

func NewUseCase(uc UseCase) *UseCase {
	if uc.Logger == nil {
		uc.Logger = logger.NewNop()
	}
	return &uc
}

var _ UseCaseInterface = (*UseCase)(nil)

func (uc *UseCase) CreateSite(ctx context.Context, req *dto.SiteRequest) wrapper.JSONResult {
	site, err := uc.Repo.CreateSite(ctx, req.Name, req.URL, req.APIToken)
	if err != nil {
		return uc.siteError(ctx, "failed to create site", err)
	}

	logger.AddToContext(ctx, logger.SiteID(site.ID), logger.String(logger.FieldSiteURL, site.URL))
	return wrapper.ResponseSuccess(http.StatusCreated, site.ToPublic())
}

func (uc *UseCase) ListSites(ctx context.Context) wrapper.JSONResult {
	sites, err := uc.Repo.ListSites(ctx)
	if err != nil {
		return uc.siteError(ctx, "failed to list sites", err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, dto.NewListSitesResponse(sites))
}

func (uc *UseCase) GetSite(ctx context.Context, id string) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.SiteID(id))

	site, err := uc.Repo.GetSite(ctx, id)
	if err != nil {
		return uc.siteError(ctx, "failed to get site", err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, site.ToPublic())
}

func (uc *UseCase) UpdateSite(ctx context.Context, id string, req *dto.SiteRequest) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.SiteID(id))

	site, err := uc.Repo.UpdateSite(ctx, id, req.Name, req.URL, req.APIToken)
	if err != nil {
		return uc.siteError(ctx, "failed to update site", err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, site.ToPublic())
}

// DeleteSite never contacts the agent, so it works for unreachable sites.
func (uc *UseCase) DeleteSite(ctx context.Context, id string) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.SiteID(id))

	if err := uc.Repo.DeleteSite(ctx, id); err != nil {
		return uc.siteError(ctx, "failed to delete site", err)
	}
	return wrapper.JSONResult{Code: http.StatusOK, Success: true, Message: "Site deleted"}
}

func (uc *UseCase) SiteLogs(ctx context.Context, id string, limit int) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.SiteID(id))

	if _, err := uc.Repo.GetSite(ctx, id); err != nil {
		return uc.siteError(ctx, "failed to get site", err)
	}

	logs, err := uc.Repo.ListLogsBySite(ctx, id, clampLimit(limit, uc.Config.LogLimit))
	if err != nil {
		return uc.siteError(ctx, "failed to list update logs", err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, dto.SiteLogsResponse{SiteID: id, Logs: logs})
}

func (uc *UseCase) Logs(ctx context.Context, limit int) wrapper.JSONResult {
	logs, err := uc.Repo.ListLogs(ctx, clampLimit(limit, defaultAllLogsLimit))
	if err != nil {
		return uc.siteError(ctx, "failed to list update logs", err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, dto.LogsResponse{Logs: logs})
}

// siteError maps registry errors onto HTTP outcomes. Anything unrecognized
// is an infrastructure fault.
func (uc *UseCase) siteError(ctx context.Context, msg string, err error) wrapper.JSONResult {
	switch {
	case errors.Is(err, repository.ErrSiteNotFound):
		return wrapper.ResponseFailed(http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, repository.ErrDuplicateURL):
		return wrapper.ResponseFailed(http.StatusConflict, err.Error(), nil)
	case errors.Is(err, repository.ErrInvalidURL):
		return wrapper.ResponseFailed(http.StatusBadRequest, err.Error(), nil)
	}

	logger.AddToContext(ctx, logger.String("error", err.Error()))
	uc.Logger.WithError(err).Error(msg)
	return wrapper.ResponseFailed(http.StatusInternalServerError, msg, nil)
}

func clampLimit(limit, def int) int {
	if def <= 0 {
		def = defaultAllLogsLimit
	}
	switch {
	case limit <= 0:
		return def
	case limit > maxLogsLimit:
		return maxLogsLimit
	default:
		return limit
	}
}
