package usecase

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/internal/server/controller/dto"
	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/wrapper"
)

// CheckSite asks one agent for its inventory. Only a successful answer
// stamps last_checked; a failure leaves the site untouched.
func (uc *UseCase) CheckSite(ctx context.Context, id string) wrapper.JSONResult {
	logger.AddToContext(ctx,
		logger.Operation("check_site"),
		logger.SiteID(id),
	)

	site, err := uc.Repo.GetSite(ctx, id)
	if err != nil {
		return uc.siteError(ctx, "failed to get site", err)
	}

	res, err := uc.check(ctx, site)
	if err != nil {
		return uc.siteError(ctx, "failed to record status check", err)
	}

	logger.AddToContext(ctx, logger.Success(res.Success), logger.HTTPCode(res.HTTPCode))
	if !res.Success {
		return wrapper.ResponseFailed(http.StatusBadGateway, res.Error, res)
	}
	return wrapper.ResponseSuccess(http.StatusOK, res)
}

// CheckAllSites checks every registered site with bounded concurrency.
// Each site's outcome is independent of the others.
func (uc *UseCase) CheckAllSites(ctx context.Context) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.Operation("check_all_sites"))

	sites, err := uc.Repo.ListSites(ctx)
	if err != nil {
		return uc.siteError(ctx, "failed to list sites", err)
	}

	results := make([]dto.CheckResponse, len(sites))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(uc.Config.CheckConcurrency, 1))

	for i := range sites {
		site := &sites[i]
		g.Go(func() error {
			res, err := uc.check(gCtx, site)
			if err != nil {
				uc.Logger.WithError(err).WithSiteID(site.ID).Error("failed to record status check")
				res = dto.CheckResponse{SiteID: site.ID, SiteName: site.Name, Error: err.Error(), LastChecked: site.LastChecked}
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	out := dto.CheckAllResponse{Results: results, Total: len(results)}
	for _, r := range results {
		if r.Success {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}

	logger.AddToContext(ctx, logger.BatchCounts(out.Total, out.Failed)...)
	return wrapper.ResponseSuccess(http.StatusOK, out)
}

// check runs one status call. The returned error is reserved for failing to
// persist last_checked; agent failures are part of the response.
func (uc *UseCase) check(ctx context.Context, site *models.Site) (dto.CheckResponse, error) {
	res := dto.CheckResponse{SiteID: site.ID, SiteName: site.Name, LastChecked: site.LastChecked}

	remote := uc.Client.CheckStatus(ctx, site)
	res.HTTPCode = remote.HTTPCode
	if !remote.Success {
		res.Error = remote.Reason()
		return res, nil
	}

	status, err := remote.Status()
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}

	if err := uc.Repo.TouchLastChecked(ctx, site.ID); err != nil {
		return res, err
	}
	if fresh, err := uc.Repo.GetSite(ctx, site.ID); err == nil {
		res.LastChecked = fresh.LastChecked
	}

	res.Success = true
	res.Status = status
	return res, nil
}

type updateAction func(ctx context.Context, site *models.Site, items []string) *models.RemoteResult

// actionFor selects the agent call for a category. Core is a single atomic
// step and ignores items.
func (uc *UseCase) actionFor(raw models.Category) (updateAction, error) {
	category, err := models.ParseCategory(string(raw))
	if err != nil {
		return nil, err
	}
	switch category {
	case models.CategoryCore:
		return func(ctx context.Context, site *models.Site, _ []string) *models.RemoteResult {
			return uc.Client.UpdateCore(ctx, site)
		}, nil
	case models.CategoryPlugins:
		return uc.Client.UpdatePlugins, nil
	default:
		return uc.Client.UpdateThemes, nil
	}
}

// UpdateSiteComponents issues one update command and writes exactly one log
// entry for it, whatever the outcome. There is no retry.
func (uc *UseCase) UpdateSiteComponents(ctx context.Context, id string, req *dto.UpdateRequest) wrapper.JSONResult {
	logger.AddToContext(ctx,
		logger.Operation("update_site"),
		logger.SiteID(id),
		logger.Category(string(req.Category)),
	)

	action, err := uc.actionFor(req.Category)
	if err != nil {
		return wrapper.ResponseFailed(http.StatusBadRequest, err.Error(), nil)
	}

	site, err := uc.Repo.GetSite(ctx, id)
	if err != nil {
		return uc.siteError(ctx, "failed to get site", err)
	}

	// the agent cannot abort an update once started, so neither do we
	callCtx := context.WithoutCancel(ctx)
	remote := action(callCtx, site, req.Items)

	entry := &models.UpdateLog{
		SiteID:   site.ID,
		Category: req.Category,
		Status:   models.LogStatusError,
		Message:  remote.Serialize(),
	}
	if remote.Success {
		entry.Status = models.LogStatusSuccess
	}

	if err := uc.Repo.AppendLog(callCtx, entry); err != nil {
		logger.AddToContext(ctx, logger.String("error", err.Error()))
		uc.Logger.WithError(err).WithSiteID(site.ID).WithCategory(string(req.Category)).
			Error("failed to write update log", logger.Success(remote.Success))
		// the update may already be applied; hand its outcome back anyway
		return wrapper.ResponseFailed(http.StatusInternalServerError, "failed to write update log", dto.UpdateResponse{Result: remote})
	}

	logger.AddToContext(ctx,
		logger.Success(remote.Success),
		logger.HTTPCode(remote.HTTPCode),
		logger.String("log_id", entry.ID),
	)

	body := dto.UpdateResponse{Log: entry, Result: remote}
	if !remote.Success {
		return wrapper.ResponseFailed(http.StatusBadGateway, remote.Reason(), body)
	}
	return wrapper.ResponseSuccess(http.StatusOK, body)
}
