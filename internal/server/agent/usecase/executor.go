package usecase

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/internal/server/agent/host"
	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/wrapper"
)

// UpdateCore applies the pending core update as one atomic step.
func (uc *UseCase) UpdateCore(ctx context.Context) wrapper.JSONResult {
	logger.AddToContext(ctx,
		logger.Operation("update_core"),
		logger.Category(string(models.CategoryCore)),
	)

	d, err := uc.coreDescriptor(ctx)
	if err != nil {
		return uc.hostFault(ctx, "failed to read pending updates", err)
	}
	if d == nil {
		return coreResult(http.StatusBadRequest, false, noUpdates(models.CategoryCore))
	}

	// an update that has started runs to completion regardless of the caller
	if err := uc.host.Apply(context.WithoutCancel(ctx), models.CategoryCore, *d); err != nil {
		logger.AddToContext(ctx, logger.Success(false), logger.String("error", err.Error()))
		uc.logger.WithError(err).Error("core update failed", logger.String("target_version", d.NewVersion))
		return coreResult(http.StatusBadRequest, false, err.Error())
	}

	logger.AddToContext(ctx, logger.Success(true), logger.String("target_version", d.NewVersion))
	return coreResult(http.StatusOK, true, "WordPress core updated successfully to version "+d.NewVersion)
}

// UpdatePlugins applies pending plugin updates, optionally restricted to
// the given plugin files.
func (uc *UseCase) UpdatePlugins(ctx context.Context, selectors []string) wrapper.JSONResult {
	return uc.applyBatch(ctx, models.CategoryPlugins, selectors)
}

// UpdateThemes applies pending theme updates, optionally restricted to the
// given theme slugs.
func (uc *UseCase) UpdateThemes(ctx context.Context, selectors []string) wrapper.JSONResult {
	return uc.applyBatch(ctx, models.CategoryThemes, selectors)
}

// applyBatch runs one independent upgrade per selected item. A failing item
// is recorded and the loop moves on.
func (uc *UseCase) applyBatch(ctx context.Context, category models.Category, selectors []string) wrapper.JSONResult {
	logger.AddToContext(ctx,
		logger.Operation("update_"+string(category)),
		logger.Category(string(category)),
	)

	pending, err := uc.pending(ctx, category)
	if err != nil {
		return uc.hostFault(ctx, "failed to read pending updates", err)
	}
	if len(pending) == 0 {
		return batchResult(http.StatusBadRequest, models.BatchResponse{Message: noUpdates(category)})
	}

	selected := selectItems(pending, selectors)
	if len(selected) == 0 {
		return batchResult(http.StatusBadRequest, models.BatchResponse{
			Message: fmt.Sprintf("No matching %s updates found", category.Singular()),
		})
	}

	applyCtx := context.WithoutCancel(ctx)
	results := make([]models.ItemResult, 0, len(selected))
	failed := 0
	for _, item := range selected {
		res := itemResult(category, item)
		if err := uc.host.Apply(applyCtx, category, item); err != nil {
			failed++
			res.Message = err.Error()
			uc.logger.WithError(err).WithCategory(string(category)).Error("item update failed",
				logger.String("item", item.ID))
		} else {
			res.Success = true
			res.Message = "Updated successfully to version " + item.NewVersion
		}
		results = append(results, res)
	}

	logger.AddToContext(ctx, logger.BatchCounts(len(results), failed)...)

	return batchResult(http.StatusOK, models.BatchResponse{Success: true, Results: results})
}

func selectItems(pending []host.Descriptor, selectors []string) []host.Descriptor {
	if len(selectors) == 0 {
		return pending
	}
	var out []host.Descriptor
	for _, d := range pending {
		if slices.Contains(selectors, d.ID) || (d.Ref != "" && slices.Contains(selectors, d.Ref)) {
			out = append(out, d)
		}
	}
	return out
}

func itemResult(category models.Category, d host.Descriptor) models.ItemResult {
	if category == models.CategoryThemes {
		return models.ItemResult{Theme: d.Name, Slug: d.ID}
	}
	return models.ItemResult{Plugin: d.Name, File: d.ID}
}

func noUpdates(category models.Category) string {
	return fmt.Sprintf("No %s updates available", category.Singular())
}

func coreResult(code int, success bool, message string) wrapper.JSONResult {
	return wrapper.JSONResult{
		Code:    code,
		Success: success,
		Message: message,
		Data:    models.UpdateCoreResponse{Success: success, Message: message},
	}
}

func batchResult(code int, body models.BatchResponse) wrapper.JSONResult {
	return wrapper.JSONResult{
		Code:    code,
		Success: body.Success,
		Message: body.Message,
		Data:    body,
	}
}
