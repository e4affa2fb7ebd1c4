package usecase

import (
	"context"
	"fmt"

	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/internal/server/agent/host"
)

// CheckUpdates forces the host to refresh its update metadata and projects
// the three pending lists into an inventory. Nothing is cached.
func (uc *UseCase) CheckUpdates(ctx context.Context) (models.UpdateInventory, error) {
	if err := uc.host.Refresh(ctx); err != nil {
		return models.UpdateInventory{}, fmt.Errorf("refresh: %w", err)
	}

	var inv models.UpdateInventory

	core, err := uc.pendingCore(ctx)
	if err != nil {
		return models.UpdateInventory{}, err
	}
	inv.Core = core

	plugins, err := uc.pending(ctx, models.CategoryPlugins)
	if err != nil {
		return models.UpdateInventory{}, err
	}
	inv.Plugins = make([]models.PluginUpdate, 0, len(plugins))
	for _, d := range plugins {
		inv.Plugins = append(inv.Plugins, models.PluginUpdate{
			File:       d.ID,
			Name:       d.Name,
			Version:    d.Version,
			NewVersion: d.NewVersion,
		})
	}

	themes, err := uc.pending(ctx, models.CategoryThemes)
	if err != nil {
		return models.UpdateInventory{}, err
	}
	inv.Themes = make([]models.ThemeUpdate, 0, len(themes))
	for _, d := range themes {
		inv.Themes = append(inv.Themes, models.ThemeUpdate{
			Slug:       d.ID,
			Name:       d.Name,
			Version:    d.Version,
			NewVersion: d.NewVersion,
		})
	}

	return inv, nil
}

// pendingCore returns the core descriptor, or nil when the host reports it
// is already on the latest release.
func (uc *UseCase) pendingCore(ctx context.Context) (*models.CoreUpdate, error) {
	d, err := uc.coreDescriptor(ctx)
	if err != nil || d == nil {
		return nil, err
	}
	return &models.CoreUpdate{
		Version:        d.NewVersion,
		CurrentVersion: d.Version,
		Response:       d.Response,
	}, nil
}

func (uc *UseCase) coreDescriptor(ctx context.Context) (*host.Descriptor, error) {
	list, err := uc.host.ListPending(ctx, models.CategoryCore)
	if err != nil {
		return nil, fmt.Errorf("list pending core update: %w", err)
	}
	if len(list) == 0 || list[0].Response == host.ResponseLatest {
		return nil, nil
	}
	d := list[0]
	return &d, nil
}

// pending lists plugin or theme items that actually carry an available version.
// Items without a display name go by their identifier.
func (uc *UseCase) pending(ctx context.Context, category models.Category) ([]host.Descriptor, error) {
	list, err := uc.host.ListPending(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list pending %s updates: %w", category.Singular(), err)
	}
	out := list[:0:0]
	for _, d := range list {
		if d.NewVersion == "" {
			continue
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		out = append(out, d)
	}
	return out, nil
}
