// Package host abstracts the content-management runtime the agent is
// embedded in. The agent only ever asks it to refresh its update metadata,
// list what is pending and apply one item.
package host

import (
	"context"

	"github.com/Alwanly/service-remote-update/internal/models"
)

// ResponseLatest is the core descriptor response meaning "nothing to do".
const ResponseLatest = "latest"

// Descriptor is one pending update as reported by the host.
type Descriptor struct {
	// ID is the identifier exposed over the API: plugin file, theme slug,
	// or "core".
	ID   string
	Name string
	// Version is the installed version, NewVersion the one on offer.
	Version    string
	NewVersion string
	// Response is only set for core ("upgrade", "latest", ...).
	Response string
	// Ref is an optional host-specific handle used by Apply.
	Ref string
}

// Runtime is the capability set the update detector and executor need.
type Runtime interface {
	// Refresh forces the host to re-fetch available update metadata.
	Refresh(ctx context.Context) error
	// Version returns the installed core version.
	Version(ctx context.Context) (string, error)
	// ListPending returns the items of a category that have update metadata
	// attached. An empty list is the normal steady state.
	ListPending(ctx context.Context, category models.Category) ([]Descriptor, error)
	// Apply upgrades a single item. The returned error text is reported
	// verbatim to the controller.
	Apply(ctx context.Context, category models.Category, item Descriptor) error
}
