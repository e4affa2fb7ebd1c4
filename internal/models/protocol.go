package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultAPIPrefix is where the agent mounts its update API. It matches the
// REST namespace of the PHP plugin so either agent can be managed.
const DefaultAPIPrefix = "/wp-json/remote-update/v1"

const (
	RouteStatus        = "/status"
	RouteUpdateCore    = "/update-core"
	RouteUpdatePlugins = "/update-plugins"
	RouteUpdateThemes  = "/update-themes"
)

// Authentication failure codes returned by the agent.
const (
	CodeMissingToken  = "missing_token"
	CodeInvalidToken  = "invalid_token"
	CodeHTTPSRequired = "https_required"
)

// CoreUpdate describes a pending core update.
type CoreUpdate struct {
	Version        string `json:"version"`
	CurrentVersion string `json:"current_version"`
	Response       string `json:"response"`
}

type PluginUpdate struct {
	File       string `json:"file"`
	Name       string `json:"name"`
	Version    string `json:"version"`
	NewVersion string `json:"new_version"`
}

type ThemeUpdate struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Version    string `json:"version"`
	NewVersion string `json:"new_version"`
}

// UpdateInventory is the point-in-time answer to "what can be updated".
// Core is nil when the host is already on the latest version; on the wire
// that is encoded as false.
type UpdateInventory struct {
	Core    *CoreUpdate    `json:"core"`
	Plugins []PluginUpdate `json:"plugins"`
	Themes  []ThemeUpdate  `json:"themes"`
}

type wireInventory struct {
	Core    json.RawMessage `json:"core"`
	Plugins []PluginUpdate  `json:"plugins"`
	Themes  []ThemeUpdate   `json:"themes"`
}

func (u UpdateInventory) MarshalJSON() ([]byte, error) {
	w := wireInventory{Plugins: u.Plugins, Themes: u.Themes, Core: json.RawMessage("false")}
	if w.Plugins == nil {
		w.Plugins = []PluginUpdate{}
	}
	if w.Themes == nil {
		w.Themes = []ThemeUpdate{}
	}
	if u.Core != nil {
		b, err := json.Marshal(u.Core)
		if err != nil {
			return nil, err
		}
		w.Core = b
	}
	return json.Marshal(w)
}

func (u *UpdateInventory) UnmarshalJSON(b []byte) error {
	var w wireInventory
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	u.Plugins = w.Plugins
	u.Themes = w.Themes
	u.Core = nil

	raw := bytes.TrimSpace(w.Core)
	if len(raw) == 0 || bytes.Equal(raw, []byte("false")) || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var core CoreUpdate
	if err := json.Unmarshal(raw, &core); err != nil {
		return fmt.Errorf("decode core update: %w", err)
	}
	u.Core = &core
	return nil
}

// Empty reports whether nothing at all is pending.
func (u UpdateInventory) Empty() bool {
	return u.Core == nil && len(u.Plugins) == 0 && len(u.Themes) == 0
}

type StatusData struct {
	WordPressVersion string          `json:"wordpress_version"`
	Updates          UpdateInventory `json:"updates"`
}

type StatusResponse struct {
	Success bool       `json:"success"`
	Data    StatusData `json:"data"`
}

type UpdateCoreResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ItemResult is the outcome of applying one plugin or theme update.
type ItemResult struct {
	Plugin  string `json:"plugin,omitempty"`
	File    string `json:"file,omitempty"`
	Theme   string `json:"theme,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BatchResponse is the plugin/theme response. Success is true once the batch
// was attempted; callers read Results[i].Success for per-item outcomes.
type BatchResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Results []ItemResult `json:"results,omitempty"`
}

type UpdatePluginsRequest struct {
	Plugins Selectors `json:"plugins,omitempty"`
}

type UpdateThemesRequest struct {
	Themes Selectors `json:"themes,omitempty"`
}

// Selectors is a list of identifiers that also accepts a single scalar
// string on decode.
type Selectors []string

func (s *Selectors) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*s = nil
		return nil
	}

	if raw[0] == '"' {
		var one string
		if err := json.Unmarshal(raw, &one); err != nil {
			return err
		}
		if one == "" {
			*s = nil
			return nil
		}
		*s = Selectors{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return fmt.Errorf("selectors must be a string or a list of strings: %w", err)
	}
	out := make(Selectors, 0, len(many))
	for _, v := range many {
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		out = nil
	}
	*s = out
	return nil
}
