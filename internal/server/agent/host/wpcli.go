package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/pkg/logger"
)

// Runner executes the WP-CLI binary with args and returns its stdout.
type Runner func(ctx context.Context, bin string, args ...string) ([]byte, error)

type WPCLIConfig struct {
	Bin       string
	Path      string
	AllowRoot bool
}

// WPCLI drives a WordPress installation through WP-CLI.
type WPCLI struct {
	cfg    WPCLIConfig
	run    Runner
	logger *logger.CanonicalLogger
}

func NewWPCLI(cfg WPCLIConfig, log *logger.CanonicalLogger) *WPCLI {
	if cfg.Bin == "" {
		cfg.Bin = "wp"
	}
	return &WPCLI{cfg: cfg, run: execRunner, logger: log.Component("wpcli")}
}

// WithRunner swaps the process runner. Used by tests.
func (w *WPCLI) WithRunner(r Runner) *WPCLI {
	w.run = r
	return w
}

const refreshScript = `delete_site_transient('update_core');` +
	`delete_site_transient('update_plugins');` +
	`delete_site_transient('update_themes');` +
	`wp_version_check(array(), true);wp_update_plugins();wp_update_themes();`

func (w *WPCLI) Refresh(ctx context.Context) error {
	_, err := w.wp(ctx, "eval", refreshScript)
	return err
}

func (w *WPCLI) Version(ctx context.Context) (string, error) {
	out, err := w.wp(ctx, "core", "version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

type cliCoreUpdate struct {
	Version    string `json:"version"`
	UpdateType string `json:"update_type"`
}

type cliItem struct {
	Name          string `json:"name"`
	Title         string `json:"title"`
	Version       string `json:"version"`
	UpdateVersion string `json:"update_version"`
	File          string `json:"file"`
}

func (w *WPCLI) ListPending(ctx context.Context, category models.Category) ([]Descriptor, error) {
	switch category {
	case models.CategoryCore:
		return w.pendingCore(ctx)
	case models.CategoryPlugins:
		return w.pendingItems(ctx, "plugin", "name,title,version,update_version,file")
	case models.CategoryThemes:
		return w.pendingItems(ctx, "theme", "name,title,version,update_version")
	}
	return nil, fmt.Errorf("unknown update category %q", category)
}

func (w *WPCLI) pendingCore(ctx context.Context) ([]Descriptor, error) {
	out, err := w.wp(ctx, "core", "check-update", "--format=json")
	if err != nil {
		return nil, err
	}

	// an up-to-date install prints a success line instead of JSON
	out = bytes.TrimSpace(out)
	if len(out) == 0 || out[0] != '[' {
		return nil, nil
	}

	var updates []cliCoreUpdate
	if err := json.Unmarshal(out, &updates); err != nil {
		return nil, fmt.Errorf("parse core check-update output: %w", err)
	}
	if len(updates) == 0 {
		return nil, nil
	}

	current, err := w.Version(ctx)
	if err != nil {
		return nil, err
	}

	return []Descriptor{{
		ID:         string(models.CategoryCore),
		Name:       "WordPress",
		Version:    current,
		NewVersion: updates[0].Version,
		Response:   "upgrade",
	}}, nil
}

func (w *WPCLI) pendingItems(ctx context.Context, kind, fields string) ([]Descriptor, error) {
	out, err := w.wp(ctx, kind, "list", "--update=available", "--fields="+fields, "--format=json")
	if err != nil {
		return nil, err
	}

	var items []cliItem
	if err := json.Unmarshal(bytes.TrimSpace(out), &items); err != nil {
		return nil, fmt.Errorf("parse %s list output: %w", kind, err)
	}

	pending := make([]Descriptor, 0, len(items))
	for _, it := range items {
		if it.UpdateVersion == "" {
			continue
		}
		d := Descriptor{
			ID:         it.Name,
			Name:       it.Title,
			Version:    it.Version,
			NewVersion: it.UpdateVersion,
			Ref:        it.Name,
		}
		if kind == "plugin" && it.File != "" {
			d.ID = it.File
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		pending = append(pending, d)
	}
	return pending, nil
}

func (w *WPCLI) Apply(ctx context.Context, category models.Category, item Descriptor) error {
	switch category {
	case models.CategoryCore:
		args := []string{"core", "update"}
		if item.NewVersion != "" {
			args = append(args, "--version="+item.NewVersion)
		}
		if _, err := w.wp(ctx, args...); err != nil {
			return err
		}
		_, err := w.wp(ctx, "core", "update-db")
		return err
	case models.CategoryPlugins:
		_, err := w.wp(ctx, "plugin", "update", refOf(item))
		return err
	case models.CategoryThemes:
		_, err := w.wp(ctx, "theme", "update", refOf(item))
		return err
	}
	return fmt.Errorf("unknown update category %q", category)
}

func refOf(item Descriptor) string {
	if item.Ref != "" {
		return item.Ref
	}
	// "akismet/akismet.php" -> "akismet"
	slug, _, _ := strings.Cut(item.ID, "/")
	return strings.TrimSuffix(slug, ".php")
}

func (w *WPCLI) wp(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"--path=" + w.cfg.Path, "--no-color"}, args...)
	if w.cfg.AllowRoot {
		full = append(full, "--allow-root")
	}

	w.logger.Debug("running wp-cli", logger.Strings("args", args))
	out, err := w.run(ctx, w.cfg.Bin, full...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ErrBinaryNotFound is returned when the WP-CLI binary cannot be executed at all.
var ErrBinaryNotFound = errors.New("wp-cli binary not found")

func execRunner(ctx context.Context, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBinaryNotFound, bin)
		}
		return nil, cliError(stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

// cliError turns WP-CLI's "Error: ..." stderr into the host's error text.
func cliError(stderr string, err error) error {
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if msg, ok := strings.CutPrefix(line, "Error: "); ok {
			return errors.New(msg)
		}
	}
	if s := strings.TrimSpace(stderr); s != "" {
		return errors.New(s)
	}
	return err
}
