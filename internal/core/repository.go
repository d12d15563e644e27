package core

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/go-units"

	"github.com/JaimeStill/mcp-endpoints/internal/options"
	"github.com/JaimeStill/mcp-endpoints/internal/plugins"
	"github.com/JaimeStill/mcp-endpoints/internal/themes"
	"github.com/JaimeStill/mcp-endpoints/internal/upgrader"
	"github.com/JaimeStill/mcp-endpoints/internal/wporg"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

const (
	versionOption   = "wp_version"
	transientOption = "_site_transient_update_core"
	rewriteOption   = "rewrite_rules"
)

// Deps are the collaborators of the core system.
type Deps struct {
	Site     Site
	Stats    Stats
	Options  options.System
	Plugins  plugins.System
	Themes   themes.System
	Storage  storage.System
	Dir      wporg.Directory
	Upgrader *upgrader.Upgrader
	Logger   *slog.Logger
}

type repo struct {
	Deps
	logger *slog.Logger
}

type coreTransient struct {
	LastChecked    int64             `json:"last_checked"`
	VersionChecked string            `json:"version_checked"`
	Updates        []wporg.CoreOffer `json:"updates"`
}

func New(deps Deps) System {
	return &repo{
		Deps:   deps,
		logger: deps.Logger.With("system", "core"),
	}
}

// installed returns the recorded core version, falling back to the configured one.
func (r *repo) installed(ctx context.Context) (string, error) {
	var v string
	ok, err := r.Options.Decode(ctx, versionOption, &v)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return r.Site.Version, nil
	}
	return v, nil
}

func (r *repo) Version(ctx context.Context) (*VersionInfo, error) {
	current, err := r.installed(ctx)
	if err != nil {
		return nil, err
	}
	dbVersion, err := r.Stats.DatabaseVersion(ctx)
	if err != nil {
		return nil, err
	}

	info := &VersionInfo{
		WordPressVersion: current,
		GoVersion:        runtime.Version(),
		PHPVersion:       runtime.Version(),
		DatabaseVersion:  dbVersion,
		RequiredPHP:      r.Site.RequiredPHP,
		RequiredMySQL:    r.Site.RequiredMySQL,
		Multisite:        r.Site.Multisite,
	}

	offer, err := r.cachedOffer(ctx, current)
	if err != nil {
		return nil, err
	}
	if offer != nil {
		info.UpdateAvailable = true
		info.LatestVersion = offer.Version
	} else {
		info.LatestVersion = current
	}
	return info, nil
}

func (r *repo) CheckUpdates(ctx context.Context) (*UpdateCheck, error) {
	current, err := r.installed(ctx)
	if err != nil {
		return nil, err
	}

	offer, err := r.refresh(ctx, current)
	if err != nil {
		return nil, err
	}

	check := &UpdateCheck{}
	if offer != nil {
		v := offer.Version
		check.Core = &v
	}

	if check.Plugins, err = r.Plugins.CheckUpdates(ctx); err != nil {
		return nil, err
	}
	if check.Themes, err = r.Themes.CheckUpdates(ctx); err != nil {
		return nil, err
	}

	r.logger.Info("update check complete", "core", offer != nil, "plugins", check.Plugins, "themes", check.Themes)
	return check, nil
}

func (r *repo) Update(ctx context.Context) (*UpdateResult, error) {
	if r.Site.DisallowUpdates {
		return nil, ErrUpdatesDisabled
	}

	current, err := r.installed(ctx)
	if err != nil {
		return nil, err
	}

	offer, err := r.refresh(ctx, current)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return &UpdateResult{Updated: false, Message: "WordPress is already up to date"}, nil
	}

	if err := r.Upgrader.Upgrade(ctx, offer.Package(), "core", "wordpress", &upgrader.QuietSkin{}); err != nil {
		return nil, err
	}
	if _, err := r.Options.Set(ctx, versionOption, offer.Version, true); err != nil {
		return nil, err
	}
	if _, err := r.refresh(ctx, offer.Version); err != nil {
		r.logger.Warn("refresh after core update failed", "error", err)
	}

	r.logger.Info("core updated", "from", current, "to", offer.Version)
	return &UpdateResult{Updated: true, Version: offer.Version}, nil
}

func (r *repo) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	current, err := r.installed(ctx)
	if err != nil {
		return nil, err
	}
	dbVersion, err := r.Stats.DatabaseVersion(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := r.Stats.Counts(ctx)
	if err != nil {
		return nil, err
	}

	installedPlugins, err := r.Plugins.List(ctx)
	if err != nil {
		return nil, err
	}
	installedThemes, err := r.Themes.List(ctx)
	if err != nil {
		return nil, err
	}
	counts.Plugins = len(installedPlugins)
	counts.Themes = len(installedThemes)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	info := &SystemInfo{Counts: counts}
	info.WordPress.Version = current
	info.WordPress.URL = r.Site.URL
	info.WordPress.AdminURL = r.Site.AdminURL
	info.WordPress.Multisite = r.Site.Multisite
	info.WordPress.Debug = r.Site.Debug
	info.WordPress.Language = r.Site.Locale
	info.WordPress.Timezone = r.Site.Timezone

	info.Server.Software = "Go net/http"
	info.Server.GoVersion = runtime.Version()
	info.Server.OS = runtime.GOOS
	info.Server.Arch = runtime.GOARCH
	info.Server.CPUs = runtime.NumCPU()
	info.Server.DatabaseVersion = dbVersion
	info.Server.MemoryLimit = r.Site.MemoryLimit
	info.Server.MemoryUsage = units.BytesSize(float64(mem.Alloc))
	info.Server.MaxUploadSize = units.BytesSize(float64(r.Site.MaxUploadSize))

	root := r.Storage.Root()
	info.Paths.Root = filepath.Dir(root)
	info.Paths.Content = root
	info.Paths.Plugins = filepath.Join(root, "plugins")
	info.Paths.Themes = filepath.Join(root, "themes")
	info.Paths.Uploads = filepath.Join(root, "uploads")

	return info, nil
}

func (r *repo) FlushRewrite(ctx context.Context) error {
	err := r.Options.Delete(ctx, rewriteOption)
	if err != nil && !errors.Is(err, options.ErrNotFound) {
		return err
	}
	r.logger.Info("rewrite rules flushed")
	return nil
}

func (r *repo) FlushCache(ctx context.Context) (int64, error) {
	n, err := r.Options.DeletePrefixed(ctx, "_transient_", "_site_transient_")
	if err != nil {
		return 0, err
	}
	r.logger.Info("transients flushed", "deleted", n)
	return n, nil
}

// refresh queries the directory, records the result in the core transient and
// returns the newest offer above current, if any.
func (r *repo) refresh(ctx context.Context, current string) (*wporg.CoreOffer, error) {
	offers, err := r.Dir.CoreVersionCheck(ctx, current, r.Site.Locale)
	if err != nil {
		return nil, err
	}

	t := coreTransient{
		LastChecked:    time.Now().Unix(),
		VersionChecked: current,
		Updates:        offers,
	}
	if _, err := r.Options.Set(ctx, transientOption, t, false); err != nil {
		return nil, err
	}
	return LatestOffer(offers, current), nil
}

func (r *repo) cachedOffer(ctx context.Context, current string) (*wporg.CoreOffer, error) {
	var t coreTransient
	if _, err := r.Options.Decode(ctx, transientOption, &t); err != nil {
		return nil, err
	}
	return LatestOffer(t.Updates, current), nil
}

// LatestOffer returns the highest upgrade offer newer than current, or nil.
func LatestOffer(offers []wporg.CoreOffer, current string) *wporg.CoreOffer {
	var best *wporg.CoreOffer
	for i := range offers {
		o := &offers[i]
		if o.Response != "upgrade" && o.Response != "autoupdate" {
			continue
		}
		if wporg.CompareVersions(o.Version, current) <= 0 {
			continue
		}
		if best == nil || wporg.CompareVersions(o.Version, best.Version) > 0 {
			best = o
		}
	}
	return best
}
