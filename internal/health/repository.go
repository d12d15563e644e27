package health

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/docker/go-units"

	"github.com/JaimeStill/mcp-endpoints/internal/core"
	"github.com/JaimeStill/mcp-endpoints/internal/plugins"
	"github.com/JaimeStill/mcp-endpoints/internal/scheduler"
	"github.com/JaimeStill/mcp-endpoints/internal/themes"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

const maxCronEvents = 50

// Deps are the collaborators of the health system.
type Deps struct {
	Site      Site
	Core      core.System
	Plugins   plugins.System
	Themes    themes.System
	Scheduler *scheduler.Scheduler
	Database  Database
	Storage   storage.System
	Logger    *slog.Logger
}

type repo struct {
	Deps
	logger *slog.Logger
}

func New(deps Deps) System {
	return &repo{
		Deps:   deps,
		logger: deps.Logger.With("system", "health"),
	}
}

// Score converts an issue count into a score and status.
func Score(issues int) (int, string) {
	score := max(100-10*issues, 0)
	switch {
	case score >= 80:
		return score, "good"
	case score >= 60:
		return score, "warning"
	default:
		return score, "critical"
	}
}

func (r *repo) ssl() bool {
	return strings.HasPrefix(strings.ToLower(r.Site.URL), "https://")
}

func (r *repo) Check(ctx context.Context) (*Report, error) {
	version, err := r.Core.Version(ctx)
	if err != nil {
		return nil, err
	}
	pluginUpdates, err := r.Deps.Plugins.Updates(ctx)
	if err != nil {
		return nil, err
	}
	themeUpdates, err := r.Themes.Updates(ctx)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		SSL:       r.ssl(),
		Multisite: r.Site.Multisite,
		Issues:    []string{},
	}
	rep.WordPress.Version = version.WordPressVersion
	rep.WordPress.UpdateAvailable = version.UpdateAvailable
	rep.PHP.Version = runtime.Version()
	rep.PHP.MemoryLimit = r.Site.MemoryLimit
	rep.Database.Version = version.DatabaseVersion
	rep.Database.Prefix = r.Site.TablePrefix

	rep.Updates.Plugins = len(pluginUpdates)
	rep.Updates.Themes = len(themeUpdates)
	rep.Updates.Total = rep.Updates.Plugins + rep.Updates.Themes
	if version.UpdateAvailable {
		rep.Updates.Total++
	}

	rep.Debug.WPDebug = r.Site.Debug
	rep.Debug.WPDebugLog = r.Site.DebugLog
	rep.Debug.WPDebugDisplay = r.Site.DebugDisplay

	if r.Site.Debug {
		rep.Issues = append(rep.Issues, "WP_DEBUG is enabled")
	}
	if !rep.SSL {
		rep.Issues = append(rep.Issues, "Site not using HTTPS")
	}
	if rep.Updates.Total > 0 {
		rep.Issues = append(rep.Issues, fmt.Sprintf("%d updates available", rep.Updates.Total))
	}

	rep.Score, rep.Status = Score(len(rep.Issues))
	return rep, nil
}

func (r *repo) Debug(ctx context.Context) (map[string]any, error) {
	version, err := r.Core.Version(ctx)
	if err != nil {
		return nil, err
	}
	db, err := r.Database.Info(ctx)
	if err != nil {
		return nil, err
	}

	root := r.Storage.Root()
	return map[string]any{
		"wordpress": map[string]any{
			"version":         version.WordPressVersion,
			"home_url":        r.Site.URL,
			"site_url":        r.Site.URL,
			"is_multisite":    r.Site.Multisite,
			"max_upload_size": r.Site.MaxUploadSize,
			"memory_limit":    r.Site.MemoryLimit,
			"debug_mode":      r.Site.Debug,
			"cron_disabled":   r.Scheduler.Disabled(),
			"language":        r.Site.Language,
			"timezone":        r.Site.Timezone,
		},
		"server": map[string]any{
			"go_version":      runtime.Version(),
			"server_software": r.Site.ServerVersion,
			"document_root":   filepath.Dir(root),
		},
		"database": map[string]any{
			"server_version": db.ServerVersion,
			"database_name":  db.Name,
			"table_prefix":   r.Site.TablePrefix,
			"charset":        db.Charset,
			"collate":        db.Collate,
		},
		"paths": map[string]string{
			"wordpress": filepath.Dir(root),
			"content":   root,
			"plugins":   filepath.Join(root, "plugins"),
			"uploads":   filepath.Join(root, "uploads"),
			"themes":    filepath.Join(root, "themes"),
		},
		"constants": map[string]bool{
			"WP_DEBUG":         r.Site.Debug,
			"WP_DEBUG_LOG":     r.Site.DebugLog,
			"WP_DEBUG_DISPLAY": r.Site.DebugDisplay,
			"SCRIPT_DEBUG":     r.Site.ScriptDebug,
			"DISABLE_WP_CRON":  r.Scheduler.Disabled(),
			"MULTISITE":        r.Site.Multisite,
		},
	}, nil
}

func (r *repo) Runtime() *RuntimeInfo {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	info := &RuntimeInfo{
		Version:       runtime.Version(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
		CPUs:          runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		Goroutines:    runtime.NumGoroutine(),
		MemoryLimit:   r.Site.MemoryLimit,
		MemoryUsage:   units.BytesSize(float64(mem.Alloc)),
		HeapSys:       units.BytesSize(float64(mem.HeapSys)),
		GCCycles:      mem.NumGC,
		UploadMaxSize: units.BytesSize(float64(r.Site.MaxUploadSize)),
		Settings:      map[string]string{},
		Extensions:    []string{},
	}

	if build, ok := debug.ReadBuildInfo(); ok {
		info.Module = build.Main.Path
		for _, s := range build.Settings {
			info.Settings[s.Key] = s.Value
		}
		for _, dep := range build.Deps {
			info.Extensions = append(info.Extensions, dep.Path+"@"+dep.Version)
		}
		sort.Strings(info.Extensions)
	}
	return info
}

func (r *repo) Plugins(ctx context.Context) (*PluginReport, error) {
	if _, err := r.Deps.Plugins.CheckUpdates(ctx); err != nil {
		r.logger.Warn("plugin update check failed", "error", err)
	}
	updates, err := r.Deps.Plugins.Updates(ctx)
	if err != nil {
		return nil, err
	}
	installed, err := r.Deps.Plugins.List(ctx)
	if err != nil {
		return nil, err
	}

	rep := &PluginReport{Plugins: make([]PluginStatus, 0, len(installed))}
	for _, p := range installed {
		status := PluginStatus{
			File:    p.File,
			Name:    p.Name,
			Version: p.Version,
			Active:  p.Active,
		}
		if u, ok := updates[p.File]; ok {
			status.UpdateAvailable = true
			status.NewVersion = &u.NewVersion
		}
		if p.Active {
			rep.Active++
		}
		rep.Plugins = append(rep.Plugins, status)
	}
	rep.Total = len(rep.Plugins)
	rep.Inactive = rep.Total - rep.Active
	rep.UpdatesAvailable = len(updates)
	return rep, nil
}

func (r *repo) Cron(ctx context.Context) (*CronReport, error) {
	events, err := r.Scheduler.Events(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []scheduler.Event{}
	}
	return &CronReport{
		CronDisabled: r.Scheduler.Disabled(),
		Schedules:    r.Scheduler.Schedules(),
		Events:       events[:min(len(events), maxCronEvents)],
		TotalEvents:  len(events),
	}, nil
}

func (r *repo) RunCron(ctx context.Context, hook string) error {
	if err := r.Scheduler.Run(ctx, hook); err != nil {
		return err
	}
	r.logger.Info("cron hook run", "hook", hook)
	return nil
}
