package api

import (
	"runtime"

	"github.com/JaimeStill/mcp-endpoints/internal/config"
	"github.com/JaimeStill/mcp-endpoints/internal/core"
	"github.com/JaimeStill/mcp-endpoints/internal/cpt"
	"github.com/JaimeStill/mcp-endpoints/internal/dbadmin"
	"github.com/JaimeStill/mcp-endpoints/internal/health"
	"github.com/JaimeStill/mcp-endpoints/internal/media"
	"github.com/JaimeStill/mcp-endpoints/internal/menus"
	"github.com/JaimeStill/mcp-endpoints/internal/options"
	"github.com/JaimeStill/mcp-endpoints/internal/plugins"
	"github.com/JaimeStill/mcp-endpoints/internal/scheduler"
	"github.com/JaimeStill/mcp-endpoints/internal/taxonomies"
	"github.com/JaimeStill/mcp-endpoints/internal/themes"
	"github.com/JaimeStill/mcp-endpoints/internal/users"
	"github.com/JaimeStill/mcp-endpoints/internal/widgets"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Options    options.System
	Plugins    plugins.System
	Themes     themes.System
	Core       core.System
	Database   dbadmin.System
	PostTypes  cpt.System
	Taxonomies taxonomies.System
	Users      users.System
	Menus      menus.System
	Widgets    widgets.System
	Media      media.System
	Health     health.System
	Scheduler  *scheduler.Scheduler
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(rt *Runtime, cfg *config.Config) *Domain {
	db := rt.Database.Connection()
	site := cfg.Site

	optionsSys := options.New(db, rt.Logger)

	pluginsSys := plugins.New(rt.Storage, optionsSys, rt.Directory, rt.Upgrader, rt.Logger)
	themesSys := themes.New(rt.Storage, optionsSys, rt.Directory, rt.Upgrader, rt.Logger)

	coreSys := core.New(core.Deps{
		Site: core.Site{
			URL:             site.URL,
			AdminURL:        site.AdminURL(),
			Version:         site.Version,
			RequiredPHP:     site.RequiredPHP,
			RequiredMySQL:   site.RequiredMySQL,
			Locale:          site.Language,
			Timezone:        site.Timezone,
			MemoryLimit:     site.MemoryLimit,
			Multisite:       site.Multisite,
			Debug:           site.Debug,
			DisallowUpdates: site.DisallowUpdates,
			MaxUploadSize:   cfg.Storage.MaxUploadSizeBytes(),
		},
		Stats:    core.NewStats(db),
		Options:  optionsSys,
		Plugins:  pluginsSys,
		Themes:   themesSys,
		Storage:  rt.Storage,
		Dir:      rt.Directory,
		Upgrader: rt.Upgrader,
		Logger:   rt.Logger,
	})

	sched := scheduler.New(optionsSys, rt.Registry, scheduler.Config{
		Disabled: cfg.Cron.Disabled,
		Tick:     cfg.Cron.TickDuration(),
	}, rt.Logger)

	var notifier users.Notifier
	if site.NotifyNewUsers {
		notifier = users.NewLogNotifier(rt.Logger)
	}

	thumbs := media.NewThumbnailer(rt.Storage, rt.Registry.ImageSizes(), rt.Logger)
	mediaSys := media.New(db, rt.Storage, thumbs, rt.Directory, media.Config{
		SiteURL:       site.URL,
		UploadURL:     cfg.Storage.BaseURL + "/uploads",
		MaxUploadSize: cfg.Storage.MaxUploadSizeBytes(),
	}, rt.Logger)

	healthSys := health.New(health.Deps{
		Site: health.Site{
			URL:           site.URL,
			ServerVersion: "Go " + runtime.Version(),
			TablePrefix:   site.TablePrefix,
			Debug:         site.Debug,
			DebugLog:      site.DebugLog,
			DebugDisplay:  site.DebugDisplay,
			ScriptDebug:   site.ScriptDebug,
			Multisite:     site.Multisite,
			Language:      site.Language,
			Timezone:      site.Timezone,
			MemoryLimit:   site.MemoryLimit,
			MaxUploadSize: cfg.Storage.MaxUploadSizeBytes(),
		},
		Core:      coreSys,
		Plugins:   pluginsSys,
		Themes:    themesSys,
		Scheduler: sched,
		Database:  health.NewDatabase(db),
		Storage:   rt.Storage,
		Logger:    rt.Logger,
	})

	return &Domain{
		Options:    optionsSys,
		Plugins:    pluginsSys,
		Themes:     themesSys,
		Core:       coreSys,
		Database:   dbadmin.New(db, site.TablePrefix, rt.Logger),
		PostTypes:  cpt.New(db, rt.Registry, site.URL, rt.Logger),
		Taxonomies: taxonomies.New(db, rt.Registry, rt.Logger),
		Users:      users.New(db, rt.Registry, notifier, rt.Logger),
		Menus:      menus.New(db, rt.Registry, optionsSys, site.URL, rt.Logger),
		Widgets:    widgets.New(optionsSys, rt.Registry, rt.Logger),
		Media:      mediaSys,
		Health:     healthSys,
		Scheduler:  sched,
	}
}
