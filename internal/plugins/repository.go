package plugins

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/JaimeStill/mcp-endpoints/internal/options"
	"github.com/JaimeStill/mcp-endpoints/internal/upgrader"
	"github.com/JaimeStill/mcp-endpoints/internal/wporg"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

const (
	root            = "plugins"
	activeOption    = "active_plugins"
	transientOption = "_site_transient_update_plugins"
)

type repo struct {
	store    storage.System
	opts     options.System
	dir      wporg.Directory
	upgrader *upgrader.Upgrader
	logger   *slog.Logger
}

// New creates the plugin system.
func New(store storage.System, opts options.System, dir wporg.Directory, up *upgrader.Upgrader, logger *slog.Logger) System {
	return &repo{
		store:    store,
		opts:     opts,
		dir:      dir,
		upgrader: up,
		logger:   logger.With("system", "plugins"),
	}
}

func (r *repo) List(ctx context.Context) ([]Plugin, error) {
	installed, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}

	active, err := r.active(ctx)
	if err != nil {
		return nil, err
	}
	updates, err := r.Updates(ctx)
	if err != nil {
		return nil, err
	}

	for i := range installed {
		p := &installed[i]
		p.Active = slices.Contains(active, p.File)
		if u, ok := updates[p.File]; ok && wporg.CompareVersions(u.NewVersion, p.Version) > 0 {
			p.UpdateAvailable = true
			p.NewVersion = u.NewVersion
		}
	}
	return installed, nil
}

func (r *repo) Find(ctx context.Context, file string) (*Plugin, error) {
	if err := validateFile(file); err != nil {
		return nil, err
	}

	data, err := r.store.Retrieve(ctx, path.Join(root, file))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, handlers.Host(handlers.ErrStorage, err)
	}

	p, ok := parsePlugin(file, data)
	if !ok {
		return nil, ErrNoHeader
	}

	active, err := r.active(ctx)
	if err != nil {
		return nil, err
	}
	p.Active = slices.Contains(active, file)
	return &p, nil
}

func (r *repo) Install(ctx context.Context, slug string, activate bool) (*InstallResult, error) {
	info, err := r.dir.PluginInformation(ctx, slug)
	if errors.Is(err, wporg.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	skin := &upgrader.QuietSkin{}
	dest, err := r.upgrader.Install(ctx, info.DownloadLink, root, info.Slug, skin)
	if err != nil {
		return nil, err
	}

	file, err := r.mainFile(ctx, dest)
	if err != nil {
		return nil, err
	}

	result := &InstallResult{
		Installed: true,
		Plugin:    file,
		Name:      info.Name,
		Version:   info.Version,
	}

	if activate {
		if err := r.Activate(ctx, file); err != nil {
			result.ActivationError = handlers.AsError(err, 0).Message
		} else {
			result.Activated = true
		}
	}

	r.logger.Info("plugin installed", "plugin", file, "version", info.Version, "activated", result.Activated)
	return result, nil
}

func (r *repo) Update(ctx context.Context, file string) (bool, error) {
	p, err := r.Find(ctx, file)
	if err != nil {
		return false, err
	}

	update, err := r.checkOne(ctx, *p)
	if err != nil {
		return false, err
	}
	if update == nil {
		return false, nil
	}

	if err := r.upgrade(ctx, *update); err != nil {
		return false, err
	}
	return true, nil
}

func (r *repo) UpdateAll(ctx context.Context) (*BulkResult, error) {
	if _, err := r.CheckUpdates(ctx); err != nil {
		return nil, err
	}
	updates, err := r.Updates(ctx)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{Updated: []string{}}
	if len(updates) == 0 {
		result.Message = "All plugins are up to date"
		return result, nil
	}

	files := make([]string, 0, len(updates))
	for file := range updates {
		files = append(files, file)
	}
	sort.Strings(files)

	result.Failed = []string{}
	for _, file := range files {
		if err := r.upgrade(ctx, updates[file]); err != nil {
			r.logger.Warn("plugin upgrade failed", "plugin", file, "error", err)
			result.Failed = append(result.Failed, file)
			continue
		}
		result.Updated = append(result.Updated, file)
	}
	return result, nil
}

func (r *repo) Search(ctx context.Context, search string, perPage int) (*SearchResult, error) {
	res, err := r.dir.QueryPlugins(ctx, search, perPage)
	if err != nil {
		return nil, err
	}

	out := &SearchResult{Total: res.Info.Results, Plugins: make([]SearchPlugin, 0, len(res.Plugins))}
	for _, p := range res.Plugins {
		out.Plugins = append(out.Plugins, SearchPlugin{
			Name:           p.Name,
			Slug:           p.Slug,
			Version:        p.Version,
			Author:         wporg.StripTags(p.Author),
			Rating:         p.Rating,
			ActiveInstalls: p.ActiveInstalls,
			Description:    p.ShortDescription,
		})
	}
	return out, nil
}

func (r *repo) Activate(ctx context.Context, file string) error {
	if _, err := r.Find(ctx, file); err != nil {
		return err
	}

	err := r.updateActive(ctx, func(active []string) ([]string, bool) {
		if slices.Contains(active, file) {
			return nil, false
		}
		active = append(active, file)
		sort.Strings(active)
		return active, true
	})
	if err != nil {
		return err
	}

	r.logger.Info("plugin activated", "plugin", file)
	return nil
}

func (r *repo) Deactivate(ctx context.Context, file string) error {
	if err := validateFile(file); err != nil {
		return err
	}

	err := r.updateActive(ctx, func(active []string) ([]string, bool) {
		idx := slices.Index(active, file)
		if idx < 0 {
			return nil, false
		}
		return slices.Delete(active, idx, idx+1), true
	})
	if err != nil {
		return err
	}

	r.logger.Info("plugin deactivated", "plugin", file)
	return nil
}

func (r *repo) Delete(ctx context.Context, file string) error {
	p, err := r.Find(ctx, file)
	if err != nil {
		return err
	}
	if p.Active {
		return ErrActive
	}

	dir, _ := path.Split(file)
	if dir == "" {
		err = r.store.Delete(ctx, path.Join(root, file))
	} else {
		err = r.store.DeletePrefix(ctx, path.Join(root, dir))
	}
	if err != nil {
		return handlers.Host(handlers.ErrStorage, err)
	}

	r.editTransient(ctx, func(t *updateTransient) {
		delete(t.Response, file)
		delete(t.NoUpdate, file)
		delete(t.Checked, file)
	})

	r.logger.Info("plugin deleted", "plugin", file)
	return nil
}

func (r *repo) CheckUpdates(ctx context.Context) (int, error) {
	installed, err := r.scan(ctx)
	if err != nil {
		return 0, err
	}

	t := updateTransient{
		LastChecked: time.Now().Unix(),
		Checked:     make(map[string]string, len(installed)),
		Response:    make(map[string]Update),
		NoUpdate:    make(map[string]Update),
	}

	for _, p := range installed {
		t.Checked[p.File] = p.Version
		update, err := r.checkOne(ctx, p)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				r.logger.Warn("plugin update check failed", "plugin", p.File, "error", err)
			}
			continue
		}
		if update != nil {
			t.Response[p.File] = *update
		} else {
			t.NoUpdate[p.File] = Update{Slug: slugOf(p.File), Plugin: p.File, NewVersion: p.Version}
		}
	}

	if _, err := r.opts.Set(ctx, transientOption, t, false); err != nil {
		return 0, err
	}
	return len(t.Response), nil
}

func (r *repo) Updates(ctx context.Context) (map[string]Update, error) {
	var t updateTransient
	if _, err := r.opts.Decode(ctx, transientOption, &t); err != nil {
		return nil, err
	}
	if t.Response == nil {
		return map[string]Update{}, nil
	}
	return t.Response, nil
}

func (r *repo) checkOne(ctx context.Context, p Plugin) (*Update, error) {
	info, err := r.dir.PluginInformation(ctx, slugOf(p.File))
	if errors.Is(err, wporg.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if wporg.CompareVersions(info.Version, p.Version) <= 0 {
		return nil, nil
	}
	return &Update{
		Slug:       info.Slug,
		Plugin:     p.File,
		NewVersion: info.Version,
		Package:    info.DownloadLink,
		URL:        info.Homepage,
	}, nil
}

func (r *repo) upgrade(ctx context.Context, u Update) error {
	dir, _ := path.Split(u.Plugin)
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" {
		return ErrInvalidPluginFile.Withf("Single-file plugins cannot be upgraded from a package: %s", u.Plugin)
	}

	skin := &upgrader.QuietSkin{}
	if err := r.upgrader.Upgrade(ctx, u.Package, root, dir, skin); err != nil {
		return err
	}

	r.editTransient(ctx, func(t *updateTransient) {
		delete(t.Response, u.Plugin)
		if t.Checked != nil {
			t.Checked[u.Plugin] = u.NewVersion
		}
	})

	r.logger.Info("plugin upgraded", "plugin", u.Plugin, "version", u.NewVersion)
	return nil
}

// updateActive rewrites the active plugin list when fn reports a change.
func (r *repo) updateActive(ctx context.Context, fn func(active []string) ([]string, bool)) error {
	var active []string
	return r.opts.Update(ctx, activeOption, &active, true, func(bool) (any, error) {
		if active == nil {
			active = []string{}
		}
		next, changed := fn(active)
		if !changed {
			return nil, nil
		}
		return next, nil
	})
}

// editTransient applies fn to a stored update transient. The transient is a
// cache, so failures are logged rather than returned.
func (r *repo) editTransient(ctx context.Context, fn func(t *updateTransient)) {
	var t updateTransient
	err := r.opts.Update(ctx, transientOption, &t, false, func(exists bool) (any, error) {
		if !exists {
			return nil, nil
		}
		fn(&t)
		return t, nil
	})
	if err != nil {
		r.logger.Warn("failed to update plugin update transient", "error", err)
	}
}

func (r *repo) active(ctx context.Context) ([]string, error) {
	var active []string
	if _, err := r.opts.Decode(ctx, activeOption, &active); err != nil {
		return nil, err
	}
	if active == nil {
		active = []string{}
	}
	return active, nil
}

// scan lists plugins found one level below the plugins root and single-file plugins at the root.
func (r *repo) scan(ctx context.Context) ([]Plugin, error) {
	entries, err := r.store.Children(ctx, root)
	if err != nil {
		return nil, handlers.Host(handlers.ErrStorage, err)
	}

	found := make([]Plugin, 0)
	for _, name := range entries {
		if strings.HasSuffix(name, ".php") {
			if p, ok := r.read(ctx, name); ok {
				found = append(found, p)
			}
			continue
		}

		files, err := r.store.Children(ctx, path.Join(root, name))
		if err != nil {
			continue
		}
		for _, f := range files {
			if !strings.HasSuffix(f, ".php") {
				continue
			}
			if p, ok := r.read(ctx, name+"/"+f); ok {
				found = append(found, p)
			}
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return strings.ToLower(found[i].Name) < strings.ToLower(found[j].Name)
	})
	return found, nil
}

func (r *repo) read(ctx context.Context, file string) (Plugin, bool) {
	data, err := r.store.Retrieve(ctx, path.Join(root, file))
	if err != nil {
		return Plugin{}, false
	}
	return parsePlugin(file, data)
}

func (r *repo) mainFile(ctx context.Context, dir string) (string, error) {
	files, err := r.store.Children(ctx, path.Join(root, dir))
	if err != nil {
		return "", handlers.Host(handlers.ErrStorage, err)
	}
	sort.Strings(files)

	preferred := dir + ".php"
	if slices.Contains(files, preferred) {
		if _, ok := r.read(ctx, dir+"/"+preferred); ok {
			return dir + "/" + preferred, nil
		}
	}
	for _, f := range files {
		if strings.HasSuffix(f, ".php") {
			if _, ok := r.read(ctx, dir+"/"+f); ok {
				return dir + "/" + f, nil
			}
		}
	}
	return "", ErrNoHeader
}

func parsePlugin(file string, data []byte) (Plugin, bool) {
	h := upgrader.ReadHeaders(data, upgrader.PluginHeaders)
	if h["Name"] == "" {
		return Plugin{}, false
	}
	return Plugin{
		File:        file,
		Name:        h["Name"],
		Version:     h["Version"],
		Author:      wporg.StripTags(h["Author"]),
		Description: h["Description"],
		PluginURI:   h["PluginURI"],
		TextDomain:  h["TextDomain"],
		RequiresWP:  h["RequiresWP"],
		RequiresPHP: h["RequiresPHP"],
	}, true
}

func slugOf(file string) string {
	if dir, _, ok := strings.Cut(file, "/"); ok {
		return dir
	}
	return strings.TrimSuffix(file, ".php")
}

func validateFile(file string) error {
	if file == "" || !strings.HasSuffix(file, ".php") || strings.Contains(file, "..") ||
		strings.HasPrefix(file, "/") || strings.Count(file, "/") > 1 {
		return ErrInvalidPluginFile
	}
	return nil
}
