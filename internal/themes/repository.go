package themes

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/mcp-endpoints/internal/options"
	"github.com/JaimeStill/mcp-endpoints/internal/upgrader"
	"github.com/JaimeStill/mcp-endpoints/internal/wporg"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

const (
	root            = "themes"
	transientOption = "_site_transient_update_themes"
)

type repo struct {
	store    storage.System
	opts     options.System
	dir      wporg.Directory
	upgrader *upgrader.Upgrader
	logger   *slog.Logger

	// activation writes template, stylesheet and current_theme together.
	activation sync.Mutex
}

// New creates the theme system.
func New(store storage.System, opts options.System, dir wporg.Directory, up *upgrader.Upgrader, logger *slog.Logger) System {
	return &repo{
		store:    store,
		opts:     opts,
		dir:      dir,
		upgrader: up,
		logger:   logger.With("system", "themes"),
	}
}

func (r *repo) List(ctx context.Context) ([]Theme, error) {
	themes, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	active, err := r.Active(ctx)
	if err != nil {
		return nil, err
	}
	updates, err := r.Updates(ctx)
	if err != nil {
		return nil, err
	}

	for i := range themes {
		t := &themes[i]
		t.Active = t.Stylesheet == active
		if u, ok := updates[t.Stylesheet]; ok && wporg.CompareVersions(u.NewVersion, t.Version) > 0 {
			t.UpdateAvailable = true
			t.NewVersion = u.NewVersion
		}
	}
	return themes, nil
}

func (r *repo) Find(ctx context.Context, stylesheet string) (*Theme, error) {
	if !validName(stylesheet) {
		return nil, ErrInvalidName
	}

	t, err := r.read(ctx, stylesheet)
	if err != nil {
		return nil, err
	}

	active, err := r.Active(ctx)
	if err != nil {
		return nil, err
	}
	t.Active = t.Stylesheet == active
	return t, nil
}

func (r *repo) Active(ctx context.Context) (string, error) {
	var stylesheet string
	if _, err := r.opts.Decode(ctx, "stylesheet", &stylesheet); err != nil {
		return "", err
	}
	return stylesheet, nil
}

func (r *repo) Install(ctx context.Context, slug string, activate bool) (*InstallResult, error) {
	info, err := r.dir.ThemeInformation(ctx, slug)
	if errors.Is(err, wporg.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	dest, err := r.upgrader.Install(ctx, info.DownloadLink, root, info.Slug, &upgrader.QuietSkin{})
	if err != nil {
		return nil, err
	}

	result := &InstallResult{
		Installed: true,
		Theme:     dest,
		Name:      info.Name,
		Version:   info.Version,
	}

	if activate {
		if _, err := r.Activate(ctx, dest); err != nil {
			result.ActivationError = handlers.AsError(err, 0).Message
		} else {
			result.Activated = true
		}
	}

	r.logger.Info("theme installed", "theme", dest, "version", info.Version, "activated", result.Activated)
	return result, nil
}

func (r *repo) Update(ctx context.Context, stylesheet string) (bool, error) {
	t, err := r.Find(ctx, stylesheet)
	if err != nil {
		return false, err
	}

	update, err := r.checkOne(ctx, *t)
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
		result.Message = "All themes are up to date"
		return result, nil
	}

	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	sort.Strings(names)

	result.Failed = []string{}
	for _, name := range names {
		if err := r.upgrade(ctx, updates[name]); err != nil {
			r.logger.Warn("theme upgrade failed", "theme", name, "error", err)
			result.Failed = append(result.Failed, name)
			continue
		}
		result.Updated = append(result.Updated, name)
	}
	return result, nil
}

func (r *repo) Search(ctx context.Context, search string, perPage int) (*SearchResult, error) {
	res, err := r.dir.QueryThemes(ctx, search, perPage)
	if err != nil {
		return nil, err
	}

	out := &SearchResult{Total: res.Info.Results, Themes: make([]SearchTheme, 0, len(res.Themes))}
	for _, t := range res.Themes {
		out.Themes = append(out.Themes, SearchTheme{
			Name:          t.Name,
			Slug:          t.Slug,
			Version:       t.Version,
			Author:        t.AuthorName(),
			Rating:        t.Rating,
			PreviewURL:    t.PreviewURL,
			ScreenshotURL: t.ScreenshotURL,
			Description:   wporg.TrimWords(wporg.StripTags(t.Summary()), 30),
		})
	}
	return out, nil
}

func (r *repo) Activate(ctx context.Context, stylesheet string) (*Theme, error) {
	t, err := r.Find(ctx, stylesheet)
	if err != nil {
		return nil, err
	}

	template := t.Stylesheet
	if t.IsChild() {
		if _, err := r.read(ctx, t.Template); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrMissingParent.Withf("The parent theme is missing. Please install the %q parent theme.", t.Template)
			}
			return nil, err
		}
		template = t.Template
	}

	r.activation.Lock()
	defer r.activation.Unlock()

	for key, value := range map[string]string{
		"template":      template,
		"stylesheet":    t.Stylesheet,
		"current_theme": t.Name,
	} {
		if _, err := r.opts.Set(ctx, key, value, true); err != nil {
			return nil, err
		}
	}

	t.Active = true
	r.logger.Info("theme activated", "theme", t.Stylesheet, "template", template)
	return t, nil
}

func (r *repo) Delete(ctx context.Context, stylesheet string) error {
	t, err := r.Find(ctx, stylesheet)
	if err != nil {
		return err
	}
	if t.Active {
		return ErrActive
	}

	if err := r.store.DeletePrefix(ctx, path.Join(root, t.Stylesheet)); err != nil {
		return handlers.Host(handlers.ErrStorage, err)
	}

	if err := r.opts.Delete(ctx, "theme_mods_"+t.Stylesheet); err != nil && !errors.Is(err, options.ErrNotFound) {
		return err
	}

	r.editTransient(ctx, func(tr *updateTransient) {
		delete(tr.Response, t.Stylesheet)
		delete(tr.NoUpdate, t.Stylesheet)
		delete(tr.Checked, t.Stylesheet)
	})

	r.logger.Info("theme deleted", "theme", t.Stylesheet)
	return nil
}

func (r *repo) CheckUpdates(ctx context.Context) (int, error) {
	themes, err := r.scan(ctx)
	if err != nil {
		return 0, err
	}

	tr := updateTransient{
		LastChecked: time.Now().Unix(),
		Checked:     make(map[string]string, len(themes)),
		Response:    make(map[string]Update),
		NoUpdate:    make(map[string]Update),
	}

	for _, t := range themes {
		tr.Checked[t.Stylesheet] = t.Version
		update, err := r.checkOne(ctx, t)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				r.logger.Warn("theme update check failed", "theme", t.Stylesheet, "error", err)
			}
			continue
		}
		if update != nil {
			tr.Response[t.Stylesheet] = *update
		} else {
			tr.NoUpdate[t.Stylesheet] = Update{Theme: t.Stylesheet, NewVersion: t.Version}
		}
	}

	if _, err := r.opts.Set(ctx, transientOption, tr, false); err != nil {
		return 0, err
	}
	return len(tr.Response), nil
}

func (r *repo) Updates(ctx context.Context) (map[string]Update, error) {
	var tr updateTransient
	if _, err := r.opts.Decode(ctx, transientOption, &tr); err != nil {
		return nil, err
	}
	if tr.Response == nil {
		return map[string]Update{}, nil
	}
	return tr.Response, nil
}

func (r *repo) checkOne(ctx context.Context, t Theme) (*Update, error) {
	info, err := r.dir.ThemeInformation(ctx, t.Stylesheet)
	if errors.Is(err, wporg.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if wporg.CompareVersions(info.Version, t.Version) <= 0 {
		return nil, nil
	}
	return &Update{
		Theme:      t.Stylesheet,
		NewVersion: info.Version,
		Package:    info.DownloadLink,
		URL:        info.Homepage,
	}, nil
}

func (r *repo) upgrade(ctx context.Context, u Update) error {
	if err := r.upgrader.Upgrade(ctx, u.Package, root, u.Theme, &upgrader.QuietSkin{}); err != nil {
		return err
	}

	r.editTransient(ctx, func(tr *updateTransient) {
		delete(tr.Response, u.Theme)
		if tr.Checked != nil {
			tr.Checked[u.Theme] = u.NewVersion
		}
	})

	r.logger.Info("theme upgraded", "theme", u.Theme, "version", u.NewVersion)
	return nil
}

// editTransient applies fn to a stored update transient. The transient is a
// cache, so failures are logged rather than returned.
func (r *repo) editTransient(ctx context.Context, fn func(tr *updateTransient)) {
	var tr updateTransient
	err := r.opts.Update(ctx, transientOption, &tr, false, func(exists bool) (any, error) {
		if !exists {
			return nil, nil
		}
		fn(&tr)
		return tr, nil
	})
	if err != nil {
		r.logger.Warn("failed to update theme update transient", "error", err)
	}
}

func (r *repo) scan(ctx context.Context) ([]Theme, error) {
	dirs, err := r.store.Children(ctx, root)
	if err != nil {
		return nil, handlers.Host(handlers.ErrStorage, err)
	}

	themes := make([]Theme, 0, len(dirs))
	for _, d := range dirs {
		t, err := r.read(ctx, d)
		if err != nil {
			continue
		}
		themes = append(themes, *t)
	}

	sort.Slice(themes, func(i, j int) bool {
		return strings.ToLower(themes[i].Name) < strings.ToLower(themes[j].Name)
	})
	return themes, nil
}

func (r *repo) read(ctx context.Context, stylesheet string) (*Theme, error) {
	data, err := r.store.Retrieve(ctx, path.Join(root, stylesheet, "style.css"))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, handlers.Host(handlers.ErrStorage, err)
	}

	h := upgrader.ReadHeaders(data, upgrader.ThemeHeaders)
	if h["Name"] == "" {
		return nil, ErrNoStylesheet
	}

	t := &Theme{
		Stylesheet:  stylesheet,
		Template:    h["Template"],
		Name:        h["Name"],
		Version:     h["Version"],
		Author:      wporg.StripTags(h["Author"]),
		Description: h["Description"],
		ThemeURI:    h["ThemeURI"],
		TextDomain:  h["TextDomain"],
		Tags:        splitTags(h["Tags"]),
	}
	if t.Template == "" {
		t.Template = stylesheet
	}
	return t, nil
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func validName(stylesheet string) bool {
	return stylesheet != "" && !strings.ContainsAny(stylesheet, `/\`) && stylesheet != "." && stylesheet != ".."
}
