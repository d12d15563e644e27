// Package registry holds the registered site vocabulary: post types, taxonomies,
// roles, sidebars, widget types, menu locations, image sizes and cron schedules.
// It is seeded with the WordPress defaults and extended from configuration.
package registry

import (
	"maps"
	"slices"
)

// PostType describes a registered content type.
type PostType struct {
	Name         string   `json:"name" toml:"name"`
	Label        string   `json:"label" toml:"label"`
	Singular     string   `json:"singular" toml:"singular"`
	Description  string   `json:"description" toml:"description"`
	Public       bool     `json:"public" toml:"public"`
	Hierarchical bool     `json:"hierarchical" toml:"hierarchical"`
	HasArchive   bool     `json:"has_archive" toml:"has_archive"`
	ShowInREST   bool     `json:"show_in_rest" toml:"show_in_rest"`
	RestBase     string   `json:"rest_base" toml:"rest_base"`
	MenuIcon     string   `json:"menu_icon" toml:"menu_icon"`
	Supports     []string `json:"supports" toml:"supports"`
	Builtin      bool     `json:"_builtin" toml:"-"`
}

// Taxonomy describes a registered term grouping.
type Taxonomy struct {
	Name         string   `json:"name" toml:"name"`
	Label        string   `json:"label" toml:"label"`
	Singular     string   `json:"singular" toml:"singular"`
	Description  string   `json:"description" toml:"description"`
	Public       bool     `json:"public" toml:"public"`
	Hierarchical bool     `json:"hierarchical" toml:"hierarchical"`
	ShowInREST   bool     `json:"show_in_rest" toml:"show_in_rest"`
	RestBase     string   `json:"rest_base" toml:"rest_base"`
	ObjectTypes  []string `json:"object_types" toml:"object_types"`
	Builtin      bool     `json:"_builtin" toml:"-"`
}

// Role is a named capability set.
type Role struct {
	Name         string          `json:"name" toml:"name"`
	DisplayName  string          `json:"display_name" toml:"display_name"`
	Capabilities map[string]bool `json:"capabilities" toml:"capabilities"`
}

// Sidebar is a registered widget area.
type Sidebar struct {
	ID          string `json:"id" toml:"id"`
	Name        string `json:"name" toml:"name"`
	Description string `json:"description" toml:"description"`
}

// WidgetType is a registered widget implementation identified by its id base.
type WidgetType struct {
	IDBase      string `json:"id_base" toml:"id_base"`
	Name        string `json:"name" toml:"name"`
	Description string `json:"description" toml:"description"`
}

// MenuLocation is a theme menu slot.
type MenuLocation struct {
	Slug        string `json:"slug" toml:"slug"`
	Description string `json:"description" toml:"description"`
}

// ImageSize is an intermediate image size generated for uploads.
// A zero Width or Height leaves that dimension unconstrained.
type ImageSize struct {
	Name   string `json:"name" toml:"name"`
	Width  int    `json:"width" toml:"width"`
	Height int    `json:"height" toml:"height"`
	Crop   bool   `json:"crop" toml:"crop"`
}

// Schedule is a named cron recurrence.
type Schedule struct {
	Name     string `json:"name" toml:"name"`
	Display  string `json:"display" toml:"display"`
	Interval int64  `json:"interval" toml:"interval"`
}

// Registry is an immutable snapshot of registered definitions.
// Lookups preserve registration order.
type Registry struct {
	postTypes     []PostType
	taxonomies    []Taxonomy
	roles         []Role
	sidebars      []Sidebar
	widgetTypes   []WidgetType
	menuLocations []MenuLocation
	imageSizes    []ImageSize
	schedules     []Schedule
}

// New builds a registry from the defaults plus cfg extensions.
// Extensions with a name already registered replace the default.
func New(cfg *Config) *Registry {
	r := &Registry{
		postTypes:     defaultPostTypes(),
		taxonomies:    defaultTaxonomies(),
		roles:         defaultRoles(),
		sidebars:      defaultSidebars(),
		widgetTypes:   defaultWidgetTypes(),
		menuLocations: defaultMenuLocations(),
		imageSizes:    defaultImageSizes(),
		schedules:     defaultSchedules(),
	}
	if cfg == nil {
		return r
	}

	for _, pt := range cfg.PostTypes {
		r.postTypes = upsert(r.postTypes, pt, func(p PostType) string { return p.Name })
	}
	for _, tx := range cfg.Taxonomies {
		r.taxonomies = upsert(r.taxonomies, tx, func(t Taxonomy) string { return t.Name })
	}
	for _, role := range cfg.Roles {
		r.roles = upsert(r.roles, role, func(ro Role) string { return ro.Name })
	}
	for _, sb := range cfg.Sidebars {
		r.sidebars = upsert(r.sidebars, sb, func(s Sidebar) string { return s.ID })
	}
	for _, wt := range cfg.WidgetTypes {
		r.widgetTypes = upsert(r.widgetTypes, wt, func(w WidgetType) string { return w.IDBase })
	}
	for _, loc := range cfg.MenuLocations {
		r.menuLocations = upsert(r.menuLocations, loc, func(m MenuLocation) string { return m.Slug })
	}
	for _, size := range cfg.ImageSizes {
		r.imageSizes = upsert(r.imageSizes, size, func(s ImageSize) string { return s.Name })
	}
	for _, sch := range cfg.Schedules {
		r.schedules = upsert(r.schedules, sch, func(s Schedule) string { return s.Name })
	}
	return r
}

// PostTypes returns every registered post type. With publicOnly set, non-public types are skipped.
func (r *Registry) PostTypes(publicOnly bool) []PostType {
	out := make([]PostType, 0, len(r.postTypes))
	for _, pt := range r.postTypes {
		if publicOnly && !pt.Public {
			continue
		}
		out = append(out, pt)
	}
	return out
}

func (r *Registry) PostType(name string) (PostType, bool) {
	return find(r.postTypes, func(p PostType) bool { return p.Name == name })
}

// Taxonomies returns every registered taxonomy. With publicOnly set, non-public ones are skipped.
func (r *Registry) Taxonomies(publicOnly bool) []Taxonomy {
	out := make([]Taxonomy, 0, len(r.taxonomies))
	for _, tx := range r.taxonomies {
		if publicOnly && !tx.Public {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func (r *Registry) Taxonomy(name string) (Taxonomy, bool) {
	return find(r.taxonomies, func(t Taxonomy) bool { return t.Name == name })
}

// TaxonomiesFor returns the names of taxonomies attached to postType.
func (r *Registry) TaxonomiesFor(postType string) []string {
	names := make([]string, 0)
	for _, tx := range r.taxonomies {
		if slices.Contains(tx.ObjectTypes, postType) {
			names = append(names, tx.Name)
		}
	}
	return names
}

func (r *Registry) Roles() []Role {
	return slices.Clone(r.roles)
}

func (r *Registry) Role(name string) (Role, bool) {
	return find(r.roles, func(ro Role) bool { return ro.Name == name })
}

// Capabilities returns the union of the capabilities granted by roles.
// Unknown role names contribute nothing.
func (r *Registry) Capabilities(roles ...string) map[string]bool {
	caps := make(map[string]bool)
	for _, name := range roles {
		role, ok := r.Role(name)
		if !ok {
			continue
		}
		for c, granted := range role.Capabilities {
			if granted {
				caps[c] = true
			}
		}
	}
	return caps
}

func (r *Registry) Sidebars() []Sidebar {
	return slices.Clone(r.sidebars)
}

func (r *Registry) Sidebar(id string) (Sidebar, bool) {
	return find(r.sidebars, func(s Sidebar) bool { return s.ID == id })
}

func (r *Registry) WidgetTypes() []WidgetType {
	return slices.Clone(r.widgetTypes)
}

func (r *Registry) WidgetType(idBase string) (WidgetType, bool) {
	return find(r.widgetTypes, func(w WidgetType) bool { return w.IDBase == idBase })
}

func (r *Registry) MenuLocations() []MenuLocation {
	return slices.Clone(r.menuLocations)
}

func (r *Registry) MenuLocation(slug string) (MenuLocation, bool) {
	return find(r.menuLocations, func(m MenuLocation) bool { return m.Slug == slug })
}

func (r *Registry) ImageSizes() []ImageSize {
	return slices.Clone(r.imageSizes)
}

func (r *Registry) Schedules() []Schedule {
	return slices.Clone(r.schedules)
}

func (r *Registry) Schedule(name string) (Schedule, bool) {
	return find(r.schedules, func(s Schedule) bool { return s.Name == name })
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, item := range items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func upsert[T any](items []T, item T, key func(T) string) []T {
	k := key(item)
	if k == "" {
		return items
	}
	for i := range items {
		if key(items[i]) == k {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func capSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func union(sets ...map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for _, s := range sets {
		maps.Copy(out, s)
	}
	return out
}
