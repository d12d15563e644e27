package registry

import "fmt"

// Config lists site-specific registrations appended to the defaults.
type Config struct {
	PostTypes     []PostType     `toml:"post_types"`
	Taxonomies    []Taxonomy     `toml:"taxonomies"`
	Roles         []Role         `toml:"roles"`
	Sidebars      []Sidebar      `toml:"sidebars"`
	WidgetTypes   []WidgetType   `toml:"widget_types"`
	MenuLocations []MenuLocation `toml:"menu_locations"`
	ImageSizes    []ImageSize    `toml:"image_sizes"`
	Schedules     []Schedule     `toml:"schedules"`
}

// Finalize fills derived labels and validates the extensions.
func (c *Config) Finalize() error {
	c.loadDefaults()
	return c.validate()
}

// Merge appends overlay registrations.
func (c *Config) Merge(overlay *Config) {
	c.PostTypes = append(c.PostTypes, overlay.PostTypes...)
	c.Taxonomies = append(c.Taxonomies, overlay.Taxonomies...)
	c.Roles = append(c.Roles, overlay.Roles...)
	c.Sidebars = append(c.Sidebars, overlay.Sidebars...)
	c.WidgetTypes = append(c.WidgetTypes, overlay.WidgetTypes...)
	c.MenuLocations = append(c.MenuLocations, overlay.MenuLocations...)
	c.ImageSizes = append(c.ImageSizes, overlay.ImageSizes...)
	c.Schedules = append(c.Schedules, overlay.Schedules...)
}

func (c *Config) loadDefaults() {
	for i := range c.PostTypes {
		pt := &c.PostTypes[i]
		if pt.Label == "" {
			pt.Label = pt.Name
		}
		if pt.Singular == "" {
			pt.Singular = pt.Label
		}
		if pt.RestBase == "" && pt.ShowInREST {
			pt.RestBase = pt.Name
		}
		if pt.Supports == nil {
			pt.Supports = []string{"title", "editor"}
		}
	}
	for i := range c.Taxonomies {
		tx := &c.Taxonomies[i]
		if tx.Label == "" {
			tx.Label = tx.Name
		}
		if tx.Singular == "" {
			tx.Singular = tx.Label
		}
		if tx.RestBase == "" && tx.ShowInREST {
			tx.RestBase = tx.Name
		}
	}
	for i := range c.Roles {
		if c.Roles[i].DisplayName == "" {
			c.Roles[i].DisplayName = c.Roles[i].Name
		}
	}
}

func (c *Config) validate() error {
	for _, pt := range c.PostTypes {
		if pt.Name == "" || len(pt.Name) > 20 {
			return fmt.Errorf("post type name must be 1-20 characters: %q", pt.Name)
		}
	}
	for _, tx := range c.Taxonomies {
		if tx.Name == "" || len(tx.Name) > 32 {
			return fmt.Errorf("taxonomy name must be 1-32 characters: %q", tx.Name)
		}
	}
	for _, role := range c.Roles {
		if role.Name == "" {
			return fmt.Errorf("role name required")
		}
	}
	for _, sb := range c.Sidebars {
		if sb.ID == "" {
			return fmt.Errorf("sidebar id required")
		}
	}
	for _, size := range c.ImageSizes {
		if size.Name == "" || size.Width < 0 || size.Height < 0 {
			return fmt.Errorf("invalid image size %q", size.Name)
		}
	}
	for _, s := range c.Schedules {
		if s.Name == "" || s.Interval <= 0 {
			return fmt.Errorf("schedule %q needs a positive interval", s.Name)
		}
	}
	return nil
}
