// Package core reports on and updates the core installation and exposes
// site-wide maintenance operations such as flushing rewrite rules and transients.
package core

import "context"

// Site is the static description of the managed site.
type Site struct {
	URL             string
	AdminURL        string
	Version         string
	RequiredPHP     string
	RequiredMySQL   string
	Locale          string
	Timezone        string
	MemoryLimit     string
	Multisite       bool
	Debug           bool
	DisallowUpdates bool
	MaxUploadSize   int64
}

// VersionInfo is returned by GET /core/version.
type VersionInfo struct {
	WordPressVersion string `json:"wordpress_version"`
	GoVersion        string `json:"go_version"`
	PHPVersion       string `json:"php_version"`
	DatabaseVersion  string `json:"database_version"`
	RequiredPHP      string `json:"required_php"`
	RequiredMySQL    string `json:"required_mysql"`
	UpdateAvailable  bool   `json:"update_available"`
	LatestVersion    string `json:"latest_version"`
	Multisite        bool   `json:"multisite"`
}

// UpdateCheck summarizes pending updates. Core is nil when core is current.
type UpdateCheck struct {
	Core    *string `json:"core"`
	Plugins int     `json:"plugins"`
	Themes  int     `json:"themes"`
}

// UpdateResult is returned by Update.
type UpdateResult struct {
	Updated bool   `json:"updated"`
	Version string `json:"version,omitempty"`
	Message string `json:"message,omitempty"`
}

// Counts are content totals reported by system info.
type Counts struct {
	Posts   int64 `json:"posts"`
	Pages   int64 `json:"pages"`
	Users   int64 `json:"users"`
	Plugins int   `json:"plugins"`
	Themes  int   `json:"themes"`
}

// SystemInfo is returned by GET /core/system-info.
type SystemInfo struct {
	WordPress struct {
		Version   string `json:"version"`
		URL       string `json:"url"`
		AdminURL  string `json:"admin_url"`
		Multisite bool   `json:"multisite"`
		Debug     bool   `json:"debug"`
		Language  string `json:"language"`
		Timezone  string `json:"timezone"`
	} `json:"wordpress"`
	Server struct {
		Software        string `json:"software"`
		GoVersion       string `json:"go_version"`
		OS              string `json:"os"`
		Arch            string `json:"arch"`
		CPUs            int    `json:"cpus"`
		DatabaseVersion string `json:"database_version"`
		MemoryLimit     string `json:"memory_limit"`
		MemoryUsage     string `json:"memory_usage"`
		MaxUploadSize   string `json:"max_upload_size"`
	} `json:"server"`
	Paths struct {
		Root    string `json:"root"`
		Content string `json:"content"`
		Plugins string `json:"plugins"`
		Themes  string `json:"themes"`
		Uploads string `json:"uploads"`
	} `json:"paths"`
	Counts Counts `json:"counts"`
}

// System is the core management surface.
type System interface {
	Version(ctx context.Context) (*VersionInfo, error)
	CheckUpdates(ctx context.Context) (*UpdateCheck, error)
	Update(ctx context.Context) (*UpdateResult, error)
	SystemInfo(ctx context.Context) (*SystemInfo, error)

	// FlushRewrite drops the cached rewrite rules so they are rebuilt on next use.
	FlushRewrite(ctx context.Context) error

	// FlushCache deletes every transient and returns the number removed.
	FlushCache(ctx context.Context) (int64, error)
}

// Stats reads facts about the site database.
type Stats interface {
	DatabaseVersion(ctx context.Context) (string, error)
	Counts(ctx context.Context) (Counts, error)
}
