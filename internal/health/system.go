// Package health reports site health: a scored summary, debug and runtime
// details, plugin update status and the scheduled event queue.
package health

import (
	"context"

	"github.com/JaimeStill/mcp-endpoints/internal/scheduler"
)

// Site is the configuration health reports on.
type Site struct {
	URL           string
	ServerVersion string
	TablePrefix   string
	Debug         bool
	DebugLog      bool
	DebugDisplay  bool
	ScriptDebug   bool
	Multisite     bool
	Language      string
	Timezone      string
	MemoryLimit   string
	MaxUploadSize int64
}

type Report struct {
	Status    string `json:"status"`
	Score     int    `json:"score"`
	WordPress struct {
		Version         string `json:"version"`
		UpdateAvailable bool   `json:"update_available"`
	} `json:"wordpress"`
	PHP struct {
		Version     string `json:"version"`
		MemoryLimit string `json:"memory_limit"`
	} `json:"php"`
	Database struct {
		Version string `json:"version"`
		Prefix  string `json:"prefix"`
	} `json:"database"`
	Updates struct {
		Total   int `json:"total"`
		Plugins int `json:"plugins"`
		Themes  int `json:"themes"`
	} `json:"updates"`
	Debug struct {
		WPDebug        bool `json:"wp_debug"`
		WPDebugLog     bool `json:"wp_debug_log"`
		WPDebugDisplay bool `json:"wp_debug_display"`
	} `json:"debug"`
	SSL       bool     `json:"ssl"`
	Multisite bool     `json:"multisite"`
	Issues    []string `json:"issues"`
}

type PluginStatus struct {
	File            string  `json:"file"`
	Name            string  `json:"name"`
	Version         string  `json:"version"`
	Active          bool    `json:"active"`
	UpdateAvailable bool    `json:"update_available"`
	NewVersion      *string `json:"new_version"`
}

type PluginReport struct {
	Plugins          []PluginStatus `json:"plugins"`
	Total            int            `json:"total"`
	Active           int            `json:"active"`
	Inactive         int            `json:"inactive"`
	UpdatesAvailable int            `json:"updates_available"`
}

type CronReport struct {
	CronDisabled bool                              `json:"cron_disabled"`
	Schedules    map[string]scheduler.ScheduleInfo `json:"schedules"`
	Events       []scheduler.Event                 `json:"events"`
	TotalEvents  int                               `json:"total_events"`
}

type System interface {
	Check(ctx context.Context) (*Report, error)
	Debug(ctx context.Context) (map[string]any, error)
	Runtime() *RuntimeInfo
	Plugins(ctx context.Context) (*PluginReport, error)
	Cron(ctx context.Context) (*CronReport, error)

	// RunCron invokes the handler of the earliest event scheduled for hook.
	RunCron(ctx context.Context, hook string) error
}

// DatabaseInfo describes the connected database server.
type DatabaseInfo struct {
	ServerVersion string `json:"server_version"`
	Name          string `json:"database_name"`
	Charset       string `json:"charset"`
	Collate       string `json:"collate"`
}

// Database reads facts about the connected database.
type Database interface {
	Info(ctx context.Context) (*DatabaseInfo, error)
}

// RuntimeInfo is the server runtime report served at /health/php.
type RuntimeInfo struct {
	Version       string            `json:"version"`
	OS            string            `json:"os"`
	Arch          string            `json:"arch"`
	CPUs          int               `json:"cpus"`
	GOMAXPROCS    int               `json:"gomaxprocs"`
	Goroutines    int               `json:"goroutines"`
	MemoryLimit   string            `json:"memory_limit"`
	MemoryUsage   string            `json:"memory_usage"`
	HeapSys       string            `json:"heap_sys"`
	GCCycles      uint32            `json:"gc_cycles"`
	UploadMaxSize string            `json:"upload_max_filesize"`
	Module        string            `json:"module"`
	Settings      map[string]string `json:"build_settings"`
	Extensions    []string          `json:"extensions"`
}
