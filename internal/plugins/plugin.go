package plugins

// Plugin is an installed plugin identified by its main file relative to the plugins root.
type Plugin struct {
	File            string `json:"file"`
	Name            string `json:"name"`
	Version         string `json:"version"`
	Author          string `json:"author"`
	Description     string `json:"description"`
	PluginURI       string `json:"plugin_uri"`
	TextDomain      string `json:"text_domain"`
	RequiresWP      string `json:"requires_wp"`
	RequiresPHP     string `json:"requires_php"`
	Active          bool   `json:"active"`
	UpdateAvailable bool   `json:"update_available"`
	NewVersion      string `json:"new_version,omitempty"`
}

// InstallResult is returned by Install.
type InstallResult struct {
	Installed       bool   `json:"installed"`
	Activated       bool   `json:"activated"`
	ActivationError string `json:"activation_error,omitempty"`
	Plugin          string `json:"plugin"`
	Name            string `json:"name"`
	Version         string `json:"version"`
}

// BulkResult is returned by UpdateAll.
type BulkResult struct {
	Updated []string `json:"updated"`
	Failed  []string `json:"failed,omitempty"`
	Message string   `json:"message,omitempty"`
}

// SearchResult is a page of directory results.
type SearchResult struct {
	Total   int            `json:"total"`
	Plugins []SearchPlugin `json:"plugins"`
}

// SearchPlugin is a directory entry reshaped for clients.
type SearchPlugin struct {
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	Version        string  `json:"version"`
	Author         string  `json:"author"`
	Rating         float64 `json:"rating"`
	ActiveInstalls int     `json:"active_installs"`
	Description    string  `json:"description"`
}

// Update is a pending plugin update recorded by CheckUpdates.
type Update struct {
	Slug       string `json:"slug"`
	Plugin     string `json:"plugin"`
	NewVersion string `json:"new_version"`
	Package    string `json:"package"`
	URL        string `json:"url,omitempty"`
}

// updateTransient mirrors the _site_transient_update_plugins option.
type updateTransient struct {
	LastChecked int64             `json:"last_checked"`
	Checked     map[string]string `json:"checked"`
	Response    map[string]Update `json:"response"`
	NoUpdate    map[string]Update `json:"no_update"`
}
