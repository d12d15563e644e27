package themes

// Theme is an installed theme identified by its stylesheet directory.
type Theme struct {
	Stylesheet      string   `json:"stylesheet"`
	Template        string   `json:"template"`
	Name            string   `json:"name"`
	Version         string   `json:"version"`
	Author          string   `json:"author"`
	Description     string   `json:"description"`
	ThemeURI        string   `json:"theme_uri"`
	TextDomain      string   `json:"text_domain"`
	Tags            []string `json:"tags"`
	Active          bool     `json:"active"`
	UpdateAvailable bool     `json:"update_available"`
	NewVersion      string   `json:"new_version,omitempty"`
}

// IsChild reports whether the theme inherits templates from a parent.
func (t Theme) IsChild() bool {
	return t.Template != "" && t.Template != t.Stylesheet
}

// InstallResult is returned by Install.
type InstallResult struct {
	Installed       bool   `json:"installed"`
	Activated       bool   `json:"activated"`
	ActivationError string `json:"activation_error,omitempty"`
	Theme           string `json:"theme"`
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
	Total  int           `json:"total"`
	Themes []SearchTheme `json:"themes"`
}

// SearchTheme is a directory entry reshaped for clients.
type SearchTheme struct {
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Version       string  `json:"version"`
	Author        string  `json:"author"`
	Rating        float64 `json:"rating"`
	PreviewURL    string  `json:"preview_url"`
	ScreenshotURL string  `json:"screenshot_url"`
	Description   string  `json:"description"`
}

// Update is a pending theme update recorded by CheckUpdates.
type Update struct {
	Theme      string `json:"theme"`
	NewVersion string `json:"new_version"`
	Package    string `json:"package"`
	URL        string `json:"url,omitempty"`
}

type updateTransient struct {
	LastChecked int64             `json:"last_checked"`
	Checked     map[string]string `json:"checked"`
	Response    map[string]Update `json:"response"`
	NoUpdate    map[string]Update `json:"no_update"`
}
