package wporg

import (
	"encoding/json"
	"regexp"
	"strings"
)

// PluginInfo is a plugin directory entry.
type PluginInfo struct {
	Name             string  `json:"name"`
	Slug             string  `json:"slug"`
	Version          string  `json:"version"`
	Author           string  `json:"author"`
	Requires         string  `json:"requires"`
	Tested           string  `json:"tested"`
	RequiresPHP      any     `json:"requires_php"`
	Rating           float64 `json:"rating"`
	NumRatings       int     `json:"num_ratings"`
	ActiveInstalls   int     `json:"active_installs"`
	LastUpdated      string  `json:"last_updated"`
	Homepage         string  `json:"homepage"`
	ShortDescription string  `json:"short_description"`
	DownloadLink     string  `json:"download_link"`
	Error            string  `json:"error"`
}

// PluginQuery is a page of plugin search results.
type PluginQuery struct {
	Info struct {
		Page    int `json:"page"`
		Pages   int `json:"pages"`
		Results int `json:"results"`
	} `json:"info"`
	Plugins []PluginInfo `json:"plugins"`
}

// ThemeInfo is a theme directory entry.
type ThemeInfo struct {
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Version       string          `json:"version"`
	Author        json.RawMessage `json:"author"`
	PreviewURL    string          `json:"preview_url"`
	ScreenshotURL string          `json:"screenshot_url"`
	Rating        float64         `json:"rating"`
	NumRatings    int             `json:"num_ratings"`
	Homepage      string          `json:"homepage"`
	Description   string          `json:"description"`
	Sections      struct {
		Description string `json:"description"`
	} `json:"sections"`
	DownloadLink string `json:"download_link"`
	Error        string `json:"error"`
}

// AuthorName returns the display name whether the API sent a string or an author object.
func (t *ThemeInfo) AuthorName() string {
	var s string
	if err := json.Unmarshal(t.Author, &s); err == nil {
		return s
	}
	var obj struct {
		DisplayName  string `json:"display_name"`
		UserNicename string `json:"user_nicename"`
	}
	if err := json.Unmarshal(t.Author, &obj); err == nil {
		if obj.DisplayName != "" {
			return obj.DisplayName
		}
		return obj.UserNicename
	}
	return ""
}

// Summary returns the theme description from whichever field the API populated.
func (t *ThemeInfo) Summary() string {
	if t.Description != "" {
		return t.Description
	}
	return t.Sections.Description
}

// ThemeQuery is a page of theme search results.
type ThemeQuery struct {
	Info struct {
		Page    int `json:"page"`
		Pages   int `json:"pages"`
		Results int `json:"results"`
	} `json:"info"`
	Themes []ThemeInfo `json:"themes"`
}

// CoreOffer is one entry of the core version check.
type CoreOffer struct {
	Response     string `json:"response"`
	Download     string `json:"download"`
	Locale       string `json:"locale"`
	Current      string `json:"current"`
	Version      string `json:"version"`
	PHPVersion   string `json:"php_version"`
	MySQLVersion string `json:"mysql_version"`
	Packages     struct {
		Full string `json:"full"`
	} `json:"packages"`
}

// Package returns the full package URL of the offer.
func (o CoreOffer) Package() string {
	if o.Packages.Full != "" {
		return o.Packages.Full
	}
	return o.Download
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes markup from s and trims the result.
func StripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// TrimWords truncates s to n words, appending an ellipsis when words were dropped.
func TrimWords(s string, n int) string {
	words := strings.Fields(StripTags(s))
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "&hellip;"
}
