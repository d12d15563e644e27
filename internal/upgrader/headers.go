package upgrader

import (
	"regexp"
	"strings"
)

// headerWindow is how much of a file is scanned for headers.
const headerWindow = 8 << 10

// PluginHeaders maps plugin header labels to field names.
var PluginHeaders = map[string]string{
	"Name":        "Plugin Name",
	"PluginURI":   "Plugin URI",
	"Version":     "Version",
	"Description": "Description",
	"Author":      "Author",
	"AuthorURI":   "Author URI",
	"TextDomain":  "Text Domain",
	"RequiresWP":  "Requires at least",
	"RequiresPHP": "Requires PHP",
	"Network":     "Network",
}

// ThemeHeaders maps theme stylesheet header labels to field names.
var ThemeHeaders = map[string]string{
	"Name":        "Theme Name",
	"ThemeURI":    "Theme URI",
	"Description": "Description",
	"Author":      "Author",
	"AuthorURI":   "Author URI",
	"Version":     "Version",
	"Template":    "Template",
	"TextDomain":  "Text Domain",
	"RequiresWP":  "Requires at least",
	"RequiresPHP": "Requires PHP",
	"Tags":        "Tags",
}

var headerCleanup = regexp.MustCompile(`\s*(?:\*/|\?>).*$`)

// ReadHeaders extracts "Label: value" header fields from the start of a file.
// Fields absent from the file map to "".
func ReadHeaders(data []byte, labels map[string]string) map[string]string {
	if len(data) > headerWindow {
		data = data[:headerWindow]
	}
	text := strings.ReplaceAll(string(data), "\r", "\n")
	lines := strings.Split(text, "\n")

	out := make(map[string]string, len(labels))
	for field, label := range labels {
		out[field] = ""
		prefix := strings.ToLower(label) + ":"
		for _, line := range lines {
			trimmed := strings.TrimLeft(line, " \t/*#@")
			if !strings.HasPrefix(strings.ToLower(trimmed), prefix) {
				continue
			}
			value := strings.TrimSpace(trimmed[len(prefix):])
			out[field] = strings.TrimSpace(headerCleanup.ReplaceAllString(value, ""))
			break
		}
	}
	return out
}
