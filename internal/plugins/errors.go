package plugins

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var (
	ErrNotFound          = handlers.NewError("plugin_not_found", "Plugin not found.", http.StatusNotFound)
	ErrNoHeader          = handlers.NewError("no_plugin_header", "The plugin does not have a valid header.", http.StatusBadRequest)
	ErrActive            = handlers.NewError("plugin_active", "Active plugins cannot be deleted. Deactivate the plugin first.", http.StatusBadRequest)
	ErrInvalidPluginFile = handlers.NewError("invalid_plugin", "Invalid plugin path.", http.StatusBadRequest)
)
