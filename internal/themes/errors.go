package themes

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var (
	ErrNotFound      = handlers.NewError("theme_not_found", "Theme not found.", http.StatusNotFound)
	ErrActive        = handlers.NewError("active_theme", "Cannot delete the active theme.", http.StatusBadRequest)
	ErrNoStylesheet  = handlers.NewError("theme_no_stylesheet", "Stylesheet is missing.", http.StatusBadRequest)
	ErrMissingParent = handlers.NewError("theme_no_parent", "The parent theme is missing.", http.StatusBadRequest)
	ErrInvalidName   = handlers.NewError("invalid_theme", "Invalid theme stylesheet.", http.StatusBadRequest)
)
