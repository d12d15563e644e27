package widgets

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var (
	ErrNotFound        = handlers.NewError("not_found", "Widget not found", http.StatusNotFound)
	ErrSidebarNotFound = handlers.NewError("not_found", "Sidebar not found", http.StatusNotFound)
	ErrInvalidFormat   = handlers.NewError("invalid_format", "Invalid widget ID format", http.StatusBadRequest)
	ErrInvalidType     = handlers.NewError("invalid_type", "Widget type not found", http.StatusBadRequest)
	ErrInvalidWidget   = handlers.NewError("invalid_widget", "Widget not in sidebar", http.StatusBadRequest)
)
