package menus

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var (
	ErrNotFound        = handlers.NewError("not_found", "Menu not found", http.StatusNotFound)
	ErrItemNotFound    = handlers.NewError("not_found", "Menu item not found", http.StatusNotFound)
	ErrMenuExists      = handlers.NewError("menu_exists", "The menu name conflicts with another menu name. Please try another.", http.StatusBadRequest)
	ErrInvalidLocation = handlers.NewError("invalid_location", "Location not registered", http.StatusBadRequest)
	ErrInvalidType     = handlers.NewError("invalid_object_type", "Menu item type must be custom, post_type or taxonomy", http.StatusBadRequest)
)
