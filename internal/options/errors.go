package options

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var (
	ErrNotFound = handlers.NewError("option_not_found", "Option not found.", http.StatusNotFound)
	ErrNoRoute  = handlers.NewError("rest_no_route", "No route was found matching the URL and request method.", http.StatusNotFound)
)
