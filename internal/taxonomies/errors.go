package taxonomies

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var ErrNotFound = handlers.NewError("invalid_taxonomy", "Invalid taxonomy.", http.StatusNotFound)
