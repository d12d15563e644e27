package dbadmin

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var (
	ErrEmptySearch  = handlers.NewError("empty_search", "Search string cannot be empty.", http.StatusBadRequest)
	ErrInvalidTable = handlers.NewError("invalid_table", "Invalid table name.", http.StatusBadRequest)
)
