package core

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var ErrUpdatesDisabled = handlers.NewError("updates_disabled", "Core updates are disabled for this site.", http.StatusBadRequest)
