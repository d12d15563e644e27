package scheduler

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var (
	ErrNotFound        = handlers.NewError("not_found", "Cron hook not found", http.StatusNotFound)
	ErrInvalidSchedule = handlers.NewError("invalid_schedule", "Event schedule does not exist.", http.StatusBadRequest)
)
