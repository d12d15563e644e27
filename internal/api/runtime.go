package api

import (
	"github.com/JaimeStill/mcp-endpoints/internal/config"
	"github.com/JaimeStill/mcp-endpoints/internal/infrastructure"
	"github.com/JaimeStill/mcp-endpoints/pkg/pagination"
)

// Runtime is the infrastructure seen by the API module plus its paging defaults.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: infra.Scoped("api"),
		Pagination:     cfg.API.Pagination,
	}
}
