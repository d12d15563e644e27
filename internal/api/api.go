// Package api assembles the domain systems into the REST module served under /wp-json.
package api

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/internal/auth"
	"github.com/JaimeStill/mcp-endpoints/internal/config"
	"github.com/JaimeStill/mcp-endpoints/internal/infrastructure"
	"github.com/JaimeStill/mcp-endpoints/pkg/middleware"
	"github.com/JaimeStill/mcp-endpoints/pkg/module"
	"github.com/JaimeStill/mcp-endpoints/pkg/openapi"
)

const (
	// Prefix is the mount point of the REST module.
	Prefix = "/wp-json"

	metricsNamespace = "mcp_endpoints"
)

// NewModule builds the REST module and registers the scheduled event runner
// with the infrastructure lifecycle.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	rt := NewRuntime(cfg, infra)
	domain := NewDomain(rt, cfg)

	registerHooks(domain)
	if err := domain.Scheduler.Start(rt.Lifecycle); err != nil {
		return nil, err
	}

	tokens := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTLDuration())
	authz := auth.NewAuthorizer(tokens, auth.NewResolver(rt.Database.Connection(), rt.Registry), rt.Logger)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.Site.URL + Prefix)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, authz, rt, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET "+cfg.API.BasePath+"/openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(Prefix, mux)
	m.Use(middleware.Recovery(rt.Logger))
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(rt.Logger))
	m.Use(middleware.NewMetrics(metricsNamespace, rt.Metrics).Middleware())

	return m, nil
}
