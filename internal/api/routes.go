package api

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/internal/config"
	"github.com/JaimeStill/mcp-endpoints/internal/core"
	"github.com/JaimeStill/mcp-endpoints/internal/cpt"
	"github.com/JaimeStill/mcp-endpoints/internal/dbadmin"
	"github.com/JaimeStill/mcp-endpoints/internal/health"
	"github.com/JaimeStill/mcp-endpoints/internal/media"
	"github.com/JaimeStill/mcp-endpoints/internal/menus"
	"github.com/JaimeStill/mcp-endpoints/internal/options"
	"github.com/JaimeStill/mcp-endpoints/internal/plugins"
	"github.com/JaimeStill/mcp-endpoints/internal/taxonomies"
	"github.com/JaimeStill/mcp-endpoints/internal/themes"
	"github.com/JaimeStill/mcp-endpoints/internal/users"
	"github.com/JaimeStill/mcp-endpoints/internal/widgets"
	"github.com/JaimeStill/mcp-endpoints/pkg/openapi"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	authz routes.Authorizer,
	rt *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	pluginsHandler := plugins.NewHandler(domain.Plugins, rt.Logger)
	themesHandler := themes.NewHandler(domain.Themes, rt.Logger)
	coreHandler := core.NewHandler(domain.Core, rt.Logger)
	dbHandler := dbadmin.NewHandler(domain.Database, rt.Logger)
	optionsHandler := options.NewHandler(domain.Options, rt.Logger, rt.Pagination)
	cptHandler := cpt.NewHandler(domain.PostTypes, rt.Logger, rt.Pagination, cfg.Site.AdminURL())
	taxonomiesHandler := taxonomies.NewHandler(domain.Taxonomies, rt.Logger)
	usersHandler := users.NewHandler(domain.Users, rt.Logger, rt.Pagination)
	menusHandler := menus.NewHandler(domain.Menus, rt.Logger)
	widgetsHandler := widgets.NewHandler(domain.Widgets, rt.Logger)
	mediaHandler := media.NewHandler(domain.Media, rt.Logger, rt.Pagination, cfg.Storage.MaxUploadSizeBytes())
	healthHandler := health.NewHandler(domain.Health, rt.Logger)

	routes.Register(
		mux,
		cfg.API.BasePath,
		spec,
		authz,
		pluginsHandler.Routes(),
		themesHandler.Routes(),
		coreHandler.Routes(),
		dbHandler.Routes(),
		optionsHandler.Routes(),
		cptHandler.Routes(),
		taxonomiesHandler.Routes(),
		usersHandler.Routes(),
		menusHandler.Routes(),
		widgetsHandler.Routes(),
		mediaHandler.Routes(),
		healthHandler.Routes(),
	)

	for _, schemas := range []map[string]*openapi.Schema{
		plugins.Spec.Schemas(),
		themes.Spec.Schemas(),
		core.Spec.Schemas(),
		dbadmin.Spec.Schemas(),
		options.Spec.Schemas(),
		cpt.Spec.Schemas(),
		taxonomies.Spec.Schemas(),
		users.Spec.Schemas(),
		menus.Spec.Schemas(),
		widgets.Spec.Schemas(),
		media.Spec.Schemas(),
		health.Spec.Schemas(),
	} {
		spec.Components.AddSchemas(schemas)
	}
}
