// Package routes registers route groups on a ServeMux and records them in an OpenAPI document.
package routes

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/openapi"
)

// Authorizer wraps handlers with a capability check.
type Authorizer interface {
	Require(capability string) func(http.Handler) http.Handler
}

// Register mounts every route of groups under basePath on mux and adds each
// documented operation to spec. Routes declaring a Capability are wrapped by authz.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, authz Authorizer, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, basePath, spec, authz, group)
	}
}

func registerGroup(mux *http.ServeMux, prefix string, spec *openapi.Spec, authz Authorizer, group Group) {
	fullPrefix := prefix + group.Prefix

	for _, route := range group.Routes {
		pattern := fullPrefix + route.Pattern

		var handler http.Handler = route.Handler
		if route.Capability != "" && authz != nil {
			handler = authz.Require(route.Capability)(handler)
		}
		mux.Handle(route.Method+" "+pattern, handler)

		if spec != nil && route.OpenAPI != nil {
			op := route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = group.Tags
			}
			if route.Capability != "" {
				op.Security = []map[string][]string{{"bearerAuth": {}}}
				op.Capability = route.Capability
			}
			spec.AddOperation(pattern, route.Method, op)
		}
	}

	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, spec, authz, child)
	}
}
