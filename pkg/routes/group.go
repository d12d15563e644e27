package routes

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/openapi"
)

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
}

// Route binds an HTTP method and pattern to a handler.
// A non-empty Capability gates the handler behind the registered Authorizer.
type Route struct {
	Method     string
	Pattern    string
	Handler    http.HandlerFunc
	Capability string
	OpenAPI    *openapi.Operation
}
