package plugins

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	List       *openapi.Operation
	Search     *openapi.Operation
	Install    *openapi.Operation
	Update     *openapi.Operation
	UpdateAll  *openapi.Operation
	Activate   *openapi.Operation
	Deactivate *openapi.Operation
	Delete     *openapi.Operation
}

func fileOperation(summary string, result map[string]*openapi.Schema) *openapi.Operation {
	return &openapi.Operation{
		Summary:     summary,
		RequestBody: openapi.RequestBodyJSON("PluginFileRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse(summary, result),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	}
}

// Spec contains OpenAPI operation definitions for the plugin routes.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List installed plugins",
		Description: "Returns installed plugins with activation state and pending updates",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Installed plugins", map[string]*openapi.Schema{
				"plugins": {Type: "array", Items: openapi.SchemaRef("Plugin")},
				"count":   {Type: "integer"},
			}),
		},
	},
	Search: &openapi.Operation{
		Summary: "Search the plugin directory",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("search", "string", "Search terms", true),
			openapi.QueryParam("per_page", "integer", "Results per page (default 10)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Directory results", "PluginSearchResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Install: &openapi.Operation{
		Summary:     "Install plugin",
		Description: "Downloads a plugin from the directory and optionally activates it",
		RequestBody: openapi.RequestBodyJSON("PluginInstallRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Plugin installed", "PluginInstallResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Update: fileOperation("Update plugin", map[string]*openapi.Schema{
		"updated": {Type: "boolean"},
		"plugin":  {Type: "string"},
	}),
	UpdateAll: &openapi.Operation{
		Summary:     "Update all plugins",
		Description: "Refreshes update data and upgrades every plugin with a newer version",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Bulk result", map[string]*openapi.Schema{
				"updated": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"failed":  {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"message": {Type: "string"},
			}),
		},
	},
	Activate: fileOperation("Activate plugin", map[string]*openapi.Schema{
		"activated": {Type: "boolean"},
		"plugin":    {Type: "string"},
	}),
	Deactivate: fileOperation("Deactivate plugin", map[string]*openapi.Schema{
		"deactivated": {Type: "boolean"},
		"plugin":      {Type: "string"},
	}),
	Delete: fileOperation("Delete plugin", map[string]*openapi.Schema{
		"deleted": {Type: "boolean"},
		"plugin":  {Type: "string"},
	}),
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Plugin": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"file":             {Type: "string", Example: "hello-dolly/hello.php"},
				"name":             {Type: "string"},
				"version":          {Type: "string"},
				"author":           {Type: "string"},
				"description":      {Type: "string"},
				"active":           {Type: "boolean"},
				"update_available": {Type: "boolean"},
				"new_version":      {Type: "string"},
			},
		},
		"PluginSearchResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total": {Type: "integer"},
				"plugins": {Type: "array", Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"name":            {Type: "string"},
						"slug":            {Type: "string"},
						"version":         {Type: "string"},
						"author":          {Type: "string"},
						"rating":          {Type: "number"},
						"active_installs": {Type: "integer"},
						"description":     {Type: "string"},
					},
				}},
			},
		},
		"PluginInstallRequest": {
			Type:     "object",
			Required: []string{"slug"},
			Properties: map[string]*openapi.Schema{
				"slug":     {Type: "string"},
				"activate": {Type: "boolean", Default: false},
			},
		},
		"PluginInstallResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"installed":        {Type: "boolean"},
				"activated":        {Type: "boolean"},
				"activation_error": {Type: "string"},
				"plugin":           {Type: "string"},
				"name":             {Type: "string"},
				"version":          {Type: "string"},
			},
		},
		"PluginFileRequest": {
			Type:     "object",
			Required: []string{"plugin"},
			Properties: map[string]*openapi.Schema{
				"plugin": {Type: "string", Description: "Main plugin file relative to the plugins directory"},
			},
		},
	}
}
