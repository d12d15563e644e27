package options

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Bulk   *openapi.Operation
	Get    *openapi.Operation
	Set    *openapi.Operation
	Delete *openapi.Operation
}

var keyParam = &openapi.Parameter{
	Name:        "key",
	In:          "path",
	Required:    true,
	Description: "Option name",
	Schema:      &openapi.Schema{Type: "string", Pattern: "^[a-zA-Z0-9_-]+$"},
}

// Spec contains OpenAPI operation definitions for the option routes.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List options",
		Description: "Returns options ordered by name, optionally restricted to a name prefix",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("prefix", "string", "Option name prefix", false),
			openapi.QueryParam("per_page", "integer", "Maximum number of options (default 50)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Options", "OptionList"),
		},
	},
	Bulk: &openapi.Operation{
		Summary:     "Get several options",
		Description: "Returns the value of each requested key, or false when the option does not exist",
		RequestBody: openapi.RequestBodyJSON("OptionBulkRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Option values", map[string]*openapi.Schema{
				"options": {Type: "object"},
			}),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Get: &openapi.Operation{
		Summary:    "Get option",
		Parameters: []*openapi.Parameter{keyParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Option value", map[string]*openapi.Schema{
				"key":   {Type: "string"},
				"value": {},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Set: &openapi.Operation{
		Summary:     "Set option",
		Description: "Creates or replaces an option; created reports whether it did not exist before",
		Parameters:  []*openapi.Parameter{keyParam},
		RequestBody: openapi.RequestBodyJSON("OptionSetRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Option stored", map[string]*openapi.Schema{
				"key":     {Type: "string"},
				"value":   {},
				"created": {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete option",
		Parameters: []*openapi.Parameter{keyParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Option deleted", map[string]*openapi.Schema{
				"deleted": {Type: "boolean"},
				"key":     {Type: "string"},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

// Schemas returns the component schemas referenced by the option routes.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Option": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":      {Type: "string"},
				"value":    {Description: "Any JSON value"},
				"autoload": {Type: "boolean"},
			},
		},
		"OptionList": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"options": {Type: "array", Items: openapi.SchemaRef("Option")},
				"count":   {Type: "integer"},
			},
		},
		"OptionSetRequest": {
			Type:     "object",
			Required: []string{"value"},
			Properties: map[string]*openapi.Schema{
				"value":    {Description: "Any JSON value"},
				"autoload": {Type: "boolean", Default: true},
			},
		},
		"OptionBulkRequest": {
			Type:     "object",
			Required: []string{"keys"},
			Properties: map[string]*openapi.Schema{
				"keys": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
	}
}
