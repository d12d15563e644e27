package themes

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	List      *openapi.Operation
	Search    *openapi.Operation
	Install   *openapi.Operation
	Update    *openapi.Operation
	UpdateAll *openapi.Operation
	Activate  *openapi.Operation
	Delete    *openapi.Operation
}

var stylesheetBody = openapi.RequestBodyJSON("ThemeStylesheetRequest", true)

var Spec = spec{
	List: &openapi.Operation{
		Summary: "List installed themes",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Installed themes", map[string]*openapi.Schema{
				"themes": {Type: "array", Items: openapi.SchemaRef("Theme")},
				"count":  {Type: "integer"},
				"active": {Type: "string"},
			}),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search the theme directory",
		Description: "Descriptions are trimmed to 30 words",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("search", "string", "Search terms", true),
			openapi.QueryParam("per_page", "integer", "Results per page (default 10)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Directory results", "ThemeSearchResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Install: &openapi.Operation{
		Summary:     "Install theme",
		RequestBody: openapi.RequestBodyJSON("ThemeInstallRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Theme installed", map[string]*openapi.Schema{
				"installed":        {Type: "boolean"},
				"activated":        {Type: "boolean"},
				"activation_error": {Type: "string"},
				"theme":            {Type: "string"},
				"name":             {Type: "string"},
				"version":          {Type: "string"},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update theme",
		RequestBody: stylesheetBody,
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Update result", map[string]*openapi.Schema{
				"updated": {Type: "boolean"},
				"theme":   {Type: "string"},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	UpdateAll: &openapi.Operation{
		Summary: "Update all themes",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Bulk result", map[string]*openapi.Schema{
				"updated": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"failed":  {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"message": {Type: "string"},
			}),
		},
	},
	Activate: &openapi.Operation{
		Summary:     "Activate theme",
		Description: "Switches the stylesheet and template options; child themes require their parent",
		RequestBody: stylesheetBody,
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Theme activated", map[string]*openapi.Schema{
				"activated": {Type: "boolean"},
				"theme":     {Type: "string"},
				"name":      {Type: "string"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete theme",
		Description: "The active theme cannot be deleted",
		RequestBody: stylesheetBody,
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Theme deleted", map[string]*openapi.Schema{
				"deleted": {Type: "boolean"},
				"theme":   {Type: "string"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Theme": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stylesheet":       {Type: "string"},
				"template":         {Type: "string"},
				"name":             {Type: "string"},
				"version":          {Type: "string"},
				"author":           {Type: "string"},
				"description":      {Type: "string"},
				"tags":             {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"active":           {Type: "boolean"},
				"update_available": {Type: "boolean"},
				"new_version":      {Type: "string"},
			},
		},
		"ThemeSearchResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total": {Type: "integer"},
				"themes": {Type: "array", Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"name":           {Type: "string"},
						"slug":           {Type: "string"},
						"version":        {Type: "string"},
						"author":         {Type: "string"},
						"rating":         {Type: "number"},
						"preview_url":    {Type: "string"},
						"screenshot_url": {Type: "string"},
						"description":    {Type: "string"},
					},
				}},
			},
		},
		"ThemeInstallRequest": {
			Type:     "object",
			Required: []string{"slug"},
			Properties: map[string]*openapi.Schema{
				"slug":     {Type: "string"},
				"activate": {Type: "boolean", Default: false},
			},
		},
		"ThemeStylesheetRequest": {
			Type:     "object",
			Required: []string{"stylesheet"},
			Properties: map[string]*openapi.Schema{
				"stylesheet": {Type: "string"},
			},
		},
	}
}
