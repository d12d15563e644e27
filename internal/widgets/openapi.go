package widgets

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	Sidebars *openapi.Operation
	Sidebar  *openapi.Operation
	Types    *openapi.Operation
	Get      *openapi.Operation
	Add      *openapi.Operation
	Update   *openapi.Operation
	Delete   *openapi.Operation
	Move     *openapi.Operation
	Reorder  *openapi.Operation
}

var (
	sidebarParam = openapi.PathParam("sidebar_id", "string", "Sidebar ID")
	widgetParam  = openapi.PathParam("widget_id", "string", "Widget ID such as text-2")
)

func jsonBody(required []string, props map[string]*openapi.Schema) *openapi.RequestBody {
	return &openapi.RequestBody{
		Required: true,
		Content: map[string]*openapi.MediaType{
			"application/json": {Schema: &openapi.Schema{Type: "object", Required: required, Properties: props}},
		},
	}
}

var Spec = spec{
	Sidebars: &openapi.Operation{
		Summary: "List sidebars",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Sidebars", map[string]*openapi.Schema{
				"sidebars": {Type: "array", Items: openapi.SchemaRef("Sidebar")},
				"count":    {Type: "integer"},
			}),
		},
	},
	Sidebar: &openapi.Operation{
		Summary:    "List widgets in a sidebar",
		Parameters: []*openapi.Parameter{sidebarParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Sidebar widgets", map[string]*openapi.Schema{
				"sidebar": {Type: "object"},
				"widgets": {Type: "array", Items: openapi.SchemaRef("Widget")},
				"count":   {Type: "integer"},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Types: &openapi.Operation{
		Summary: "List widget types",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Widget types", map[string]*openapi.Schema{
				"types": {Type: "array", Items: openapi.SchemaRef("WidgetType")},
				"count": {Type: "integer"},
			}),
		},
	},
	Get: &openapi.Operation{
		Summary:    "Get widget",
		Parameters: []*openapi.Parameter{widgetParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Widget and its sidebar", "Widget"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Add: &openapi.Operation{
		Summary: "Add widget",
		RequestBody: jsonBody([]string{"sidebar_id", "widget_type"}, map[string]*openapi.Schema{
			"sidebar_id":  {Type: "string", Example: "sidebar-1"},
			"widget_type": {Type: "string", Example: "text"},
			"settings":    {Type: "object"},
			"position":    {Type: "integer", Description: "Zero-based index. Omit or use a negative value to append."},
		}),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Widget added", map[string]*openapi.Schema{
				"widget_id":  {Type: "string"},
				"sidebar_id": {Type: "string"},
				"created":    {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update widget settings",
		Description: "Settings are merged into the stored instance",
		Parameters:  []*openapi.Parameter{widgetParam},
		RequestBody: jsonBody(nil, map[string]*openapi.Schema{"settings": {Type: "object"}}),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Widget updated", map[string]*openapi.Schema{
				"widget_id": {Type: "string"},
				"updated":   {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete widget",
		Parameters: []*openapi.Parameter{widgetParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Widget deleted", map[string]*openapi.Schema{
				"widget_id": {Type: "string"},
				"deleted":   {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Move: &openapi.Operation{
		Summary:    "Move widget to a sidebar",
		Parameters: []*openapi.Parameter{widgetParam},
		RequestBody: jsonBody([]string{"sidebar_id"}, map[string]*openapi.Schema{
			"sidebar_id": {Type: "string"},
			"position":   {Type: "integer"},
		}),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Widget moved", map[string]*openapi.Schema{
				"widget_id":    {Type: "string"},
				"from_sidebar": {Type: "string"},
				"to_sidebar":   {Type: "string"},
				"moved":        {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Reorder: &openapi.Operation{
		Summary:     "Reorder sidebar widgets",
		Description: "Listed widgets come first; unlisted widgets keep their relative order after them",
		Parameters:  []*openapi.Parameter{sidebarParam},
		RequestBody: jsonBody([]string{"widget_ids"}, map[string]*openapi.Schema{
			"widget_ids": {Type: "array", Items: &openapi.Schema{Type: "string"}},
		}),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Sidebar reordered", map[string]*openapi.Schema{
				"sidebar_id": {Type: "string"},
				"widget_ids": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"reordered":  {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Sidebar": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string"},
				"name":         {Type: "string"},
				"description":  {Type: "string"},
				"class":        {Type: "string"},
				"widget_count": {Type: "integer"},
			},
		},
		"Widget": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Example: "text-2"},
				"type":       {Type: "string"},
				"name":       {Type: "string"},
				"settings":   {Type: "object"},
				"sidebar_id": {Type: "string"},
			},
		},
		"WidgetType": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id_base":     {Type: "string"},
				"name":        {Type: "string"},
				"description": {Type: "string"},
			},
		},
	}
}
