package menus

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	List       *openapi.Operation
	Locations  *openapi.Operation
	Find       *openapi.Operation
	Create     *openapi.Operation
	Rename     *openapi.Operation
	Delete     *openapi.Operation
	AddItem    *openapi.Operation
	UpdateItem *openapi.Operation
	DeleteItem *openapi.Operation
	Assign     *openapi.Operation
}

var (
	menuParam = openapi.PathParam("id", "integer", "Menu term ID")
	itemParam = openapi.PathParam("item_id", "integer", "Menu item post ID")
)

var nameBody = &openapi.RequestBody{
	Required: true,
	Content: map[string]*openapi.MediaType{
		"application/json": {Schema: &openapi.Schema{
			Type:       "object",
			Properties: map[string]*openapi.Schema{"name": {Type: "string", Example: "Primary"}},
		}},
	},
}

func done(description, flag string) *openapi.Response {
	return openapi.ObjectResponse(description, map[string]*openapi.Schema{
		"id": {Type: "integer"},
		flag: {Type: "boolean"},
	})
}

var Spec = spec{
	List: &openapi.Operation{
		Summary: "List menus",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Menus", map[string]*openapi.Schema{
				"menus": {Type: "array", Items: openapi.SchemaRef("Menu")},
				"count": {Type: "integer"},
			}),
		},
	},
	Locations: &openapi.Operation{
		Summary: "List menu locations",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Registered locations", map[string]*openapi.Schema{
				"locations": {Type: "array", Items: openapi.SchemaRef("MenuLocation")},
				"count":     {Type: "integer"},
			}),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get menu with items",
		Parameters: []*openapi.Parameter{menuParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Menu", "MenuDetail"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create menu",
		RequestBody: nameBody,
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Menu created", map[string]*openapi.Schema{
				"id":      {Type: "integer"},
				"name":    {Type: "string"},
				"created": {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Rename: &openapi.Operation{
		Summary:     "Rename menu",
		Parameters:  []*openapi.Parameter{menuParam},
		RequestBody: nameBody,
		Responses: map[int]*openapi.Response{
			200: done("Menu updated", "updated"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete menu and its items",
		Parameters: []*openapi.Parameter{menuParam},
		Responses: map[int]*openapi.Response{
			200: done("Menu deleted", "deleted"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	AddItem: &openapi.Operation{
		Summary:     "Add menu item",
		Parameters:  []*openapi.Parameter{menuParam},
		RequestBody: openapi.RequestBodyJSON("MenuItemRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Item created", map[string]*openapi.Schema{
				"id":      {Type: "integer"},
				"menu_id": {Type: "integer"},
				"created": {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	UpdateItem: &openapi.Operation{
		Summary:     "Update menu item",
		Parameters:  []*openapi.Parameter{itemParam},
		RequestBody: openapi.RequestBodyJSON("MenuItemRequest", true),
		Responses: map[int]*openapi.Response{
			200: done("Item updated", "updated"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	DeleteItem: &openapi.Operation{
		Summary:    "Delete menu item",
		Parameters: []*openapi.Parameter{itemParam},
		Responses: map[int]*openapi.Response{
			200: done("Item deleted", "deleted"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Assign: &openapi.Operation{
		Summary:     "Assign menu to location",
		Description: "A menu_id of 0 clears the location",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{
					Type:     "object",
					Required: []string{"menu_id", "location"},
					Properties: map[string]*openapi.Schema{
						"menu_id":  {Type: "integer"},
						"location": {Type: "string", Example: "primary"},
					},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Location assigned", map[string]*openapi.Schema{
				"location": {Type: "string"},
				"menu_id":  {Type: "integer"},
				"assigned": {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	strs := &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}
	return map[string]*openapi.Schema{
		"Menu": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":        {Type: "integer"},
				"name":      {Type: "string"},
				"slug":      {Type: "string"},
				"count":     {Type: "integer"},
				"locations": strs,
			},
		},
		"MenuDetail": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":        {Type: "integer"},
				"name":      {Type: "string"},
				"slug":      {Type: "string"},
				"locations": strs,
				"items":     {Type: "array", Items: openapi.SchemaRef("MenuItem")},
				"count":     {Type: "integer"},
			},
		},
		"MenuItem": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":        {Type: "integer"},
				"title":     {Type: "string"},
				"url":       {Type: "string"},
				"type":      {Type: "string"},
				"object":    {Type: "string"},
				"object_id": {Type: "integer"},
				"parent":    {Type: "integer"},
				"position":  {Type: "integer"},
				"target":    {Type: "string"},
				"classes":   strs,
			},
		},
		"MenuLocation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"location":    {Type: "string"},
				"description": {Type: "string"},
				"menu_id":     {Type: "integer"},
			},
		},
		"MenuItemRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"title":       {Type: "string"},
				"url":         {Type: "string"},
				"object_type": {Type: "string", Default: "custom", Description: "custom, post_type or taxonomy"},
				"object":      {Type: "string", Description: "Post type or taxonomy of the linked object"},
				"object_id":   {Type: "integer"},
				"parent":      {Type: "integer", Default: 0},
				"position":    {Type: "integer", Description: "Omit to append"},
			},
		},
	}
}
