package core

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	Version      *openapi.Operation
	CheckUpdates *openapi.Operation
	Update       *openapi.Operation
	SystemInfo   *openapi.Operation
	FlushRewrite *openapi.Operation
	FlushCache   *openapi.Operation
}

var Spec = spec{
	Version: &openapi.Operation{
		Summary:     "Core version",
		Description: "Installed version, runtime and database versions, and whether a newer release is known",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Version information", "CoreVersion"),
		},
	},
	CheckUpdates: &openapi.Operation{
		Summary:     "Check for updates",
		Description: "Refreshes core, plugin and theme update data from the directory",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Pending updates", map[string]*openapi.Schema{
				"core":    {Type: "string", Description: "Newest available version, or null"},
				"plugins": {Type: "integer"},
				"themes":  {Type: "integer"},
			}),
		},
	},
	Update: &openapi.Operation{
		Summary: "Update core",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Update result", map[string]*openapi.Schema{
				"updated": {Type: "boolean"},
				"version": {Type: "string"},
				"message": {Type: "string"},
			}),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	SystemInfo: &openapi.Operation{
		Summary: "System information",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("System information", map[string]*openapi.Schema{
				"wordpress": {Type: "object"},
				"server":    {Type: "object"},
				"paths":     {Type: "object"},
				"counts":    {Type: "object"},
			}),
		},
	},
	FlushRewrite: &openapi.Operation{
		Summary: "Flush rewrite rules",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Flushed", map[string]*openapi.Schema{"flushed": {Type: "boolean"}}),
		},
	},
	FlushCache: &openapi.Operation{
		Summary:     "Flush caches",
		Description: "Deletes every transient and site transient option",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Flushed", map[string]*openapi.Schema{
				"flushed":            {Type: "boolean"},
				"transients_deleted": {Type: "integer"},
			}),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"CoreVersion": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"wordpress_version": {Type: "string"},
				"go_version":        {Type: "string"},
				"php_version":       {Type: "string", Description: "Runtime version"},
				"database_version":  {Type: "string"},
				"required_php":      {Type: "string"},
				"required_mysql":    {Type: "string"},
				"update_available":  {Type: "boolean"},
				"latest_version":    {Type: "string"},
				"multisite":         {Type: "boolean"},
			},
		},
	}
}
