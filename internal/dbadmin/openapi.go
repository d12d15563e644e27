package dbadmin

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	SearchReplace  *openapi.Operation
	Optimize       *openapi.Operation
	Tables         *openapi.Operation
	CleanRevisions *openapi.Operation
	CleanComments  *openapi.Operation
}

var Spec = spec{
	SearchReplace: &openapi.Operation{
		Summary:     "Search and replace",
		Description: "Counts or replaces occurrences of search in the text columns of the selected tables. Runs as a dry run unless dry_run is false.",
		RequestBody: openapi.RequestBodyJSON("SearchReplaceRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Matches per table", map[string]*openapi.Schema{
				"dry_run":       {Type: "boolean"},
				"search":        {Type: "string"},
				"replace":       {Type: "string"},
				"total_changes": {Type: "integer"},
				"tables":        {Type: "object", Description: "Table name to matching row count"},
			}),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Optimize: &openapi.Operation{
		Summary: "Optimize tables",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Optimized tables", map[string]*openapi.Schema{
				"optimized": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"count":     {Type: "integer"},
			}),
		},
	},
	Tables: &openapi.Operation{
		Summary:     "List tables",
		Description: "Tables ordered by data size, largest first",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Tables", map[string]*openapi.Schema{
				"tables": {Type: "array", Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"name":     {Type: "string"},
						"data_mb":  {Type: "number"},
						"index_mb": {Type: "number"},
						"rows":     {Type: "integer"},
					},
				}},
				"total_size_mb": {Type: "number"},
			}),
		},
	},
	CleanRevisions: &openapi.Operation{
		Summary: "Delete old revisions",
		RequestBody: &openapi.RequestBody{
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"keep": {Type: "integer", Default: 5},
					},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Revisions removed", map[string]*openapi.Schema{
				"deleted":       {Type: "integer"},
				"kept_per_post": {Type: "integer"},
			}),
		},
	},
	CleanComments: &openapi.Operation{
		Summary: "Delete spam and trashed comments",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Comments removed", map[string]*openapi.Schema{
				"spam_deleted":  {Type: "integer"},
				"trash_deleted": {Type: "integer"},
			}),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"SearchReplaceRequest": {
			Type:     "object",
			Required: []string{"search", "replace"},
			Properties: map[string]*openapi.Schema{
				"search":  {Type: "string"},
				"replace": {Type: "string"},
				"tables":  {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"dry_run": {Type: "boolean", Default: true},
			},
		},
	}
}
