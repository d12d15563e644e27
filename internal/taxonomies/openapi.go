package taxonomies

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	List       *openapi.Operation
	Get        *openapi.Operation
	Terms      *openapi.Operation
	CreateTerm *openapi.Operation
	UpdateTerm *openapi.Operation
	DeleteTerm *openapi.Operation
	Assign     *openapi.Operation
}

var (
	taxonomyParam = openapi.PathParam("taxonomy", "string", "Taxonomy name")
	termParam     = openapi.PathParam("id", "integer", "Term ID")
)

var Spec = spec{
	List: &openapi.Operation{
		Summary: "List taxonomies",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Taxonomies", map[string]*openapi.Schema{
				"taxonomies": {Type: "array", Items: openapi.SchemaRef("Taxonomy")},
				"count":      {Type: "integer"},
			}),
		},
	},
	Get: &openapi.Operation{
		Summary:    "Get taxonomy",
		Parameters: []*openapi.Parameter{taxonomyParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Taxonomy", "Taxonomy"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Terms: &openapi.Operation{
		Summary: "List terms",
		Parameters: []*openapi.Parameter{
			taxonomyParam,
			openapi.QueryParam("hide_empty", "boolean", "Skip terms with no objects (default false)", false),
			openapi.QueryParam("parent", "integer", "Only children of this term", false),
			openapi.QueryParam("search", "string", "Match name or slug", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Terms", map[string]*openapi.Schema{
				"terms": {Type: "array", Items: openapi.SchemaRef("Term")},
				"count": {Type: "integer"},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	CreateTerm: &openapi.Operation{
		Summary:     "Create term",
		Parameters:  []*openapi.Parameter{taxonomyParam},
		RequestBody: openapi.RequestBodyJSON("TermRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Term created", map[string]*openapi.Schema{
				"id":               {Type: "integer"},
				"term_taxonomy_id": {Type: "integer"},
				"slug":             {Type: "string"},
				"created":          {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	UpdateTerm: &openapi.Operation{
		Summary:     "Update term",
		Parameters:  []*openapi.Parameter{taxonomyParam, termParam},
		RequestBody: openapi.RequestBodyJSON("TermRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Term updated", map[string]*openapi.Schema{
				"id":      {Type: "integer"},
				"updated": {Type: "boolean"},
				"term":    openapi.SchemaRef("Term"),
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	DeleteTerm: &openapi.Operation{
		Summary:    "Delete term",
		Parameters: []*openapi.Parameter{taxonomyParam, termParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Term deleted", map[string]*openapi.Schema{
				"id":      {Type: "integer"},
				"deleted": {Type: "boolean"},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Assign: &openapi.Operation{
		Summary:     "Assign terms to a post",
		Description: "Terms may be IDs, slugs or names. Unknown names are created.",
		RequestBody: openapi.RequestBodyJSON("TermAssignRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Terms assigned", map[string]*openapi.Schema{
				"post_id":  {Type: "integer"},
				"taxonomy": {Type: "string"},
				"terms":    {Type: "array", Items: &openapi.Schema{Type: "integer"}},
				"appended": {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Taxonomy": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":         {Type: "string", Example: "category"},
				"label":        {Type: "string"},
				"singular":     {Type: "string"},
				"description":  {Type: "string"},
				"public":       {Type: "boolean"},
				"hierarchical": {Type: "boolean"},
				"rest_base":    {Type: "string"},
				"object_types": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"term_count":   {Type: "integer"},
			},
		},
		"Term": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "integer"},
				"term_taxonomy_id": {Type: "integer"},
				"name":             {Type: "string"},
				"slug":             {Type: "string"},
				"taxonomy":         {Type: "string"},
				"description":      {Type: "string"},
				"parent":           {Type: "integer"},
				"count":            {Type: "integer"},
			},
		},
		"TermRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string"},
				"slug":        {Type: "string"},
				"description": {Type: "string"},
				"parent":      {Type: "integer"},
			},
		},
		"TermAssignRequest": {
			Type:     "object",
			Required: []string{"post_id", "taxonomy", "terms"},
			Properties: map[string]*openapi.Schema{
				"post_id":  {Type: "integer"},
				"taxonomy": {Type: "string"},
				"terms":    {Type: "array", Description: "Term IDs, slugs or names"},
				"append":   {Type: "boolean", Default: false},
			},
		},
	}
}
