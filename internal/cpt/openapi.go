package cpt

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	Types  *openapi.Operation
	Type   *openapi.Operation
	Posts  *openapi.Operation
	Create *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
}

var (
	typeParam = openapi.PathParam("type", "string", "Post type name")
	idParam   = openapi.PathParam("id", "integer", "Post ID")
)

var Spec = spec{
	Types: &openapi.Operation{
		Summary:     "List public post types",
		Description: "Returns public post types with their taxonomies and published count",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Post types", map[string]*openapi.Schema{
				"post_types": {Type: "array", Items: openapi.SchemaRef("PostType")},
				"count":      {Type: "integer"},
			}),
		},
	},
	Type: &openapi.Operation{
		Summary:    "Get post type",
		Parameters: []*openapi.Parameter{typeParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Post type schema", "PostType"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Posts: &openapi.Operation{
		Summary: "List posts",
		Parameters: []*openapi.Parameter{
			typeParam,
			openapi.QueryParam("page", "integer", "Page number (default 1)", false),
			openapi.QueryParam("per_page", "integer", "Results per page (default 20)", false),
			openapi.QueryParam("status", "string", "Comma-separated statuses, or any (default) for everything but trash and auto-draft", false),
			openapi.QueryParam("search", "string", "Search title, content and excerpt", false),
			openapi.QueryParam("orderby", "string", "date, title, modified, id, name or menu_order (default date)", false),
			openapi.QueryParam("order", "string", "ASC or DESC (default DESC)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Posts page", map[string]*openapi.Schema{
				"posts": {Type: "array", Items: openapi.SchemaRef("Post")},
				"total": {Type: "integer"},
				"pages": {Type: "integer"},
				"page":  {Type: "integer"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create post",
		Parameters:  []*openapi.Parameter{typeParam},
		RequestBody: openapi.RequestBodyJSON("PostCreateRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Post created", map[string]*openapi.Schema{
				"id":       {Type: "integer"},
				"created":  {Type: "boolean"},
				"edit_url": {Type: "string"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update post",
		Parameters:  []*openapi.Parameter{typeParam, idParam},
		RequestBody: openapi.RequestBodyJSON("PostUpdateRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Post updated", map[string]*openapi.Schema{
				"id":      {Type: "integer"},
				"updated": {Type: "boolean"},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete post",
		Description: "Moves the post to the trash unless force is true",
		Parameters: []*openapi.Parameter{
			typeParam, idParam,
			openapi.QueryParam("force", "boolean", "Bypass the trash (default false)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Post deleted", map[string]*openapi.Schema{
				"id":      {Type: "integer"},
				"deleted": {Type: "boolean"},
				"trashed": {Type: "boolean"},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"PostType": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":         {Type: "string"},
				"label":        {Type: "string"},
				"singular":     {Type: "string"},
				"public":       {Type: "boolean"},
				"hierarchical": {Type: "boolean"},
				"has_archive":  {Type: "boolean"},
				"rest_base":    {Type: "string"},
				"supports":     {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"taxonomies":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"count":        {Type: "integer"},
				"labels":       {Type: "object"},
				"counts":       {Type: "object"},
			},
		},
		"Post": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "integer"},
				"title":      {Type: "string"},
				"slug":       {Type: "string"},
				"status":     {Type: "string"},
				"type":       {Type: "string"},
				"date":       {Type: "string", Format: "date-time"},
				"modified":   {Type: "string", Format: "date-time"},
				"author":     {Type: "integer"},
				"excerpt":    {Type: "string"},
				"parent":     {Type: "integer"},
				"menu_order": {Type: "integer"},
				"link":       {Type: "string"},
			},
		},
		"PostCreateRequest": {
			Type:     "object",
			Required: []string{"title"},
			Properties: map[string]*openapi.Schema{
				"title":   {Type: "string"},
				"content": {Type: "string", Default: ""},
				"excerpt": {Type: "string"},
				"status":  {Type: "string", Default: "draft"},
				"slug":    {Type: "string"},
				"parent":  {Type: "integer"},
				"meta":    {Type: "object"},
			},
		},
		"PostUpdateRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"title":   {Type: "string"},
				"content": {Type: "string"},
				"excerpt": {Type: "string"},
				"status":  {Type: "string"},
				"slug":    {Type: "string"},
				"meta":    {Type: "object"},
			},
		},
	}
}
