package media

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	List       *openapi.Operation
	Find       *openapi.Operation
	Upload     *openapi.Operation
	Sideload   *openapi.Operation
	Update     *openapi.Operation
	Delete     *openapi.Operation
	BulkDelete *openapi.Operation
	Regenerate *openapi.Operation
	Stats      *openapi.Operation
}

var idParam = openapi.PathParam("id", "integer", "Attachment ID")

var fieldProps = map[string]*openapi.Schema{
	"title":       {Type: "string"},
	"caption":     {Type: "string"},
	"description": {Type: "string"},
	"alt":         {Type: "string", Description: "Alternative text for images"},
}

func uploaded(description string, extra map[string]*openapi.Schema) *openapi.Response {
	props := map[string]*openapi.Schema{
		"id":       {Type: "integer"},
		"url":      {Type: "string"},
		"uploaded": {Type: "boolean"},
	}
	for k, v := range extra {
		props[k] = v
	}
	return openapi.ObjectResponse(description, props)
}

var Spec = spec{
	List: &openapi.Operation{
		Summary: "List media",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (default 1)", false),
			openapi.QueryParam("per_page", "integer", "Items per page (default 20)", false),
			openapi.QueryParam("mime_type", "string", "MIME type or type prefix such as image", false),
			openapi.QueryParam("search", "string", "Search title, caption and description", false),
			openapi.QueryParam("orderby", "string", "date, id, title, name or modified", false),
			openapi.QueryParam("order", "string", "ASC or DESC (default DESC)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Media page", map[string]*openapi.Schema{
				"media": {Type: "array", Items: openapi.SchemaRef("Media")},
				"total": {Type: "integer"},
				"pages": {Type: "integer"},
				"page":  {Type: "integer"},
			}),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get media item",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Attachment", "MediaDetail"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Upload: &openapi.Operation{
		Summary: "Upload media",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {Schema: &openapi.Schema{
					Type:     "object",
					Required: []string{"file"},
					Properties: map[string]*openapi.Schema{
						"file":        {Type: "string", Format: "binary"},
						"title":       {Type: "string"},
						"caption":     {Type: "string"},
						"description": {Type: "string"},
						"alt":         {Type: "string"},
					},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: uploaded("Attachment created", nil),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("BadRequest"),
		},
	},
	Sideload: &openapi.Operation{
		Summary: "Upload media from URL",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{
					Type:     "object",
					Required: []string{"url"},
					Properties: map[string]*openapi.Schema{
						"url":      {Type: "string", Example: "https://example.com/photo.jpg"},
						"filename": {Type: "string"},
						"title":    {Type: "string"},
						"caption":  {Type: "string"},
						"alt":      {Type: "string"},
					},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: uploaded("Attachment created", map[string]*openapi.Schema{"source_url": {Type: "string"}}),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Update: &openapi.Operation{
		Summary:    "Update media metadata",
		Parameters: []*openapi.Parameter{idParam},
		RequestBody: &openapi.RequestBody{
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{Type: "object", Properties: fieldProps}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Attachment updated", map[string]*openapi.Schema{
				"id":      {Type: "integer"},
				"updated": {Type: "boolean"},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete media",
		Description: "Attachments are deleted permanently together with every generated rendition",
		Parameters: []*openapi.Parameter{
			idParam,
			openapi.QueryParam("force", "boolean", "Accepted for compatibility; deletion is always permanent", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Attachment deleted", map[string]*openapi.Schema{
				"id":      {Type: "integer"},
				"deleted": {Type: "boolean"},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	BulkDelete: &openapi.Operation{
		Summary: "Delete several media items",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{
					Type:     "object",
					Required: []string{"ids"},
					Properties: map[string]*openapi.Schema{
						"ids":   {Type: "array", Items: &openapi.Schema{Type: "integer"}},
						"force": {Type: "boolean", Default: true},
					},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Deletion report", map[string]*openapi.Schema{
				"deleted":       {Type: "array", Items: &openapi.Schema{Type: "integer"}},
				"failed":        {Type: "array", Items: &openapi.Schema{Type: "integer"}},
				"deleted_count": {Type: "integer"},
			}),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Regenerate: &openapi.Operation{
		Summary:    "Regenerate image sizes",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Renditions rebuilt", map[string]*openapi.Schema{
				"id":          {Type: "integer"},
				"regenerated": {Type: "boolean"},
				"sizes":       {Type: "array", Items: &openapi.Schema{Type: "string"}},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Stats: &openapi.Operation{
		Summary: "Media library statistics",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Statistics", "MediaStats"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	media := map[string]*openapi.Schema{
		"id":        {Type: "integer"},
		"title":     {Type: "string"},
		"url":       {Type: "string"},
		"mime_type": {Type: "string"},
		"date":      {Type: "string", Format: "date-time"},
		"alt":       {Type: "string"},
		"width":     {Type: "integer"},
		"height":    {Type: "integer"},
	}

	detail := map[string]*openapi.Schema{
		"caption":     {Type: "string"},
		"description": {Type: "string"},
		"filename":    {Type: "string"},
		"filesize":    {Type: "integer"},
		"page_count":  {Type: "integer"},
		"attached_to": {Type: "integer"},
		"sizes":       {Type: "object", Description: "Renditions keyed by size name with url, width and height"},
	}
	for k, v := range media {
		detail[k] = v
	}

	return map[string]*openapi.Schema{
		"Media":       {Type: "object", Properties: media},
		"MediaDetail": {Type: "object", Properties: detail},
		"MediaStats": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total":              {Type: "integer"},
				"by_type":            {Type: "object"},
				"upload_path":        {Type: "string"},
				"upload_url":         {Type: "string"},
				"total_size_mb":      {Type: "number"},
				"max_upload_size":    {Type: "integer"},
				"max_upload_size_mb": {Type: "number"},
			},
		},
	}
}
