package users

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	List    *openapi.Operation
	Find    *openapi.Operation
	Create  *openapi.Operation
	Update  *openapi.Operation
	Delete  *openapi.Operation
	Roles   *openapi.Operation
	SetRole *openapi.Operation
	Meta    *openapi.Operation
	SetMeta *openapi.Operation
}

var idParam = openapi.PathParam("id", "integer", "User ID")

var Spec = spec{
	List: &openapi.Operation{
		Summary: "List users",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("role", "string", "Only users holding this role", false),
			openapi.QueryParam("page", "integer", "Page number (default 1)", false),
			openapi.QueryParam("per_page", "integer", "Results per page (default 20)", false),
			openapi.QueryParam("search", "string", "Match login, email, display name or URL", false),
			openapi.QueryParam("orderby", "string", "registered (default), id, login, email or display_name", false),
			openapi.QueryParam("order", "string", "ASC or DESC (default DESC)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Users page", map[string]*openapi.Schema{
				"users": {Type: "array", Items: openapi.SchemaRef("User")},
				"total": {Type: "integer"},
				"page":  {Type: "integer"},
			}),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get user",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("User detail", "UserDetail"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create user",
		Description: "A random password is generated when none is given",
		RequestBody: openapi.RequestBodyJSON("UserCreateRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("User created", map[string]*openapi.Schema{
				"id":       {Type: "integer"},
				"username": {Type: "string"},
				"created":  {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update user",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("UserUpdateRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("User updated", map[string]*openapi.Schema{
				"id":      {Type: "integer"},
				"updated": {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary: "Delete user",
		Parameters: []*openapi.Parameter{
			idParam,
			openapi.QueryParam("reassign", "integer", "User receiving the deleted user's posts. Posts are deleted when omitted.", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("User deleted", map[string]*openapi.Schema{
				"id":                  {Type: "integer"},
				"deleted":             {Type: "boolean"},
				"posts_reassigned_to": {Type: "integer"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Roles: &openapi.Operation{
		Summary: "List roles",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Roles", map[string]*openapi.Schema{
				"roles": {Type: "array", Items: openapi.SchemaRef("Role")},
				"count": {Type: "integer"},
			}),
		},
	},
	SetRole: &openapi.Operation{
		Summary:    "Change user role",
		Parameters: []*openapi.Parameter{idParam},
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{
					Type:       "object",
					Required:   []string{"role"},
					Properties: map[string]*openapi.Schema{"role": {Type: "string", Example: "editor"}},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Role changed", map[string]*openapi.Schema{
				"id":      {Type: "integer"},
				"role":    {Type: "string"},
				"updated": {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Meta: &openapi.Operation{
		Summary:     "Get user meta",
		Description: "Keys starting with an underscore are omitted",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("User meta", map[string]*openapi.Schema{
				"user_id": {Type: "integer"},
				"meta":    {Type: "object"},
			}),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	SetMeta: &openapi.Operation{
		Summary:    "Update user meta",
		Parameters: []*openapi.Parameter{idParam},
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{
					Type:       "object",
					Required:   []string{"meta"},
					Properties: map[string]*openapi.Schema{"meta": {Type: "object"}},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Meta updated", map[string]*openapi.Schema{
				"user_id":      {Type: "integer"},
				"updated_keys": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	user := map[string]*openapi.Schema{
		"id":           {Type: "integer"},
		"username":     {Type: "string"},
		"email":        {Type: "string", Format: "email"},
		"display_name": {Type: "string"},
		"first_name":   {Type: "string"},
		"last_name":    {Type: "string"},
		"roles":        {Type: "array", Items: &openapi.Schema{Type: "string"}},
		"registered":   {Type: "string", Format: "date-time"},
	}
	detail := map[string]*openapi.Schema{
		"nickname":     {Type: "string"},
		"description":  {Type: "string"},
		"url":          {Type: "string"},
		"capabilities": {Type: "array", Items: &openapi.Schema{Type: "string"}},
		"posts_count":  {Type: "integer"},
	}
	for k, v := range user {
		detail[k] = v
	}

	return map[string]*openapi.Schema{
		"User":       {Type: "object", Properties: user},
		"UserDetail": {Type: "object", Properties: detail},
		"Role": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"slug":         {Type: "string"},
				"name":         {Type: "string"},
				"capabilities": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"count":        {Type: "integer"},
			},
		},
		"UserCreateRequest": {
			Type:     "object",
			Required: []string{"username", "email"},
			Properties: map[string]*openapi.Schema{
				"username":          {Type: "string"},
				"email":             {Type: "string", Format: "email"},
				"password":          {Type: "string"},
				"first_name":        {Type: "string"},
				"last_name":         {Type: "string"},
				"role":              {Type: "string", Default: "subscriber"},
				"send_notification": {Type: "boolean", Default: true},
			},
		},
		"UserUpdateRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"email":        {Type: "string", Format: "email"},
				"password":     {Type: "string"},
				"first_name":   {Type: "string"},
				"last_name":    {Type: "string"},
				"display_name": {Type: "string"},
				"description":  {Type: "string"},
				"url":          {Type: "string"},
			},
		},
	}
}
