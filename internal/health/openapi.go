package health

import "github.com/JaimeStill/mcp-endpoints/pkg/openapi"

type spec struct {
	Check   *openapi.Operation
	Debug   *openapi.Operation
	Runtime *openapi.Operation
	Plugins *openapi.Operation
	Cron    *openapi.Operation
	RunCron *openapi.Operation
}

var Spec = spec{
	Check: &openapi.Operation{
		Summary:     "Site health summary",
		Description: "Score starts at 100 and loses 10 per issue. 80 and above is good, 60 and above is warning.",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Health report", "HealthReport"),
		},
	},
	Debug: &openapi.Operation{
		Summary: "Debug information",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Debug information", map[string]*openapi.Schema{
				"wordpress": {Type: "object"},
				"server":    {Type: "object"},
				"database":  {Type: "object"},
				"paths":     {Type: "object"},
				"constants": {Type: "object"},
			}),
		},
	},
	Runtime: &openapi.Operation{
		Summary: "Server runtime report",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Runtime report", "RuntimeInfo"),
		},
	},
	Plugins: &openapi.Operation{
		Summary: "Plugin update status",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Plugin status", map[string]*openapi.Schema{
				"plugins":           {Type: "array", Items: openapi.SchemaRef("PluginStatus")},
				"total":             {Type: "integer"},
				"active":            {Type: "integer"},
				"inactive":          {Type: "integer"},
				"updates_available": {Type: "integer"},
			}),
		},
	},
	Cron: &openapi.Operation{
		Summary: "Scheduled events",
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Cron status", map[string]*openapi.Schema{
				"cron_disabled": {Type: "boolean"},
				"schedules":     {Type: "object"},
				"events":        {Type: "array", Items: openapi.SchemaRef("CronEvent"), Description: "First 50 events by time"},
				"total_events":  {Type: "integer"},
			}),
		},
	},
	RunCron: &openapi.Operation{
		Summary: "Run a scheduled hook now",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{
					Type:       "object",
					Required:   []string{"hook"},
					Properties: map[string]*openapi.Schema{"hook": {Type: "string", Example: "wp_version_check"}},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ObjectResponse("Hook executed", map[string]*openapi.Schema{
				"hook":     {Type: "string"},
				"executed": {Type: "boolean"},
			}),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"HealthReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status":    {Type: "string", Enum: []string{"good", "warning", "critical"}},
				"score":     {Type: "integer"},
				"wordpress": {Type: "object"},
				"php":       {Type: "object"},
				"database":  {Type: "object"},
				"updates":   {Type: "object"},
				"debug":     {Type: "object"},
				"ssl":       {Type: "boolean"},
				"multisite": {Type: "boolean"},
				"issues":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"RuntimeInfo": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"version":        {Type: "string"},
				"gomaxprocs":     {Type: "integer"},
				"memory_usage":   {Type: "string"},
				"build_settings": {Type: "object"},
				"extensions":     {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"PluginStatus": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"file":             {Type: "string"},
				"name":             {Type: "string"},
				"version":          {Type: "string"},
				"active":           {Type: "boolean"},
				"update_available": {Type: "boolean"},
				"new_version":      {Type: "string", Description: "Null when current"},
			},
		},
		"CronEvent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"hook":      {Type: "string"},
				"timestamp": {Type: "integer"},
				"next_run":  {Type: "string", Example: "2024-01-01 00:00:00"},
				"schedule":  {Type: "string"},
				"interval":  {Type: "integer"},
				"args":      {Type: "array", Items: &openapi.Schema{}},
			},
		},
	}
}
