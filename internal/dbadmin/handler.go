package dbadmin

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/internal/auth"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "dbadmin"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Database"},
		Description: "Database maintenance",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/db/search-replace", Handler: h.SearchReplace, Capability: auth.CapManageOptions, OpenAPI: Spec.SearchReplace},
			{Method: "POST", Pattern: "/db/optimize", Handler: h.Optimize, Capability: auth.CapManageOptions, OpenAPI: Spec.Optimize},
			{Method: "GET", Pattern: "/db/tables", Handler: h.Tables, Capability: auth.CapManageOptions, OpenAPI: Spec.Tables},
			{Method: "POST", Pattern: "/db/clean-revisions", Handler: h.CleanRevisions, Capability: auth.CapManageOptions, OpenAPI: Spec.CleanRevisions},
			{Method: "POST", Pattern: "/db/clean-comments", Handler: h.CleanComments, Capability: auth.CapManageOptions, OpenAPI: Spec.CleanComments},
		},
	}
}

// SearchReplaceRequest is the body of POST /db/search-replace.
type SearchReplaceRequest struct {
	Search  *string  `json:"search"`
	Replace *string  `json:"replace"`
	Tables  []string `json:"tables"`
	DryRun  *bool    `json:"dry_run"`
}

func (h *Handler) SearchReplace(w http.ResponseWriter, r *http.Request) {
	var req SearchReplaceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.Search == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("search"))
		return
	}
	if req.Replace == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("replace"))
		return
	}

	dryRun := true
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	result, err := h.sys.SearchReplace(r.Context(), SearchReplace{
		Search:  *req.Search,
		Replace: *req.Replace,
		Tables:  req.Tables,
		DryRun:  dryRun,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	tables, err := h.sys.Optimize(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"optimized": tables, "count": len(tables)})
}

func (h *Handler) Tables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.sys.Tables(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	var total float64
	for _, t := range tables {
		total += t.DataMB + t.IndexMB
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"tables":        tables,
		"total_size_mb": round2(total),
	})
}

// CleanRevisionsRequest is the body of POST /db/clean-revisions.
type CleanRevisionsRequest struct {
	Keep *int `json:"keep"`
}

func (h *Handler) CleanRevisions(w http.ResponseWriter, r *http.Request) {
	var req CleanRevisionsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	keep := handlers.QueryInt(r.URL.Query(), "keep", 5)
	if req.Keep != nil {
		keep = *req.Keep
	}

	deleted, err := h.sys.CleanRevisions(r.Context(), keep)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"deleted": deleted, "kept_per_post": keep})
}

func (h *Handler) CleanComments(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.CleanComments(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}
