package cpt

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/mcp-endpoints/internal/auth"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/pagination"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	adminURL   string
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, adminURL string) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "cpt"),
		pagination: pagination,
		adminURL:   adminURL,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Content Types"},
		Description: "Registered post types and their posts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/cpt", Handler: h.Types, Capability: auth.CapManageOptions, OpenAPI: Spec.Types},
			{Method: "GET", Pattern: "/cpt/{type}", Handler: h.Type, Capability: auth.CapManageOptions, OpenAPI: Spec.Type},
			{Method: "GET", Pattern: "/cpt/{type}/posts", Handler: h.Posts, Capability: auth.CapManageOptions, OpenAPI: Spec.Posts},
			{Method: "POST", Pattern: "/cpt/{type}/posts", Handler: h.Create, Capability: auth.CapManageOptions, OpenAPI: Spec.Create},
			{Method: "PUT", Pattern: "/cpt/{type}/posts/{id}", Handler: h.Update, Capability: auth.CapManageOptions, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/cpt/{type}/posts/{id}", Handler: h.Delete, Capability: auth.CapManageOptions, OpenAPI: Spec.Delete},
		},
	}
}

func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	types, err := h.sys.Types(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"post_types": types, "count": len(types)})
}

func (h *Handler) Type(w http.ResponseWriter, r *http.Request) {
	detail, err := h.sys.Type(r.Context(), r.PathValue("type"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, detail)
}

func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	orderBy := strings.ToLower(handlers.QueryString(q, "orderby", "date"))
	if !ValidOrderBy(orderBy) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			handlers.Invalid("orderby", "must be one of date, title, modified, id, name, menu_order"))
		return
	}

	order := strings.ToUpper(handlers.QueryString(q, "order", "DESC"))
	if order != "ASC" && order != "DESC" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Invalid("order", "must be ASC or DESC"))
		return
	}

	include, _ := ParseStatuses(q.Get("status"))

	page, err := h.sys.Posts(r.Context(), r.PathValue("type"), PostQuery{
		PageRequest: pagination.PageRequestFromQuery(q, h.pagination, 20),
		Statuses:    include,
		Search:      q.Get("search"),
		OrderBy:     orderBy,
		Desc:        order == "DESC",
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, page)
}

// CreateRequest is the body of POST /cpt/{type}/posts.
type CreateRequest struct {
	Title   string         `json:"title"`
	Content string         `json:"content"`
	Excerpt string         `json:"excerpt"`
	Status  string         `json:"status"`
	Slug    string         `json:"slug"`
	Parent  int64          `json:"parent"`
	Meta    map[string]any `json:"meta"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("title"))
		return
	}

	post, err := h.sys.Create(r.Context(), r.PathValue("type"), CreateCommand{
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Status:  req.Status,
		Slug:    req.Slug,
		Parent:  req.Parent,
		Author:  auth.UserID(r.Context()),
		Meta:    req.Meta,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"id":       post.ID,
		"created":  true,
		"edit_url": fmt.Sprintf("%spost.php?post=%d&action=edit", h.adminURL, post.ID),
	})
}

// UpdateRequest is the body of PUT /cpt/{type}/posts/{id}.
type UpdateRequest struct {
	Title   *string        `json:"title"`
	Content *string        `json:"content"`
	Excerpt *string        `json:"excerpt"`
	Status  *string        `json:"status"`
	Slug    *string        `json:"slug"`
	Meta    map[string]any `json:"meta"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req UpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	err = h.sys.Update(r.Context(), r.PathValue("type"), id, UpdateCommand{
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Status:  req.Status,
		Slug:    req.Slug,
		Meta:    req.Meta,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"id": id, "updated": true})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	force := handlers.QueryBool(r.URL.Query(), "force", false)

	trashed, err := h.sys.Delete(r.Context(), r.PathValue("type"), id, force)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true, "trashed": trashed})
}
