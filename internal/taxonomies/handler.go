package taxonomies

import (
	"log/slog"
	"net/http"
	"strconv"

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
		logger: logger.With("handler", "taxonomies"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Taxonomies"},
		Description: "Taxonomies, terms and term assignment",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/taxonomies", Handler: h.List, Capability: auth.CapManageOptions, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "/taxonomies/assign", Handler: h.Assign, Capability: auth.CapManageOptions, OpenAPI: Spec.Assign},
			{Method: "GET", Pattern: "/taxonomies/{taxonomy}", Handler: h.Get, Capability: auth.CapManageOptions, OpenAPI: Spec.Get},
			{Method: "GET", Pattern: "/taxonomies/{taxonomy}/terms", Handler: h.Terms, Capability: auth.CapManageOptions, OpenAPI: Spec.Terms},
			{Method: "POST", Pattern: "/taxonomies/{taxonomy}/terms", Handler: h.CreateTerm, Capability: auth.CapManageOptions, OpenAPI: Spec.CreateTerm},
			{Method: "PUT", Pattern: "/taxonomies/{taxonomy}/terms/{id}", Handler: h.UpdateTerm, Capability: auth.CapManageOptions, OpenAPI: Spec.UpdateTerm},
			{Method: "DELETE", Pattern: "/taxonomies/{taxonomy}/terms/{id}", Handler: h.DeleteTerm, Capability: auth.CapManageOptions, OpenAPI: Spec.DeleteTerm},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"taxonomies": list, "count": len(list)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.Get(r.Context(), r.PathValue("taxonomy"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, s)
}

func (h *Handler) Terms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := TermFilter{
		HideEmpty: handlers.QueryBool(q, "hide_empty", false),
		Search:    q.Get("search"),
	}
	if raw := q.Get("parent"); raw != "" {
		parent, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parent < 0 {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Invalid("parent", "must be a non-negative integer"))
			return
		}
		f.Parent = &parent
	}

	terms, err := h.sys.Terms(r.Context(), r.PathValue("taxonomy"), f)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"terms": terms, "count": len(terms)})
}

// TermRequest is the body of the term create and update routes.
type TermRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Parent      *int64  `json:"parent"`
}

func (req TermRequest) input() TermInput {
	return TermInput{Name: req.Name, Slug: req.Slug, Description: req.Description, Parent: req.Parent}
}

func (h *Handler) CreateTerm(w http.ResponseWriter, r *http.Request) {
	var req TermRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.Name == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("name"))
		return
	}

	t, err := h.sys.CreateTerm(r.Context(), r.PathValue("taxonomy"), req.input())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"id":               t.ID,
		"term_taxonomy_id": t.TaxonomyID,
		"slug":             t.Slug,
		"created":          true,
	})
}

func (h *Handler) UpdateTerm(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req TermRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	t, err := h.sys.UpdateTerm(r.Context(), r.PathValue("taxonomy"), id, req.input())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"id": t.ID, "updated": true, "term": t})
}

func (h *Handler) DeleteTerm(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.DeleteTerm(r.Context(), r.PathValue("taxonomy"), id); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// AssignRequest is the body of POST /taxonomies/assign.
type AssignRequest struct {
	PostID   int64  `json:"post_id"`
	Taxonomy string `json:"taxonomy"`
	Terms    []any  `json:"terms"`
	Append   bool   `json:"append"`
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	switch {
	case req.PostID < 1:
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("post_id"))
		return
	case req.Taxonomy == "":
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("taxonomy"))
		return
	case req.Terms == nil:
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("terms"))
		return
	}

	ids, err := h.sys.Assign(r.Context(), Assignment{
		PostID:   req.PostID,
		Taxonomy: req.Taxonomy,
		Terms:    req.Terms,
		Append:   req.Append,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"post_id":  req.PostID,
		"taxonomy": req.Taxonomy,
		"terms":    ids,
		"appended": req.Append,
	})
}
