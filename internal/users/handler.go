package users

import (
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
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "users"),
		pagination: pagination,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Users"},
		Description: "User accounts, roles and user meta",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/users", Handler: h.List, Capability: auth.CapManageOptions, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "/users", Handler: h.Create, Capability: auth.CapManageOptions, OpenAPI: Spec.Create},
			{Method: "GET", Pattern: "/users/roles", Handler: h.Roles, Capability: auth.CapManageOptions, OpenAPI: Spec.Roles},
			{Method: "GET", Pattern: "/users/{id}", Handler: h.Find, Capability: auth.CapManageOptions, OpenAPI: Spec.Find},
			{Method: "PUT", Pattern: "/users/{id}", Handler: h.Update, Capability: auth.CapManageOptions, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/users/{id}", Handler: h.Delete, Capability: auth.CapManageOptions, OpenAPI: Spec.Delete},
			{Method: "PUT", Pattern: "/users/{id}/role", Handler: h.SetRole, Capability: auth.CapManageOptions, OpenAPI: Spec.SetRole},
			{Method: "GET", Pattern: "/users/{id}/meta", Handler: h.Meta, Capability: auth.CapManageOptions, OpenAPI: Spec.Meta},
			{Method: "POST", Pattern: "/users/{id}/meta", Handler: h.SetMeta, Capability: auth.CapManageOptions, OpenAPI: Spec.SetMeta},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	orderBy := strings.ToLower(handlers.QueryString(q, "orderby", "registered"))
	if !ValidOrderBy(orderBy) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			handlers.Invalid("orderby", "must be one of registered, id, login, email, display_name"))
		return
	}

	page, err := h.sys.List(r.Context(), Query{
		PageRequest: pagination.PageRequestFromQuery(q, h.pagination, 20),
		Role:        q.Get("role"),
		Search:      strings.TrimSpace(q.Get("search")),
		OrderBy:     orderBy,
		Desc:        !strings.EqualFold(q.Get("order"), "ASC"),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, page)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	u, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, u)
}

// CreateRequest is the body of POST /users.
type CreateRequest struct {
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	Role             string  `json:"role"`
	SendNotification *bool   `json:"send_notification"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	switch {
	case strings.TrimSpace(req.Username) == "":
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("username"))
		return
	case strings.TrimSpace(req.Email) == "":
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("email"))
		return
	}
	if req.Role == "" {
		req.Role = "subscriber"
	}

	u, err := h.sys.Create(r.Context(), CreateCommand{
		Username:  req.Username,
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Notify:    req.SendNotification == nil || *req.SendNotification,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"created":  true,
	})
}

// UpdateRequest is the body of PUT /users/{id}.
type UpdateRequest struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DisplayName *string `json:"display_name"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
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

	if err := h.sys.Update(r.Context(), id, UpdateCommand(req)); err != nil {
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
	if id == auth.UserID(r.Context()) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrDeleteSelf)
		return
	}

	reassign := int64(handlers.QueryInt(r.URL.Query(), "reassign", 0))
	var body struct {
		Reassign *int64 `json:"reassign"`
	}
	if err := handlers.DecodeJSON(r, &body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if body.Reassign != nil {
		reassign = *body.Reassign
	}
	if reassign < 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Invalid("reassign", "must be a user ID"))
		return
	}

	if err := h.sys.Delete(r.Context(), id, reassign); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	var reassigned any
	if reassign > 0 {
		reassigned = reassign
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"id":                  id,
		"deleted":             true,
		"posts_reassigned_to": reassigned,
	})
}

func (h *Handler) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.sys.Roles(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"roles": roles, "count": len(roles)})
}

func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.Role == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("role"))
		return
	}

	if err := h.sys.SetRole(r.Context(), id, req.Role); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"role":    SanitizeKey(req.Role),
		"updated": true,
	})
}

func (h *Handler) Meta(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	meta, err := h.sys.Meta(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"user_id": id, "meta": meta})
}

func (h *Handler) SetMeta(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Meta map[string]any `json:"meta"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.Meta == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("meta"))
		return
	}

	keys, err := h.sys.SetMeta(r.Context(), id, req.Meta)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"user_id": id, "updated_keys": keys})
}
