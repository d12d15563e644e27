package menus

import (
	"log/slog"
	"net/http"
	"strings"

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
		logger: logger.With("handler", "menus"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Menus"},
		Description: "Navigation menus, menu items and theme locations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/menus", Handler: h.List, Capability: auth.CapManageOptions, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "/menus", Handler: h.Create, Capability: auth.CapManageOptions, OpenAPI: Spec.Create},
			{Method: "GET", Pattern: "/menus/locations", Handler: h.Locations, Capability: auth.CapManageOptions, OpenAPI: Spec.Locations},
			{Method: "POST", Pattern: "/menus/locations/assign", Handler: h.Assign, Capability: auth.CapManageOptions, OpenAPI: Spec.Assign},
			{Method: "GET", Pattern: "/menus/{id}", Handler: h.Find, Capability: auth.CapManageOptions, OpenAPI: Spec.Find},
			{Method: "PUT", Pattern: "/menus/{id}", Handler: h.Rename, Capability: auth.CapManageOptions, OpenAPI: Spec.Rename},
			{Method: "DELETE", Pattern: "/menus/{id}", Handler: h.Delete, Capability: auth.CapManageOptions, OpenAPI: Spec.Delete},
			{Method: "POST", Pattern: "/menus/{id}/items", Handler: h.AddItem, Capability: auth.CapManageOptions, OpenAPI: Spec.AddItem},
			{Method: "PUT", Pattern: "/menus/items/{item_id}", Handler: h.UpdateItem, Capability: auth.CapManageOptions, OpenAPI: Spec.UpdateItem},
			{Method: "DELETE", Pattern: "/menus/items/{item_id}", Handler: h.DeleteItem, Capability: auth.CapManageOptions, OpenAPI: Spec.DeleteItem},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	menus, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"menus": menus, "count": len(menus)})
}

func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.sys.Locations(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"locations": locs, "count": len(locs)})
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	m, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, m)
}

type nameRequest struct {
	Name *string `json:"name"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("name"))
		return
	}

	m, err := h.sys.Create(r.Context(), *req.Name)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"id": m.ID, "name": m.Name, "created": true})
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req nameRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	name := ""
	if req.Name != nil {
		name = *req.Name
	}

	if err := h.sys.Rename(r.Context(), id, name); err != nil {
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

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// ItemRequest is the body of the item create and update routes.
type ItemRequest struct {
	Title      *string `json:"title"`
	URL        *string `json:"url"`
	ObjectType string  `json:"object_type"`
	Object     string  `json:"object"`
	ObjectID   int64   `json:"object_id"`
	Parent     *int64  `json:"parent"`
	Position   *int    `json:"position"`
}

func (req ItemRequest) input() ItemInput {
	return ItemInput{
		Title:      req.Title,
		URL:        req.URL,
		ObjectType: req.ObjectType,
		Object:     req.Object,
		ObjectID:   req.ObjectID,
		Parent:     req.Parent,
		Position:   req.Position,
	}
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	menuID, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req ItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.Title == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("title"))
		return
	}
	if req.ObjectType != "" && req.ObjectType != "custom" && req.ObjectID < 1 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("object_id"))
		return
	}

	id, err := h.sys.AddItem(r.Context(), menuID, req.input())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"id": id, "menu_id": menuID, "created": true})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathInt(r, "item_id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req ItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.UpdateItem(r.Context(), itemID, req.input()); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"id": itemID, "updated": true})
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathInt(r, "item_id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.DeleteItem(r.Context(), itemID); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"id": itemID, "deleted": true})
}

// AssignRequest is the body of POST /menus/locations/assign.
type AssignRequest struct {
	MenuID   *int64 `json:"menu_id"`
	Location string `json:"location"`
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	switch {
	case req.MenuID == nil:
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("menu_id"))
		return
	case *req.MenuID < 0:
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Invalid("menu_id", "must not be negative"))
		return
	case req.Location == "":
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("location"))
		return
	}

	if err := h.sys.Assign(r.Context(), req.Location, *req.MenuID); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"location": req.Location,
		"menu_id":  *req.MenuID,
		"assigned": true,
	})
}
