package widgets

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
		logger: logger.With("handler", "widgets"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Widgets"},
		Description: "Sidebars, widget types and widget instances",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/widgets/sidebars", Handler: h.Sidebars, Capability: auth.CapManageOptions, OpenAPI: Spec.Sidebars},
			{Method: "GET", Pattern: "/widgets/sidebars/{sidebar_id}", Handler: h.Sidebar, Capability: auth.CapManageOptions, OpenAPI: Spec.Sidebar},
			{Method: "POST", Pattern: "/widgets/sidebars/{sidebar_id}/reorder", Handler: h.Reorder, Capability: auth.CapManageOptions, OpenAPI: Spec.Reorder},
			{Method: "GET", Pattern: "/widgets/types", Handler: h.Types, Capability: auth.CapManageOptions, OpenAPI: Spec.Types},
			{Method: "POST", Pattern: "/widgets", Handler: h.Add, Capability: auth.CapManageOptions, OpenAPI: Spec.Add},
			{Method: "GET", Pattern: "/widgets/{widget_id}", Handler: h.Get, Capability: auth.CapManageOptions, OpenAPI: Spec.Get},
			{Method: "PUT", Pattern: "/widgets/{widget_id}", Handler: h.Update, Capability: auth.CapManageOptions, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/widgets/{widget_id}", Handler: h.Delete, Capability: auth.CapManageOptions, OpenAPI: Spec.Delete},
			{Method: "POST", Pattern: "/widgets/{widget_id}/move", Handler: h.Move, Capability: auth.CapManageOptions, OpenAPI: Spec.Move},
		},
	}
}

func (h *Handler) Sidebars(w http.ResponseWriter, r *http.Request) {
	sidebars, err := h.sys.Sidebars(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"sidebars": sidebars, "count": len(sidebars)})
}

func (h *Handler) Sidebar(w http.ResponseWriter, r *http.Request) {
	sb, widgets, err := h.sys.Sidebar(r.Context(), r.PathValue("sidebar_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"sidebar": map[string]string{"id": sb.ID, "name": sb.Name},
		"widgets": widgets,
		"count":   len(widgets),
	})
}

func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	types := h.sys.Types()
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"types": types, "count": len(types)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	widget, err := h.sys.Get(r.Context(), r.PathValue("widget_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, widget)
}

// AddRequest is the body of POST /widgets.
type AddRequest struct {
	SidebarID  string         `json:"sidebar_id"`
	WidgetType string         `json:"widget_type"`
	Settings   map[string]any `json:"settings"`
	Position   *int           `json:"position"`
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	switch {
	case req.SidebarID == "":
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("sidebar_id"))
		return
	case req.WidgetType == "":
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("widget_type"))
		return
	}

	id, err := h.sys.Add(r.Context(), req.SidebarID, req.WidgetType, req.Settings, req.Position)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"widget_id":  id,
		"sidebar_id": req.SidebarID,
		"created":    true,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("widget_id")

	var req struct {
		Settings map[string]any `json:"settings"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Update(r.Context(), id, req.Settings); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"widget_id": id, "updated": true})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("widget_id")
	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"widget_id": id, "deleted": true})
}

func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("widget_id")

	var req struct {
		SidebarID string `json:"sidebar_id"`
		Position  *int   `json:"position"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.SidebarID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("sidebar_id"))
		return
	}

	from, err := h.sys.Move(r.Context(), id, req.SidebarID, req.Position)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"widget_id":    id,
		"from_sidebar": from,
		"to_sidebar":   req.SidebarID,
		"moved":        true,
	})
}

func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	sidebar := r.PathValue("sidebar_id")

	var req struct {
		WidgetIDs []string `json:"widget_ids"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.WidgetIDs == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("widget_ids"))
		return
	}

	ids, err := h.sys.Reorder(r.Context(), sidebar, req.WidgetIDs)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"sidebar_id": sidebar,
		"widget_ids": ids,
		"reordered":  true,
	})
}
