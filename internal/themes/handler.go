package themes

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
		logger: logger.With("handler", "themes"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Themes"},
		Description: "Theme installation, updates and switching",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/themes", Handler: h.List, Capability: auth.CapManageOptions, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/themes/search", Handler: h.Search, Capability: auth.CapManageOptions, OpenAPI: Spec.Search},
			{Method: "POST", Pattern: "/themes/install", Handler: h.Install, Capability: auth.CapInstallPlugins, OpenAPI: Spec.Install},
			{Method: "POST", Pattern: "/themes/update", Handler: h.Update, Capability: auth.CapInstallPlugins, OpenAPI: Spec.Update},
			{Method: "POST", Pattern: "/themes/update-all", Handler: h.UpdateAll, Capability: auth.CapInstallPlugins, OpenAPI: Spec.UpdateAll},
			{Method: "POST", Pattern: "/themes/activate", Handler: h.Activate, Capability: auth.CapInstallPlugins, OpenAPI: Spec.Activate},
			{Method: "DELETE", Pattern: "/themes/delete", Handler: h.Delete, Capability: auth.CapInstallPlugins, OpenAPI: Spec.Delete},
		},
	}
}

// InstallRequest is the body of POST /themes/install.
type InstallRequest struct {
	Slug     string `json:"slug"`
	Activate bool   `json:"activate"`
}

// StylesheetRequest names an installed theme.
type StylesheetRequest struct {
	Stylesheet string `json:"stylesheet"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	active := ""
	for _, t := range list {
		if t.Active {
			active = t.Stylesheet
		}
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"themes": list, "count": len(list), "active": active})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := strings.TrimSpace(q.Get("search"))
	if search == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("search"))
		return
	}

	result, err := h.sys.Search(r.Context(), search, handlers.QueryInt(q, "per_page", 10))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Install(w http.ResponseWriter, r *http.Request) {
	var req InstallRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Slug == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("slug"))
		return
	}

	result, err := h.sys.Install(r.Context(), req.Slug, req.Activate)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	stylesheet, ok := h.stylesheet(w, r)
	if !ok {
		return
	}

	updated, err := h.sys.Update(r.Context(), stylesheet)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"updated": updated, "theme": stylesheet})
}

func (h *Handler) UpdateAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.UpdateAll(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	stylesheet, ok := h.stylesheet(w, r)
	if !ok {
		return
	}

	t, err := h.sys.Activate(r.Context(), stylesheet)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"activated": true, "theme": t.Stylesheet, "name": t.Name})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	stylesheet, ok := h.stylesheet(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), stylesheet); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"deleted": true, "theme": stylesheet})
}

func (h *Handler) stylesheet(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req StylesheetRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return "", false
	}
	if req.Stylesheet == "" {
		req.Stylesheet = r.URL.Query().Get("stylesheet")
	}
	req.Stylesheet = strings.TrimSpace(req.Stylesheet)
	if req.Stylesheet == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("stylesheet"))
		return "", false
	}
	return req.Stylesheet, true
}
