package plugins

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/mcp-endpoints/internal/auth"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

// Handler serves the plugin routes.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "plugins"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Plugins"},
		Description: "Plugin installation, updates and activation",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/plugins", Handler: h.List, Capability: auth.CapManageOptions, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/plugins/search", Handler: h.Search, Capability: auth.CapManageOptions, OpenAPI: Spec.Search},
			{Method: "POST", Pattern: "/plugins/install", Handler: h.Install, Capability: auth.CapInstallPlugins, OpenAPI: Spec.Install},
			{Method: "POST", Pattern: "/plugins/update", Handler: h.Update, Capability: auth.CapInstallPlugins, OpenAPI: Spec.Update},
			{Method: "POST", Pattern: "/plugins/update-all", Handler: h.UpdateAll, Capability: auth.CapInstallPlugins, OpenAPI: Spec.UpdateAll},
			{Method: "POST", Pattern: "/plugins/activate", Handler: h.Activate, Capability: auth.CapInstallPlugins, OpenAPI: Spec.Activate},
			{Method: "POST", Pattern: "/plugins/deactivate", Handler: h.Deactivate, Capability: auth.CapInstallPlugins, OpenAPI: Spec.Deactivate},
			{Method: "DELETE", Pattern: "/plugins/delete", Handler: h.Delete, Capability: auth.CapInstallPlugins, OpenAPI: Spec.Delete},
		},
	}
}

// InstallRequest is the body of POST /plugins/install.
type InstallRequest struct {
	Slug     string `json:"slug"`
	Activate bool   `json:"activate"`
}

// FileRequest names an installed plugin by its main file.
type FileRequest struct {
	Plugin string `json:"plugin"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"plugins": list, "count": len(list)})
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
	file, ok := h.file(w, r)
	if !ok {
		return
	}

	updated, err := h.sys.Update(r.Context(), file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"updated": updated, "plugin": file})
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
	file, ok := h.file(w, r)
	if !ok {
		return
	}
	if err := h.sys.Activate(r.Context(), file); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"activated": true, "plugin": file})
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	file, ok := h.file(w, r)
	if !ok {
		return
	}
	if err := h.sys.Deactivate(r.Context(), file); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"deactivated": true, "plugin": file})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	file, ok := h.file(w, r)
	if !ok {
		return
	}
	if err := h.sys.Delete(r.Context(), file); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"deleted": true, "plugin": file})
}

// file reads the plugin argument from the JSON body, falling back to the query string.
func (h *Handler) file(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req FileRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return "", false
	}
	if req.Plugin == "" {
		req.Plugin = r.URL.Query().Get("plugin")
	}
	req.Plugin = strings.TrimSpace(req.Plugin)
	if req.Plugin == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("plugin"))
		return "", false
	}
	return req.Plugin, true
}
