package core

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
		logger: logger.With("handler", "core"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Core"},
		Description: "Core version, updates and site maintenance",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/core/version", Handler: h.Version, Capability: auth.CapManageOptions, OpenAPI: Spec.Version},
			{Method: "POST", Pattern: "/core/check-updates", Handler: h.CheckUpdates, Capability: auth.CapManageOptions, OpenAPI: Spec.CheckUpdates},
			{Method: "POST", Pattern: "/core/update", Handler: h.Update, Capability: auth.CapInstallPlugins, OpenAPI: Spec.Update},
			{Method: "GET", Pattern: "/core/system-info", Handler: h.SystemInfo, Capability: auth.CapManageOptions, OpenAPI: Spec.SystemInfo},
			{Method: "POST", Pattern: "/core/flush-rewrite", Handler: h.FlushRewrite, Capability: auth.CapManageOptions, OpenAPI: Spec.FlushRewrite},
			{Method: "POST", Pattern: "/core/flush-cache", Handler: h.FlushCache, Capability: auth.CapManageOptions, OpenAPI: Spec.FlushCache},
		},
	}
}

func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	info, err := h.sys.Version(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, info)
}

func (h *Handler) CheckUpdates(w http.ResponseWriter, r *http.Request) {
	check, err := h.sys.CheckUpdates(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, check)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Update(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) SystemInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.sys.SystemInfo(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, info)
}

func (h *Handler) FlushRewrite(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.FlushRewrite(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"flushed": true})
}

func (h *Handler) FlushCache(w http.ResponseWriter, r *http.Request) {
	n, err := h.sys.FlushCache(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"flushed": true, "transients_deleted": n})
}
