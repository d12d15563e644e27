package health

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
		logger: logger.With("handler", "health"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Health"},
		Description: "Site health, runtime details and scheduled events",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/health", Handler: h.Check, Capability: auth.CapManageOptions, OpenAPI: Spec.Check},
			{Method: "GET", Pattern: "/health/debug", Handler: h.Debug, Capability: auth.CapManageOptions, OpenAPI: Spec.Debug},
			{Method: "GET", Pattern: "/health/php", Handler: h.Runtime, Capability: auth.CapManageOptions, OpenAPI: Spec.Runtime},
			{Method: "GET", Pattern: "/health/plugins", Handler: h.Plugins, Capability: auth.CapManageOptions, OpenAPI: Spec.Plugins},
			{Method: "GET", Pattern: "/health/cron", Handler: h.Cron, Capability: auth.CapManageOptions, OpenAPI: Spec.Cron},
			{Method: "POST", Pattern: "/health/cron/run", Handler: h.RunCron, Capability: auth.CapManageOptions, OpenAPI: Spec.RunCron},
		},
	}
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	rep, err := h.sys.Check(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, rep)
}

func (h *Handler) Debug(w http.ResponseWriter, r *http.Request) {
	info, err := h.sys.Debug(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, info)
}

func (h *Handler) Runtime(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Runtime())
}

func (h *Handler) Plugins(w http.ResponseWriter, r *http.Request) {
	rep, err := h.sys.Plugins(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, rep)
}

func (h *Handler) Cron(w http.ResponseWriter, r *http.Request) {
	rep, err := h.sys.Cron(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, rep)
}

// RunCronRequest is the body of POST /health/cron/run.
type RunCronRequest struct {
	Hook string `json:"hook"`
}

func (h *Handler) RunCron(w http.ResponseWriter, r *http.Request) {
	var req RunCronRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	hook := strings.TrimSpace(req.Hook)
	if hook == "" {
		hook = strings.TrimSpace(r.URL.Query().Get("hook"))
	}
	if hook == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("hook"))
		return
	}

	if err := h.sys.RunCron(r.Context(), hook); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"hook": hook, "executed": true})
}
