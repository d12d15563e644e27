package options

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/internal/auth"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/pagination"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

// Handler serves the option routes.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates the options handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "options"),
		pagination: pagination,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Options"},
		Description: "Site option store",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/options", Handler: h.List, Capability: auth.CapManageOptions, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "/options-bulk", Handler: h.Bulk, Capability: auth.CapManageOptions, OpenAPI: Spec.Bulk},
			{Method: "GET", Pattern: "/options/{key}", Handler: h.Get, Capability: auth.CapManageOptions, OpenAPI: Spec.Get},
			{Method: "POST", Pattern: "/options/{key}", Handler: h.Set, Capability: auth.CapManageOptions, OpenAPI: Spec.Set},
			{Method: "DELETE", Pattern: "/options/{key}", Handler: h.Delete, Capability: auth.CapManageOptions, OpenAPI: Spec.Delete},
		},
	}
}

func (h *Handler) pathKey(r *http.Request) (string, error) {
	raw := r.PathValue("key")
	if !ValidPathKey(raw) {
		return "", ErrNoRoute
	}
	return SanitizeKey(raw), nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := h.pathKey(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, err)
		return
	}

	value, err := h.sys.Get(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"key": key, "value": value})
}

// SetRequest is the body of POST /options/{key}.
type SetRequest struct {
	Value    json.RawMessage `json:"value"`
	Autoload *bool           `json:"autoload"`
}

func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	key, err := h.pathKey(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, err)
		return
	}

	var req SetRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if len(req.Value) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("value"))
		return
	}

	autoload := true
	if req.Autoload != nil {
		autoload = *req.Autoload
	}

	created, err := h.sys.Set(r.Context(), key, req.Value, autoload)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"key":     key,
		"value":   DecodeValue(string(req.Value)),
		"created": created,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	key, err := h.pathKey(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, err)
		return
	}

	if err := h.sys.Delete(r.Context(), key); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"deleted": true, "key": key})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prefix := SanitizeKey(q.Get("prefix"))
	page := pagination.PageRequestFromQuery(q, h.pagination, 50)

	opts, err := h.sys.List(r.Context(), prefix, page.PerPage)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"options": opts, "count": len(opts)})
}

// BulkRequest is the body of POST /options-bulk.
type BulkRequest struct {
	Keys []string `json:"keys"`
}

func (h *Handler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.Keys == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("keys"))
		return
	}

	keys := make([]string, 0, len(req.Keys))
	for _, k := range req.Keys {
		if s := SanitizeKey(k); s != "" {
			keys = append(keys, s)
		}
	}

	values, err := h.sys.Bulk(r.Context(), keys)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"options": values})
}
