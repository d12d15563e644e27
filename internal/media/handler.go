package media

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/mcp-endpoints/internal/auth"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/pagination"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
)

// orderViews maps the orderby parameter onto post projection views.
var orderViews = map[string]string{
	"date":     "date",
	"id":       "id",
	"title":    "title",
	"name":     "name",
	"modified": "modified",
}

type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "media"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Media"},
		Description: "Media library uploads, metadata and renditions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/media", Handler: h.List, Capability: auth.CapManageOptions, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/media/stats", Handler: h.Stats, Capability: auth.CapManageOptions, OpenAPI: Spec.Stats},
			{Method: "POST", Pattern: "/media/upload", Handler: h.Upload, Capability: auth.CapManageOptions, OpenAPI: Spec.Upload},
			{Method: "POST", Pattern: "/media/sideload", Handler: h.Sideload, Capability: auth.CapManageOptions, OpenAPI: Spec.Sideload},
			{Method: "POST", Pattern: "/media/bulk-delete", Handler: h.BulkDelete, Capability: auth.CapManageOptions, OpenAPI: Spec.BulkDelete},
			{Method: "GET", Pattern: "/media/{id}", Handler: h.Find, Capability: auth.CapManageOptions, OpenAPI: Spec.Find},
			{Method: "PUT", Pattern: "/media/{id}", Handler: h.Update, Capability: auth.CapManageOptions, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/media/{id}", Handler: h.Delete, Capability: auth.CapManageOptions, OpenAPI: Spec.Delete},
			{Method: "POST", Pattern: "/media/{id}/regenerate", Handler: h.Regenerate, Capability: auth.CapManageOptions, OpenAPI: Spec.Regenerate},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	orderBy, ok := orderViews[strings.ToLower(handlers.QueryString(q, "orderby", "date"))]
	if !ok {
		orderBy = "date"
	}

	page, err := h.sys.List(r.Context(), Query{
		PageRequest: pagination.PageRequestFromQuery(q, h.pagination, 20),
		MimeType:    strings.TrimSpace(q.Get("mime_type")),
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

	d, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, d)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, handlers.ErrPayloadTooBig)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFile.Wrap(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFile)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, handlers.ErrPayloadTooBig)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFile.Wrap(err))
		return
	}

	res, err := h.sys.Upload(r.Context(), UploadCommand{
		Filename: header.Filename,
		Data:     data,
		Fields:   formFields(r),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, res)
}

// formFields reads the optional attachment texts of a multipart upload. Empty values are ignored.
func formFields(r *http.Request) Fields {
	value := func(key string) *string {
		if v := strings.TrimSpace(r.FormValue(key)); v != "" {
			return &v
		}
		return nil
	}
	return Fields{
		Title:       value("title"),
		Caption:     value("caption"),
		Description: value("description"),
		Alt:         value("alt"),
	}
}

func (h *Handler) Sideload(w http.ResponseWriter, r *http.Request) {
	var cmd SideloadCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	cmd.URL = strings.TrimSpace(cmd.URL)
	if cmd.URL == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("url"))
		return
	}

	res, err := h.sys.Sideload(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, res)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var f Fields
	if err := handlers.DecodeJSON(r, &f); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Update(r.Context(), id, f); err != nil {
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

func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs   []int64 `json:"ids"`
		Force *bool   `json:"force"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.IDs == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, handlers.Missing("ids"))
		return
	}

	res, err := h.sys.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, res)
}

func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	sizes, err := h.sys.Regenerate(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"id": id, "regenerated": true, "sizes": sizes})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, stats)
}
