package media_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/media"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/pkg/pagination"
	"github.com/JaimeStill/mcp-endpoints/pkg/routes"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Photo (1).JPG", "My-Photo-1.JPG"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\report final.pdf`, "report-final.pdf"},
		{"  --weird__name--.png", "weird__name-.png"},
		{"...", ""},
		{"?*<>", ""},
	}

	for _, tt := range tests {
		if got := media.SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectType(t *testing.T) {
	img := pngBytes(t, 4, 4)

	tests := []struct {
		name string
		data []byte
		want string
		ok   bool
	}{
		{"photo.png", img, "image/png", true},
		{"photo.jpg", img, "image/png", true},
		{"report.PDF", []byte("%PDF-1.7"), "application/pdf", true},
		{"notes.txt", []byte("hello"), "text/plain", true},
		{"script.php", []byte("<?php"), "", false},
		{"noext", []byte("data"), "", false},
	}

	for _, tt := range tests {
		got, ok := media.DetectType(tt.name, tt.data)
		if got != tt.want || ok != tt.ok {
			t.Errorf("DetectType(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResizeDimensions(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		size   registry.ImageSize
		dst    image.Point
		src    image.Rectangle
		resize bool
	}{
		{"crop square", 400, 300, registry.ImageSize{Width: 150, Height: 150, Crop: true}, image.Pt(150, 150), image.Rect(50, 0, 350, 300), true},
		{"fit box", 400, 300, registry.ImageSize{Width: 300, Height: 300}, image.Pt(300, 225), image.Rect(0, 0, 400, 300), true},
		{"width only", 2000, 1000, registry.ImageSize{Width: 768}, image.Pt(768, 384), image.Rect(0, 0, 2000, 1000), true},
		{"larger than original", 400, 300, registry.ImageSize{Width: 1024, Height: 1024}, image.Point{}, image.Rect(0, 0, 400, 300), false},
		{"crop narrow", 100, 300, registry.ImageSize{Width: 150, Height: 150, Crop: true}, image.Pt(100, 150), image.Rect(0, 75, 100, 225), true},
		{"unbounded", 400, 300, registry.ImageSize{}, image.Point{}, image.Rect(0, 0, 400, 300), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst, src, ok := media.ResizeDimensions(tt.w, tt.h, tt.size)
			if ok != tt.resize {
				t.Fatalf("ok = %v, want %v", ok, tt.resize)
			}
			if !ok {
				return
			}
			if dst != tt.dst || src != tt.src {
				t.Errorf("got %v from %v, want %v from %v", dst, src, tt.dst, tt.src)
			}
		})
	}
}

func TestNames(t *testing.T) {
	if got := media.NumberedName("photo.jpg", 2); got != "photo-2.jpg" {
		t.Errorf("NumberedName = %q", got)
	}
	if got := media.SizedName("2026/10/photo.jpeg", 150, 100, ".jpeg"); got != "photo-150x100.jpeg" {
		t.Errorf("SizedName = %q", got)
	}
	if got := media.TitleFromFilename("summer_trip-2026.png"); got != "summer trip 2026" {
		t.Errorf("TitleFromFilename = %q", got)
	}
}

func TestThumbnailer_Generate(t *testing.T) {
	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, discard())
	if err != nil {
		t.Fatal(err)
	}
	reg := registry.New(nil)
	thumbs := media.NewThumbnailer(store, reg.ImageSizes(), discard())
	ctx := context.Background()

	meta, err := thumbs.Generate(ctx, "2026/10/photo.png", pngBytes(t, 400, 300))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if meta.Width != 400 || meta.Height != 300 || meta.File != "2026/10/photo.png" {
		t.Errorf("metadata = %+v", meta)
	}

	want := map[string]string{
		"thumbnail": "photo-150x150.png",
		"medium":    "photo-300x225.png",
	}
	if len(meta.Sizes) != len(want) {
		t.Errorf("sizes = %v", meta.Sizes)
	}
	for name, file := range want {
		s, ok := meta.Sizes[name]
		if !ok || s.File != file || s.MimeType != "image/png" || s.Filesize == 0 {
			t.Errorf("size %s = %+v", name, s)
			continue
		}
		exists, err := store.Validate(ctx, "uploads/2026/10/"+file)
		if err != nil || !exists {
			t.Errorf("rendition %s not stored", file)
		}
	}

	if _, err := thumbs.Generate(ctx, "2026/10/broken.png", []byte("not an image")); !errors.Is(err, media.ErrInvalidImage) {
		t.Errorf("Generate(broken) = %v", err)
	}
}

func TestThumbnailer_GenerateKeepsExistingFiles(t *testing.T) {
	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, discard())
	if err != nil {
		t.Fatal(err)
	}
	thumbs := media.NewThumbnailer(store, registry.New(nil).ImageSizes(), discard())
	ctx := context.Background()

	existing := pngBytes(t, 150, 150)
	if err := store.Store(ctx, "uploads/2026/10/photo-150x150.png", existing); err != nil {
		t.Fatal(err)
	}

	if _, err := thumbs.Generate(ctx, "2026/10/photo.png", pngBytes(t, 600, 600)); !errors.Is(err, media.ErrFileExists) {
		t.Fatalf("Generate() error = %v, want ErrFileExists", err)
	}

	data, err := store.Retrieve(ctx, "uploads/2026/10/photo-150x150.png")
	if err != nil || !bytes.Equal(data, existing) {
		t.Error("existing upload was overwritten by a rendition")
	}
	if ok, _ := store.Validate(ctx, "uploads/2026/10/photo-300x300.png"); ok {
		t.Error("renditions of a failed generation were left behind")
	}
}

func TestReserve(t *testing.T) {
	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, discard())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	tests := []struct {
		name     string
		dir      string
		existing []string
		file     string
		want     string
	}{
		{"free", "2026/01", nil, "photo.png", "photo.png"},
		{"original taken", "2026/02", []string{"photo.png", "photo-1.png"}, "photo.png", "photo-2.png"},
		{"rendition name taken", "2026/03", []string{"banner-150x150.png"}, "banner.png", "banner-1.png"},
		{"rendition of other name", "2026/04", []string{"logo-1-300x300.jpg"}, "logo.jpg", "logo.jpg"},
		{"case insensitive", "2026/05", []string{"Header.PNG"}, "header.png", "header-1.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, file := range tt.existing {
				if err := store.Store(ctx, "uploads/"+tt.dir+"/"+file, []byte("old")); err != nil {
					t.Fatal(err)
				}
			}

			got, err := media.Reserve(ctx, store, tt.dir, tt.file, []byte("new"))
			if err != nil {
				t.Fatalf("Reserve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Reserve() = %q, want %q", got, tt.want)
			}
			data, err := store.Retrieve(ctx, "uploads/"+tt.dir+"/"+got)
			if err != nil || string(data) != "new" {
				t.Errorf("reserved file = %q, %v", data, err)
			}
			for _, file := range tt.existing {
				if data, _ := store.Retrieve(ctx, "uploads/"+tt.dir+"/"+file); string(data) != "old" {
					t.Errorf("%s overwritten", file)
				}
			}
		})
	}
}

func TestReserve_Concurrent(t *testing.T) {
	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, discard())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	const uploads = 8
	names := make([]string, uploads)
	var wg sync.WaitGroup
	for i := range uploads {
		wg.Go(func() {
			name, err := media.Reserve(ctx, store, "2026/10", "photo.png", []byte{byte(i)})
			if err != nil {
				t.Errorf("Reserve() error = %v", err)
				return
			}
			names[i] = name
		})
	}
	wg.Wait()

	seen := map[string]bool{}
	for i, name := range names {
		if seen[name] {
			t.Fatalf("name %q reserved twice", name)
		}
		seen[name] = true

		data, err := store.Retrieve(ctx, "uploads/2026/10/"+name)
		if err != nil || len(data) != 1 || data[0] != byte(i) {
			t.Errorf("upload %d stored as %q = %v, %v", i, name, data, err)
		}
	}
}

type fakeSystem struct {
	media.System
	query   media.Query
	upload  media.UploadCommand
	deleted []int64
}

func (f *fakeSystem) List(ctx context.Context, q media.Query) (*media.Page, error) {
	f.query = q
	return &media.Page{Media: []media.Media{}, Page: q.Page}, nil
}

func (f *fakeSystem) Upload(ctx context.Context, cmd media.UploadCommand) (*media.Uploaded, error) {
	f.upload = cmd
	return &media.Uploaded{ID: 12, URL: "http://localhost/wp-content/uploads/" + cmd.Filename, Uploaded: true}, nil
}

func (f *fakeSystem) BulkDelete(ctx context.Context, ids []int64) (*media.BulkResult, error) {
	f.deleted = ids
	return &media.BulkResult{Deleted: ids[:1], Failed: ids[1:], DeletedCount: 1}, nil
}

func (f *fakeSystem) Regenerate(ctx context.Context, id int64) ([]string, error) {
	if id == 3 {
		return nil, media.ErrNotImage
	}
	return nil, media.ErrFileNotFound
}

func newMux(sys media.System, maxUpload int64) *http.ServeMux {
	mux := http.NewServeMux()
	h := media.NewHandler(sys, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, maxUpload)
	routes.Register(mux, "/mcp/v1", nil, nil, h.Routes())
	return mux
}

func serve(t *testing.T, mux *http.ServeMux, req *http.Request) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return w.Code, body
}

func multipartRequest(t *testing.T, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/mcp/v1/media/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_List(t *testing.T) {
	sys := &fakeSystem{}
	mux := newMux(sys, 1<<20)

	status, _ := serve(t, mux, httptest.NewRequest("GET", "/mcp/v1/media?orderby=bogus&order=asc&mime_type=image&per_page=500", nil))
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if sys.query.OrderBy != "date" || sys.query.Desc || sys.query.MimeType != "image" || sys.query.PerPage != 100 {
		t.Errorf("query = %+v", sys.query)
	}
}

func TestHandler_Upload(t *testing.T) {
	sys := &fakeSystem{}
	mux := newMux(sys, 64)

	status, body := serve(t, mux, multipartRequest(t, "photo.png", []byte("tiny"), map[string]string{
		"title": "Sunset",
		"alt":   "",
	}))
	if status != http.StatusOK || body["uploaded"] != true {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if sys.upload.Filename != "photo.png" || string(sys.upload.Data) != "tiny" {
		t.Errorf("upload = %+v", sys.upload)
	}
	if sys.upload.Title == nil || *sys.upload.Title != "Sunset" || sys.upload.Alt != nil {
		t.Errorf("fields = %+v", sys.upload.Fields)
	}

	status, body = serve(t, mux, multipartRequest(t, "", nil, map[string]string{"title": "x"}))
	if status != http.StatusBadRequest || body["code"] != "no_file" {
		t.Errorf("missing file: %d %v", status, body)
	}

	status, body = serve(t, mux, multipartRequest(t, "big.png", bytes.Repeat([]byte("a"), 100), nil))
	if status != http.StatusRequestEntityTooLarge || body["code"] != "rest_upload_too_large" {
		t.Errorf("oversized: %d %v", status, body)
	}
}

func TestHandler_BulkDelete(t *testing.T) {
	sys := &fakeSystem{}
	mux := newMux(sys, 1<<20)

	status, body := serve(t, mux, httptest.NewRequest("POST", "/mcp/v1/media/bulk-delete", strings.NewReader(`{"force":true}`)))
	if status != http.StatusBadRequest || body["code"] != "rest_missing_callback_param" {
		t.Errorf("missing ids: %d %v", status, body)
	}

	status, body = serve(t, mux, httptest.NewRequest("POST", "/mcp/v1/media/bulk-delete", strings.NewReader(`{"ids":[4,99]}`)))
	if status != http.StatusOK || body["deleted_count"] != float64(1) {
		t.Errorf("bulk: %d %v", status, body)
	}
	if failed, _ := body["failed"].([]any); len(failed) != 1 || failed[0] != float64(99) {
		t.Errorf("failed = %v", body["failed"])
	}
}

func TestHandler_Regenerate(t *testing.T) {
	mux := newMux(&fakeSystem{}, 1<<20)

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/mcp/v1/media/3/regenerate", http.StatusBadRequest, "not_image"},
		{"/mcp/v1/media/4/regenerate", http.StatusNotFound, "file_not_found"},
		{"/mcp/v1/media/abc/regenerate", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		status, body := serve(t, mux, httptest.NewRequest("POST", tt.path, nil))
		if status != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.path, status, tt.status)
		}
		if tt.code != "" && body["code"] != tt.code {
			t.Errorf("%s: code = %v, want %s", tt.path, body["code"], tt.code)
		}
	}
}
