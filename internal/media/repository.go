package media

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/JaimeStill/mcp-endpoints/internal/auth"
	"github.com/JaimeStill/mcp-endpoints/internal/content"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
	"github.com/docker/go-units"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Downloader fetches remote files for sideloading.
type Downloader interface {
	Download(ctx context.Context, url string, limit int64) ([]byte, error)
}

type Config struct {
	SiteURL       string
	UploadURL     string
	MaxUploadSize int64
}

type repo struct {
	db     *sql.DB
	store  storage.System
	thumbs *Thumbnailer
	dl     Downloader
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

func New(db *sql.DB, store storage.System, thumbs *Thumbnailer, dl Downloader, cfg Config, logger *slog.Logger) System {
	cfg.UploadURL = strings.TrimRight(cfg.UploadURL, "/")
	return &repo{
		db:     db,
		store:  store,
		thumbs: thumbs,
		dl:     dl,
		cfg:    cfg,
		logger: logger.With("system", "media"),
		now:    time.Now,
	}
}

func (r *repo) url(rel string) string {
	return r.cfg.UploadURL + "/" + rel
}

func (r *repo) attachment(ctx context.Context, id int64) (*content.Post, error) {
	p, err := content.GetTypedPost(ctx, r.db, "attachment", id)
	if errors.Is(err, content.ErrPostNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

type attachmentMeta struct {
	file string
	alt  string
	meta *Metadata
}

// loadMeta returns the file, alt text and metadata of each attachment in ids.
func (r *repo) loadMeta(ctx context.Context, ids []int64) (map[int64]*attachmentMeta, error) {
	out := make(map[int64]*attachmentMeta, len(ids))
	for _, id := range ids {
		out[id] = &attachmentMeta{}
	}
	if len(ids) == 0 {
		return out, nil
	}

	type row struct {
		post     int64
		key, val string
	}
	rows, err := repository.QueryMany(ctx, r.db, `
		SELECT post_id, meta_key, meta_value FROM wp_postmeta
		WHERE post_id = ANY($1) AND meta_key IN ($2, $3, $4)
		ORDER BY meta_id`,
		[]any{ids, attachedFileKey, metadataKey, altKey},
		func(s repository.Scanner) (row, error) {
			var m row
			err := s.Scan(&m.post, &m.key, &m.val)
			return m, err
		},
	)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	for _, m := range rows {
		a := out[m.post]
		switch m.key {
		case attachedFileKey:
			a.file = m.val
		case altKey:
			a.alt = m.val
		case metadataKey:
			var md Metadata
			if err := json.Unmarshal([]byte(m.val), &md); err != nil {
				r.logger.Warn("unreadable attachment metadata", "id", m.post, "error", err)
				continue
			}
			a.meta = &md
		}
	}
	return out, nil
}

func (r *repo) summarize(p content.Post, a *attachmentMeta) Media {
	m := Media{
		ID:       p.ID,
		Title:    p.Title,
		URL:      p.GUID,
		MimeType: p.MimeType,
		Date:     p.Date,
	}
	if a.file != "" {
		m.URL = r.url(a.file)
	}
	if IsImage(p.MimeType) {
		alt := a.alt
		m.Alt = &alt
		if a.meta != nil && a.meta.Width > 0 {
			w, h := a.meta.Width, a.meta.Height
			m.Width, m.Height = &w, &h
		}
	}
	return m
}

func (r *repo) List(ctx context.Context, q Query) (*Page, error) {
	var search *string
	if q.Search != "" {
		search = &q.Search
	}

	posts, total, err := content.ListPosts(ctx, r.db, content.PostFilter{
		Type:       "attachment",
		Statuses:   []string{"inherit"},
		MimePrefix: q.MimeType,
		Search:     search,
		OrderBy:    q.OrderBy,
		Descending: q.Desc,
		Page:       q.Page,
		PerPage:    q.PerPage,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	metas, err := r.loadMeta(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]Media, len(posts))
	for i, p := range posts {
		items[i] = r.summarize(p, metas[p.ID])
	}

	return &Page{
		Media: items,
		Total: total,
		Pages: q.Pages(int(total)),
		Page:  q.Page,
	}, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Detail, error) {
	p, err := r.attachment(ctx, id)
	if err != nil {
		return nil, err
	}
	metas, err := r.loadMeta(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	a := metas[id]

	d := &Detail{
		Media:       r.summarize(*p, a),
		Caption:     p.Excerpt,
		Description: p.Content,
	}
	if a.file != "" {
		d.Filename = path.Base(a.file)
	}
	if p.Parent > 0 {
		parent := p.Parent
		d.AttachedTo = &parent
	}
	if a.meta != nil {
		size := a.meta.Filesize
		d.Filesize = &size
		d.PageCount = a.meta.PageCount
	}
	if IsImage(p.MimeType) {
		d.Sizes = r.sizes(a)
	}
	return d, nil
}

// sizes lists every registered size. Sizes without a rendition resolve to the original.
func (r *repo) sizes(a *attachmentMeta) map[string]SizeRef {
	out := map[string]SizeRef{}
	if a.meta == nil || a.file == "" {
		return out
	}
	dir := path.Dir(a.file)
	for _, size := range r.thumbs.sizes {
		if s, ok := a.meta.Sizes[size.Name]; ok {
			out[size.Name] = SizeRef{URL: r.url(path.Join(dir, s.File)), Width: s.Width, Height: s.Height}
			continue
		}
		out[size.Name] = SizeRef{URL: r.url(a.file), Width: a.meta.Width, Height: a.meta.Height}
	}
	return out
}

func (r *repo) Upload(ctx context.Context, cmd UploadCommand) (*Uploaded, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrNoFile
	}
	if r.cfg.MaxUploadSize > 0 && int64(len(cmd.Data)) > r.cfg.MaxUploadSize {
		return nil, handlers.ErrPayloadTooBig.Withf("The file exceeds the maximum upload size of %s.",
			units.HumanSize(float64(r.cfg.MaxUploadSize)))
	}

	name := SanitizeFilename(cmd.Filename)
	if name == "" {
		return nil, ErrInvalidName
	}
	mimeType, ok := DetectType(name, cmd.Data)
	if !ok {
		return nil, ErrInvalidType
	}

	dir := r.now().UTC().Format("2006/01")
	name, err := Reserve(ctx, r.store, dir, name, cmd.Data)
	if err != nil {
		return nil, handlers.Host(handlers.ErrStorage, err)
	}
	rel := path.Join(dir, name)

	meta, err := r.describe(ctx, rel, mimeType, cmd.Data)
	if err != nil {
		r.removeFiles(ctx, rel, nil)
		return nil, err
	}

	id, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		return r.insert(ctx, tx, rel, mimeType, meta, cmd.Fields)
	})
	if err != nil {
		r.removeFiles(ctx, rel, meta)
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("media uploaded",
		"id", id,
		"file", rel,
		"mime_type", mimeType,
		"size", units.HumanSize(float64(len(cmd.Data))),
	)
	return &Uploaded{ID: id, URL: r.url(rel), Uploaded: true}, nil
}

// describe builds the attachment metadata, generating renditions for images
// and counting the pages of PDFs.
func (r *repo) describe(ctx context.Context, rel, mimeType string, data []byte) (*Metadata, error) {
	if IsImage(mimeType) {
		meta, err := r.thumbs.Generate(ctx, rel, data)
		if err != nil {
			return nil, handlers.Host(handlers.ErrStorage, err)
		}
		return meta, nil
	}

	meta := &Metadata{File: rel, Filesize: int64(len(data))}
	if mimeType == "application/pdf" {
		count, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
		if err != nil {
			r.logger.Warn("failed to extract pdf page count", "file", rel, "error", err)
		} else {
			meta.PageCount = &count
		}
	}
	return meta, nil
}

func (r *repo) insert(ctx context.Context, tx *sql.Tx, rel, mimeType string, meta *Metadata, f Fields) (int64, error) {
	title := TitleFromFilename(path.Base(rel))
	if f.Title != nil && *f.Title != "" {
		title = *f.Title
	}

	slug, err := content.UniqueSlug(ctx, tx, "attachment", content.Slugify(title), 0)
	if err != nil {
		return 0, err
	}

	p := &content.Post{
		Author:   auth.UserID(ctx),
		Title:    title,
		Status:   "inherit",
		Slug:     slug,
		Type:     "attachment",
		MimeType: mimeType,
		GUID:     r.url(rel),
	}
	if f.Caption != nil {
		p.Excerpt = *f.Caption
	}
	if f.Description != nil {
		p.Content = *f.Description
	}
	if err := content.InsertPost(ctx, tx, p, r.cfg.SiteURL); err != nil {
		return 0, err
	}

	if err := content.PostMeta.Set(ctx, tx, p.ID, attachedFileKey, rel); err != nil {
		return 0, err
	}
	if err := content.PostMeta.SetJSON(ctx, tx, p.ID, metadataKey, meta); err != nil {
		return 0, err
	}
	if f.Alt != nil && *f.Alt != "" {
		if err := content.PostMeta.Set(ctx, tx, p.ID, altKey, *f.Alt); err != nil {
			return 0, err
		}
	}
	return p.ID, nil
}

// removeFiles deletes the original at rel and the renditions listed in meta.
func (r *repo) removeFiles(ctx context.Context, rel string, meta *Metadata) {
	keys := []string{uploadKey(rel)}
	if meta != nil {
		keys = append(keys, meta.sizeKeys()...)
	}
	for _, key := range keys {
		if err := r.store.Delete(ctx, key); err != nil {
			r.logger.Warn("failed to delete media file", "key", key, "error", err)
		}
	}
}

func (r *repo) Sideload(ctx context.Context, cmd SideloadCommand) (*Uploaded, error) {
	u, err := url.Parse(cmd.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, handlers.Invalid("url", "must be an http or https URL")
	}

	filename := cmd.Filename
	if filename == "" {
		filename = path.Base(u.Path)
	}
	if SanitizeFilename(filename) == "" {
		return nil, ErrInvalidName
	}

	data, err := r.dl.Download(ctx, u.String(), r.cfg.MaxUploadSize)
	if err != nil {
		return nil, handlers.Host(handlers.ErrHTTPRequest, err)
	}

	res, err := r.Upload(ctx, UploadCommand{Filename: filename, Data: data, Fields: cmd.Fields})
	if err != nil {
		return nil, err
	}
	res.SourceURL = cmd.URL
	return res, nil
}

func (r *repo) Update(ctx context.Context, id int64, f Fields) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		p, err := content.GetTypedPost(ctx, tx, "attachment", id)
		if errors.Is(err, content.ErrPostNotFound) {
			return struct{}{}, ErrNotFound
		}
		if err != nil {
			return struct{}{}, err
		}

		changed := false
		if f.Title != nil {
			p.Title, changed = *f.Title, true
		}
		if f.Caption != nil {
			p.Excerpt, changed = *f.Caption, true
		}
		if f.Description != nil {
			p.Content, changed = *f.Description, true
		}
		if changed {
			if err := content.UpdatePost(ctx, tx, p); err != nil {
				return struct{}{}, err
			}
		}
		if f.Alt != nil {
			if err := content.PostMeta.Set(ctx, tx, id, altKey, *f.Alt); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("media updated", "id", id)
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	if _, err := r.attachment(ctx, id); err != nil {
		return err
	}
	metas, err := r.loadMeta(ctx, []int64{id})
	if err != nil {
		return err
	}
	a := metas[id]

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, "UPDATE wp_posts SET post_parent = 0 WHERE post_parent = $1 AND post_type = 'attachment'", id); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, content.DeletePost(ctx, tx, id)
	})
	if errors.Is(err, content.ErrPostNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return ErrDeleteFailed.Wrap(err)
	}

	if a.file != "" {
		r.removeFiles(ctx, a.file, a.meta)
	}

	r.logger.Info("media deleted", "id", id, "file", a.file)
	return nil
}

func (r *repo) BulkDelete(ctx context.Context, ids []int64) (*BulkResult, error) {
	res := &BulkResult{Deleted: []int64{}, Failed: []int64{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.Delete(ctx, id); err != nil {
			if !errors.Is(err, ErrNotFound) {
				r.logger.Warn("bulk delete failed", "id", id, "error", err)
			}
			res.Failed = append(res.Failed, id)
			continue
		}
		res.Deleted = append(res.Deleted, id)
	}
	res.DeletedCount = len(res.Deleted)
	return res, nil
}

func (r *repo) Regenerate(ctx context.Context, id int64) ([]string, error) {
	p, err := r.attachment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsImage(p.MimeType) {
		return nil, ErrNotImage
	}

	metas, err := r.loadMeta(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	a := metas[id]
	if a.file == "" {
		return nil, ErrFileNotFound
	}

	data, err := r.store.Retrieve(ctx, uploadKey(a.file))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, handlers.Host(handlers.ErrStorage, err)
	}

	if a.meta != nil {
		for _, key := range a.meta.sizeKeys() {
			if err := r.store.Delete(ctx, key); err != nil {
				r.logger.Warn("failed to delete rendition", "key", key, "error", err)
			}
		}
	}

	meta, err := r.thumbs.Generate(ctx, a.file, data)
	if err != nil {
		return nil, handlers.Host(handlers.ErrStorage, err)
	}
	if err := content.PostMeta.SetJSON(ctx, r.db, id, metadataKey, meta); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(meta.Sizes))
	for name := range meta.Sizes {
		names = append(names, name)
	}
	sort.Strings(names)

	r.logger.Info("renditions regenerated", "id", id, "sizes", len(names))
	return names, nil
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	type count struct {
		mime string
		n    int64
	}
	counts, err := repository.QueryMany(ctx, r.db,
		"SELECT post_mime_type, COUNT(*) FROM wp_posts WHERE post_type = 'attachment' GROUP BY post_mime_type",
		nil,
		func(s repository.Scanner) (count, error) {
			var c count
			err := s.Scan(&c.mime, &c.n)
			return c, err
		},
	)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	raw, err := repository.QueryMany(ctx, r.db,
		"SELECT meta_value FROM wp_postmeta WHERE meta_key = $1",
		[]any{metadataKey},
		func(s repository.Scanner) (string, error) {
			var v string
			err := s.Scan(&v)
			return v, err
		},
	)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	stats := &Stats{
		ByType:          map[string]int64{},
		UploadURL:       r.cfg.UploadURL,
		MaxUploadSize:   r.cfg.MaxUploadSize,
		MaxUploadSizeMB: megabytes(r.cfg.MaxUploadSize),
	}
	for _, c := range counts {
		stats.ByType[c.mime] = c.n
		stats.Total += c.n
	}

	var total int64
	for _, v := range raw {
		var md Metadata
		if json.Unmarshal([]byte(v), &md) == nil {
			total += md.Filesize
		}
	}
	stats.TotalSizeMB = megabytes(total)

	if p, err := r.store.Path(ctx, uploadsPrefix); err == nil {
		stats.UploadPath = p
	}
	return stats, nil
}

// megabytes converts bytes to MiB rounded to two decimals.
func megabytes(n int64) float64 {
	return math.Round(float64(n)/units.MiB*100) / 100
}
