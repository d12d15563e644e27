package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/query"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
)

// Post is a row of wp_posts.
type Post struct {
	ID            int64     `json:"id"`
	Author        int64     `json:"author"`
	Date          time.Time `json:"date"`
	Modified      time.Time `json:"modified"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	Status        string    `json:"status"`
	CommentStatus string    `json:"comment_status"`
	Slug          string    `json:"slug"`
	Parent        int64     `json:"parent"`
	GUID          string    `json:"guid"`
	MenuOrder     int       `json:"menu_order"`
	Type          string    `json:"type"`
	MimeType      string    `json:"mime_type"`
	CommentCount  int64     `json:"comment_count"`
}

// PostProjection maps post view names onto wp_posts columns.
var PostProjection = query.NewProjectionMap("public", "wp_posts", "p").
	Project("id", "id").
	Project("post_author", "author").
	Project("post_date", "date").
	Project("post_modified", "modified").
	Project("post_title", "title").
	Project("post_content", "content").
	Project("post_excerpt", "excerpt").
	Project("post_status", "status").
	Project("comment_status", "comment_status").
	Project("post_name", "name").
	Project("post_parent", "parent").
	Project("guid", "guid").
	Project("menu_order", "menu_order").
	Project("post_type", "type").
	Project("post_mime_type", "mime_type").
	Project("comment_count", "comment_count")

// ScanPost scans a row selected through PostProjection.
func ScanPost(s repository.Scanner) (Post, error) {
	var p Post
	err := s.Scan(
		&p.ID, &p.Author, &p.Date, &p.Modified, &p.Title, &p.Content, &p.Excerpt,
		&p.Status, &p.CommentStatus, &p.Slug, &p.Parent, &p.GUID, &p.MenuOrder,
		&p.Type, &p.MimeType, &p.CommentCount,
	)
	return p, err
}

// PostFilter selects posts for ListPosts. Zero values do not filter.
type PostFilter struct {
	Type            string
	Statuses        []string
	ExcludeStatuses []string
	Parent          *int64
	MimePrefix      string
	Search          *string
	OrderBy         string
	Descending      bool
	Page            int
	PerPage         int
}

// GetPost returns the post with id.
func GetPost(ctx context.Context, q repository.Querier, id int64) (*Post, error) {
	sqlStr, args := query.NewBuilder(PostProjection, "id").BuildSingle("id", id)
	p, err := repository.QueryOne(ctx, q, sqlStr, args, ScanPost)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}
	return &p, nil
}

// GetTypedPost returns the post with id when it is of postType.
func GetTypedPost(ctx context.Context, q repository.Querier, postType string, id int64) (*Post, error) {
	p, err := GetPost(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if p.Type != postType {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// ListPosts returns one page of matching posts and the total match count.
func ListPosts(ctx context.Context, q repository.Querier, f PostFilter) ([]Post, int64, error) {
	b := query.NewBuilder(PostProjection, "date").
		WhereEquals("type", nilIfEmpty(f.Type)).
		WhereIn("status", anySlice(f.Statuses)).
		WhereNotIn("status", anySlice(f.ExcludeStatuses)).
		WherePrefix("mime_type", f.MimePrefix).
		WhereSearch(f.Search, "title", "content", "excerpt").
		OrderBy(f.OrderBy, f.Descending)
	if f.Parent != nil {
		b.WhereEquals("parent", *f.Parent)
	}

	countSQL, countArgs := b.BuildCount()
	var total int64
	if err := q.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, handlers.Host(handlers.ErrDatabase, err)
	}

	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	pageSQL, args := b.BuildPage(page, perPage)
	posts, err := repository.QueryMany(ctx, q, pageSQL, args, ScanPost)
	if err != nil {
		return nil, 0, handlers.Host(handlers.ErrDatabase, err)
	}
	return posts, total, nil
}

// InsertPost stores p, filling its ID, dates and GUID when unset.
func InsertPost(ctx context.Context, q repository.Querier, p *Post, siteURL string) error {
	now := time.Now().UTC()
	if p.Date.IsZero() {
		p.Date = now
	}
	p.Modified = now
	if p.CommentStatus == "" {
		p.CommentStatus = "closed"
	}
	if p.Status == "" {
		p.Status = "draft"
	}

	err := q.QueryRowContext(ctx, `
		INSERT INTO wp_posts (post_author, post_date, post_modified, post_title, post_content,
			post_excerpt, post_status, comment_status, post_name, post_parent, guid,
			menu_order, post_type, post_mime_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		p.Author, p.Date, p.Modified, p.Title, p.Content, p.Excerpt, p.Status,
		p.CommentStatus, p.Slug, p.Parent, p.GUID, p.MenuOrder, p.Type, p.MimeType,
	).Scan(&p.ID)
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	if p.GUID == "" {
		p.GUID = fmt.Sprintf("%s/?p=%d", siteURL, p.ID)
		if _, err := q.ExecContext(ctx, "UPDATE wp_posts SET guid = $1 WHERE id = $2", p.GUID, p.ID); err != nil {
			return handlers.Host(handlers.ErrDatabase, err)
		}
	}
	return nil
}

// UpdatePost writes every mutable column of p and bumps its modified date.
// When the status changes, the terms of the post are recounted.
func UpdatePost(ctx context.Context, q repository.Querier, p *Post) error {
	var previous string
	err := q.QueryRowContext(ctx, "SELECT post_status FROM wp_posts WHERE id = $1 FOR UPDATE", p.ID).Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	p.Modified = time.Now().UTC()
	err = repository.ExecExpectOne(ctx, q, `
		UPDATE wp_posts SET post_title = $1, post_content = $2, post_excerpt = $3,
			post_status = $4, post_name = $5, post_parent = $6, menu_order = $7,
			post_mime_type = $8, guid = $9, post_modified = $10
		WHERE id = $11`,
		p.Title, p.Content, p.Excerpt, p.Status, p.Slug, p.Parent, p.MenuOrder,
		p.MimeType, p.GUID, p.Modified, p.ID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	if previous == p.Status {
		return nil
	}
	ttIDs, err := objectTaxonomyIDs(ctx, q, p.ID, "")
	if err != nil {
		return err
	}
	return RecountTerms(ctx, q, ttIDs)
}

// DeletePost removes the post, its meta and its term relationships, then
// recounts the terms it belonged to.
func DeletePost(ctx context.Context, q repository.Querier, id int64) error {
	ttIDs, err := objectTaxonomyIDs(ctx, q, id, "")
	if err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, "DELETE FROM wp_term_relationships WHERE object_id = $1", id); err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}
	err = repository.ExecExpectOne(ctx, q, "DELETE FROM wp_posts WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}
	return RecountTerms(ctx, q, ttIDs)
}

// CountByStatus returns the number of posts of postType per status.
func CountByStatus(ctx context.Context, q repository.Querier, postType string) (map[string]int64, error) {
	type row struct {
		status string
		n      int64
	}
	rows, err := repository.QueryMany(ctx, q,
		"SELECT post_status, COUNT(*) FROM wp_posts WHERE post_type = $1 GROUP BY post_status",
		[]any{postType},
		func(s repository.Scanner) (row, error) {
			var r row
			err := s.Scan(&r.status, &r.n)
			return r, err
		},
	)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.status] = r.n
	}
	return counts, nil
}

// UniqueSlug returns slug, suffixed with -2, -3, ... until no other post of postType uses it.
func UniqueSlug(ctx context.Context, q repository.Querier, postType, slug string, excludeID int64) (string, error) {
	if slug == "" {
		return "", nil
	}
	candidate := slug
	for n := 2; ; n++ {
		var exists bool
		err := q.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM wp_posts WHERE post_type = $1 AND post_name = $2 AND id <> $3)",
			postType, candidate, excludeID,
		).Scan(&exists)
		if err != nil {
			return "", handlers.Host(handlers.ErrDatabase, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, n)
	}
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func anySlice[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
