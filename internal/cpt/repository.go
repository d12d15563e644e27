package cpt

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/JaimeStill/mcp-endpoints/internal/content"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
)

const (
	trashStatusMeta = "_wp_trash_meta_status"
	trashTimeMeta   = "_wp_trash_meta_time"
)

type repo struct {
	db      *sql.DB
	reg     *registry.Registry
	siteURL string
	logger  *slog.Logger
}

func New(db *sql.DB, reg *registry.Registry, siteURL string, logger *slog.Logger) System {
	return &repo{
		db:      db,
		reg:     reg,
		siteURL: siteURL,
		logger:  logger.With("system", "cpt"),
	}
}

func (r *repo) postType(name string) (registry.PostType, error) {
	pt, ok := r.reg.PostType(name)
	if !ok {
		return pt, ErrTypeNotFound
	}
	return pt, nil
}

func (r *repo) Types(ctx context.Context) ([]TypeSummary, error) {
	types := r.reg.PostTypes(true)
	out := make([]TypeSummary, 0, len(types))
	for _, pt := range types {
		counts, err := content.CountByStatus(ctx, r.db, pt.Name)
		if err != nil {
			return nil, err
		}
		count := counts["publish"]
		if pt.Name == "attachment" {
			count = counts["inherit"]
		}
		out = append(out, summarize(pt, r.reg.TaxonomiesFor(pt.Name), count))
	}
	return out, nil
}

func (r *repo) Type(ctx context.Context, name string) (*TypeDetail, error) {
	pt, err := r.postType(name)
	if err != nil {
		return nil, err
	}

	counts, err := content.CountByStatus(ctx, r.db, pt.Name)
	if err != nil {
		return nil, err
	}

	detail := &TypeDetail{
		TypeSummary: summarize(pt, r.reg.TaxonomiesFor(pt.Name), counts["publish"]),
		Description: pt.Description,
		ShowInREST:  pt.ShowInREST,
		MenuIcon:    pt.MenuIcon,
		Builtin:     pt.Builtin,
		Labels:      Labels(pt),
		Counts: map[string]int64{
			"publish": counts["publish"],
			"draft":   counts["draft"],
			"pending": counts["pending"],
			"private": counts["private"],
			"trash":   counts["trash"],
		},
	}
	return detail, nil
}

func (r *repo) Posts(ctx context.Context, postType string, q PostQuery) (*PostPage, error) {
	if _, err := r.postType(postType); err != nil {
		return nil, err
	}

	include, exclude := q.Statuses, []string(nil)
	if len(include) == 0 {
		exclude = excludedFromAny
	}

	var search *string
	if q.Search != "" {
		search = &q.Search
	}

	posts, total, err := content.ListPosts(ctx, r.db, content.PostFilter{
		Type:            postType,
		Statuses:        include,
		ExcludeStatuses: exclude,
		Search:          search,
		OrderBy:         q.OrderBy,
		Descending:      q.Desc,
		Page:            q.Page,
		PerPage:         q.PerPage,
	})
	if err != nil {
		return nil, err
	}

	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = toView(p, r.siteURL)
	}

	return &PostPage{
		Posts: views,
		Total: total,
		Pages: q.PageRequest.Pages(int(total)),
		Page:  q.Page,
	}, nil
}

func (r *repo) Create(ctx context.Context, postType string, cmd CreateCommand) (*content.Post, error) {
	if _, err := r.postType(postType); err != nil {
		return nil, err
	}
	if cmd.Status == "" {
		cmd.Status = "draft"
	}
	if !ValidStatus(cmd.Status) {
		return nil, handlers.Invalid("status", "must be one of publish, draft, pending, private, future")
	}

	post, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*content.Post, error) {
		if cmd.Parent != 0 {
			if _, err := content.GetTypedPost(ctx, tx, postType, cmd.Parent); err != nil {
				return nil, handlers.Invalid("parent", "parent post does not exist")
			}
		}

		slug := cmd.Slug
		if slug == "" {
			slug = content.Slugify(cmd.Title)
		}
		slug, err := content.UniqueSlug(ctx, tx, postType, slug, 0)
		if err != nil {
			return nil, err
		}

		p := &content.Post{
			Author:  cmd.Author,
			Title:   cmd.Title,
			Content: cmd.Content,
			Excerpt: cmd.Excerpt,
			Status:  cmd.Status,
			Slug:    slug,
			Parent:  cmd.Parent,
			Type:    postType,
		}
		if err := content.InsertPost(ctx, tx, p, r.siteURL); err != nil {
			return nil, err
		}
		if err := writeMeta(ctx, tx, p.ID, cmd.Meta); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("post created", "type", postType, "id", post.ID, "status", post.Status)
	return post, nil
}

func (r *repo) Update(ctx context.Context, postType string, id int64, cmd UpdateCommand) error {
	if _, err := r.postType(postType); err != nil {
		return err
	}
	if cmd.Status != nil && !ValidStatus(*cmd.Status) && *cmd.Status != "trash" {
		return handlers.Invalid("status", "must be one of publish, draft, pending, private, future, trash")
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		p, err := content.GetTypedPost(ctx, tx, postType, id)
		if err != nil {
			return struct{}{}, err
		}

		if cmd.Title != nil {
			p.Title = *cmd.Title
		}
		if cmd.Content != nil {
			p.Content = *cmd.Content
		}
		if cmd.Excerpt != nil {
			p.Excerpt = *cmd.Excerpt
		}
		restored := false
		if cmd.Status != nil {
			restored = p.Status == "trash" && *cmd.Status != "trash"
			p.Status = *cmd.Status
		}
		if cmd.Slug != nil {
			if p.Slug, err = content.UniqueSlug(ctx, tx, postType, content.Slugify(*cmd.Slug), id); err != nil {
				return struct{}{}, err
			}
		}

		if err := content.UpdatePost(ctx, tx, p); err != nil {
			return struct{}{}, err
		}
		if restored {
			for _, key := range []string{trashStatusMeta, trashTimeMeta} {
				if err := content.PostMeta.Delete(ctx, tx, id, key); err != nil {
					return struct{}{}, err
				}
			}
		}
		return struct{}{}, writeMeta(ctx, tx, id, cmd.Meta)
	})
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("post updated", "type", postType, "id", id)
	return nil
}

func (r *repo) Delete(ctx context.Context, postType string, id int64, force bool) (bool, error) {
	if _, err := r.postType(postType); err != nil {
		return false, err
	}

	trashed, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (bool, error) {
		p, err := content.GetTypedPost(ctx, tx, postType, id)
		if err != nil {
			return false, err
		}

		if force {
			return false, content.DeletePost(ctx, tx, id)
		}
		if p.Status == "trash" {
			return false, ErrAlreadyTrashed
		}

		if err := content.PostMeta.Set(ctx, tx, id, trashStatusMeta, p.Status); err != nil {
			return false, err
		}
		if err := content.PostMeta.Set(ctx, tx, id, trashTimeMeta, strconv.FormatInt(time.Now().Unix(), 10)); err != nil {
			return false, err
		}
		p.Status = "trash"
		if err := content.UpdatePost(ctx, tx, p); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return false, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("post deleted", "type", postType, "id", id, "trashed", trashed)
	return trashed, nil
}

func writeMeta(ctx context.Context, q repository.Querier, id int64, meta map[string]any) error {
	for key, value := range meta {
		if key == "" {
			continue
		}
		if value == nil {
			if err := content.PostMeta.Delete(ctx, q, id, key); err != nil {
				return err
			}
			continue
		}
		encoded, err := content.EncodeMeta(value)
		if err != nil {
			return handlers.Invalid("meta", fmt.Sprintf("value of %s is not encodable", key))
		}
		if err := content.PostMeta.Set(ctx, q, id, key, encoded); err != nil {
			return err
		}
	}
	return nil
}
