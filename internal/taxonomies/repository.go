package taxonomies

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/JaimeStill/mcp-endpoints/internal/content"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
)

type repo struct {
	db     *sql.DB
	reg    *registry.Registry
	logger *slog.Logger
}

func New(db *sql.DB, reg *registry.Registry, logger *slog.Logger) System {
	return &repo{
		db:     db,
		reg:    reg,
		logger: logger.With("system", "taxonomies"),
	}
}

func (r *repo) taxonomy(name string) (registry.Taxonomy, error) {
	tx, ok := r.reg.Taxonomy(name)
	if !ok {
		return tx, ErrNotFound
	}
	return tx, nil
}

func (r *repo) termCount(ctx context.Context, taxonomy string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM wp_term_taxonomy WHERE taxonomy = $1", taxonomy,
	).Scan(&n)
	return n, handlers.Host(handlers.ErrDatabase, err)
}

func (r *repo) List(ctx context.Context) ([]Summary, error) {
	all := r.reg.Taxonomies(false)
	out := make([]Summary, 0, len(all))
	for _, tx := range all {
		n, err := r.termCount(ctx, tx.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(tx, n))
	}
	return out, nil
}

func (r *repo) Get(ctx context.Context, taxonomy string) (*Summary, error) {
	tx, err := r.taxonomy(taxonomy)
	if err != nil {
		return nil, err
	}
	n, err := r.termCount(ctx, tx.Name)
	if err != nil {
		return nil, err
	}
	s := summarize(tx, n)
	return &s, nil
}

func (r *repo) Terms(ctx context.Context, taxonomy string, f TermFilter) ([]content.Term, error) {
	if _, err := r.taxonomy(taxonomy); err != nil {
		return nil, err
	}
	return content.ListTerms(ctx, r.db, content.TermFilter{
		Taxonomy:  taxonomy,
		HideEmpty: f.HideEmpty,
		Parent:    f.Parent,
		Search:    f.Search,
	})
}

func (r *repo) CreateTerm(ctx context.Context, taxonomy string, in TermInput) (*content.Term, error) {
	tx, err := r.taxonomy(taxonomy)
	if err != nil {
		return nil, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, handlers.Missing("name")
	}

	t := &content.Term{Taxonomy: taxonomy, Name: strings.TrimSpace(*in.Name)}
	if in.Slug != nil {
		t.Slug = content.Slugify(*in.Slug)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Parent != nil && tx.Hierarchical {
		t.Parent = *in.Parent
	}

	_, err = repository.WithTx(ctx, r.db, func(q *sql.Tx) (struct{}, error) {
		return struct{}{}, content.InsertTerm(ctx, q, t)
	})
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("term created", "taxonomy", taxonomy, "id", t.ID, "slug", t.Slug)
	return t, nil
}

func (r *repo) UpdateTerm(ctx context.Context, taxonomy string, id int64, in TermInput) (*content.Term, error) {
	tx, err := r.taxonomy(taxonomy)
	if err != nil {
		return nil, err
	}

	t, err := repository.WithTx(ctx, r.db, func(q *sql.Tx) (*content.Term, error) {
		t, err := content.GetTerm(ctx, q, taxonomy, id)
		if err != nil {
			return nil, err
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return nil, handlers.Invalid("name", "must not be empty")
			}
			t.Name = strings.TrimSpace(*in.Name)
		}
		if in.Slug != nil {
			t.Slug = content.Slugify(*in.Slug)
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if in.Parent != nil && tx.Hierarchical {
			if *in.Parent != 0 {
				if _, err := content.GetTerm(ctx, q, taxonomy, *in.Parent); err != nil {
					return nil, handlers.Invalid("parent", "parent term does not exist")
				}
			}
			t.Parent = *in.Parent
		}
		return t, content.UpdateTerm(ctx, q, t)
	})
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("term updated", "taxonomy", taxonomy, "id", id)
	return t, nil
}

func (r *repo) DeleteTerm(ctx context.Context, taxonomy string, id int64) error {
	if _, err := r.taxonomy(taxonomy); err != nil {
		return err
	}

	_, err := repository.WithTx(ctx, r.db, func(q *sql.Tx) (struct{}, error) {
		t, err := content.GetTerm(ctx, q, taxonomy, id)
		if err != nil {
			return struct{}{}, err
		}
		if taxonomy == "category" && r.isDefaultCategory(ctx, q, id) {
			return struct{}{}, handlers.NewError("cannot_delete_default", "The default category cannot be deleted.", 400)
		}
		return struct{}{}, content.DeleteTerm(ctx, q, t)
	})
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("term deleted", "taxonomy", taxonomy, "id", id)
	return nil
}

func (r *repo) isDefaultCategory(ctx context.Context, q repository.Querier, id int64) bool {
	var raw string
	err := q.QueryRowContext(ctx,
		"SELECT option_value FROM wp_options WHERE option_name = 'default_category'",
	).Scan(&raw)
	if err != nil {
		return false
	}
	return strings.Trim(raw, `"`) == strconv.FormatInt(id, 10)
}

func (r *repo) Assign(ctx context.Context, a Assignment) ([]int64, error) {
	tx, err := r.taxonomy(a.Taxonomy)
	if err != nil {
		return nil, err
	}
	refs, ok := ParseTermRefs(a.Terms)
	if !ok {
		return nil, handlers.Invalid("terms", "must be term IDs, slugs or names")
	}

	ids, err := repository.WithTx(ctx, r.db, func(q *sql.Tx) ([]int64, error) {
		if _, err := content.GetPost(ctx, q, a.PostID); err != nil {
			return nil, err
		}

		ttIDs := make([]int64, 0, len(refs))
		for _, ref := range refs {
			t, err := r.resolve(ctx, q, tx, ref)
			if errors.Is(err, content.ErrTermNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			ttIDs = append(ttIDs, t.TaxonomyID)
		}
		return content.SetObjectTerms(ctx, q, a.PostID, a.Taxonomy, ttIDs, a.Append)
	})
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("terms assigned", "post", a.PostID, "taxonomy", a.Taxonomy, "terms", len(ids), "append", a.Append)
	return ids, nil
}

// resolve finds the term for ref, creating named terms that do not exist yet.
func (r *repo) resolve(ctx context.Context, q repository.Querier, tx registry.Taxonomy, ref TermRef) (*content.Term, error) {
	if ref.ID > 0 {
		return content.GetTerm(ctx, q, tx.Name, ref.ID)
	}

	if t, err := content.TermBySlug(ctx, q, tx.Name, content.Slugify(ref.Name)); err == nil {
		return t, nil
	} else if !errors.Is(err, content.ErrTermNotFound) {
		return nil, err
	}
	if t, err := content.TermByName(ctx, q, tx.Name, ref.Name); err == nil {
		return t, nil
	} else if !errors.Is(err, content.ErrTermNotFound) {
		return nil, err
	}

	t := &content.Term{Taxonomy: tx.Name, Name: ref.Name}
	if err := content.InsertTerm(ctx, q, t); err != nil {
		return nil, err
	}
	return t, nil
}
