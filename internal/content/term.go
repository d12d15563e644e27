package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/query"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
)

// Term is a term in one taxonomy.
type Term struct {
	ID          int64  `json:"id"`
	TaxonomyID  int64  `json:"term_taxonomy_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Taxonomy    string `json:"taxonomy"`
	Description string `json:"description"`
	Parent      int64  `json:"parent"`
	Count       int64  `json:"count"`
}

const termColumns = `t.term_id, tt.term_taxonomy_id, t.name, t.slug, tt.taxonomy, tt.description, tt.parent, tt.count`

const termFrom = ` FROM wp_terms t JOIN wp_term_taxonomy tt ON tt.term_id = t.term_id`

// ScanTerm scans a row selected with the term columns.
func ScanTerm(s repository.Scanner) (Term, error) {
	var t Term
	err := s.Scan(&t.ID, &t.TaxonomyID, &t.Name, &t.Slug, &t.Taxonomy, &t.Description, &t.Parent, &t.Count)
	return t, err
}

// TermFilter selects terms for ListTerms.
type TermFilter struct {
	Taxonomy  string
	HideEmpty bool
	Parent    *int64
	Search    string
	Include   []int64
}

// ListTerms returns matching terms ordered by name.
func ListTerms(ctx context.Context, q repository.Querier, f TermFilter) ([]Term, error) {
	sqlStr := "SELECT " + termColumns + termFrom + " WHERE tt.taxonomy = $1"
	args := []any{f.Taxonomy}

	if f.HideEmpty {
		sqlStr += " AND tt.count > 0"
	}
	if f.Parent != nil {
		args = append(args, *f.Parent)
		sqlStr += fmt.Sprintf(" AND tt.parent = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+query.EscapeLike(f.Search)+"%")
		sqlStr += fmt.Sprintf(" AND (t.name ILIKE $%d OR t.slug ILIKE $%d)", len(args), len(args))
	}
	if len(f.Include) > 0 {
		args = append(args, f.Include)
		sqlStr += fmt.Sprintf(" AND t.term_id = ANY($%d)", len(args))
	}
	sqlStr += " ORDER BY t.name, t.term_id"

	terms, err := repository.QueryMany(ctx, q, sqlStr, args, ScanTerm)
	return terms, handlers.Host(handlers.ErrDatabase, err)
}

// GetTerm returns the term with id in taxonomy.
func GetTerm(ctx context.Context, q repository.Querier, taxonomy string, id int64) (*Term, error) {
	return findTerm(ctx, q, "tt.taxonomy = $1 AND t.term_id = $2", taxonomy, id)
}

// TermBySlug returns the term with slug in taxonomy.
func TermBySlug(ctx context.Context, q repository.Querier, taxonomy, slug string) (*Term, error) {
	return findTerm(ctx, q, "tt.taxonomy = $1 AND t.slug = $2", taxonomy, slug)
}

// TermByName returns the term named name in taxonomy, compared case-insensitively.
func TermByName(ctx context.Context, q repository.Querier, taxonomy, name string) (*Term, error) {
	return findTerm(ctx, q, "tt.taxonomy = $1 AND lower(t.name) = lower($2)", taxonomy, name)
}

// TermByTaxonomyID returns the term with the given term_taxonomy_id.
func TermByTaxonomyID(ctx context.Context, q repository.Querier, ttID int64) (*Term, error) {
	return findTerm(ctx, q, "tt.term_taxonomy_id = $1", ttID)
}

func findTerm(ctx context.Context, q repository.Querier, where string, args ...any) (*Term, error) {
	t, err := repository.QueryOne(ctx, q, "SELECT "+termColumns+termFrom+" WHERE "+where+" LIMIT 1", args, ScanTerm)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTermNotFound
	}
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}
	return &t, nil
}

// InsertTerm creates t in its taxonomy. The slug defaults to the slugified name
// and must be unique within the taxonomy.
func InsertTerm(ctx context.Context, q repository.Querier, t *Term) error {
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	if _, err := TermBySlug(ctx, q, t.Taxonomy, t.Slug); err == nil {
		return ErrTermExists
	} else if !errors.Is(err, ErrTermNotFound) {
		return err
	}
	if t.Parent != 0 {
		if _, err := GetTerm(ctx, q, t.Taxonomy, t.Parent); err != nil {
			return handlers.NewError("missing_parent", "Parent term does not exist.", 400)
		}
	}

	if err := q.QueryRowContext(ctx,
		"INSERT INTO wp_terms (name, slug) VALUES ($1, $2) RETURNING term_id",
		t.Name, t.Slug,
	).Scan(&t.ID); err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	if err := q.QueryRowContext(ctx, `
		INSERT INTO wp_term_taxonomy (term_id, taxonomy, description, parent)
		VALUES ($1, $2, $3, $4) RETURNING term_taxonomy_id`,
		t.ID, t.Taxonomy, t.Description, t.Parent,
	).Scan(&t.TaxonomyID); err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}
	return nil
}

// UpdateTerm writes the name, slug, description and parent of t.
func UpdateTerm(ctx context.Context, q repository.Querier, t *Term) error {
	if other, err := TermBySlug(ctx, q, t.Taxonomy, t.Slug); err == nil && other.ID != t.ID {
		return ErrTermExists.Withf("The slug %q is already in use by another term.", t.Slug)
	} else if err != nil && !errors.Is(err, ErrTermNotFound) {
		return err
	}
	if t.Parent == t.ID {
		return handlers.Invalid("parent", "a term cannot be its own parent")
	}

	if _, err := q.ExecContext(ctx,
		"UPDATE wp_terms SET name = $1, slug = $2 WHERE term_id = $3",
		t.Name, t.Slug, t.ID,
	); err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}
	_, err := q.ExecContext(ctx,
		"UPDATE wp_term_taxonomy SET description = $1, parent = $2 WHERE term_taxonomy_id = $3",
		t.Description, t.Parent, t.TaxonomyID,
	)
	return handlers.Host(handlers.ErrDatabase, err)
}

// DeleteTerm removes t from its taxonomy, moving its children up to its parent.
// The wp_terms row is removed when no other taxonomy still uses it.
func DeleteTerm(ctx context.Context, q repository.Querier, t *Term) error {
	stmts := []struct {
		sql  string
		args []any
	}{
		{"UPDATE wp_term_taxonomy SET parent = $1 WHERE parent = $2 AND taxonomy = $3", []any{t.Parent, t.ID, t.Taxonomy}},
		{"DELETE FROM wp_term_relationships WHERE term_taxonomy_id = $1", []any{t.TaxonomyID}},
		{"DELETE FROM wp_term_taxonomy WHERE term_taxonomy_id = $1", []any{t.TaxonomyID}},
		{"DELETE FROM wp_terms WHERE term_id = $1 AND NOT EXISTS (SELECT 1 FROM wp_term_taxonomy WHERE term_id = $1)", []any{t.ID}},
	}
	for _, s := range stmts {
		if _, err := q.ExecContext(ctx, s.sql, s.args...); err != nil {
			return handlers.Host(handlers.ErrDatabase, err)
		}
	}
	return nil
}

// ObjectTerms returns the terms of taxonomy attached to objectID.
func ObjectTerms(ctx context.Context, q repository.Querier, objectID int64, taxonomy string) ([]Term, error) {
	terms, err := repository.QueryMany(ctx, q,
		"SELECT "+termColumns+termFrom+`
		JOIN wp_term_relationships r ON r.term_taxonomy_id = tt.term_taxonomy_id
		WHERE r.object_id = $1 AND tt.taxonomy = $2
		ORDER BY r.term_order, t.name`,
		[]any{objectID, taxonomy},
		ScanTerm,
	)
	return terms, handlers.Host(handlers.ErrDatabase, err)
}

// SetObjectTerms attaches the given term_taxonomy IDs to objectID. Unless appending,
// existing terms of taxonomy not in ttIDs are detached. Affected terms are recounted
// and the resulting term_taxonomy IDs are returned.
func SetObjectTerms(ctx context.Context, q repository.Querier, objectID int64, taxonomy string, ttIDs []int64, appendMode bool) ([]int64, error) {
	existing, err := objectTaxonomyIDs(ctx, q, objectID, taxonomy)
	if err != nil {
		return nil, err
	}

	keep := make(map[int64]bool, len(ttIDs))
	for _, id := range ttIDs {
		keep[id] = true
	}

	affected := append([]int64{}, ttIDs...)
	if !appendMode {
		for _, id := range existing {
			if keep[id] {
				continue
			}
			if _, err := q.ExecContext(ctx,
				"DELETE FROM wp_term_relationships WHERE object_id = $1 AND term_taxonomy_id = $2",
				objectID, id,
			); err != nil {
				return nil, handlers.Host(handlers.ErrDatabase, err)
			}
			affected = append(affected, id)
		}
	}

	for i, id := range ttIDs {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO wp_term_relationships (object_id, term_taxonomy_id, term_order)
			VALUES ($1, $2, $3) ON CONFLICT (object_id, term_taxonomy_id) DO NOTHING`,
			objectID, id, i,
		); err != nil {
			return nil, handlers.Host(handlers.ErrDatabase, err)
		}
	}

	if err := RecountTerms(ctx, q, affected); err != nil {
		return nil, err
	}
	return objectTaxonomyIDs(ctx, q, objectID, taxonomy)
}

// RecountTerms recomputes the object count of each term_taxonomy ID. Menu terms
// count every item; other taxonomies count published and attached objects.
func RecountTerms(ctx context.Context, q repository.Querier, ttIDs []int64) error {
	if len(ttIDs) == 0 {
		return nil
	}
	_, err := q.ExecContext(ctx, `
		UPDATE wp_term_taxonomy tt SET count = (
			SELECT COUNT(*) FROM wp_term_relationships r
			JOIN wp_posts p ON p.id = r.object_id
			WHERE r.term_taxonomy_id = tt.term_taxonomy_id
			  AND (tt.taxonomy = 'nav_menu' OR p.post_status IN ('publish', 'inherit'))
		)
		WHERE tt.term_taxonomy_id = ANY($1)`,
		ttIDs,
	)
	return handlers.Host(handlers.ErrDatabase, err)
}

// objectTaxonomyIDs lists term_taxonomy IDs attached to objectID, restricted to taxonomy when set.
func objectTaxonomyIDs(ctx context.Context, q repository.Querier, objectID int64, taxonomy string) ([]int64, error) {
	sqlStr := `SELECT r.term_taxonomy_id FROM wp_term_relationships r
		JOIN wp_term_taxonomy tt ON tt.term_taxonomy_id = r.term_taxonomy_id
		WHERE r.object_id = $1`
	args := []any{objectID}
	if taxonomy != "" {
		sqlStr += " AND tt.taxonomy = $2"
		args = append(args, taxonomy)
	}
	sqlStr += " ORDER BY r.term_order, r.term_taxonomy_id"

	ids, err := repository.QueryMany(ctx, q, sqlStr, args, func(s repository.Scanner) (int64, error) {
		var id int64
		err := s.Scan(&id)
		return id, err
	})
	return ids, handlers.Host(handlers.ErrDatabase, err)
}
