package menus

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/JaimeStill/mcp-endpoints/internal/content"
	"github.com/JaimeStill/mcp-endpoints/internal/options"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
)

type repo struct {
	db      *sql.DB
	reg     *registry.Registry
	opts    options.System
	siteURL string
	logger  *slog.Logger
}

func New(db *sql.DB, reg *registry.Registry, opts options.System, siteURL string, logger *slog.Logger) System {
	return &repo{
		db:      db,
		reg:     reg,
		opts:    opts,
		siteURL: siteURL,
		logger:  logger.With("system", "menus"),
	}
}

func (r *repo) modsKey(ctx context.Context) (string, error) {
	var stylesheet string
	if _, err := r.opts.Decode(ctx, "stylesheet", &stylesheet); err != nil {
		return "", err
	}
	return "theme_mods_" + stylesheet, nil
}

func (r *repo) themeMods(ctx context.Context) (string, map[string]any, error) {
	key, err := r.modsKey(ctx)
	if err != nil {
		return "", nil, err
	}
	mods := map[string]any{}
	if _, err := r.opts.Decode(ctx, key, &mods); err != nil {
		return "", nil, err
	}
	if mods == nil {
		mods = map[string]any{}
	}
	return key, mods, nil
}

// assigned returns the nav_menu_locations theme mod.
func (r *repo) assigned(ctx context.Context) (map[string]int64, error) {
	_, mods, err := r.themeMods(ctx)
	if err != nil {
		return nil, err
	}
	return locationMap(mods["nav_menu_locations"]), nil
}

func locationMap(v any) map[string]int64 {
	out := map[string]int64{}
	m, _ := v.(map[string]any)
	for loc, id := range m {
		if n, ok := id.(float64); ok {
			out[loc] = int64(n)
		}
	}
	return out
}

func (r *repo) writeLocations(ctx context.Context, edit func(map[string]int64)) error {
	key, err := r.modsKey(ctx)
	if err != nil {
		return err
	}

	mods := map[string]any{}
	return r.opts.Update(ctx, key, &mods, true, func(bool) (any, error) {
		if mods == nil {
			mods = map[string]any{}
		}
		locs := locationMap(mods["nav_menu_locations"])
		edit(locs)
		mods["nav_menu_locations"] = locs
		return mods, nil
	})
}

func (r *repo) menu(ctx context.Context, q repository.Querier, id int64) (*content.Term, error) {
	t, err := content.GetTerm(ctx, q, taxonomy, id)
	if errors.Is(err, content.ErrTermNotFound) {
		return nil, ErrNotFound
	}
	return t, err
}

func (r *repo) List(ctx context.Context) ([]Menu, error) {
	terms, err := content.ListTerms(ctx, r.db, content.TermFilter{Taxonomy: taxonomy})
	if err != nil {
		return nil, err
	}
	assigned, err := r.assigned(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Menu, len(terms))
	for i, t := range terms {
		out[i] = Menu{
			ID:        t.ID,
			Name:      t.Name,
			Slug:      t.Slug,
			Count:     t.Count,
			Locations: LocationsOf(assigned, t.ID),
		}
	}
	return out, nil
}

func (r *repo) Locations(ctx context.Context) ([]Location, error) {
	assigned, err := r.assigned(ctx)
	if err != nil {
		return nil, err
	}

	registered := r.reg.MenuLocations()
	out := make([]Location, len(registered))
	for i, loc := range registered {
		out[i] = Location{Location: loc.Slug, Description: loc.Description}
		if id, ok := assigned[loc.Slug]; ok && id != 0 {
			out[i].MenuID = &id
		}
	}
	return out, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Detail, error) {
	t, err := r.menu(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	items, err := r.items(ctx, r.db, t.TaxonomyID)
	if err != nil {
		return nil, err
	}
	assigned, err := r.assigned(ctx)
	if err != nil {
		return nil, err
	}

	return &Detail{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Locations: LocationsOf(assigned, t.ID),
		Items:     items,
		Count:     len(items),
	}, nil
}

// items loads the ordered items of the menu with term_taxonomy ID ttID.
func (r *repo) items(ctx context.Context, q repository.Querier, ttID int64) ([]Item, error) {
	type row struct {
		id       int64
		title    string
		position int
	}
	rows, err := repository.QueryMany(ctx, q, `
		SELECT p.id, p.post_title, p.menu_order FROM wp_posts p
		JOIN wp_term_relationships r ON r.object_id = p.id
		WHERE r.term_taxonomy_id = $1 AND p.post_type = $2
		ORDER BY p.menu_order, p.id`,
		[]any{ttID, itemType},
		func(s repository.Scanner) (row, error) {
			var rw row
			err := s.Scan(&rw.id, &rw.title, &rw.position)
			return rw, err
		},
	)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	items := make([]Item, 0, len(rows))
	for _, rw := range rows {
		meta, err := content.PostMeta.All(ctx, q, rw.id)
		if err != nil {
			return nil, err
		}
		it := Item{ID: rw.id, Title: rw.title, Position: rw.position}
		itemFromMeta(&it, meta)
		if err := r.resolveLink(ctx, q, &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// resolveLink fills the title and URL of items that point at posts or terms.
func (r *repo) resolveLink(ctx context.Context, q repository.Querier, it *Item) error {
	switch it.Type {
	case "post_type":
		p, err := content.GetPost(ctx, q, it.ObjectID)
		if errors.Is(err, content.ErrPostNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if it.Title == "" {
			it.Title = p.Title
		}
		it.URL = LinkURL(r.siteURL, it.Type, it.Object, it.ObjectID, p.Slug)
	case "taxonomy":
		t, err := content.GetTerm(ctx, q, it.Object, it.ObjectID)
		if errors.Is(err, content.ErrTermNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if it.Title == "" {
			it.Title = t.Name
		}
		it.URL = LinkURL(r.siteURL, it.Type, it.Object, it.ObjectID, t.Slug)
	}
	return nil
}

func (r *repo) Create(ctx context.Context, name string) (*Menu, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, handlers.Missing("name")
	}

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*content.Term, error) {
		if err := r.ensureUniqueName(ctx, tx, 0, name); err != nil {
			return nil, err
		}
		t := &content.Term{Taxonomy: taxonomy, Name: name}
		if err := content.InsertTerm(ctx, tx, t); err != nil {
			if errors.Is(err, content.ErrTermExists) {
				return nil, ErrMenuExists
			}
			return nil, err
		}
		return t, nil
	})
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("menu created", "id", t.ID, "name", name)
	return &Menu{ID: t.ID, Name: t.Name, Slug: t.Slug, Locations: []string{}}, nil
}

func (r *repo) ensureUniqueName(ctx context.Context, q repository.Querier, self int64, name string) error {
	other, err := content.TermByName(ctx, q, taxonomy, name)
	if errors.Is(err, content.ErrTermNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != self {
		return ErrMenuExists.Withf("The menu name %s conflicts with another menu name. Please try another.", name)
	}
	return nil
}

func (r *repo) Rename(ctx context.Context, id int64, name string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		t, err := r.menu(ctx, tx, id)
		if err != nil {
			return struct{}{}, err
		}
		name = strings.TrimSpace(name)
		if name == "" || name == t.Name {
			return struct{}{}, nil
		}
		if err := r.ensureUniqueName(ctx, tx, id, name); err != nil {
			return struct{}{}, err
		}
		t.Name = name
		t.Slug = content.Slugify(name)
		err = content.UpdateTerm(ctx, tx, t)
		if errors.Is(err, content.ErrTermExists) {
			return struct{}{}, ErrMenuExists
		}
		return struct{}{}, err
	})
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("menu renamed", "id", id, "name", name)
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		t, err := r.menu(ctx, tx, id)
		if err != nil {
			return struct{}{}, err
		}
		items, err := r.itemIDs(ctx, tx, t.TaxonomyID)
		if err != nil {
			return struct{}{}, err
		}
		for _, item := range items {
			if err := content.DeletePost(ctx, tx, item); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, content.DeleteTerm(ctx, tx, t)
	})
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	if err := r.writeLocations(ctx, func(locs map[string]int64) {
		for loc, menuID := range locs {
			if menuID == id {
				delete(locs, loc)
			}
		}
	}); err != nil {
		return err
	}

	r.logger.Info("menu deleted", "id", id)
	return nil
}

func (r *repo) itemIDs(ctx context.Context, q repository.Querier, ttID int64) ([]int64, error) {
	ids, err := repository.QueryMany(ctx, q, `
		SELECT p.id FROM wp_posts p
		JOIN wp_term_relationships r ON r.object_id = p.id
		WHERE r.term_taxonomy_id = $1 AND p.post_type = $2`,
		[]any{ttID, itemType},
		func(s repository.Scanner) (int64, error) {
			var id int64
			err := s.Scan(&id)
			return id, err
		},
	)
	return ids, handlers.Host(handlers.ErrDatabase, err)
}

func (r *repo) lastPosition(ctx context.Context, q repository.Querier, ttID int64) (int, error) {
	var last int
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(p.menu_order), 0) FROM wp_posts p
		JOIN wp_term_relationships r ON r.object_id = p.id
		WHERE r.term_taxonomy_id = $1 AND p.post_type = $2`,
		ttID, itemType,
	).Scan(&last)
	return last, handlers.Host(handlers.ErrDatabase, err)
}

// place assigns the menu order of item, moving later items down for explicit positions.
func (r *repo) place(ctx context.Context, q repository.Querier, ttID, item int64, requested *int) (int, error) {
	last, err := r.lastPosition(ctx, q, ttID)
	if err != nil {
		return 0, err
	}
	pos, shift := ResolvePosition(last, requested)
	if shift {
		if _, err := q.ExecContext(ctx, `
			UPDATE wp_posts SET menu_order = menu_order + 1
			WHERE post_type = $1 AND id <> $2 AND menu_order >= $3
			  AND id IN (SELECT object_id FROM wp_term_relationships WHERE term_taxonomy_id = $4)`,
			itemType, item, pos, ttID,
		); err != nil {
			return 0, handlers.Host(handlers.ErrDatabase, err)
		}
	}
	return pos, nil
}

func (r *repo) checkParent(ctx context.Context, q repository.Querier, ttID, item, parent int64) error {
	if parent == 0 {
		return nil
	}
	if parent == item {
		return handlers.Invalid("parent", "an item cannot be its own parent")
	}
	var ok bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM wp_term_relationships r JOIN wp_posts p ON p.id = r.object_id
		WHERE r.object_id = $1 AND r.term_taxonomy_id = $2 AND p.post_type = $3)`,
		parent, ttID, itemType,
	).Scan(&ok)
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}
	if !ok {
		return handlers.Invalid("parent", "parent must be an item of the same menu")
	}
	return nil
}

// checkObject verifies that a post_type or taxonomy item points at existing content.
func (r *repo) checkObject(ctx context.Context, q repository.Querier, in *ItemInput) error {
	switch in.ObjectType {
	case "post_type":
		p, err := content.GetPost(ctx, q, in.ObjectID)
		if errors.Is(err, content.ErrPostNotFound) {
			return handlers.Invalid("object_id", "post does not exist")
		}
		if err != nil {
			return err
		}
		if in.Object == "" {
			in.Object = p.Type
		}
	case "taxonomy":
		if in.Object == "" {
			return handlers.Missing("object")
		}
		if _, err := content.GetTerm(ctx, q, in.Object, in.ObjectID); errors.Is(err, content.ErrTermNotFound) {
			return handlers.Invalid("object_id", "term does not exist")
		} else if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) AddItem(ctx context.Context, menuID int64, in ItemInput) (int64, error) {
	if in.ObjectType == "" {
		in.ObjectType = "custom"
	}
	if !ValidObjectType(in.ObjectType) {
		return 0, ErrInvalidType
	}

	id, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		m, err := r.menu(ctx, tx, menuID)
		if err != nil {
			return 0, err
		}
		if err := r.checkObject(ctx, tx, &in); err != nil {
			return 0, err
		}

		var parent int64
		if in.Parent != nil {
			parent = *in.Parent
			if err := r.checkParent(ctx, tx, m.TaxonomyID, 0, parent); err != nil {
				return 0, err
			}
		}

		post := &content.Post{Type: itemType, Status: "publish"}
		if in.Title != nil {
			post.Title = strings.TrimSpace(*in.Title)
		}
		if post.MenuOrder, err = r.place(ctx, tx, m.TaxonomyID, 0, in.Position); err != nil {
			return 0, err
		}
		if err := content.InsertPost(ctx, tx, post, r.siteURL); err != nil {
			return 0, err
		}

		object, objectID, link := in.Object, in.ObjectID, ""
		if in.ObjectType == "custom" {
			object, objectID = "custom", post.ID
			if in.URL != nil {
				link = strings.TrimSpace(*in.URL)
			}
		}
		meta := [][2]string{
			{metaType, in.ObjectType},
			{metaParent, formatID(parent)},
			{metaObjID, formatID(objectID)},
			{metaObject, object},
			{metaTarget, ""},
			{metaClasses, `[""]`},
			{metaXFN, ""},
			{metaURL, link},
		}
		for _, kv := range meta {
			if err := content.PostMeta.Set(ctx, tx, post.ID, kv[0], kv[1]); err != nil {
				return 0, err
			}
		}

		if _, err := content.SetObjectTerms(ctx, tx, post.ID, taxonomy, []int64{m.TaxonomyID}, false); err != nil {
			return 0, err
		}
		return post.ID, nil
	})
	if err != nil {
		return 0, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("menu item added", "menu", menuID, "item", id, "type", in.ObjectType)
	return id, nil
}

func (r *repo) UpdateItem(ctx context.Context, itemID int64, in ItemInput) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		post, err := content.GetTypedPost(ctx, tx, itemType, itemID)
		if errors.Is(err, content.ErrPostNotFound) {
			return struct{}{}, ErrItemNotFound
		}
		if err != nil {
			return struct{}{}, err
		}

		menus, err := content.ObjectTerms(ctx, tx, itemID, taxonomy)
		if err != nil {
			return struct{}{}, err
		}
		var ttID int64
		if len(menus) > 0 {
			ttID = menus[0].TaxonomyID
		}

		if in.Title != nil {
			post.Title = strings.TrimSpace(*in.Title)
		}
		if in.Position != nil && ttID != 0 {
			if post.MenuOrder, err = r.place(ctx, tx, ttID, itemID, in.Position); err != nil {
				return struct{}{}, err
			}
		}
		if err := content.UpdatePost(ctx, tx, post); err != nil {
			return struct{}{}, err
		}

		if in.URL != nil {
			if err := content.PostMeta.Set(ctx, tx, itemID, metaURL, strings.TrimSpace(*in.URL)); err != nil {
				return struct{}{}, err
			}
		}
		if in.Parent != nil {
			if err := r.checkParent(ctx, tx, ttID, itemID, *in.Parent); err != nil {
				return struct{}{}, err
			}
			if err := content.PostMeta.Set(ctx, tx, itemID, metaParent, formatID(*in.Parent)); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("menu item updated", "item", itemID)
	return nil
}

func (r *repo) DeleteItem(ctx context.Context, itemID int64) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := content.GetTypedPost(ctx, tx, itemType, itemID); err != nil {
			if errors.Is(err, content.ErrPostNotFound) {
				return struct{}{}, ErrItemNotFound
			}
			return struct{}{}, err
		}
		// Children move up to the deleted item's parent.
		parent, _, err := content.PostMeta.Get(ctx, tx, itemID, metaParent)
		if err != nil {
			return struct{}{}, err
		}
		if parent == "" {
			parent = "0"
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE wp_postmeta SET meta_value = $1 WHERE meta_key = $2 AND meta_value = $3",
			parent, metaParent, formatID(itemID),
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, content.DeletePost(ctx, tx, itemID)
	})
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("menu item deleted", "item", itemID)
	return nil
}

func (r *repo) Assign(ctx context.Context, location string, menuID int64) error {
	if _, ok := r.reg.MenuLocation(location); !ok {
		return ErrInvalidLocation.Withf("Location '%s' not registered", location)
	}
	if menuID > 0 {
		if _, err := r.menu(ctx, r.db, menuID); err != nil {
			return err
		}
	}

	if err := r.writeLocations(ctx, func(locs map[string]int64) {
		locs[location] = menuID
	}); err != nil {
		return err
	}

	r.logger.Info("menu location assigned", "location", location, "menu", menuID)
	return nil
}
