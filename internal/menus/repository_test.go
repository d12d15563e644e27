package menus_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/internal/dbtest"
	"github.com/JaimeStill/mcp-endpoints/internal/menus"
	"github.com/JaimeStill/mcp-endpoints/internal/options"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
)

func newRepo(t *testing.T) menus.System {
	t.Helper()
	db := dbtest.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return menus.New(db, registry.New(nil), options.New(db, logger), "http://localhost:8080", logger)
}

func titles(t *testing.T, sys menus.System, menuID int64) []string {
	t.Helper()
	d, err := sys.Find(context.Background(), menuID)
	if err != nil {
		t.Fatalf("Find(%d): %v", menuID, err)
	}
	out := make([]string, len(d.Items))
	for i, it := range d.Items {
		out[i] = it.Title
	}
	return out
}

func TestRepository_ItemPositions(t *testing.T) {
	sys := newRepo(t)
	ctx := context.Background()

	m, err := sys.Create(ctx, "Main")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ids := map[string]int64{}
	add := func(title string, position *int) {
		t.Helper()
		id, err := sys.AddItem(ctx, m.ID, menus.ItemInput{
			Title:    &title,
			URL:      ptr("https://example.com/" + title),
			Position: position,
		})
		if err != nil {
			t.Fatalf("AddItem(%s): %v", title, err)
		}
		ids[title] = id
	}

	add("a", nil)
	add("b", nil)
	add("c", nil)
	if got := titles(t, sys, m.ID); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("appended order = %v", got)
	}

	add("d", ptr(2))
	if got := titles(t, sys, m.ID); !slices.Equal(got, []string{"a", "d", "b", "c"}) {
		t.Errorf("after insert at 2 = %v, want [a d b c]", got)
	}

	if err := sys.UpdateItem(ctx, ids["c"], menus.ItemInput{Position: ptr(1)}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	d, err := sys.Find(ctx, m.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	var got []string
	var positions []int
	for _, it := range d.Items {
		got = append(got, it.Title)
		positions = append(positions, it.Position)
	}
	if !slices.Equal(got, []string{"c", "a", "d", "b"}) {
		t.Errorf("after move to 1 = %v, want [c a d b]", got)
	}
	if !slices.Equal(positions, []int{1, 2, 3, 4}) {
		t.Errorf("positions = %v, want [1 2 3 4]", positions)
	}
	if d.Items[0].URL != "https://example.com/c" {
		t.Errorf("custom url = %q", d.Items[0].URL)
	}

	list, err := sys.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Count != 4 {
		t.Errorf("menus = %+v, want one menu counting 4 items", list)
	}
}

func TestRepository_ItemParents(t *testing.T) {
	sys := newRepo(t)
	ctx := context.Background()

	m, err := sys.Create(ctx, "Footer")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	top, err := sys.AddItem(ctx, m.ID, menus.ItemInput{Title: ptr("top")})
	if err != nil {
		t.Fatalf("AddItem top: %v", err)
	}
	mid, err := sys.AddItem(ctx, m.ID, menus.ItemInput{Title: ptr("mid"), Parent: &top})
	if err != nil {
		t.Fatalf("AddItem mid: %v", err)
	}
	leaf, err := sys.AddItem(ctx, m.ID, menus.ItemInput{Title: ptr("leaf"), Parent: &mid})
	if err != nil {
		t.Fatalf("AddItem leaf: %v", err)
	}

	if err := sys.DeleteItem(ctx, mid); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	d, err := sys.Find(ctx, m.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(d.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(d.Items))
	}
	for _, it := range d.Items {
		if it.ID == leaf && it.Parent != top {
			t.Errorf("leaf parent = %d, want %d", it.Parent, top)
		}
	}

	if err := sys.DeleteItem(ctx, mid); !errors.Is(err, menus.ErrItemNotFound) {
		t.Errorf("second DeleteItem err = %v, want ErrItemNotFound", err)
	}
	if err := sys.UpdateItem(ctx, 9999, menus.ItemInput{Title: ptr("x")}); !errors.Is(err, menus.ErrItemNotFound) {
		t.Errorf("UpdateItem missing err = %v, want ErrItemNotFound", err)
	}
}

func TestRepository_DeleteClearsLocations(t *testing.T) {
	sys := newRepo(t)
	ctx := context.Background()

	primary, err := sys.Create(ctx, "Main")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	other, err := sys.Create(ctx, "Other")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := sys.Create(ctx, "Main"); !errors.Is(err, menus.ErrMenuExists) {
		t.Errorf("duplicate Create err = %v, want ErrMenuExists", err)
	}

	if err := sys.Assign(ctx, "primary", primary.ID); err != nil {
		t.Fatalf("Assign primary: %v", err)
	}
	if err := sys.Assign(ctx, "footer", other.ID); err != nil {
		t.Fatalf("Assign footer: %v", err)
	}
	if _, err := sys.AddItem(ctx, primary.ID, menus.ItemInput{Title: ptr("home")}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := sys.Delete(ctx, primary.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := sys.Find(ctx, primary.ID); !errors.Is(err, menus.ErrNotFound) {
		t.Errorf("Find deleted err = %v, want ErrNotFound", err)
	}
	if err := sys.Delete(ctx, primary.ID); !errors.Is(err, menus.ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}

	locs, err := sys.Locations(ctx)
	if err != nil {
		t.Fatalf("Locations: %v", err)
	}
	for _, loc := range locs {
		switch loc.Location {
		case "primary":
			if loc.MenuID != nil {
				t.Errorf("primary still points at %d", *loc.MenuID)
			}
		case "footer":
			if loc.MenuID == nil || *loc.MenuID != other.ID {
				t.Errorf("footer = %v, want %d", loc.MenuID, other.ID)
			}
		}
	}
}
