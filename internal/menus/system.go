// Package menus manages navigation menus, their items and theme location assignments.
//
// Menus are nav_menu terms. Items are nav_menu_item posts whose link target lives in
// _menu_item_* post meta and whose menu membership is a term relationship.
package menus

import "context"

type Menu struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	Count     int64    `json:"count"`
	Locations []string `json:"locations"`
}

// Detail is a menu with its ordered items.
type Detail struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	Locations []string `json:"locations"`
	Items     []Item   `json:"items"`
	Count     int      `json:"count"`
}

type Item struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Type     string   `json:"type"`
	Object   string   `json:"object"`
	ObjectID int64    `json:"object_id"`
	Parent   int64    `json:"parent"`
	Position int      `json:"position"`
	Target   string   `json:"target"`
	Classes  []string `json:"classes"`
}

// Location is a registered theme location and the menu assigned to it, if any.
type Location struct {
	Location    string `json:"location"`
	Description string `json:"description"`
	MenuID      *int64 `json:"menu_id"`
}

// ItemInput carries item fields. Nil fields keep their current value on update.
type ItemInput struct {
	Title      *string
	URL        *string
	ObjectType string
	Object     string
	ObjectID   int64
	Parent     *int64
	Position   *int
}

type System interface {
	List(ctx context.Context) ([]Menu, error)
	Locations(ctx context.Context) ([]Location, error)
	Find(ctx context.Context, id int64) (*Detail, error)
	Create(ctx context.Context, name string) (*Menu, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error

	AddItem(ctx context.Context, menuID int64, in ItemInput) (int64, error)
	UpdateItem(ctx context.Context, itemID int64, in ItemInput) error
	DeleteItem(ctx context.Context, itemID int64) error

	// Assign points location at menuID. A zero menuID clears the location.
	Assign(ctx context.Context, location string, menuID int64) error
}
