// Package widgets manages widget instances and their placement in sidebars.
//
// Instances of a widget type live in the option widget_<id_base> keyed by
// instance number. The sidebars_widgets option maps each sidebar to its ordered
// widget IDs.
package widgets

import "context"

type System interface {
	Sidebars(ctx context.Context) ([]SidebarSummary, error)
	Sidebar(ctx context.Context, id string) (*SidebarSummary, []Widget, error)
	Types() []TypeSummary
	Get(ctx context.Context, id string) (*Placed, error)

	// Add stores a new instance of widgetType and places it in sidebar.
	Add(ctx context.Context, sidebar, widgetType string, settings map[string]any, position *int) (string, error)

	// Update merges settings into the stored instance.
	Update(ctx context.Context, id string, settings map[string]any) error
	Delete(ctx context.Context, id string) error

	// Move returns the sidebar the widget was taken from.
	Move(ctx context.Context, id, sidebar string, position *int) (string, error)
	Reorder(ctx context.Context, sidebar string, order []string) ([]string, error)
}
