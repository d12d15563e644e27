package widgets

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

const sidebarsOption = "sidebars_widgets"

// SidebarSummary is a registered sidebar with the number of widgets placed in it.
type SidebarSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Class       string `json:"class"`
	WidgetCount int    `json:"widget_count"`
}

// Widget is one stored instance of a widget type.
type Widget struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Name     string         `json:"name"`
	Settings map[string]any `json:"settings"`
}

// Placed is a widget and the sidebar holding it, if any.
type Placed struct {
	Widget
	SidebarID *string `json:"sidebar_id"`
}

// TypeSummary is a registered widget type.
type TypeSummary struct {
	IDBase      string `json:"id_base"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ParseID splits a widget ID such as recent-posts-3 into its id base and instance number.
func ParseID(id string) (string, int, bool) {
	i := strings.LastIndex(id, "-")
	if i < 1 || i == len(id)-1 {
		return "", 0, false
	}
	digits := id[i+1:]
	if strings.Trim(digits, "0123456789") != "" {
		return "", 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, false
	}
	return id[:i], n, true
}

func instanceOption(idBase string) string {
	return "widget_" + idBase
}

// Layout is the decoded sidebars_widgets option. Entries that are not widget
// lists, such as array_version, are carried through untouched.
type Layout struct {
	Sidebars map[string][]string
	extra    map[string]any
}

func decodeLayout(raw map[string]any) Layout {
	l := Layout{Sidebars: map[string][]string{}, extra: map[string]any{}}
	for k, v := range raw {
		list, ok := v.([]any)
		if !ok {
			l.extra[k] = v
			continue
		}
		ids := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				ids = append(ids, s)
			}
		}
		l.Sidebars[k] = ids
	}
	return l
}

func (l Layout) encode() map[string]any {
	out := make(map[string]any, len(l.Sidebars)+len(l.extra))
	for k, v := range l.extra {
		out[k] = v
	}
	for k, ids := range l.Sidebars {
		out[k] = ids
	}
	return out
}

// Find returns the sidebar holding widget.
func (l Layout) Find(widget string) (string, bool) {
	keys := make([]string, 0, len(l.Sidebars))
	for k := range l.Sidebars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if slices.Contains(l.Sidebars[k], widget) {
			return k, true
		}
	}
	return "", false
}

// Remove takes widget out of every sidebar and reports whether it was placed.
func (l Layout) Remove(widget string) bool {
	found := false
	for k, ids := range l.Sidebars {
		kept := slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == widget })
		if len(kept) != len(ids) {
			found = true
			l.Sidebars[k] = kept
		}
	}
	return found
}

// Insert places widget in sidebar at position. Nil, negative and out of
// range positions append.
func (l Layout) Insert(sidebar, widget string, position *int) {
	ids := l.Sidebars[sidebar]
	if ids == nil {
		ids = []string{}
	}
	if position == nil || *position < 0 || *position >= len(ids) {
		l.Sidebars[sidebar] = append(ids, widget)
		return
	}
	l.Sidebars[sidebar] = slices.Insert(slices.Clone(ids), *position, widget)
}

// Reorder puts order first in sidebar and keeps unlisted widgets after it in
// their current order. The first widget of order missing from the sidebar is
// returned with false.
func (l Layout) Reorder(sidebar string, order []string) (string, bool) {
	current := l.Sidebars[sidebar]
	seen := make(map[string]bool, len(order))
	next := make([]string, 0, len(current))
	for _, id := range order {
		if !slices.Contains(current, id) {
			return id, false
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		next = append(next, id)
	}
	for _, id := range current {
		if !seen[id] {
			next = append(next, id)
		}
	}
	l.Sidebars[sidebar] = next
	return "", true
}

// nextNumber returns one past the highest numeric instance key.
func nextNumber(instances map[string]any) int {
	max := 0
	for k := range instances {
		if n, err := strconv.Atoi(k); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}
