package menus

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	taxonomy = "nav_menu"
	itemType = "nav_menu_item"

	metaType    = "_menu_item_type"
	metaParent  = "_menu_item_menu_item_parent"
	metaObjID   = "_menu_item_object_id"
	metaObject  = "_menu_item_object"
	metaTarget  = "_menu_item_target"
	metaClasses = "_menu_item_classes"
	metaXFN     = "_menu_item_xfn"
	metaURL     = "_menu_item_url"
)

// ValidObjectType reports whether t is a supported item link type.
func ValidObjectType(t string) bool {
	return t == "custom" || t == "post_type" || t == "taxonomy"
}

// ResolvePosition returns the menu order for a new or moved item. Absent or
// non-positive requests append after last. Otherwise the requested position is
// used and shift reports that items at or after it must move down.
func ResolvePosition(last int, requested *int) (pos int, shift bool) {
	if requested == nil || *requested < 1 {
		return last + 1, false
	}
	return *requested, true
}

// LocationsOf returns the sorted locations assigned to menuID.
func LocationsOf(assigned map[string]int64, menuID int64) []string {
	out := []string{}
	for loc, id := range assigned {
		if id == menuID && id != 0 {
			out = append(out, loc)
		}
	}
	sort.Strings(out)
	return out
}

// LinkURL builds the URL of an item that points at site content.
func LinkURL(siteURL, kind, object string, objectID int64, slug string) string {
	switch kind {
	case "post_type":
		if object == "page" {
			return fmt.Sprintf("%s/?page_id=%d", siteURL, objectID)
		}
		return fmt.Sprintf("%s/?p=%d", siteURL, objectID)
	case "taxonomy":
		switch object {
		case "category":
			return fmt.Sprintf("%s/?cat=%d", siteURL, objectID)
		case "post_tag":
			return siteURL + "/?tag=" + url.QueryEscape(slug)
		}
		return siteURL + "/?" + url.QueryEscape(object) + "=" + url.QueryEscape(slug)
	}
	return ""
}

// itemFromMeta fills the link fields of it from its _menu_item_* meta.
func itemFromMeta(it *Item, meta map[string]string) {
	it.Type = meta[metaType]
	it.Object = meta[metaObject]
	it.ObjectID, _ = strconv.ParseInt(meta[metaObjID], 10, 64)
	it.Parent, _ = strconv.ParseInt(meta[metaParent], 10, 64)
	it.Target = meta[metaTarget]
	it.URL = meta[metaURL]
	it.Classes = splitClasses(meta[metaClasses])
}

func splitClasses(raw string) []string {
	var classes []string
	if err := json.Unmarshal([]byte(raw), &classes); err != nil {
		classes = strings.Fields(raw)
	}
	out := []string{}
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
