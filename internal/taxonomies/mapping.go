package taxonomies

import (
	"math"
	"strconv"
	"strings"

	"github.com/JaimeStill/mcp-endpoints/internal/registry"
)

// TermRef is one entry of an assignment request resolved to either an ID or a name.
type TermRef struct {
	ID   int64
	Name string
}

// ParseTermRefs normalizes assignment terms. Integral numbers and numeric strings
// are IDs; other strings are slugs or names. Empty entries are dropped.
func ParseTermRefs(terms []any) ([]TermRef, bool) {
	refs := make([]TermRef, 0, len(terms))
	for _, t := range terms {
		switch v := t.(type) {
		case float64:
			if v <= 0 || v != math.Trunc(v) {
				return nil, false
			}
			refs = append(refs, TermRef{ID: int64(v)})
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
				refs = append(refs, TermRef{ID: id})
				continue
			}
			refs = append(refs, TermRef{Name: v})
		default:
			return nil, false
		}
	}
	return refs, true
}

func summarize(tx registry.Taxonomy, count int64) Summary {
	return Summary{
		Name:         tx.Name,
		Label:        tx.Label,
		Singular:     tx.Singular,
		Description:  tx.Description,
		Public:       tx.Public,
		Hierarchical: tx.Hierarchical,
		RestBase:     tx.RestBase,
		ObjectTypes:  tx.ObjectTypes,
		TermCount:    count,
	}
}
