package dbadmin

import (
	"math"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
)

const megabyte = 1024 * 1024

// SelectTables resolves the requested tables against the available ones.
// An empty request selects every available table carrying prefix.
func SelectTables(requested, available []string, prefix string) ([]string, error) {
	if len(requested) == 0 {
		out := make([]string, 0, len(available))
		for _, t := range available {
			if strings.HasPrefix(t, prefix) {
				out = append(out, t)
			}
		}
		return out, nil
	}

	out := make([]string, 0, len(requested))
	for _, t := range requested {
		if !slices.Contains(available, t) {
			return nil, ErrInvalidTable.Withf("Invalid table name: %s", t)
		}
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ident quotes a table or column name for interpolation into SQL.
func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func toMB(bytes int64) float64 {
	return round2(float64(bytes) / megabyte)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
