package wporg

import (
	"strconv"
	"strings"
)

// CompareVersions compares dotted version strings the way PHP's version_compare
// orders plain release numbers. Non-numeric suffixes such as "-beta1" sort before the release.
func CompareVersions(a, b string) int {
	pa, sa := splitVersion(a)
	pb, sb := splitVersion(b)

	for i := 0; i < max(len(pa), len(pb)); i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}

	switch {
	case sa == sb:
		return 0
	case sa == "":
		return 1
	case sb == "":
		return -1
	case sa < sb:
		return -1
	}
	return 1
}

func splitVersion(v string) ([]int, string) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	suffix := ""
	if i := strings.IndexAny(v, "-+ "); i >= 0 {
		suffix = strings.ToLower(v[i+1:])
		v = v[:i]
	}

	parts := strings.Split(v, ".")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			digits := strings.TrimRightFunc(p, func(r rune) bool { return r < '0' || r > '9' })
			n, _ = strconv.Atoi(digits)
			if suffix == "" {
				suffix = strings.ToLower(strings.TrimPrefix(p, digits))
			}
		}
		nums = append(nums, n)
	}
	return nums, suffix
}
