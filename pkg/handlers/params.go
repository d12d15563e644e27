package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// QueryInt returns the integer value of key, or def when absent or malformed.
func QueryInt(values url.Values, key string, def int) int {
	if v := values.Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// QueryBool returns the boolean value of key, or def when absent or malformed.
// "1", "true", "yes" and "on" are truthy.
func QueryBool(values url.Values, key string, def bool) bool {
	v := strings.ToLower(values.Get(key))
	switch v {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// QueryString returns the value of key, or def when absent.
func QueryString(values url.Values, key, def string) string {
	if values.Has(key) {
		return values.Get(key)
	}
	return def
}

// PathInt parses the named path value as a positive integer.
func PathInt(r *http.Request, name string) (int64, error) {
	n, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || n < 1 {
		return 0, Invalid(name, "must be a positive integer")
	}
	return n, nil
}
