package options

import (
	"encoding/json"
	"errors"
	"strings"
)

// SanitizeKey lowercases key and strips every character outside [a-z0-9_-].
func SanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPathKey reports whether key matches [a-zA-Z0-9_-]+.
func ValidPathKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// DecodeValue parses stored option text. Text that is not valid JSON is returned as a string.
func DecodeValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// EncodeValue serializes v for storage. json.RawMessage values are stored verbatim.
func EncodeValue(v any) (string, error) {
	if raw, ok := v.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return "", errors.New("invalid JSON value")
		}
		return string(raw), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func autoloadFlag(autoload bool) string {
	if autoload {
		return "yes"
	}
	return "no"
}
