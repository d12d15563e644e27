package users

import (
	"crypto/rand"
	"math/big"
	"net/mail"
	"regexp"
	"strings"

	"github.com/JaimeStill/mcp-endpoints/pkg/query"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
)

const (
	capabilitiesKey = "wp_capabilities"
	userLevelKey    = "wp_user_level"
)

var projection = query.NewProjectionMap("public", "wp_users", "u").
	Project("id", "id").
	Project("user_login", "login").
	Project("user_email", "email").
	Project("display_name", "display_name").
	Project("user_url", "url").
	Project("user_registered", "registered")

// orderColumns maps accepted orderby values onto projected views.
var orderColumns = map[string]string{
	"registered":   "registered",
	"id":           "id",
	"login":        "login",
	"username":     "login",
	"email":        "email",
	"display_name": "display_name",
	"name":         "display_name",
}

// ValidOrderBy reports whether orderby names a sortable user field.
func ValidOrderBy(orderBy string) bool {
	_, ok := orderColumns[orderBy]
	return ok
}

type row struct {
	User
	url string
}

func scanUser(s repository.Scanner) (row, error) {
	var r row
	err := s.Scan(&r.ID, &r.Username, &r.Email, &r.DisplayName, &r.url, &r.Registered)
	return r, err
}

var (
	keyPattern      = regexp.MustCompile(`[^a-z0-9_\-]`)
	usernamePattern = regexp.MustCompile(`[^A-Za-z0-9 _.\-@]`)
)

// SanitizeKey lowercases key and drops everything but letters, digits, dashes and underscores.
func SanitizeKey(key string) string {
	return keyPattern.ReplaceAllString(strings.ToLower(key), "")
}

// SanitizeUsername strips characters not allowed in logins and collapses whitespace.
func SanitizeUsername(name string) string {
	name = usernamePattern.ReplaceAllString(strings.TrimSpace(name), "")
	return strings.Join(strings.Fields(name), " ")
}

// ValidEmail reports whether s is a bare address.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()"

// GeneratePassword returns a random password of n characters.
func GeneratePassword(n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(passwordChars)))
	for range n {
		i, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordChars[i.Int64()])
	}
	return b.String(), nil
}

// levels mirrors the legacy user level stored next to the role.
var levels = map[string]int{
	"administrator": 10,
	"editor":        7,
	"author":        2,
	"contributor":   1,
}
