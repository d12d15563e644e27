package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/JaimeStill/mcp-endpoints/internal/auth"
	"github.com/JaimeStill/mcp-endpoints/internal/content"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/query"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
)

type repo struct {
	db       *sql.DB
	reg      *registry.Registry
	notifier Notifier
	logger   *slog.Logger
}

func New(db *sql.DB, reg *registry.Registry, notifier Notifier, logger *slog.Logger) System {
	if notifier == nil {
		notifier = Discard
	}
	return &repo{
		db:       db,
		reg:      reg,
		notifier: notifier,
		logger:   logger.With("system", "users"),
	}
}

func (r *repo) List(ctx context.Context, q Query) (*Page, error) {
	b := query.NewBuilder(projection, "registered").
		WhereSearch(&q.Search, "login", "email", "display_name", "url").
		OrderBy(orderColumns[q.OrderBy], q.Desc)
	if q.Role != "" {
		b.WhereRaw(
			"EXISTS (SELECT 1 FROM wp_usermeta m WHERE m.user_id = u.id AND m.meta_key = '"+capabilitiesKey+"' AND m.meta_value ~ $%d)",
			fmt.Sprintf(`"%s"\s*:\s*true`, SanitizeKey(q.Role)),
		)
	}

	countSQL, countArgs := b.BuildCount()
	var total int64
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	pageSQL, args := b.BuildPage(q.Page, q.PerPage)
	rows, err := repository.QueryMany(ctx, r.db, pageSQL, args, scanUser)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	users := make([]User, len(rows))
	ids := make([]int64, len(rows))
	for i, row := range rows {
		users[i] = row.User
		ids[i] = row.ID
	}
	if err := r.fillProfiles(ctx, ids, users); err != nil {
		return nil, err
	}

	return &Page{Users: users, Total: total, Page: q.Page}, nil
}

// fillProfiles loads names and roles for a page of users in one query.
func (r *repo) fillProfiles(ctx context.Context, ids []int64, users []User) error {
	for i := range users {
		users[i].Roles = []string{}
	}
	if len(ids) == 0 {
		return nil
	}

	type meta struct {
		user     int64
		key, val string
	}
	metas, err := repository.QueryMany(ctx, r.db, `
		SELECT user_id, meta_key, meta_value FROM wp_usermeta
		WHERE user_id = ANY($1) AND meta_key IN ('first_name', 'last_name', '`+capabilitiesKey+`')
		ORDER BY umeta_id`,
		[]any{ids},
		func(s repository.Scanner) (meta, error) {
			var m meta
			err := s.Scan(&m.user, &m.key, &m.val)
			return m, err
		},
	)
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	for _, m := range metas {
		u := &users[index[m.user]]
		switch m.key {
		case "first_name":
			u.FirstName = m.val
		case "last_name":
			u.LastName = m.val
		case capabilitiesKey:
			u.Roles = auth.RolesFromMeta(m.val)
		}
	}
	return nil
}

func (r *repo) find(ctx context.Context, q repository.Querier, id int64) (row, error) {
	sqlStr, args := query.NewBuilder(projection, "id").BuildSingle("id", id)
	u, err := repository.QueryOne(ctx, q, sqlStr, args, scanUser)
	if err != nil {
		return u, handlers.Host(handlers.ErrDatabase, repository.MapError(err, ErrNotFound, err))
	}
	return u, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Detail, error) {
	u, err := r.find(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	meta, err := content.UserMeta.All(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	d := &Detail{
		User:        u.User,
		URL:         u.url,
		Nickname:    meta["nickname"],
		Description: meta["description"],
	}
	d.FirstName = meta["first_name"]
	d.LastName = meta["last_name"]
	d.Roles = auth.RolesFromMeta(meta[capabilitiesKey])

	caps := r.reg.Capabilities(d.Roles...)
	d.Capabilities = slices.Sorted(maps.Keys(caps))

	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM wp_posts WHERE post_author = $1 AND post_type = 'post' AND post_status = 'publish'", id,
	).Scan(&d.PostsCount); err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}
	return d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*User, error) {
	username := SanitizeUsername(cmd.Username)
	if username == "" {
		return nil, handlers.Invalid("username", "contains no valid characters")
	}
	if !ValidEmail(cmd.Email) {
		return nil, handlers.Invalid("email", "must be a valid email address")
	}

	role := SanitizeKey(cmd.Role)
	if _, ok := r.reg.Role(role); !ok {
		return nil, ErrInvalidRole
	}

	password := cmd.Password
	if password == "" {
		generated, err := GeneratePassword(24)
		if err != nil {
			return nil, fmt.Errorf("generate password: %w", err)
		}
		password = generated
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*User, error) {
		if err := r.ensureUnique(ctx, tx, 0, username, cmd.Email); err != nil {
			return nil, err
		}

		u := &User{Username: username, Email: cmd.Email, DisplayName: username, Roles: []string{role}}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO wp_users (user_login, user_pass, user_nicename, user_email, display_name)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, user_registered`,
			username, string(hash), content.Slugify(username), cmd.Email, username,
		).Scan(&u.ID, &u.Registered)
		if err != nil {
			return nil, repository.MapError(err, ErrNotFound, ErrUsernameExists)
		}

		fields := map[string]string{"nickname": username, "description": ""}
		if cmd.FirstName != nil {
			u.FirstName = strings.TrimSpace(*cmd.FirstName)
			fields["first_name"] = u.FirstName
		}
		if cmd.LastName != nil {
			u.LastName = strings.TrimSpace(*cmd.LastName)
			fields["last_name"] = u.LastName
		}
		for _, k := range slices.Sorted(maps.Keys(fields)) {
			if err := content.UserMeta.Set(ctx, tx, u.ID, k, fields[k]); err != nil {
				return nil, err
			}
		}
		return u, writeRole(ctx, tx, u.ID, role)
	})
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("user created", "id", u.ID, "username", u.Username, "role", role)

	if cmd.Notify {
		if err := r.notifier.NewUser(ctx, *u); err != nil {
			r.logger.Warn("new user notification failed", "id", u.ID, "error", err)
		}
	}
	return u, nil
}

func (r *repo) ensureUnique(ctx context.Context, q repository.Querier, self int64, username, email string) error {
	var id int64
	if username != "" {
		err := q.QueryRowContext(ctx, "SELECT id FROM wp_users WHERE user_login = $1", username).Scan(&id)
		if err == nil && id != self {
			return ErrUsernameExists
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}
	if email != "" {
		err := q.QueryRowContext(ctx, "SELECT id FROM wp_users WHERE lower(user_email) = lower($1)", email).Scan(&id)
		if err == nil && id != self {
			if self != 0 {
				return ErrEmailExists.Withf("Email already in use")
			}
			return ErrEmailExists
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}
	return nil
}

func writeRole(ctx context.Context, q repository.Querier, id int64, role string) error {
	if err := content.UserMeta.SetJSON(ctx, q, id, capabilitiesKey, map[string]bool{role: true}); err != nil {
		return err
	}
	return content.UserMeta.SetJSON(ctx, q, id, userLevelKey, levels[role])
}

func (r *repo) Update(ctx context.Context, id int64, cmd UpdateCommand) error {
	if cmd.Email != nil && !ValidEmail(*cmd.Email) {
		return handlers.Invalid("email", "must be a valid email address")
	}

	var hash []byte
	if cmd.Password != nil {
		if *cmd.Password == "" {
			return handlers.Invalid("password", "must not be empty")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(*cmd.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := r.find(ctx, tx, id); err != nil {
			return struct{}{}, err
		}

		sets := []string{}
		args := []any{}
		column := func(col string, v any) {
			args = append(args, v)
			sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
		}

		if cmd.Email != nil {
			if err := r.ensureUnique(ctx, tx, id, "", *cmd.Email); err != nil {
				return struct{}{}, err
			}
			column("user_email", *cmd.Email)
		}
		if hash != nil {
			column("user_pass", string(hash))
		}
		if cmd.DisplayName != nil {
			column("display_name", strings.TrimSpace(*cmd.DisplayName))
		}
		if cmd.URL != nil {
			column("user_url", strings.TrimSpace(*cmd.URL))
		}
		if len(sets) > 0 {
			args = append(args, id)
			stmt := fmt.Sprintf("UPDATE wp_users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
			if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
				return struct{}{}, repository.MapError(err, ErrNotFound, ErrEmailExists)
			}
		}

		for key, v := range map[string]*string{
			"first_name":  cmd.FirstName,
			"last_name":   cmd.LastName,
			"description": cmd.Description,
		} {
			if v == nil {
				continue
			}
			if err := content.UserMeta.Set(ctx, tx, id, key, strings.TrimSpace(*v)); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("user updated", "id", id)
	return nil
}

func (r *repo) Delete(ctx context.Context, id, reassign int64) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := r.find(ctx, tx, id); err != nil {
			return struct{}{}, err
		}

		if reassign != 0 {
			if reassign == id {
				return struct{}{}, ErrInvalidReassign
			}
			if _, err := r.find(ctx, tx, reassign); err != nil {
				if errors.Is(err, ErrNotFound) {
					return struct{}{}, ErrInvalidReassign
				}
				return struct{}{}, err
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE wp_posts SET post_author = $1 WHERE post_author = $2", reassign, id,
			); err != nil {
				return struct{}{}, err
			}
		} else {
			posts, err := repository.QueryMany(ctx, tx,
				"SELECT id FROM wp_posts WHERE post_author = $1", []any{id},
				func(s repository.Scanner) (int64, error) {
					var pid int64
					err := s.Scan(&pid)
					return pid, err
				},
			)
			if err != nil {
				return struct{}{}, err
			}
			for _, pid := range posts {
				if err := content.DeletePost(ctx, tx, pid); err != nil {
					return struct{}{}, err
				}
			}
		}

		_, err := tx.ExecContext(ctx, "DELETE FROM wp_users WHERE id = $1", id)
		return struct{}{}, err
	})
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("user deleted", "id", id, "reassign", reassign)
	return nil
}

func (r *repo) Roles(ctx context.Context) ([]RoleSummary, error) {
	counts := map[string]int64{}
	raws, err := repository.QueryMany(ctx, r.db,
		"SELECT meta_value FROM wp_usermeta WHERE meta_key = $1", []any{capabilitiesKey},
		func(s repository.Scanner) (string, error) {
			var v string
			err := s.Scan(&v)
			return v, err
		},
	)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}
	for _, raw := range raws {
		for _, role := range auth.RolesFromMeta(raw) {
			counts[role]++
		}
	}

	roles := r.reg.Roles()
	out := make([]RoleSummary, 0, len(roles))
	for _, role := range roles {
		caps := make([]string, 0, len(role.Capabilities))
		for c, granted := range role.Capabilities {
			if granted {
				caps = append(caps, c)
			}
		}
		sort.Strings(caps)
		out = append(out, RoleSummary{
			Slug:         role.Name,
			Name:         role.DisplayName,
			Capabilities: caps,
			Count:        counts[role.Name],
		})
	}
	return out, nil
}

func (r *repo) SetRole(ctx context.Context, id int64, role string) error {
	role = SanitizeKey(role)

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := r.find(ctx, tx, id); err != nil {
			return struct{}{}, err
		}
		if _, ok := r.reg.Role(role); !ok {
			return struct{}{}, ErrInvalidRole
		}
		return struct{}{}, writeRole(ctx, tx, id, role)
	})
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("user role changed", "id", id, "role", role)
	return nil
}

func (r *repo) Meta(ctx context.Context, id int64) (map[string]any, error) {
	if _, err := r.find(ctx, r.db, id); err != nil {
		return nil, err
	}

	type pair struct{ k, v string }
	rows, err := repository.QueryMany(ctx, r.db,
		"SELECT meta_key, meta_value FROM wp_usermeta WHERE user_id = $1 ORDER BY umeta_id",
		[]any{id},
		func(s repository.Scanner) (pair, error) {
			var p pair
			err := s.Scan(&p.k, &p.v)
			return p, err
		},
	)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	grouped := map[string][]string{}
	for _, p := range rows {
		grouped[p.k] = append(grouped[p.k], p.v)
	}
	return FlattenMeta(grouped), nil
}

// FlattenMeta drops private keys and unwraps keys holding a single value.
func FlattenMeta(grouped map[string][]string) map[string]any {
	out := make(map[string]any, len(grouped))
	for k, vals := range grouped {
		if content.IsProtectedMeta(k) {
			continue
		}
		if len(vals) == 1 {
			out[k] = content.DecodeMeta(vals[0])
			continue
		}
		list := make([]any, len(vals))
		for i, v := range vals {
			list[i] = content.DecodeMeta(v)
		}
		out[k] = list
	}
	return out
}

func (r *repo) SetMeta(ctx context.Context, id int64, meta map[string]any) ([]string, error) {
	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]string, error) {
		if _, err := r.find(ctx, tx, id); err != nil {
			return nil, err
		}

		updated := make([]string, 0, len(meta))
		for _, raw := range slices.Sorted(maps.Keys(meta)) {
			key := SanitizeKey(raw)
			if key == "" {
				continue
			}
			value, err := content.EncodeMeta(meta[raw])
			if err != nil {
				return nil, handlers.Invalid("meta", err.Error())
			}
			if err := content.UserMeta.Set(ctx, tx, id, key, value); err != nil {
				return nil, err
			}
			updated = append(updated, key)
		}
		return updated, nil
	})
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("user meta updated", "id", id, "keys", len(updated))
	return updated, nil
}
