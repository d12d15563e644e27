package health

import (
	"context"
	"database/sql"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

type pgDatabase struct {
	db *sql.DB
}

// NewDatabase reads server facts from db.
func NewDatabase(db *sql.DB) Database {
	return &pgDatabase{db: db}
}

func (d *pgDatabase) Info(ctx context.Context) (*DatabaseInfo, error) {
	var info DatabaseInfo
	err := d.db.QueryRowContext(ctx, `
		SELECT current_setting('server_version'), current_database(),
			pg_encoding_to_char(encoding), datcollate
		FROM pg_database
		WHERE datname = current_database()`,
	).Scan(&info.ServerVersion, &info.Name, &info.Charset, &info.Collate)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}
	return &info, nil
}
