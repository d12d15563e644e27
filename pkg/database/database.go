// Package database manages the PostgreSQL connection pool and schema migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/JaimeStill/mcp-endpoints/pkg/lifecycle"
	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotReady is returned when the connection is used before startup completes.
var ErrNotReady = errors.New("database not ready")

// System owns the *sql.DB handle and its lifecycle.
type System interface {
	Connection() *sql.DB
	Start(lc *lifecycle.Coordinator) error
	Migrate(ctx context.Context) error
}

type database struct {
	conn       *sql.DB
	cfg        *Config
	migrations fs.FS
	logger     *slog.Logger
}

// New opens a pgx-backed pool. No connection is made until Start or first use.
// migrations is the iofs source root; nil disables Migrate.
func New(cfg *Config, migrations fs.FS, logger *slog.Logger) (System, error) {
	conn, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:       conn,
		cfg:        cfg,
		migrations: migrations,
		logger:     logger.With("system", "database"),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection", "host", d.cfg.Host, "name", d.cfg.Name)

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), d.cfg.ConnTimeoutDuration())
		defer cancel()

		if err := d.conn.PingContext(ctx); err != nil {
			d.logger.Error("database ping failed", "error", err)
			return
		}
		d.logger.Info("database connection established")

		if d.cfg.AutoMigrate {
			if err := d.Migrate(lc.Context()); err != nil {
				d.logger.Error("database migration failed", "error", err)
			}
		}
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing database connection")
		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed")
	})

	return nil
}

func (d *database) Migrate(ctx context.Context) error {
	version, dirty, err := Migrate(d.conn, d.migrations)
	if err != nil {
		return err
	}
	d.logger.Info("database migrated", "version", version, "dirty", dirty)
	return nil
}

// Migrate applies every pending up migration in migrations to conn and
// returns the resulting schema version.
func Migrate(conn *sql.DB, migrations fs.FS) (uint, bool, error) {
	m, err := newMigrator(conn, migrations)
	if err != nil {
		return 0, false, err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, false, fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, _ := m.Version()
	return version, dirty, nil
}

// Rollback reverts the given number of migration steps.
func Rollback(sys System, steps int) error {
	d, ok := sys.(*database)
	if !ok {
		return fmt.Errorf("rollback unsupported for %T", sys)
	}

	m, err := newMigrator(d.conn, d.migrations)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

func newMigrator(conn *sql.DB, migrations fs.FS) (*migrate.Migrate, error) {
	if migrations == nil {
		return nil, fmt.Errorf("no migration source configured")
	}

	source, err := iofs.New(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	driver, err := migratepgx.WithInstance(conn, &migratepgx.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", source, "pgx5", driver)
}
