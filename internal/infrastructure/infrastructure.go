// Package infrastructure builds the shared systems every domain package draws
// on: logging, the site database, content storage, the registry, the
// WordPress.org directory client and the metrics registry.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/docker/go-units"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/mcp-endpoints/internal/config"
	"github.com/JaimeStill/mcp-endpoints/internal/migrations"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/internal/upgrader"
	"github.com/JaimeStill/mcp-endpoints/internal/wporg"
	"github.com/JaimeStill/mcp-endpoints/pkg/database"
	"github.com/JaimeStill/mcp-endpoints/pkg/lifecycle"
	"github.com/JaimeStill/mcp-endpoints/pkg/logging"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

// PackageLimit bounds downloaded and unpacked plugin, theme and core archives.
const PackageLimit = 256 * units.MiB

type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Registry  *registry.Registry
	Directory wporg.Directory
	Upgrader  *upgrader.Upgrader
	Metrics   *prometheus.Registry
}

// New builds every shared system without starting any of them.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := logging.New(&cfg.Logging)

	db, err := database.New(&cfg.Database, migrations.FS, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	dir := wporg.New(wporg.Config{
		BaseURL:   cfg.Directory.BaseURL,
		Timeout:   cfg.Directory.TimeoutDuration(),
		UserAgent: cfg.Directory.UserAgent,
	}, logger)

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Registry:  registry.New(&cfg.Registry),
		Directory: dir,
		Upgrader:  upgrader.New(dir, store, logger, PackageLimit),
		Metrics:   metrics,
	}, nil
}

// Scoped returns a shallow copy whose logger carries the given module name.
func (i *Infrastructure) Scoped(module string) *Infrastructure {
	scoped := *i
	scoped.Logger = i.Logger.With("module", module)
	return &scoped
}

// Start hooks the database and storage into the lifecycle.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
