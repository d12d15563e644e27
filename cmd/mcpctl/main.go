// Command mcpctl administers an mcp-endpoints deployment: database
// migrations, user accounts and API tokens.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/mcp-endpoints/internal/config"
	"github.com/JaimeStill/mcp-endpoints/internal/migrations"
	"github.com/JaimeStill/mcp-endpoints/pkg/database"
	"github.com/JaimeStill/mcp-endpoints/pkg/logging"
)

// Set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "mcpctl",
	Short:         "Administer the mcp-endpoints service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openDatabase loads configuration and opens the database without starting
// the service lifecycle.
func openDatabase() (*config.Config, database.System, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.New(&cfg.Database, migrations.FS, logging.New(&cfg.Logging))
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	return cfg, db, nil
}
