package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/config"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/logger"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/sqlstore"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/server"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr, driver, dsn string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the book library REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := resolveWorkspaceRoot(opts.workspace)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts, root)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if driver != "" {
				cfg.Database.Driver = driver
			}
			if dsn != "" {
				cfg.Database.DSN = dsn
			}
			cfg.Database.DSN = sqliteDSN(root, cfg.Database)

			level := cfg.Logging.Level
			if opts.debug {
				level = "debug"
			}
			log := logger.NewService(cmd.OutOrStdout(), "biblioteca", level)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := sqlstore.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			migrateCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := sqlstore.Migrate(migrateCtx, db); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			log.Info("database.ready", "driver", cfg.Database.Driver)

			srv := server.New(sqlstore.NewBookRepository(db), server.WithLogger(log))
			return srv.ListenAndServe(ctx, cfg.Server)
		},
	}

	c.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	c.Flags().StringVar(&driver, "driver", "", "database driver: sqlite|mysql (overrides database.driver)")
	c.Flags().StringVar(&dsn, "dsn", "", "database DSN (overrides database.dsn)")
	return c
}

// sqliteDSN anchors relative SQLite files at the workspace root.
func sqliteDSN(root string, db config.DatabaseConfig) string {
	if db.Driver != sqlstore.DriverSQLite && db.Driver != "" {
		return db.DSN
	}
	dsn := db.DSN
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") || filepath.IsAbs(dsn) {
		return dsn
	}
	return filepath.Join(root, dsn)
}
