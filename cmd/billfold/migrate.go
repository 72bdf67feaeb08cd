package main

import (
	"fmt"

	"github.com/billfold/billfold/internal/cli"
	"github.com/billfold/billfold/internal/config"
	"github.com/billfold/billfold/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply any pending schema migrations to the database and report the
resulting schema version. Commands run migrations automatically on startup,
so this is mainly useful after upgrading billfold.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			dbPath := viper.GetString("database.path")
			if dbPath == "" {
				dbPath = "$HOME/.local/share/billfold/billfold.db"
			}
			dbPath = config.ExpandPath(dbPath)

			store, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			before, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			after, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			if after == before {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf(
					"Database up to date at schema version %d", after)))
				return nil
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"✓ Migrated database from schema version %d to %d", before, after)))
			return nil
		},
	}
}
