package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/agriseed/internal/migrator"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage schema migrations",
	Long: `
Apply, revert or list the schema migrations bundled with agriseed.

  0001_create_tables          users, packages, industries, credits, productions
  0002_change_default_values  narrows users.username from 64 to 50 characters`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(ctx context.Context, m *migrator.Migrator) error {
			applied, err := m.Up(ctx)
			for _, mig := range applied {
				color.Green("✅ Applied %04d_%s", mig.Version, mig.Name)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				color.Cyan("✨ Database schema is up to date")
			}
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(ctx context.Context, m *migrator.Migrator) error {
			mig, err := m.Down(ctx)
			if errors.Is(err, migrator.ErrNothingToRevert) {
				color.Yellow("⚠️  No applied migrations to revert")
				return nil
			}
			if err != nil {
				return err
			}
			color.Green("✅ Reverted %04d_%s", mig.Version, mig.Name)
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(ctx context.Context, m *migrator.Migrator) error {
			items, err := m.Status(ctx)
			if err != nil {
				return err
			}
			pending := 0
			for _, item := range items {
				if item.Applied {
					color.Green("  ✅ %04d_%-28s applied %s", item.Version, item.Name, item.AppliedAt.Format("2006-01-02 15:04:05"))
				} else {
					pending++
					color.Yellow("  ⏳ %04d_%-28s pending", item.Version, item.Name)
				}
			}
			fmt.Printf("\n%d migration(s), %d pending\n", len(items), pending)
			return nil
		})
	},
}

func withMigrator(run func(ctx context.Context, m *migrator.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := migrator.New(db)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	return run(ctx, m)
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}
