package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rana718/agriseed/internal/config"
	"github.com/Rana718/agriseed/internal/export"
	"github.com/Rana718/agriseed/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the seeded tables",
	Long: `
Export users, packages, industries, credits and productions to export_path.
Supported formats: json (default), yaml, csv

Examples:
  agriseed export
  agriseed export --format yaml
  agriseed export --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := cfg.EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")

		ctx := context.Background()

		db, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		snap, err := export.Collect(ctx, db)
		if err != nil {
			return err
		}

		path, err := export.Write(snap, cfg.ExportPath, format)
		if err != nil {
			return err
		}

		fmt.Printf("✅ Export completed: %s\n", path)
		return nil
	},
}

// backupBeforeClear snapshots the current rows to export_path as JSON.
func backupBeforeClear(ctx context.Context, db *store.DB, cfg *config.Config) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	snap, err := export.Collect(ctx, db)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	path, err := export.Write(snap, cfg.ExportPath, export.FormatJSON)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Printf("💾 Backup written: %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("format", export.FormatJSON, "Export format: json, yaml or csv")
}
