package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/agriseed/internal/models"
	"github.com/Rana718/agriseed/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts and dangling references",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		counts, err := store.Counts(ctx, db, models.InsertOrder...)
		if err != nil {
			return err
		}
		color.Cyan("📊 Rows")
		for _, table := range models.InsertOrder {
			color.White("  %-12s %d", table, counts[table])
		}

		orphans, err := store.Orphans(ctx, db)
		if err != nil {
			return err
		}
		broken := 0
		for ref, n := range orphans {
			if n > 0 {
				broken++
				color.Red("  ❌ %s: %d dangling reference(s)", ref, n)
			}
		}
		if broken == 0 {
			color.Green("✅ No referential violations")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
