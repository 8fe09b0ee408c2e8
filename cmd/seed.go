package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/agriseed/internal/seeder"
	"github.com/Rana718/agriseed/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Wipe and repopulate the demo dataset",
	Long: `
Delete every user, package, industry, credit and production, then create:

  users        (default 3)
  packages     (always the 5 tiers: Platinum, Gold, Silver, Bronze, Mwananchi)
  industries   (default 5)
  credits      (default 20, only when users and packages exist)
  productions  (default 20, only when users and industries exist)

Each step runs in its own transaction. A failed step is rolled back and the
remaining independent steps still run, unless --fail-fast is given. The
command exits non-zero when any step failed.

Examples:
  agriseed seed
  agriseed seed --users 10 --credits 100 --seed 42
  agriseed seed --fail-fast
  agriseed seed --backup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		opts := cfg.SeedOptions()
		flags := cmd.Flags()
		if flags.Changed("users") {
			opts.Users, _ = flags.GetInt("users")
		}
		if flags.Changed("industries") {
			opts.Industries, _ = flags.GetInt("industries")
		}
		if flags.Changed("credits") {
			opts.Credits, _ = flags.GetInt("credits")
		}
		if flags.Changed("productions") {
			opts.Productions, _ = flags.GetInt("productions")
		}
		if flags.Changed("seed") {
			opts.Seed, _ = flags.GetInt64("seed")
		}
		if flags.Changed("fail-fast") {
			opts.FailFast, _ = flags.GetBool("fail-fast")
		}
		if opts.Users < 0 || opts.Industries < 0 || opts.Credits < 0 || opts.Productions < 0 {
			return fmt.Errorf("record counts cannot be negative")
		}

		ctx := context.Background()

		db, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if backup, _ := flags.GetBool("backup"); backup {
			if err := backupBeforeClear(ctx, db, cfg); err != nil {
				return err
			}
		}

		report := seeder.New(store.NewSession(db), opts).Run(ctx)
		printReport(report)

		if err := report.Err(); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		return nil
	},
}

func printReport(report *seeder.Report) {
	fmt.Println()
	color.Cyan("📋 Summary")
	for _, step := range report.Steps {
		switch {
		case step.Err != nil:
			color.Red("  ❌ %-12s failed", step.Step)
		case step.Skipped:
			color.Yellow("  ⏭️  %-12s skipped (%s)", step.Step, step.Reason)
		case step.Step == seeder.StepClear:
			color.Green("  ✅ %-12s done", step.Step)
		default:
			color.Green("  ✅ %-12s %d", step.Step, step.Count)
		}
	}
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Int("users", 3, "Number of users to create")
	seedCmd.Flags().Int("industries", 5, "Number of industries to create")
	seedCmd.Flags().Int("credits", 20, "Number of credits to create")
	seedCmd.Flags().Int("productions", 20, "Number of productions to create")
	seedCmd.Flags().Int64("seed", 0, "Random seed for a reproducible dataset (0 = time based)")
	seedCmd.Flags().Bool("fail-fast", false, "Stop at the first failed step")
	seedCmd.Flags().Bool("backup", false, "Export current rows as JSON before wiping them")
}
