package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rana718/agriseed/internal/seeder"
	"github.com/Rana718/agriseed/internal/store"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all seeded data",
	Long: `
Delete every row from credits, productions, packages, industries and users,
in that order, as a single transaction. Nothing is deleted if any step fails.

Use --force to skip the confirmation prompt and --backup to export the
current rows as JSON first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && !askConfirmation("This will delete all users, packages, industries, credits and productions. Continue?") {
			fmt.Println("Aborted.")
			return nil
		}

		ctx := context.Background()

		db, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if backup, _ := cmd.Flags().GetBool("backup"); backup {
			if err := backupBeforeClear(ctx, db, cfg); err != nil {
				return err
			}
		}

		return seeder.New(store.NewSession(db), cfg.SeedOptions()).ClearAll(ctx)
	},
}

func askConfirmation(message string) bool {
	fmt.Printf("🤔 %s (y/N): ", message)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y"
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolP("force", "f", false, "Skip confirmation")
	clearCmd.Flags().Bool("backup", false, "Export current rows as JSON before deleting")
}
