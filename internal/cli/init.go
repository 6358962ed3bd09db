package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/wealthdesk/internal/config"
	"github.com/example/wealthdesk/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the wealthdesk ledger",
		Long: `Initialize the ledger database and write a default config.json.

With --demo an empty ledger is seeded with sample themes, asset classes,
targets, positions and exchange rates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			dir, err := config.HomeDir()
			if err != nil {
				return err
			}
			cfg, err := config.LoadConfig(dir)
			if errors.Is(err, fs.ErrNotExist) {
				cfg = config.Default()
				if err := config.SaveConfig(dir, cfg); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Config written to %s/config.json\n", dir)
			} else if err != nil {
				return err
			}

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}
			fmt.Fprintf(out, "Initializing ledger at %s\n", dbPath)

			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			defer db.Close()
			fmt.Fprintln(out, "✓ Database initialized successfully")

			if demo {
				if err := db.SeedDemo(database, cfg.PortfolioID, time.Now()); err != nil {
					return err
				}
				fmt.Fprintln(out, "✓ Demo portfolio seeded")
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  wealthdesk theme list")
			fmt.Fprintln(out, "  wealthdesk checklist overview")
			fmt.Fprintln(out, "  wealthdesk allocation show")

			return nil
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Seed an empty ledger with demo data")
	return cmd
}
