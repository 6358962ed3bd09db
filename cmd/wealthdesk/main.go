package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/wealthdesk/internal/cli"
	"github.com/example/wealthdesk/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "wealthdesk",
		Short:   "wealthdesk - weekly thesis reviews and allocation targets",
		Version: version.String(),
		Long: `wealthdesk keeps a personal portfolio honest.
Each theme gets a weekly thesis checklist, and the allocation view compares
target weights with the holdings in the ledger.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.ThemeCmd())
	rootCmd.AddCommand(cli.ChecklistCmd())
	rootCmd.AddCommand(cli.AllocationCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
