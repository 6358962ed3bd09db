package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/wealthdesk/internal/wire"
)

// AllocationCmd returns the allocation command
func AllocationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocation",
		Short: "Review and edit asset allocation targets",
		Long: `Show the target allocation next to the actual holdings and edit targets.

Nodes are addressed as class-<id> or sub-<id>. Sub-class percentages are
shares of their parent class; class percentages are shares of the portfolio.

Each node has an entry mode. A node in percent mode (the default) is edited
with set-pct, a node in chf mode with set-chf; the other field is derived.

Examples:
  wealthdesk allocation show
  wealthdesk allocation set-pct class-1 60
  wealthdesk allocation mode sub-10 chf
  wealthdesk allocation set-chf sub-10 45000`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the allocation tree with validation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AllocationAdapterWithOutput(cmd.OutOrStdout()).Show(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-pct [node] [percent]",
		Short: "Set the target percentage of a percent-mode node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateNodeID(args[0]); err != nil {
				return err
			}
			pct, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return wire.AllocationAdapterWithOutput(cmd.OutOrStdout()).SetPercent(cmd.Context(), args[0], pct)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-chf [node] [amount]",
		Short: "Set the target amount of a chf-mode node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateNodeID(args[0]); err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return wire.AllocationAdapterWithOutput(cmd.OutOrStdout()).SetChf(cmd.Context(), args[0], amount)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "mode [node] [percent|chf]",
		Short: "Choose which target field a node is edited through",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateNodeID(args[0]); err != nil {
				return err
			}
			return wire.AllocationAdapterWithOutput(cmd.OutOrStdout()).SetMode(cmd.Context(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Write every node's target back to the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AllocationAdapterWithOutput(cmd.OutOrStdout()).Sync(cmd.Context())
		},
	})

	return cmd
}

func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", raw)
	}
	return v, nil
}
