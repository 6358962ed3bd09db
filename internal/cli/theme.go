package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/wealthdesk/internal/wire"
)

// ThemeCmd returns the theme command
func ThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Manage portfolio themes",
		Long:  "List portfolio themes and change their weekly checklist settings",
	}

	cmd.AddCommand(themeListCmd())
	cmd.AddCommand(themeToggleCmd("enable", "Enable the weekly checklist for a theme", true))
	cmd.AddCommand(themeToggleCmd("disable", "Disable the weekly checklist for a theme", false))
	cmd.AddCommand(themePriorityCmd())

	return cmd
}

func themeListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ThemeAdapterWithOutput(cmd.OutOrStdout()).List(cmd.Context(), all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include archived themes")
	return cmd
}

func themeToggleCmd(use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [theme]",
		Short: short,
		Long:  short + ". The theme is given by ID or by name (case-insensitive).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ThemeAdapterWithOutput(cmd.OutOrStdout()).SetEnabled(cmd.Context(), args[0], enabled)
		},
	}
}

func themePriorityCmd() *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "priority [theme]",
		Short: "Mark a theme as high priority in the overview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ThemeAdapterWithOutput(cmd.OutOrStdout()).SetPriority(cmd.Context(), args[0], !off)
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Clear the high-priority flag")
	return cmd
}
