package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	cliadapter "github.com/example/wealthdesk/internal/adapters/cli"
	"github.com/example/wealthdesk/internal/core/checklist"
	"github.com/example/wealthdesk/internal/wire"
)

// ChecklistCmd returns the checklist command
func ChecklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checklist",
		Aliases: []string{"cl"},
		Short:   "Run the weekly thesis checklist",
		Long: `Review each portfolio theme once per week.

A week is saved as a draft, then marked complete once every thesis is filled
in, or skipped with a comment. Answers are read from a YAML or JSON file:

  thesis_checks:
    - position: Nestle
      original_thesis: Pricing power in staples
      macro_score: 5
      edge_score: 7
      growth_score: 6
      action_tag: watch
      change_log: No change this week

Examples:
  wealthdesk checklist show "Core Equity"
  wealthdesk checklist save 1 --file week.yaml
  wealthdesk checklist complete 1
  wealthdesk checklist skip 1 --comment "travelling"
  wealthdesk checklist overview --wait`,
	}

	cmd.AddCommand(checklistShowCmd())
	cmd.AddCommand(checklistSaveCmd())
	cmd.AddCommand(checklistCompleteCmd())
	cmd.AddCommand(checklistSkipCmd())
	cmd.AddCommand(checklistHistoryCmd())
	cmd.AddCommand(checklistOverviewCmd())
	cmd.AddCommand(checklistRemindCmd())

	return cmd
}

// weekDate resolves the --week flag against the configured calendar.
func weekDate(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("week")
	cal, err := wire.Config().Calendar()
	if err != nil {
		return time.Time{}, err
	}
	return parseWeekFlag(cal, raw, time.Now())
}

func addWeekFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("week", "w", "", "Any date (YYYY-MM-DD) inside the week; defaults to the current week")
}

func checklistShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [theme]",
		Short: "Show a theme's checklist for one week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := weekDate(cmd)
			if err != nil {
				return err
			}
			return wire.ChecklistAdapterWithOutput(cmd.OutOrStdout()).Show(cmd.Context(), args[0], date)
		},
	}
	addWeekFlag(cmd)
	return cmd
}

func checklistSaveCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "save [theme]",
		Short: "Save answers keeping the week's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := weekDate(cmd)
			if err != nil {
				return err
			}
			answers, err := cliadapter.LoadAnswersFile(file)
			if err != nil {
				return err
			}
			return wire.ChecklistAdapterWithOutput(cmd.OutOrStdout()).Save(cmd.Context(), args[0], date, answers)
		},
	}
	addWeekFlag(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Answers file (YAML or JSON)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func checklistCompleteCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "complete [theme]",
		Short: "Mark a week complete",
		Long:  "Mark a week complete. With --file the answers are replaced first; otherwise the saved answers are used.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := weekDate(cmd)
			if err != nil {
				return err
			}
			var answers *checklist.Answers
			if file != "" {
				a, err := cliadapter.LoadAnswersFile(file)
				if err != nil {
					return err
				}
				answers = &a
			}
			return wire.ChecklistAdapterWithOutput(cmd.OutOrStdout()).Complete(cmd.Context(), args[0], date, answers)
		},
	}
	addWeekFlag(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Answers file (YAML or JSON)")
	return cmd
}

func checklistSkipCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "skip [theme]",
		Short: "Skip a week with a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := weekDate(cmd)
			if err != nil {
				return err
			}
			return wire.ChecklistAdapterWithOutput(cmd.OutOrStdout()).Skip(cmd.Context(), args[0], date, comment)
		},
	}
	addWeekFlag(cmd)
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "Why the week is skipped")
	cmd.MarkFlagRequired("comment")
	return cmd
}

func checklistHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [theme]",
		Short: "List past weeks of a theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ChecklistAdapterWithOutput(cmd.OutOrStdout()).History(cmd.Context(), args[0], limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 12, "Number of weeks to show (0 for all)")
	return cmd
}

func checklistOverviewCmd() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show every theme's checklist state for this week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ChecklistAdapterWithOutput(cmd.OutOrStdout()).Overview(cmd.Context(), wait)
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", true, "Wait for theme valuations before printing")
	return cmd
}

func checklistRemindCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Print the checklists still due this week",
		Long: `Print the checklists still due this week and the next reminder time.

With --watch the command stays in the foreground and prints a reminder on
every tick of the configured reminder_schedule (cron syntax) until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adapter := wire.ChecklistAdapterWithOutput(cmd.OutOrStdout())
			overview := wire.OverviewService()
			out := cmd.OutOrStdout()

			remind := func(at time.Time) error {
				o, err := overview.Load(ctx)
				if err != nil {
					return err
				}
				adapter.PrintDue(o, at)
				return nil
			}

			if err := remind(time.Now()); err != nil {
				return err
			}
			next, err := overview.NextReminder(time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Next reminder: %s\n", next.Format("Mon 2006-01-02 15:04"))
			if !watch {
				return nil
			}

			return runReminders(ctx, wire.Config().ReminderSchedule, remind)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running and remind on schedule")
	return cmd
}

// runReminders fires remind on every tick of spec until ctx ends.
func runReminders(ctx context.Context, spec string, remind func(time.Time) error) error {
	log := wire.Logger().With().Str("component", "reminder").Logger()
	loc, err := wire.Config().Location()
	if err != nil {
		return err
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() {
		if err := remind(time.Now()); err != nil {
			log.Error().Err(err).Msg("reminder failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
