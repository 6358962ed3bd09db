package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/example/wealthdesk/internal/core/checklist"
	"github.com/example/wealthdesk/internal/core/schedule"
	"github.com/example/wealthdesk/internal/core/week"
	"github.com/example/wealthdesk/internal/ports/primary"
)

// ChecklistAdapter translates CLI operations to the checklist and overview services.
type ChecklistAdapter struct {
	checklists primary.ChecklistService
	themes     primary.ThemeService
	overview   primary.OverviewService
	currency   string
	out        io.Writer
}

// NewChecklistAdapter creates a new ChecklistAdapter.
func NewChecklistAdapter(
	checklists primary.ChecklistService,
	themes primary.ThemeService,
	overview primary.OverviewService,
	currency string,
	out io.Writer,
) *ChecklistAdapter {
	return &ChecklistAdapter{
		checklists: checklists,
		themes:     themes,
		overview:   overview,
		currency:   currency,
		out:        out,
	}
}

func (a *ChecklistAdapter) open(ctx context.Context, ref string, date time.Time) (primary.ChecklistSession, error) {
	theme, err := a.themes.FindTheme(ctx, ref)
	if err != nil {
		return nil, err
	}
	return a.checklists.OpenWeek(ctx, theme.ID, date)
}

// Show displays the checklist of one theme-week.
func (a *ChecklistAdapter) Show(ctx context.Context, ref string, date time.Time) error {
	session, err := a.open(ctx, ref, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%s · %s (%s)\n", session.Theme().Name, session.WeekLabel(), session.WeekKey())
	fmt.Fprintln(a.out, rule)

	entry := session.Entry()
	if entry == nil {
		fmt.Fprintln(a.out, "Status:   not started")
	} else {
		fmt.Fprintf(a.out, "Status:   %s (revision %d, edited %s)\n",
			StatusLabel(entry.Status), entry.Revision, entry.LastEditedAt.Format("2006-01-02 15:04"))
		if entry.Status == checklist.StatusSkipped {
			fmt.Fprintf(a.out, "Skipped:  %s\n", entry.SkipComment)
		}
	}

	answers := session.Answers()
	if len(answers.ThesisChecks) == 0 {
		fmt.Fprintln(a.out, "\nNo theses recorded")
	}
	for i, th := range answers.ThesisChecks {
		a.printThesis(i, th)
	}

	guard := session.CanMarkComplete()
	fmt.Fprintln(a.out)
	if guard.Allowed {
		fmt.Fprintln(a.out, color.New(color.FgGreen).Sprint("✓ Ready to mark complete"))
	} else {
		fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgYellow).Sprint("!"), guard.Reason)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *ChecklistAdapter) printThesis(i int, th checklist.ThesisCheck) {
	fmt.Fprintf(a.out, "\n%d. %s\n", i+1, th.Position)
	if th.OriginalThesis != "" {
		fmt.Fprintf(a.out, "   Thesis:  %s\n", th.OriginalThesis)
	}
	fmt.Fprintf(a.out, "   Scores:  macro %s  edge %s  growth %s", score(th.MacroScore, th.MacroDelta), score(th.EdgeScore, th.EdgeDelta), score(th.GrowthScore, th.GrowthDelta))
	if net, ok := th.NetScore(); ok {
		fmt.Fprintf(a.out, "  net %.1f", net)
	}
	fmt.Fprintln(a.out)
	if th.ActionTag != nil {
		fmt.Fprintf(a.out, "   Action:  %s\n", *th.ActionTag)
	}
	if th.ChangeLog != "" {
		fmt.Fprintf(a.out, "   Changes: %s\n", th.ChangeLog)
	}
	if n := th.TriggeredBreakers(); n > 0 {
		fmt.Fprintf(a.out, "   %s\n", color.New(color.FgRed).Sprintf("%d thesis breaker(s) triggered", n))
	}
}

func score(s *int, d *checklist.Delta) string {
	if s == nil {
		return "-"
	}
	out := fmt.Sprintf("%d", *s)
	if d != nil {
		switch *d {
		case checklist.DeltaUp:
			out += "↑"
		case checklist.DeltaDown:
			out += "↓"
		default:
			out += "→"
		}
	}
	return out
}

// Save replaces the working answers and persists them keeping the current status.
func (a *ChecklistAdapter) Save(ctx context.Context, ref string, date time.Time, answers checklist.Answers) error {
	session, err := a.open(ctx, ref, date)
	if err != nil {
		return err
	}

	session.SetAnswers(answers)
	if !session.HasUnsavedChanges() {
		fmt.Fprintf(a.out, "No changes for %s %s\n", session.Theme().Name, session.WeekKey())
		return nil
	}

	label := session.SaveLabel()
	if err := session.Save(ctx); err != nil {
		return err
	}
	entry := session.Entry()
	fmt.Fprintf(a.out, "✓ %s: %s %s is %s (revision %d)\n",
		label, session.Theme().Name, session.WeekKey(), entry.Status, entry.Revision)
	if entry.Status == checklist.StatusCompleted {
		if guard := session.CanMarkComplete(); !guard.Allowed {
			fmt.Fprintf(a.out, "%s week stays completed but %s\n",
				color.New(color.FgYellow).Sprint("!"), strings.TrimPrefix(guard.Reason, "cannot mark complete: "))
		}
	}
	return nil
}

// Complete marks a theme-week complete, optionally replacing the answers first.
func (a *ChecklistAdapter) Complete(ctx context.Context, ref string, date time.Time, answers *checklist.Answers) error {
	session, err := a.open(ctx, ref, date)
	if err != nil {
		return err
	}
	if answers != nil {
		session.SetAnswers(*answers)
	}

	if err := session.MarkComplete(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s %s marked complete\n", session.Theme().Name, session.WeekKey())
	return nil
}

// Skip marks a theme-week skipped with a comment.
func (a *ChecklistAdapter) Skip(ctx context.Context, ref string, date time.Time, comment string) error {
	session, err := a.open(ctx, ref, date)
	if err != nil {
		return err
	}

	if err := session.Skip(ctx, comment); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s %s skipped: %s\n", session.Theme().Name, session.WeekKey(), session.Entry().SkipComment)
	return nil
}

// History lists past entries of a theme, newest first.
func (a *ChecklistAdapter) History(ctx context.Context, ref string, limit int) error {
	theme, err := a.themes.FindTheme(ctx, ref)
	if err != nil {
		return err
	}
	entries, err := a.checklists.History(ctx, theme.ID, limit)
	if err != nil {
		return fmt.Errorf("failed to list checklist history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintf(a.out, "No checklist history for %s\n", theme.Name)
		return nil
	}

	fmt.Fprintf(a.out, "\n%s\n", theme.Name)
	fmt.Fprintf(a.out, "%-10s %-12s %-10s %-8s %s\n", "WEEK", "START", "STATUS", "THESES", "NOTE")
	fmt.Fprintln(a.out, rule)
	for _, e := range entries {
		theses := 0
		if e.Answers != nil {
			theses = len(e.Answers.ThesisChecks)
		}
		note := ""
		if e.Status == checklist.StatusSkipped {
			note = e.SkipComment
		}
		fmt.Fprintf(a.out, "%-10s %-12s %s %-8d %s\n",
			e.WeekKey, e.WeekStart.Format(week.DateFormat),
			padRight(StatusLabel(e.Status), string(e.Status), 10), theses, note)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Overview prints the cross-theme overview. With wait, valuations are awaited first.
func (a *ChecklistAdapter) Overview(ctx context.Context, wait bool) error {
	overview, err := a.overview.Load(ctx)
	if err != nil {
		return err
	}
	if wait {
		if err := a.overview.WaitValuations(ctx); err != nil {
			return err
		}
		overview = a.overview.Current()
	}

	a.PrintOverview(overview)
	return nil
}

// PrintOverview renders an overview snapshot.
func (a *ChecklistAdapter) PrintOverview(overview *primary.Overview) {
	fmt.Fprintf(a.out, "\nWeekly checklists · %s (%s)\n", overview.WeekLabel, overview.WeekKey)
	c := overview.Counts
	fmt.Fprintf(a.out, "%d due · %d skipped · %d completed · %d disabled\n", c.Due, c.Skipped, c.Completed, c.Disabled)
	fmt.Fprintln(a.out, rule)

	if len(overview.Summaries) == 0 {
		fmt.Fprintln(a.out, "No themes found")
		return
	}

	fmt.Fprintf(a.out, "%-8s %-26s %-12s %-12s %s\n", "", "THEME", "LAST DONE", "NEXT DUE", "VALUE")
	for _, s := range overview.Summaries {
		name := s.Theme.Name
		if s.Theme.WeeklyChecklistHighPriority {
			name = "★ " + name
		}
		last := "-"
		if s.LastCompleted != nil {
			last = s.LastCompleted.WeekKey
		}
		next := "-"
		if s.NextDueWeekStart != nil {
			next = s.NextDueWeekStart.Format(week.DateFormat)
		}
		value := "…"
		if s.CountedValueBase != nil {
			value = FormatMoney(*s.CountedValueBase, a.currency)
		} else if s.Category == schedule.CategoryDisabled {
			value = ""
		}
		fmt.Fprintf(a.out, "%s %-26s %-12s %-12s %s\n",
			padRight(CategoryLabel(s.Category), strings.ToUpper(categoryText(s.Category)), 8), name, last, next, value)
	}
	fmt.Fprintln(a.out)
}

// PrintDue lists the themes still due in the overview, used by reminders.
func (a *ChecklistAdapter) PrintDue(overview *primary.Overview, at time.Time) {
	var due []string
	for _, s := range overview.Summaries {
		if s.Category == schedule.CategoryDue {
			due = append(due, s.Theme.Name)
		}
	}
	stamp := at.Format("2006-01-02 15:04")
	if len(due) == 0 {
		fmt.Fprintf(a.out, "[%s] All weekly checklists for %s are done\n", stamp, overview.WeekKey)
		return
	}
	fmt.Fprintf(a.out, "[%s] %d checklist(s) due for %s: %s\n", stamp, len(due), overview.WeekKey, strings.Join(due, ", "))
}

func categoryText(c schedule.Category) string {
	switch c {
	case schedule.CategoryDue:
		return "due"
	case schedule.CategoryCompleted:
		return "done"
	case schedule.CategoryDisabled:
		return "off"
	default:
		return string(c)
	}
}
