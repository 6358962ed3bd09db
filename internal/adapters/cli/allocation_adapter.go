package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/wealthdesk/internal/core/allocation"
	"github.com/example/wealthdesk/internal/ports/primary"
)

// AllocationAdapter translates CLI operations to AllocationService calls.
type AllocationAdapter struct {
	service primary.AllocationService
	out     io.Writer
}

// NewAllocationAdapter creates a new AllocationAdapter with the given service.
func NewAllocationAdapter(service primary.AllocationService, out io.Writer) *AllocationAdapter {
	return &AllocationAdapter{
		service: service,
		out:     out,
	}
}

// Show prints the reconciled tree, its validation and any excluded positions.
func (a *AllocationAdapter) Show(ctx context.Context) error {
	view, err := a.service.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load allocation: %w", err)
	}
	a.printView(view)
	return nil
}

func (a *AllocationAdapter) printView(view *primary.AllocationView) {
	tree := view.Tree
	cur := tree.BaseCurrency

	fmt.Fprintf(a.out, "\nAllocation · total %s\n", FormatMoney(tree.Total, cur))
	fmt.Fprintf(a.out, "%-9s %-22s %9s %9s %9s %18s %18s %-5s %s\n",
		"NODE", "NAME", "ACTUAL", "TARGET", "DEV", "ACTUAL "+cur, "TARGET "+cur, "MODE", "CHECK")
	fmt.Fprintln(a.out, strings.Repeat("─", 112))

	warned := map[allocation.NodeID]bool{}
	for _, w := range view.Validation.Rows {
		warned[w.Node] = true
	}

	for _, c := range tree.Classes {
		check := ""
		if v, ok := view.Validation.Class(c.ID); ok && (v.Checked || v.NeedsAttention) {
			check = SeverityLabel(v.Severity())
		}
		a.printRow(c.Asset, "", check, warned[c.ID], cur)
		for _, s := range c.Subs {
			a.printRow(s.Asset, "  ", "", warned[s.ID], cur)
		}
	}

	var issues []string
	for _, v := range view.Validation.Classes {
		for _, issue := range v.Issues {
			issues = append(issues, fmt.Sprintf("%s: %s", v.Name, issue))
		}
	}
	for _, w := range view.Validation.Rows {
		issues = append(issues, fmt.Sprintf("%s: %s", w.Name, w.Message))
	}
	if len(issues) > 0 {
		fmt.Fprintln(a.out)
		for _, issue := range issues {
			fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgYellow).Sprint("!"), issue)
		}
	}

	if len(tree.Excluded) > 0 {
		fmt.Fprintf(a.out, "\n%d position(s) excluded from totals:\n", len(tree.Excluded))
		for _, ex := range tree.Excluded {
			fmt.Fprintf(a.out, "  %s (%s, %s): %s\n", ex.Label, ex.SubClass, ex.Currency, exclusionText(ex.Reason))
		}
	}
	fmt.Fprintln(a.out)
}

func (a *AllocationAdapter) printRow(asset allocation.Asset, indent, check string, warned bool, cur string) {
	name := indent + asset.Name
	if warned {
		name = indent + "! " + asset.Name
	}
	fmt.Fprintf(a.out, "%-9s %-22s %9s %9s %9s %18s %18s %-5s %s\n",
		asset.ID, name,
		FormatPct(asset.ActualPct), FormatPct(asset.TargetPct), FormatSignedPct(asset.DeviationPct()),
		FormatMoney(asset.ActualChf, cur), FormatMoney(asset.TargetChf, cur),
		asset.Mode, check)
}

func exclusionText(r allocation.ExclusionReason) string {
	switch r {
	case allocation.ExcludedUnresolvedSubClass:
		return "unknown sub-class"
	case allocation.ExcludedMissingFXRate:
		return "no exchange rate"
	default:
		return string(r)
	}
}

// SetPercent sets a node's target percentage.
func (a *AllocationAdapter) SetPercent(ctx context.Context, nodeID string, pct float64) error {
	asset, err := a.service.SetTargetPercent(ctx, nodeID, pct)
	if err != nil {
		return err
	}
	a.printUpdated(ctx, asset)
	return nil
}

// SetChf sets a node's target amount.
func (a *AllocationAdapter) SetChf(ctx context.Context, nodeID string, chf float64) error {
	asset, err := a.service.SetTargetChf(ctx, nodeID, chf)
	if err != nil {
		return err
	}
	a.printUpdated(ctx, asset)
	return nil
}

func (a *AllocationAdapter) printUpdated(ctx context.Context, asset *allocation.Asset) {
	cur := "CHF"
	if view, err := a.service.View(ctx); err == nil && view.Tree.BaseCurrency != "" {
		cur = view.Tree.BaseCurrency
	}
	fmt.Fprintf(a.out, "✓ %s %s: %s = %s\n", asset.ID, asset.Name, FormatPct(asset.TargetPct), FormatMoney(asset.TargetChf, cur))
}

// SetMode stores the entry mode of a node.
func (a *AllocationAdapter) SetMode(ctx context.Context, nodeID, raw string) error {
	mode, err := allocation.ParseMode(raw)
	if err != nil {
		return err
	}
	if err := a.service.SetMode(ctx, nodeID, mode); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s entry mode set to %s\n", nodeID, mode)
	return nil
}

// Sync writes every node's target back to the ledger.
func (a *AllocationAdapter) Sync(ctx context.Context) error {
	n, err := a.service.PersistAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to persist targets (%d written): %w", n, err)
	}
	fmt.Fprintf(a.out, "✓ Persisted %d allocation targets\n", n)
	return nil
}
