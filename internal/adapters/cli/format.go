// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing and output
// formatting, but delegate business logic to services.
package cli

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/example/wealthdesk/internal/core/allocation"
	"github.com/example/wealthdesk/internal/core/checklist"
	"github.com/example/wealthdesk/internal/core/schedule"
)

const rule = "────────────────────────────────────────────────────────────────"

// FormatMoney renders amount in the currency's display format, e.g. "250,000.00 CHF".
// Unknown currency codes fall back to two decimals and the raw code.
func FormatMoney(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%.2f %s", amount, code)
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), code).Display()
}

// FormatPct renders a percentage with two decimals.
func FormatPct(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// FormatSignedPct renders a deviation with an explicit sign.
func FormatSignedPct(p float64) string {
	if allocation.IsZeroPct(p) {
		return "0.00%"
	}
	return fmt.Sprintf("%+.2f%%", p)
}

// StatusLabel colors a checklist status.
func StatusLabel(s checklist.Status) string {
	switch s {
	case checklist.StatusCompleted:
		return color.New(color.FgGreen).Sprint(string(s))
	case checklist.StatusSkipped:
		return color.New(color.FgYellow).Sprint(string(s))
	default:
		return color.New(color.FgCyan).Sprint(string(s))
	}
}

// CategoryLabel colors an overview category.
func CategoryLabel(c schedule.Category) string {
	switch c {
	case schedule.CategoryDue:
		return color.New(color.FgRed, color.Bold).Sprint("DUE")
	case schedule.CategorySkipped:
		return color.New(color.FgYellow).Sprint("SKIPPED")
	case schedule.CategoryCompleted:
		return color.New(color.FgGreen).Sprint("DONE")
	default:
		return color.New(color.Faint).Sprint("OFF")
	}
}

// SeverityLabel colors a class validation result.
func SeverityLabel(s allocation.Severity) string {
	switch s {
	case allocation.SeverityInvalid:
		return color.New(color.FgRed).Sprint("✗ invalid")
	case allocation.SeverityAttention:
		return color.New(color.FgYellow).Sprint("! attention")
	default:
		return color.New(color.FgGreen).Sprint("✓")
	}
}

// padRight pads s to width visible characters; color codes are not counted.
func padRight(s string, plain string, width int) string {
	n := len([]rune(plain))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
