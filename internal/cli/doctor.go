package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/wealthdesk/internal/adapters/prefs"
	"github.com/example/wealthdesk/internal/config"
	"github.com/example/wealthdesk/internal/db"
	"github.com/example/wealthdesk/internal/version"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the wealthdesk environment",
		Long: `Health check for the wealthdesk installation.

Validates:
- config.json parses and every setting is usable
- The ledger database opens at the latest schema version
- preferences.yaml parses

Examples:
  wealthdesk doctor              # Run full health check
  wealthdesk doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			results := []CheckResult{
				checkConfig(),
				checkDatabase(),
				checkPreferences(cmd),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Fprintf(out, "\n%s\n\n", version.String())
				fmt.Fprintln(out, "Check              Status")
				fmt.Fprintln(out, "─────────────────────────")
				for _, r := range results {
					fmt.Fprintf(out, "%-18s %s\n", r.Name, r.Status)
				}
				fmt.Fprintln(out)

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Fprintln(out, "Details:")
							hasDetails = true
						}
						fmt.Fprintf(out, "\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Fprintln(out, "\n⚠ Issues found. Run 'wealthdesk init' to create missing files.")
				} else {
					fmt.Fprintln(out, "All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// checkConfig validates config.json, warning when it is absent
func checkConfig() CheckResult {
	dir, err := config.HomeDir()
	if err != nil {
		return CheckResult{Name: "Config", Status: "✗", Details: "  " + err.Error()}
	}

	cfg, err := config.LoadConfig(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return CheckResult{Name: "Config", Status: "⚠", Details: fmt.Sprintf("  %s/config.json not found, defaults in use", dir)}
	}
	if err != nil {
		return CheckResult{Name: "Config", Status: "✗", Details: "  " + err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return CheckResult{Name: "Config", Status: "✗", Details: "  " + err.Error()}
	}

	return CheckResult{Name: "Config", Status: "✓"}
}

// checkDatabase opens the ledger and compares its schema version
func checkDatabase() CheckResult {
	path, err := db.GetDBPath()
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return CheckResult{Name: "Database", Status: "✗", Details: fmt.Sprintf("  %s not found", path)}
	}

	conn, err := db.GetDB()
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	defer db.Close()

	v, err := db.CurrentVersion(conn)
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	if v != db.LatestVersion() {
		return CheckResult{
			Name:    "Database",
			Status:  "⚠",
			Details: fmt.Sprintf("  Schema version %d, expected %d", v, db.LatestVersion()),
		}
	}
	return CheckResult{Name: "Database", Status: "✓"}
}

// checkPreferences parses preferences.yaml when present
func checkPreferences(cmd *cobra.Command) CheckResult {
	path, err := config.PreferencesPath()
	if err != nil {
		return CheckResult{Name: "Preferences", Status: "✗", Details: "  " + err.Error()}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return CheckResult{Name: "Preferences", Status: "✓"}
	}

	if _, err := prefs.NewYAMLStore(path).LoadModes(cmd.Context()); err != nil {
		return CheckResult{Name: "Preferences", Status: "✗", Details: "  " + err.Error()}
	}
	return CheckResult{Name: "Preferences", Status: "✓"}
}
