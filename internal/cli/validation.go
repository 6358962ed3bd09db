package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/example/wealthdesk/internal/core/week"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// validateNodeID checks that an allocation node ID carries its kind prefix.
// Returns an error with a helpful message for bare or mis-cased IDs.
func validateNodeID(id string) error {
	if strings.HasPrefix(id, "class-") || strings.HasPrefix(id, "sub-") {
		return nil
	}

	if digitsOnly.MatchString(id) {
		return fmt.Errorf("invalid node ID '%s'. Use full ID format: class-%s or sub-%s", id, id, id)
	}

	lower := strings.ToLower(id)
	if strings.HasPrefix(lower, "class-") || strings.HasPrefix(lower, "sub-") {
		return fmt.Errorf("invalid node ID '%s'. IDs are case-sensitive, use: %s", id, lower)
	}

	return fmt.Errorf("invalid node ID '%s'. Expected format: class-<id> or sub-<id>", id)
}

// parseWeekFlag resolves the --week flag. Empty means the current week;
// any date inside the wanted week is accepted.
func parseWeekFlag(cal week.Calendar, raw string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return now, nil
	}
	return cal.ParseDate(strings.TrimSpace(raw))
}
