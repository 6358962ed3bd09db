package cli

import (
	"strings"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	got := FormatMoney(250000, "chf")
	if !strings.Contains(got, "250") || !strings.Contains(got, "000.00") || !strings.Contains(got, "CHF") {
		t.Errorf("FormatMoney(250000, chf) = %q", got)
	}

	if got := FormatMoney(12.5, "XYZ"); got != "12.50 XYZ" {
		t.Errorf("unknown currency fallback = %q", got)
	}
}

func TestFormatPct(t *testing.T) {
	tests := []struct {
		in     float64
		pct    string
		signed string
	}{
		{25, "25.00%", "+25.00%"},
		{-3.456, "-3.46%", "-3.46%"},
		{0.00001, "0.00%", "0.00%"},
	}
	for _, tt := range tests {
		if got := FormatPct(tt.in); got != tt.pct {
			t.Errorf("FormatPct(%v) = %q, want %q", tt.in, got, tt.pct)
		}
		if got := FormatSignedPct(tt.in); got != tt.signed {
			t.Errorf("FormatSignedPct(%v) = %q, want %q", tt.in, got, tt.signed)
		}
	}
}
