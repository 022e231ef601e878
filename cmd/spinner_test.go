package cmd

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// TestTruncateDetailShort verifies that short lines pass through unchanged.
func TestTruncateDetailShort(t *testing.T) {
	line := "added 42 packages in 3s"
	if got := truncateDetail(line); got != line {
		t.Errorf("truncateDetail(%q) = %q", line, got)
	}
}

// TestTruncateDetailMultiByte verifies that npm tree output is cut on a
// character boundary and fits the detail width.
func TestTruncateDetailMultiByte(t *testing.T) {
	line := strings.Repeat("├─┬ ", 30) + "sails@1.2.3"
	got := truncateDetail(line)

	if !utf8.ValidString(got) {
		t.Fatalf("truncateDetail() produced invalid UTF-8: %q", got)
	}
	if w := ansi.StringWidth(got); w > detailWidth {
		t.Errorf("width = %d, want <= %d", w, detailWidth)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncateDetail() = %q, want ... suffix", got)
	}
}
