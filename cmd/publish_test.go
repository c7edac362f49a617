package cmd

import "testing"

func TestTitleFromMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"heading first", "# The Lighthouse\n\nBody.", "The Lighthouse"},
		{"heading after text", "Preamble.\n\n# Late Title\n", "Late Title"},
		{"no heading", "Just prose.\n\nMore prose.", ""},
		{"subheading only", "## Not a title\n", ""},
		{"indented heading", "   # Trimmed\n", "Trimmed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titleFromMarkdown(tt.content); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
