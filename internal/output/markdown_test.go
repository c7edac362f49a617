package output

import (
	"strings"
	"testing"

	"github.com/marcus/tale/internal/models"
)

func TestStoryMarkdown_PageAssembly(t *testing.T) {
	story := &models.Story{
		Title:      "The Lighthouse",
		AuthorName: "Ada",
		Summary:    "A keeper's last night.",
		Content:    "It began with the fog.",
	}

	source := storyMarkdown(story)
	parts := []string{
		"# The Lighthouse",
		"*by Ada*",
		"> A keeper's last night.",
		"It began with the fog.",
	}
	pos := -1
	for _, part := range parts {
		idx := strings.Index(source, part)
		if idx < 0 {
			t.Fatalf("page source missing %q:\n%s", part, source)
		}
		if idx < pos {
			t.Fatalf("page source out of order at %q:\n%s", part, source)
		}
		pos = idx
	}
}

func TestRenderStoryWidth_EmptyStory(t *testing.T) {
	rendered, err := RenderStoryWidth(&models.Story{}, 60)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if rendered != "" {
		t.Fatalf("empty story rendered %q", rendered)
	}
}

func TestRenderStoryWidth_IncludesTitle(t *testing.T) {
	story := &models.Story{Title: "The Lighthouse", Content: "fog on the water"}
	rendered, err := RenderStoryWidth(story, 60)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(rendered, "The Lighthouse") {
		t.Fatalf("rendered page missing title:\n%s", rendered)
	}
}
