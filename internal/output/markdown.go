package output

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/marcus/tale/internal/models"
)

const (
	defaultStoryWidth = 80
	minStoryWidth     = 20
)

// TerminalWidth returns the current terminal width or a fallback when
// unavailable.
func TerminalWidth(fallback int) int {
	if fallback <= 0 {
		fallback = defaultStoryWidth
	}

	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}

	if cols := os.Getenv("COLUMNS"); cols != "" {
		if parsed, err := strconv.Atoi(cols); err == nil && parsed > 0 {
			return parsed
		}
	}

	return fallback
}

// RenderStory renders a story as a terminal page with terminal-aware word
// wrapping: title heading, byline, summary blockquote, then the body.
func RenderStory(story *models.Story) (string, error) {
	return RenderStoryWidth(story, TerminalWidth(defaultStoryWidth))
}

// RenderStoryWidth renders a story page at an explicit wrap width.
func RenderStoryWidth(story *models.Story, width int) (string, error) {
	if width < minStoryWidth {
		width = minStoryWidth
	}

	source := storyMarkdown(story)
	if strings.TrimSpace(source) == "" {
		return "", nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(source)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(rendered, "\n"), nil
}

// storyMarkdown assembles the page source. The title becomes the top
// heading so glamour styles it consistently with headings in the body.
func storyMarkdown(story *models.Story) string {
	var b strings.Builder
	if story.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", story.Title)
	}
	if story.AuthorName != "" {
		fmt.Fprintf(&b, "*by %s*\n\n", story.AuthorName)
	}
	if story.Summary != "" {
		fmt.Fprintf(&b, "> %s\n\n", story.Summary)
	}
	b.WriteString(story.Content)
	return b.String()
}
