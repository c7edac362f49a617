// Package output provides styled terminal output helpers (success, error,
// story and comment formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/tale/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	likedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	savedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	authorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// FormatEngagement renders the like/save/view line for a story.
func FormatEngagement(rec models.EngagementRecord, views int64) string {
	var parts []string

	heart := "♡"
	if rec.Liked {
		heart = likedStyle.Render("♥")
	}
	parts = append(parts, fmt.Sprintf("%s %d", heart, rec.LikesCount))

	if rec.InList {
		parts = append(parts, savedStyle.Render("[saved]"))
	}
	parts = append(parts, subtleStyle.Render(fmt.Sprintf("%d views", views)))

	return strings.Join(parts, "  ")
}

// FormatStoryLine formats one story for list output.
func FormatStoryLine(story *models.Story) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(story.ID))
	b.WriteString("  ")
	b.WriteString(story.Title)
	if story.AuthorName != "" {
		b.WriteString("  ")
		b.WriteString(authorStyle.Render("by " + story.AuthorName))
	}
	b.WriteString("  ")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("♥ %d · %d views", story.LikesCount, story.Views)))
	return b.String()
}

// FormatComment formats a comment and its replies for terminal output.
func FormatComment(c *models.Comment) string {
	var b strings.Builder
	writeCommentLine(&b, c, "")
	for i := range c.Replies {
		writeCommentLine(&b, &c.Replies[i], "    ")
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeCommentLine(b *strings.Builder, c *models.Comment, indent string) {
	author := c.AuthorName
	if author == "" {
		author = c.AuthorID
	}
	meta := formatTimeAgo(c.CreatedAt)
	if c.Edited {
		meta += " · edited"
	}
	if n := len(c.Likes); n > 0 {
		meta += fmt.Sprintf(" · ♥ %d", n)
	}
	b.WriteString(indent)
	b.WriteString(titleStyle.Render(c.ID))
	b.WriteString("  ")
	b.WriteString(authorStyle.Render(author))
	b.WriteString("  ")
	b.WriteString(subtleStyle.Render(meta))
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString(c.Content)
	b.WriteString("\n")
}

// formatTimeAgo renders a compact relative timestamp.
func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
