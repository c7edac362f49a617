package reader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/tale/internal/models"
	"github.com/marcus/tale/internal/output"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	headerRule = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderView assembles the full frame.
func (m Model) renderView() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\nPress q to quit.\n"
	}
	if m.story == nil || !m.ready {
		return m.spin.View() + " Loading...\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader pins the live engagement state above the scrolling page.
// The title and byline render inside the page itself.
func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(output.FormatEngagement(m.svc.Engagement(m.storyID), m.story.Views))
	b.WriteString("\n")
	b.WriteString(headerRule.Render(strings.Repeat("─", max(m.width, 1))))
	return b.String()
}

// renderContent is the scrollable body: rendered story plus the thread.
func (m Model) renderContent() string {
	var b strings.Builder
	b.WriteString(m.rendered)
	b.WriteString("\n")

	pag := m.svc.CommentsPagination(m.storyID)
	b.WriteString(titleStyle.Render(fmt.Sprintf("Comments (%d)", pag.Total)))
	b.WriteString("\n\n")

	if len(m.comments) == 0 {
		b.WriteString(subtleStyle.Render("No comments yet."))
		b.WriteString("\n")
		return b.String()
	}

	for i := range m.comments {
		b.WriteString(m.renderComment(&m.comments[i]))
		b.WriteString("\n\n")
	}
	if pag.HasMore {
		b.WriteString(subtleStyle.Render("Press n for more comments"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderComment(c *models.Comment) string {
	return output.FormatComment(c)
}

// renderFooter shows the composer when open, otherwise the key help.
func (m Model) renderFooter() string {
	var b strings.Builder
	if m.composing {
		title := "New comment"
		if m.replyTo != "" {
			title = "Reply to " + m.replyTo
		}
		b.WriteString(subtleStyle.Render(title + " (ctrl+d to post, esc to cancel)"))
		b.WriteString("\n")
		b.WriteString(m.composer.View())
		return b.String()
	}

	if m.status != "" {
		b.WriteString(subtleStyle.Render(m.status))
		b.WriteString("  ")
	}
	b.WriteString(helpStyle.Render("l like · s save · c comment · r reply · n more · j/k scroll · q quit"))
	return b.String()
}
