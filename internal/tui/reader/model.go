package reader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/tale/internal/engage"
	"github.com/marcus/tale/internal/models"
	"github.com/marcus/tale/internal/output"
)

// Model is the Bubble Tea model for the interactive story reader.
type Model struct {
	svc     *engage.Service
	ledger  *engage.ViewLedger
	storyID string

	story    *models.Story
	rendered string
	comments []models.Comment

	viewport  viewport.Model
	composer  textarea.Model
	spin      spinner.Model
	composing bool
	replyTo   string

	width  int
	height int
	ready  bool

	status string
	err    error
}

// MinWidth is the minimum terminal width for proper display
const MinWidth = 40

type storyLoadedMsg struct {
	story    *models.Story
	rendered string
}

type renderedMsg struct {
	rendered string
}

type commentsLoadedMsg struct {
	comments []models.Comment
}

type engagementMsg struct {
	rec models.EngagementRecord
	err error
}

type commentPostedMsg struct {
	comment *models.Comment
	err     error
}

type errMsg struct {
	err error
}

// NewModel creates a reader model. The view ledger lives as long as the
// model, so a story is counted at most once per reader session.
func NewModel(svc *engage.Service, storyID string) Model {
	composer := textarea.New()
	composer.Placeholder = "Write a comment..."
	composer.CharLimit = 2000
	composer.SetHeight(4)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		svc:      svc,
		ledger:   engage.NewViewLedger(),
		storyID:  storyID,
		composer: composer,
		spin:     sp,
	}
}

// Run opens the reader over the given story and blocks until quit.
func Run(svc *engage.Service, storyID string) error {
	_, err := tea.NewProgram(NewModel(svc, storyID), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadStory(), m.loadComments(), m.spin.Tick)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if m.story != nil {
			return m, m.rerenderStory()
		}
		return m, nil

	case storyLoadedMsg:
		m.story = msg.story
		m.rendered = msg.rendered
		m.refreshContent()
		return m, m.recordView()

	case renderedMsg:
		m.rendered = msg.rendered
		m.refreshContent()
		return m, nil

	case commentsLoadedMsg:
		m.comments = msg.comments
		m.refreshContent()
		return m, nil

	case engagementMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("engagement failed: %v", msg.err)
		} else {
			m.status = ""
		}
		m.refreshContent()
		return m, nil

	case commentPostedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("comment failed: %v", msg.err)
			return m, nil
		}
		m.status = "comment posted"
		m.comments = m.svc.Comments(m.storyID)
		m.refreshContent()
		return m, nil

	case spinner.TickMsg:
		if m.story != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	if m.composing {
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleKey processes key input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.composing {
		switch msg.String() {
		case "esc":
			m.composing = false
			m.replyTo = ""
			m.composer.Reset()
			return m, nil
		case "ctrl+d":
			content := strings.TrimSpace(m.composer.Value())
			if content == "" {
				m.composing = false
				return m, nil
			}
			m.composing = false
			m.composer.Reset()
			replyTo := m.replyTo
			m.replyTo = ""
			return m, m.postComment(content, replyTo)
		}
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "l":
		return m, m.toggleLike()

	case "s":
		return m, m.toggleSave()

	case "c":
		m.composing = true
		m.replyTo = ""
		return m, m.composer.Focus()

	case "r":
		// Reply to the newest top-level comment.
		if len(m.comments) > 0 {
			m.composing = true
			m.replyTo = m.comments[0].ID
			return m, m.composer.Focus()
		}
		return m, nil

	case "n":
		return m, m.loadMoreComments()

	case "g":
		m.viewport.GotoTop()
		return m, nil

	case "G":
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	return m.renderView()
}

// layout resizes the viewport for the current window.
func (m *Model) layout() {
	headerHeight := 2
	footerHeight := 2
	if m.composing {
		footerHeight += m.composer.Height()
	}
	vpHeight := m.height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.composer.SetWidth(m.width)
}

// refreshContent rebuilds the viewport body from the story and thread.
func (m *Model) refreshContent() {
	if !m.ready || m.story == nil {
		return
	}
	m.viewport.SetContent(m.renderContent())
}

// loadStory fetches the story and pre-renders its markdown.
func (m Model) loadStory() tea.Cmd {
	width := m.width
	return func() tea.Msg {
		story, err := m.svc.LoadStory(m.storyID)
		if err != nil {
			return errMsg{err}
		}
		if width < MinWidth {
			width = 80
		}
		rendered, err := output.RenderStoryWidth(story, width)
		if err != nil {
			rendered = story.Content
		}
		return storyLoadedMsg{story: story, rendered: rendered}
	}
}

// rerenderStory re-renders the already loaded story at the current width.
// The raw content is in the model, so resizes never touch the network.
func (m Model) rerenderStory() tea.Cmd {
	story := m.story
	width := m.width
	if width < MinWidth {
		width = 80
	}
	return func() tea.Msg {
		rendered, err := output.RenderStoryWidth(story, width)
		if err != nil {
			rendered = story.Content
		}
		return renderedMsg{rendered: rendered}
	}
}

// recordView takes the ledger guard on the event loop, where it must be
// synchronous so a repeated load message can never double-count, and runs
// the increment itself as a command so Update never waits on the request.
func (m Model) recordView() tea.Cmd {
	if !m.ledger.ShouldCount(m.storyID) {
		return nil
	}
	svc, storyID := m.svc, m.storyID
	return func() tea.Msg {
		svc.DispatchView(storyID)
		return nil
	}
}

// loadComments fetches the first page of the thread.
func (m Model) loadComments() tea.Cmd {
	return func() tea.Msg {
		comments, err := m.svc.LoadComments(m.storyID, 1)
		if err != nil {
			return errMsg{err}
		}
		return commentsLoadedMsg{comments: comments}
	}
}

// loadMoreComments fetches the next page when the thread has more.
func (m Model) loadMoreComments() tea.Cmd {
	pag := m.svc.CommentsPagination(m.storyID)
	if !pag.HasMore {
		return nil
	}
	next := pag.Page + 1
	return func() tea.Msg {
		comments, err := m.svc.LoadComments(m.storyID, next)
		if err != nil {
			return errMsg{err}
		}
		return commentsLoadedMsg{comments: comments}
	}
}

func (m Model) toggleLike() tea.Cmd {
	return func() tea.Msg {
		rec, err := m.svc.ToggleLike(m.storyID)
		return engagementMsg{rec: rec, err: err}
	}
}

func (m Model) toggleSave() tea.Cmd {
	return func() tea.Msg {
		rec, err := m.svc.ToggleReadingList(m.storyID)
		return engagementMsg{rec: rec, err: err}
	}
}

func (m Model) postComment(content, replyTo string) tea.Cmd {
	return func() tea.Msg {
		comment, err := m.svc.AddComment(m.storyID, content, replyTo)
		return commentPostedMsg{comment: comment, err: err}
	}
}
