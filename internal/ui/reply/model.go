package reply

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/iwaraterm/internal/comment"
	"github.com/fragmede/iwaraterm/internal/render"
	"github.com/fragmede/iwaraterm/internal/ui/common"
	"github.com/fragmede/iwaraterm/internal/ui/messages"
)

var quoteStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#AAAAAA")).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(common.Muted).
	PaddingLeft(1)

const quoteWidth = 72

// Replier posts comments.
type Replier interface {
	Reply(ctx context.Context, videoID, parentID, text string) error
}

// Model is the reply composer view.
type Model struct {
	textarea   textarea.Model
	videoID    string
	parent     comment.Comment
	replier    Replier
	err        string
	submitting bool
	width      int
	height     int
}

// Prefill is the composer's starting text when replying to c.
func Prefill(c comment.Comment) string {
	if c.ID == "" || c.AuthorName == "" {
		return ""
	}
	return "@" + c.AuthorName + " "
}

// New creates a reply form. A zero parent composes a top-level comment.
func New(videoID string, parent comment.Comment, replier Replier) Model {
	ta := textarea.New()
	ta.Placeholder = "Write your reply..."
	ta.Focus()
	ta.SetWidth(80)
	ta.SetHeight(10)
	ta.SetValue(Prefill(parent))

	return Model{
		textarea: ta,
		videoID:  videoID,
		parent:   parent,
		replier:  replier,
	}
}

// Value returns the current draft.
func (m Model) Value() string {
	return m.textarea.Value()
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	tw := w - 4
	if tw > 100 {
		tw = 100
	}
	m.textarea.SetWidth(tw)
	th := h - 12
	if th < 5 {
		th = 5
	}
	m.textarea.SetHeight(th)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, common.Keys.Submit) {
			text := strings.TrimSpace(m.textarea.Value())
			if text == "" || text == strings.TrimSpace(Prefill(m.parent)) {
				m.err = "Reply cannot be empty"
				return m, nil
			}
			if m.submitting {
				return m, nil
			}
			m.submitting = true
			m.err = ""
			replier := m.replier
			videoID, parentID := m.videoID, m.parent.ID
			return m, func() tea.Msg {
				err := replier.Reply(context.Background(), videoID, parentID, text)
				return messages.ReplyResultMsg{VideoID: videoID, ParentID: parentID, Err: err}
			}
		}

	case messages.ReplyResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View renders the reply form.
func (m Model) View() string {
	var sb strings.Builder

	if m.parent.ID != "" {
		sb.WriteString(common.TitleStyle.UnsetPadding().Render("Reply to " + m.parent.AuthorName))
		sb.WriteString("\n")
		quote := render.Truncate(strings.Join(strings.Fields(m.parent.Content), " "), quoteWidth)
		sb.WriteString(quoteStyle.Render(quote))
	} else {
		sb.WriteString(common.TitleStyle.UnsetPadding().Render("Comment on " + m.videoID))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.textarea.View())
	sb.WriteString("\n\n")

	if m.err != "" {
		sb.WriteString(common.ErrorStyle.Render(m.err))
		sb.WriteString("\n")
	}

	if m.submitting {
		sb.WriteString("Submitting...")
	} else {
		sb.WriteString(common.HintStyle.Render("Ctrl+S to submit | Esc to cancel"))
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
