package notifications

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/iwaraterm/internal/cache"
	"github.com/fragmede/iwaraterm/internal/render"
	"github.com/fragmede/iwaraterm/internal/ui/common"
	"github.com/fragmede/iwaraterm/internal/ui/messages"
)

var (
	notifStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#333333")).Padding(0, 1)
	unreadDotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	previewStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
)

const (
	listLimit    = 50
	previewWidth = 80
)

// Store reads and updates recorded notifications.
type Store interface {
	Notifications(limit int) ([]cache.Notification, error)
	MarkRead(id int64) error
	MarkAllRead() error
	UnreadCount() int
}

// Model is the notifications view.
type Model struct {
	notifications []cache.Notification
	selectedIdx   int
	err           string
	store         Store
	width         int
	height        int
}

// New creates a new notifications model.
func New(store Store) Model {
	return Model{store: store}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Load refreshes the notification list from the database.
func (m *Model) Load() {
	list, err := m.store.Notifications(listLimit)
	if err != nil {
		m.err = err.Error()
		return
	}
	m.err = ""
	m.notifications = list
	if m.selectedIdx >= len(list) {
		m.selectedIdx = max(len(list)-1, 0)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.NewNotificationMsg:
		m.Load()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, common.Keys.Down):
			if m.selectedIdx < len(m.notifications)-1 {
				m.selectedIdx++
			}
		case key.Matches(msg, common.Keys.Up):
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case key.Matches(msg, common.Keys.ReadAll):
			m.store.MarkAllRead()
			for i := range m.notifications {
				m.notifications[i].Read = true
			}
			return m, m.unread()
		case key.Matches(msg, common.Keys.Enter):
			if m.selectedIdx >= 0 && m.selectedIdx < len(m.notifications) {
				n := m.notifications[m.selectedIdx]
				m.store.MarkRead(n.ID)
				m.notifications[m.selectedIdx].Read = true
				return m, tea.Batch(m.unread(), func() tea.Msg {
					return messages.OpenThreadMsg{VideoID: n.VideoID}
				})
			}
		}
	}
	return m, nil
}

func (m Model) unread() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return messages.NewNotificationMsg{UnreadCount: store.UnreadCount()}
	}
}

// View renders the notifications list.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(common.TitleStyle.Render("Notifications"))
	sb.WriteString("\n")

	if m.err != "" {
		sb.WriteString("\n  " + common.ErrorStyle.Render(m.err) + "\n")
		return sb.String()
	}
	if len(m.notifications) == 0 {
		sb.WriteString("\n  No notifications yet. Press w on a thread to watch it.\n")
		return sb.String()
	}

	for i, n := range m.notifications {
		var line strings.Builder

		if !n.Read {
			line.WriteString(unreadDotStyle.Render("● "))
		} else {
			line.WriteString("  ")
		}

		line.WriteString(common.AuthorStyle.Render(n.AuthorName))
		where := n.VideoTitle
		if where == "" {
			where = n.VideoID
		}
		line.WriteString(common.MetaStyle.Render(fmt.Sprintf(" commented on %s %s", where, render.TimeAgo(n.CreatedAt.Unix()))))
		line.WriteString("\n")
		if n.TextPreview != "" {
			line.WriteString("  " + previewStyle.Render(render.Truncate(n.TextPreview, previewWidth)))
		}

		entry := line.String()
		if i == m.selectedIdx {
			entry = selectedStyle.Render(entry)
		} else {
			entry = notifStyle.Render(entry)
		}
		sb.WriteString(entry + "\n")
	}

	return sb.String()
}

// UnreadCount returns the number of unread notifications in the list.
func (m Model) UnreadCount() int {
	count := 0
	for _, n := range m.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}
