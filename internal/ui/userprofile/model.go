package userprofile

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/iwaraterm/internal/api"
	"github.com/fragmede/iwaraterm/internal/config"
	"github.com/fragmede/iwaraterm/internal/render"
	"github.com/fragmede/iwaraterm/internal/ui/common"
	"github.com/fragmede/iwaraterm/internal/ui/messages"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(common.Muted).Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	aboutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Padding(1, 0)
)

// Fetcher loads a profile page from the site.
type Fetcher interface {
	GetUser(ctx context.Context, userID string) (*api.User, error)
}

// Store caches profiles.
type Store interface {
	GetUser(id string, ttl time.Duration) (*api.User, bool, error)
	PutUser(user *api.User) error
}

// Model is the author profile view.
type Model struct {
	user    *api.User
	userID  string
	loading bool
	err     string
	fetcher Fetcher
	store   Store
	cfg     config.Config
	width   int
	height  int
}

// New creates a new user profile view.
func New(userID string, cfg config.Config, fetcher Fetcher, store Store) Model {
	return Model{
		userID:  userID,
		loading: true,
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
	}
}

// Init loads the user profile.
func (m Model) Init() tea.Cmd {
	userID := m.userID
	fetcher := m.fetcher
	store := m.store
	cfg := m.cfg
	return func() tea.Msg {
		user, fresh, _ := store.GetUser(userID, cfg.UserTTL)
		if fresh && user != nil {
			return messages.UserLoadedMsg{User: user}
		}
		fetched, err := fetcher.GetUser(context.Background(), userID)
		if err != nil {
			if user != nil {
				return messages.UserLoadedMsg{User: user}
			}
			return messages.UserLoadedMsg{Err: err}
		}
		store.PutUser(fetched)
		return messages.UserLoadedMsg{User: fetched}
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.UserLoadedMsg:
		if msg.User != nil && msg.User.ID != m.userID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
		} else {
			m.user = msg.User
		}
	}
	return m, nil
}

// View renders the user profile.
func (m Model) View() string {
	if m.loading {
		return common.TitleStyle.Render("Loading user " + m.userID + "...")
	}
	if m.err != "" {
		return common.TitleStyle.Render("Error: " + m.err)
	}
	if m.user == nil {
		return common.TitleStyle.Render("User not found")
	}

	var sb strings.Builder
	sb.WriteString(common.TitleStyle.Render(m.user.Name))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("ID: ") + valueStyle.Render(m.user.ID))
	sb.WriteString("\n")
	if m.user.Joined != "" {
		sb.WriteString(labelStyle.Render("Joined: ") + valueStyle.Render(m.user.Joined))
		sb.WriteString("\n")
	}
	if m.user.AvatarURL != "" {
		sb.WriteString(labelStyle.Render("Avatar: ") + valueStyle.Render(m.user.AvatarURL))
		sb.WriteString("\n")
	}

	if m.user.About != "" {
		width := m.width - 4
		if width < 20 {
			width = 20
		}
		sb.WriteString("\n" + aboutStyle.Render(render.Wrap(m.user.About, width)))
	}

	return sb.String()
}
