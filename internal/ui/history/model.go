package history

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/iwaraterm/internal/api"
	"github.com/fragmede/iwaraterm/internal/cache"
	"github.com/fragmede/iwaraterm/internal/ui/common"
	"github.com/fragmede/iwaraterm/internal/ui/messages"
)

const listTitle = "Recently opened"

// Store lists and prunes the thread history.
type Store interface {
	History(limit int) ([]cache.HistoryEntry, error)
	RemoveHistory(videoID string) error
}

type historyLoadedMsg struct {
	entries []cache.HistoryEntry
	err     error
}

// Model is the start screen: recently opened threads plus an open-by-id
// prompt.
type Model struct {
	list      list.Model
	prompt    textinput.Model
	prompting bool
	promptErr string
	store     Store
	limit     int
	width     int
	height    int
}

// New creates the history view.
func New(store Store, limit int) Model {
	l := list.New(nil, Delegate{}, 0, 0)
	l.Title = listTitle
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("thread", "threads")

	p := textinput.New()
	p.Placeholder = "video id or URL"
	p.Prompt = "Open: "
	p.CharLimit = 256
	p.Width = 50

	return Model{list: l, prompt: p, store: store, limit: limit}
}

// Init loads the history.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload reads the history from the store again.
func (m Model) Reload() tea.Cmd {
	store := m.store
	limit := m.limit
	return func() tea.Msg {
		entries, err := store.History(limit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h)
}

// Prompting reports whether the open-by-id input has focus.
func (m Model) Prompting() bool {
	return m.prompting
}

// Typing reports whether keys go to a text field: the prompt or the
// list filter.
func (m Model) Typing() bool {
	return m.prompting || m.list.FilterState() == list.Filtering
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.err != nil {
			m.list.Title = "Error: " + msg.err.Error()
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.entries))
		for i, e := range msg.entries {
			items = append(items, Item{HistoryEntry: e, Index: i})
		}
		m.list.Title = listTitle
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, common.Keys.Enter):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, openThread(item.VideoID)
			}
			return m, nil
		case key.Matches(msg, common.Keys.OpenVideo):
			m.prompting = true
			m.promptErr = ""
			m.prompt.SetValue("")
			return m, m.prompt.Focus()
		case key.Matches(msg, common.Keys.Delete):
			if item, ok := m.list.SelectedItem().(Item); ok {
				if err := m.store.RemoveHistory(item.VideoID); err != nil {
					return m, func() tea.Msg { return messages.StatusMsg{Text: err.Error(), IsError: true} }
				}
				return m, m.Reload()
			}
			return m, nil
		case key.Matches(msg, common.Keys.Refresh):
			return m, m.Reload()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, common.Keys.Back):
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case key.Matches(msg, common.Keys.Enter):
		id, err := api.ParseVideoID(m.prompt.Value())
		if err != nil {
			m.promptErr = err.Error()
			return m, nil
		}
		m.prompting = false
		m.prompt.Blur()
		return m, openThread(id)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// View renders the history list, with the prompt under it when open.
func (m Model) View() string {
	if !m.prompting {
		return m.list.View()
	}
	lines := []string{m.prompt.View()}
	if m.promptErr != "" {
		lines = append(lines, common.ErrorStyle.Render(m.promptErr))
	} else {
		lines = append(lines, common.HintStyle.Render("enter to open, esc to cancel"))
	}
	prompt := lipgloss.JoinVertical(lipgloss.Left, lines...)
	m.list.SetSize(m.width, max(m.height-lipgloss.Height(prompt), 1))
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), prompt)
}

func openThread(videoID string) tea.Cmd {
	return func() tea.Msg { return messages.OpenThreadMsg{VideoID: videoID} }
}
