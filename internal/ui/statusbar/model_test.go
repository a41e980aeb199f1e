package statusbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestView_ShowsStateAndFitsWidth(t *testing.T) {
	m := New()
	m.SetSize(60)
	m.SetView("Thread")
	m.SetUser("alice")
	m.SetUnread(3)
	m.SetStatus(strings.Repeat("copied ", 30), false)

	view := m.View()
	assert.Contains(t, view, "Thread")
	assert.Contains(t, view, "alice")
	assert.Contains(t, view, " 3 ")
	assert.Contains(t, view, "…")
	assert.LessOrEqual(t, lipgloss.Width(view), 60)
}

func TestView_LoggedOutHint(t *testing.T) {
	m := New()
	m.SetSize(40)
	assert.Contains(t, m.View(), "L:login")
}
