package login

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/iwaraterm/internal/auth"
	"github.com/fragmede/iwaraterm/internal/ui/messages"
)

type fakeAuth struct {
	user, pass string
	err        error
}

func (f *fakeAuth) Login(_ context.Context, username, password string) error {
	f.user, f.pass = username, password
	return f.err
}

func typeText(m Model, s string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func enter(m Model) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestLogin_SubmitsCredentials(t *testing.T) {
	a := &fakeAuth{}
	m := New(a, "ecchi.iwara.tv")
	m = typeText(m, "alice")
	m, _ = enter(m) // moves to password
	assert.Equal(t, fieldPass, m.focus)
	m = typeText(m, "secret")

	m, cmd := enter(m)
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)

	res := cmd().(messages.LoginResultMsg)
	assert.NoError(t, res.Err)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "alice", a.user)
	assert.Equal(t, "secret", a.pass)
}

func TestLogin_KeysIgnoredWhileSubmitting(t *testing.T) {
	m := New(&fakeAuth{}, "site")
	m.submitting = true
	m, cmd := enter(m)
	assert.Nil(t, cmd)
	m = typeText(m, "x")
	assert.Empty(t, m.inputs[fieldName].Value())
}

func TestLogin_MissingFieldFocusesIt(t *testing.T) {
	a := &fakeAuth{}
	m := New(a, "site")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "pw")
	m, _ = enter(m)
	assert.False(t, m.submitting)
	assert.Empty(t, a.pass, "no login attempted")
	assert.Equal(t, "Username or e-mail is required", m.err)
	assert.Equal(t, fieldName, m.focus)
}

func TestLogin_TabCycles(t *testing.T) {
	m := New(&fakeAuth{}, "site")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldPass, m.focus)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldName, m.focus)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, fieldPass, m.focus)
}

func TestLogin_RevealTogglesEcho(t *testing.T) {
	m := New(&fakeAuth{}, "site")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, textinput.EchoNormal, m.inputs[fieldPass].EchoMode)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, textinput.EchoPassword, m.inputs[fieldPass].EchoMode)
}

func TestLogin_ErrorShown(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"site message", fmt.Errorf("login failed: %w", &auth.SiteError{Message: "Sorry, unrecognized username or password."}), "Sorry, unrecognized username or password."},
		{"maintenance", fmt.Errorf("%w (12 bytes)", auth.ErrNoFormToken), "under maintenance"},
		{"other", errors.New("dial tcp: refused"), "dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(&fakeAuth{}, "site")
			m.SetSize(100, 30)
			m.inputs[fieldPass].SetValue("wrong")
			m.submitting = true
			m, _ = m.Update(messages.LoginResultMsg{Err: tt.err})
			assert.False(t, m.submitting)
			assert.Contains(t, m.err, tt.want)
			assert.NotContains(t, m.err, "site error:")
			assert.Empty(t, m.inputs[fieldPass].Value(), "password cleared for retry")
			assert.Equal(t, fieldPass, m.focus)
			assert.Contains(t, m.View(), "Sign in to site")
		})
	}
}
