package login

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/iwaraterm/internal/auth"
	"github.com/fragmede/iwaraterm/internal/ui/common"
	"github.com/fragmede/iwaraterm/internal/ui/messages"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(common.Muted).Padding(1, 3)

	signInKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in"))
)

// Authenticator signs in to the site.
type Authenticator interface {
	Login(ctx context.Context, username, password string) error
}

type field int

const (
	fieldName field = iota
	fieldPass
	fieldCount
)

var labels = [fieldCount]string{
	fieldName: "Username or e-mail",
	fieldPass: "Password",
}

// Model is the sign-in form for one site.
type Model struct {
	inputs     [fieldCount]textinput.Model
	focus      field
	err        string
	submitting bool
	site       string
	auth       Authenticator
	width      int
	height     int
}

// New creates a sign-in form for site. The site name is only shown.
func New(auth Authenticator, site string) Model {
	var m Model
	for i := range m.inputs {
		in := textinput.New()
		in.Width = 32
		in.Prompt = "› "
		m.inputs[i] = in
	}
	m.inputs[fieldPass].EchoMode = textinput.EchoPassword
	m.inputs[fieldPass].EchoCharacter = '•'
	m.inputs[fieldName].Focus()
	m.auth = auth
	m.site = site
	return m
}

// SetSize sets the view dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (f + fieldCount) % fieldCount
	return m.inputs[m.focus].Focus()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, common.Keys.NextField):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, common.Keys.PrevField):
			return m, m.setFocus(m.focus - 1)
		case key.Matches(msg, common.Keys.Reveal):
			pass := &m.inputs[fieldPass]
			if pass.EchoMode == textinput.EchoPassword {
				pass.EchoMode = textinput.EchoNormal
			} else {
				pass.EchoMode = textinput.EchoPassword
			}
			return m, nil
		case key.Matches(msg, signInKey):
			if m.focus == fieldName && m.inputs[fieldPass].Value() == "" {
				return m, m.setFocus(fieldPass)
			}
			return m.submit()
		}

	case messages.LoginResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.err = describe(msg.Err)
			m.inputs[fieldPass].SetValue("")
			return m, m.setFocus(fieldPass)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[fieldName].Value())
	password := m.inputs[fieldPass].Value()
	switch {
	case username == "":
		m.err = labels[fieldName] + " is required"
		return m, m.setFocus(fieldName)
	case password == "":
		m.err = labels[fieldPass] + " is required"
		return m, m.setFocus(fieldPass)
	}
	m.submitting = true
	m.err = ""
	a := m.auth
	return m, func() tea.Msg {
		if err := a.Login(context.Background(), username, password); err != nil {
			return messages.LoginResultMsg{Err: err}
		}
		return messages.LoginResultMsg{Username: username}
	}
}

// describe turns a login failure into the line shown under the form.
func describe(err error) string {
	var siteErr *auth.SiteError
	switch {
	case errors.As(err, &siteErr):
		return siteErr.Message
	case errors.Is(err, auth.ErrNoFormToken):
		return "The site did not serve a login form. It may be under maintenance."
	}
	return err.Error()
}

// View renders the form centred in the view.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(common.TitleStyle.Render("Sign in to " + m.site))
	sb.WriteString("\n\n")
	for i := range m.inputs {
		label := labels[i]
		if field(i) == m.focus {
			label = lipgloss.NewStyle().Foreground(common.Accent).Render(label)
		}
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString("\n")
		sb.WriteString(m.inputs[i].View())
		sb.WriteString("\n\n")
	}

	if m.err != "" {
		sb.WriteString(common.ErrorStyle.Render(m.err))
		sb.WriteString("\n\n")
	}

	if m.submitting {
		sb.WriteString(common.MetaStyle.Render("Signing in..."))
	} else {
		k := common.Keys
		sb.WriteString(common.HintStyle.Render(common.Hint(signInKey, k.NextField, k.Reveal, k.Back)))
	}

	box := boxStyle.Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
