package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the set of bindings shared by the views.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Back      key.Binding
	Enter     key.Binding
	Refresh   key.Binding
	Login     key.Binding
	Notify    key.Binding
	OpenVideo key.Binding
	Comment   key.Binding
	Copy      key.Binding
	Profile   key.Binding
	Watch     key.Binding
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Home      key.Binding
	End       key.Binding
	Parent    key.Binding
	NextSib   key.Binding
	Submit    key.Binding
	Delete    key.Binding
	ReadAll   key.Binding
	NextField key.Binding
	PrevField key.Binding
	Reveal    key.Binding
}

var Keys = KeyMap{
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "reply / expand")),
	Refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
	Login:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login")),
	Notify:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notifications")),
	OpenVideo: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open video")),
	Comment:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
	Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
	Profile:   key.NewBinding(key.WithKeys("p", "P"), key.WithHelp("p", "author")),
	Watch:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watch")),
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "up")),
	Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "down")),
	PageUp:    key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "page up")),
	PageDown:  key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "page down")),
	Home:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	End:       key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Parent:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "parent")),
	NextSib:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next sibling")),
	Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
	ReadAll:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "mark all read")),
	NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Reveal:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "show password")),
}

// Hint joins the short help of bindings into a one-line hint.
func Hint(bindings ...key.Binding) string {
	s := ""
	for i, b := range bindings {
		if i > 0 {
			s += "  "
		}
		h := b.Help()
		s += h.Key + ":" + h.Desc
	}
	return s
}
