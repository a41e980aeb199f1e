package ui

import (
	"context"
	"net/url"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/fragmede/iwaraterm/internal/api"
	"github.com/fragmede/iwaraterm/internal/auth"
	"github.com/fragmede/iwaraterm/internal/cache"
	"github.com/fragmede/iwaraterm/internal/clipboard"
	"github.com/fragmede/iwaraterm/internal/config"
	"github.com/fragmede/iwaraterm/internal/monitor"
	"github.com/fragmede/iwaraterm/internal/ui/common"
	"github.com/fragmede/iwaraterm/internal/ui/history"
	"github.com/fragmede/iwaraterm/internal/ui/login"
	"github.com/fragmede/iwaraterm/internal/ui/messages"
	"github.com/fragmede/iwaraterm/internal/ui/notifications"
	"github.com/fragmede/iwaraterm/internal/ui/reply"
	"github.com/fragmede/iwaraterm/internal/ui/statusbar"
	"github.com/fragmede/iwaraterm/internal/ui/threadview"
	"github.com/fragmede/iwaraterm/internal/ui/userprofile"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewHistory ViewType = iota
	ViewThread
	ViewLogin
	ViewReply
	ViewNotifications
	ViewUserProfile
)

var viewLabels = map[ViewType]string{
	ViewHistory:       "History",
	ViewThread:        "Thread",
	ViewLogin:         "Login",
	ViewReply:         "Reply",
	ViewNotifications: "Notifications",
	ViewUserProfile:   "Profile",
}

// Deps bundles the services the views talk to.
type Deps struct {
	Client    *api.Client
	Cache     *cache.DB
	Session   *auth.Session
	Monitor   *monitor.Monitor
	Clipboard clipboard.Writer
	Logger    *zap.Logger
}

// App is the root Bubble Tea model.
type App struct {
	// View state
	activeView    ViewType
	previousViews []ViewType

	// Child models
	history       history.Model
	threadView    threadview.Model
	loginForm     login.Model
	replyForm     reply.Model
	notifications notifications.Model
	userProfile   userprofile.Model
	statusBar     statusbar.Model

	// Shared state
	cfg          config.Config
	deps         Deps
	log          *zap.Logger
	startVideo   string
	pendingReply *messages.OpenReplyMsg
	unreadCount  int

	// Dimensions
	width  int
	height int

	// For passing program reference to monitor
	program *tea.Program
}

// NewApp creates the root application model. A non-empty startVideo is
// opened as soon as the program starts.
func NewApp(cfg config.Config, deps Deps, startVideo string) *App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.System{}
	}
	sb := statusbar.New()
	sb.SetView(viewLabels[ViewHistory])

	return &App{
		activeView:    ViewHistory,
		history:       history.New(deps.Cache, cfg.HistorySize),
		statusBar:     sb,
		notifications: notifications.New(deps.Cache),
		cfg:           cfg,
		deps:          deps,
		log:           deps.Logger.Named("ui"),
		startVideo:    startVideo,
	}
}

// SetProgram stores the tea.Program reference for the background monitor.
func (a *App) SetProgram(p *tea.Program) {
	a.program = p
}

// Init starts the application.
func (a *App) Init() tea.Cmd {
	if a.program != nil && a.deps.Monitor != nil {
		a.deps.Monitor.Start(context.Background(), a.program)
	}
	cmds := []tea.Cmd{a.history.Init(), a.tryRestoreSession(), a.loadUnread()}
	if a.startVideo != "" {
		id := a.startVideo
		cmds = append(cmds, func() tea.Msg { return messages.OpenThreadMsg{VideoID: id} })
	}
	return tea.Batch(cmds...)
}

func (a *App) tryRestoreSession() tea.Cmd {
	session := a.deps.Session
	path := a.cfg.SessionPath
	return func() tea.Msg {
		if session.Load(context.Background(), path) {
			return messages.SessionRestoredMsg{Username: session.Username}
		}
		return nil
	}
}

func (a *App) loadUnread() tea.Cmd {
	db := a.deps.Cache
	return func() tea.Msg {
		return messages.NewNotificationMsg{UnreadCount: db.UnreadCount()}
	}
}

// ActiveView returns the view on top of the stack.
func (a *App) ActiveView() ViewType {
	return a.activeView
}

func (a *App) textInputActive() bool {
	switch a.activeView {
	case ViewLogin, ViewReply:
		return true
	case ViewHistory:
		return a.history.Typing()
	}
	return false
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 1 // Reserve 1 line for status bar.
		a.history.SetSize(msg.Width, contentHeight)
		a.statusBar.SetSize(msg.Width)
		// Only resize lazily-created views if they're currently active.
		switch a.activeView {
		case ViewThread:
			a.threadView.SetSize(msg.Width, contentHeight)
		case ViewLogin:
			a.loginForm.SetSize(msg.Width, contentHeight)
		case ViewReply:
			a.replyForm.SetSize(msg.Width, contentHeight)
		case ViewNotifications:
			a.notifications.SetSize(msg.Width, contentHeight)
		case ViewUserProfile:
			a.userProfile.SetSize(msg.Width, contentHeight)
		}
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, common.Keys.ForceQuit) {
			return a, a.quit()
		}
		if a.textInputActive() {
			// Esc in the forms goes back; the history prompt closes itself.
			if a.activeView != ViewHistory && key.Matches(msg, common.Keys.Back) {
				a.pendingReply = nil
				return a, a.goBack()
			}
			break
		}
		switch {
		case key.Matches(msg, common.Keys.Quit):
			if a.activeView == ViewHistory {
				return a, a.quit()
			}
			return a, a.goBack()
		case key.Matches(msg, common.Keys.Back):
			if len(a.previousViews) > 0 {
				return a, a.goBack()
			}
			return a, nil
		case key.Matches(msg, common.Keys.Login):
			if !a.deps.Session.LoggedIn {
				a.openLogin()
			}
			return a, nil
		case key.Matches(msg, common.Keys.Notify):
			if a.activeView != ViewNotifications {
				a.pushView(ViewNotifications)
				a.notifications.SetSize(a.width, a.height-1)
			}
			a.notifications.Load()
			return a, nil
		}

	// View transitions.
	case messages.OpenThreadMsg:
		return a, a.openThread(msg.VideoID)

	case messages.NavigateMsg:
		kind, id, ok := messages.ParseRoute(msg.Route)
		if !ok {
			a.log.Warn("unknown route", zap.String("route", msg.Route))
			a.statusBar.SetStatus("Unknown route "+msg.Route, true)
			return a, nil
		}
		if kind == "video" {
			return a, a.openThread(id)
		}
		a.pushView(ViewUserProfile)
		a.userProfile = userprofile.New(id, a.cfg, a.deps.Client, a.deps.Cache)
		a.userProfile.SetSize(a.width, a.height-1)
		return a, a.userProfile.Init()

	case messages.ThreadLoadedMsg, messages.WatchToggledMsg:
		// Delivered even when another view is on top.
		var cmd tea.Cmd
		a.threadView, cmd = a.threadView.Update(msg)
		return a, cmd

	case messages.GoBackMsg:
		return a, a.goBack()

	case messages.OpenLoginMsg:
		a.openLogin()
		return a, nil

	case messages.OpenNotifyMsg:
		a.pushView(ViewNotifications)
		a.notifications.SetSize(a.width, a.height-1)
		a.notifications.Load()
		return a, nil

	case messages.OpenReplyMsg:
		if !a.deps.Session.LoggedIn {
			pending := msg
			a.pendingReply = &pending
			a.openLogin()
			a.statusBar.SetStatus("Login required to reply", false)
			return a, nil
		}
		a.openReply(msg)
		return a, nil

	case messages.SessionRestoredMsg:
		a.statusBar.SetUser(msg.Username)
		return a, nil

	case messages.LoginResultMsg:
		if msg.Err == nil {
			a.statusBar.SetUser(msg.Username)
			if err := a.deps.Session.Save(a.cfg.SessionPath); err != nil {
				a.log.Warn("saving session", zap.Error(err))
			}
			cmd := a.goBack()
			if a.pendingReply != nil {
				a.openReply(*a.pendingReply)
				a.pendingReply = nil
			}
			return a, cmd
		}
		// Let login form handle the error.

	case messages.ReplyResultMsg:
		if msg.Err == nil {
			a.statusBar.SetStatus("Reply posted", false)
			cmds = append(cmds, a.goBack())
			// The thread view below refetches itself.
		}

	case messages.NewNotificationMsg:
		a.unreadCount = msg.UnreadCount
		a.statusBar.SetUnread(msg.UnreadCount)

	case messages.StatusMsg:
		a.statusBar.SetStatus(msg.Text, msg.IsError)
		return a, nil
	}

	// Route to active view.
	var cmd tea.Cmd
	switch a.activeView {
	case ViewHistory:
		a.history, cmd = a.history.Update(msg)
		cmds = append(cmds, cmd)
	case ViewThread:
		a.threadView, cmd = a.threadView.Update(msg)
		cmds = append(cmds, cmd)
	case ViewLogin:
		a.loginForm, cmd = a.loginForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewReply:
		a.replyForm, cmd = a.replyForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewNotifications:
		a.notifications, cmd = a.notifications.Update(msg)
		cmds = append(cmds, cmd)
	case ViewUserProfile:
		a.userProfile, cmd = a.userProfile.Update(msg)
		cmds = append(cmds, cmd)
	}

	a.statusBar, cmd = a.statusBar.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View renders the application.
func (a *App) View() string {
	var content string
	switch a.activeView {
	case ViewHistory:
		content = a.history.View()
	case ViewThread:
		content = a.threadView.View()
	case ViewLogin:
		content = a.loginForm.View()
	case ViewReply:
		content = a.replyForm.View()
	case ViewNotifications:
		content = a.notifications.View()
	case ViewUserProfile:
		content = a.userProfile.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, a.statusBar.View())
}

func (a *App) openThread(videoID string) tea.Cmd {
	if a.activeView == ViewThread && a.threadView.VideoID() == videoID {
		return nil
	}
	a.pushView(ViewThread)
	a.threadView = threadview.New(videoID, a.cfg, a.deps.Client, a.deps.Cache, a.deps.Clipboard)
	a.threadView.SetSize(a.width, a.height-1)
	return a.threadView.Init()
}

func (a *App) openLogin() {
	a.pushView(ViewLogin)
	a.loginForm = login.New(a.deps.Session, siteName(a.cfg.BaseURL))
	a.loginForm.SetSize(a.width, a.height-1)
}

func (a *App) openReply(msg messages.OpenReplyMsg) {
	a.pushView(ViewReply)
	a.replyForm = reply.New(msg.VideoID, msg.Comment, a.deps.Session)
	a.replyForm.SetSize(a.width, a.height-1)
}

func (a *App) quit() tea.Cmd {
	if a.deps.Monitor != nil {
		a.deps.Monitor.Stop()
	}
	return tea.Quit
}

func (a *App) pushView(v ViewType) {
	a.previousViews = append(a.previousViews, a.activeView)
	a.activeView = v
	a.statusBar.SetView(viewLabels[v])
}

func (a *App) goBack() tea.Cmd {
	if len(a.previousViews) == 0 {
		return nil
	}
	a.activeView = a.previousViews[len(a.previousViews)-1]
	a.previousViews = a.previousViews[:len(a.previousViews)-1]
	a.statusBar.SetView(viewLabels[a.activeView])
	switch a.activeView {
	case ViewHistory:
		// Opened threads move to the top of the history.
		return a.history.Reload()
	case ViewThread:
		a.threadView.SetSize(a.width, a.height-1)
	case ViewNotifications:
		a.notifications.Load()
	}
	return nil
}

func siteName(baseURL string) string {
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return baseURL
}
