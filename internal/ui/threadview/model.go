package threadview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/iwaraterm/internal/api"
	"github.com/fragmede/iwaraterm/internal/cache"
	"github.com/fragmede/iwaraterm/internal/clipboard"
	"github.com/fragmede/iwaraterm/internal/comment"
	"github.com/fragmede/iwaraterm/internal/config"
	"github.com/fragmede/iwaraterm/internal/render"
	"github.com/fragmede/iwaraterm/internal/ui/common"
	"github.com/fragmede/iwaraterm/internal/ui/messages"
)

var (
	avatarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#CCCCCC")).Padding(0, 1)
	watchedStyle = lipgloss.NewStyle().Foreground(common.Accent).Bold(true)
)

const (
	scrollStep = 3
	maxIndent  = 30
)

// Fetcher loads a thread from the site.
type Fetcher interface {
	FetchThread(ctx context.Context, videoID string) (*api.Thread, error)
}

// Store is the slice of the cache the thread view uses.
type Store interface {
	GetThread(videoID string, ttl time.Duration) (*api.Thread, bool, error)
	PutThread(t *api.Thread) error
	InvalidateThread(videoID string) error
	TouchHistory(e cache.HistoryEntry) error
	IsWatched(videoID string) bool
	SetWatched(videoID, title string, watched bool) error
}

type rowOffset struct {
	startLine int
	endLine   int
}

// Model is the comment thread of one video.
type Model struct {
	viewport    viewport.Model
	videoID     string
	thread      *api.Thread
	rows        []comment.Row
	offsets     []rowOffset
	selectedIdx int
	expansion   comment.Expansion
	watched     bool
	fetcher     Fetcher
	store       Store
	clip        clipboard.Writer
	cfg         config.Config
	loading     bool
	err         string
	width       int
	height      int
}

// New creates a thread view for videoID. Expansion state starts empty
// and lives only as long as the view.
func New(videoID string, cfg config.Config, fetcher Fetcher, store Store, clip clipboard.Writer) Model {
	vp := viewport.New(0, 0)
	vp.SetContent("Loading...")

	return Model{
		viewport:  vp,
		videoID:   videoID,
		expansion: make(comment.Expansion),
		fetcher:   fetcher,
		store:     store,
		clip:      clip,
		cfg:       cfg,
		loading:   true,
	}
}

// Init loads the thread, from the cache when it is fresh.
func (m Model) Init() tea.Cmd {
	return m.load(false)
}

func (m Model) load(force bool) tea.Cmd {
	videoID := m.videoID
	fetcher := m.fetcher
	store := m.store
	cfg := m.cfg
	return func() tea.Msg {
		var cached *api.Thread
		if !force {
			t, fresh, _ := store.GetThread(videoID, cfg.ThreadTTL)
			if fresh && t != nil {
				touch(store, t)
				return messages.ThreadLoadedMsg{VideoID: videoID, Thread: t}
			}
			cached = t
		}

		t, err := fetcher.FetchThread(context.Background(), videoID)
		if err != nil {
			if cached != nil {
				return messages.ThreadLoadedMsg{VideoID: videoID, Thread: cached}
			}
			return messages.ThreadLoadedMsg{VideoID: videoID, Err: err}
		}
		store.PutThread(t)
		touch(store, t)
		return messages.ThreadLoadedMsg{VideoID: videoID, Thread: t}
	}
}

func touch(store Store, t *api.Thread) {
	store.TouchHistory(cache.HistoryEntry{
		VideoID:      t.VideoID,
		Title:        t.Title,
		OwnerName:    t.OwnerName,
		CommentCount: t.CommentCount(),
	})
}

// VideoID returns the video this view shows.
func (m Model) VideoID() string {
	return m.videoID
}

// SetSize updates viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.resizeViewport()
	m.rebuildContent()
}

func (m *Model) resizeViewport() {
	header := m.renderHeader()
	headerLines := strings.Count(header, "\n") + 1
	m.viewport.Height = m.height - headerLines
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ThreadLoadedMsg:
		if msg.VideoID != m.videoID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
			m.viewport.SetContent("Error loading comments: " + msg.Err.Error())
			return m, nil
		}
		m.err = ""
		m.thread = msg.Thread
		m.watched = m.store.IsWatched(m.videoID)
		m.resizeViewport()
		m.relayout()
		m.rebuildContent()
		return m, nil

	case messages.ReplyResultMsg:
		if msg.Err == nil && msg.VideoID == m.videoID {
			m.loading = true
			m.store.InvalidateThread(m.videoID)
			return m, m.load(true)
		}
		return m, nil

	case messages.WatchToggledMsg:
		if msg.VideoID != m.videoID {
			return m, nil
		}
		if msg.Err != nil {
			return m, status("Watch failed: "+msg.Err.Error(), true)
		}
		m.watched = msg.Watched
		m.resizeViewport()
		if m.watched {
			return m, status("Watching for new replies", false)
		}
		return m, status("Stopped watching", false)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			idx := m.rowAt(msg.Y)
			if idx < 0 {
				return m, nil
			}
			m.selectedIdx = idx
			m.rebuildContent()
			return m.activate()
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, common.Keys.Down):
			if m.selectedIdx >= 0 && m.selectedIdx < len(m.offsets) {
				off := m.offsets[m.selectedIdx]
				viewBottom := m.viewport.YOffset + m.viewport.Height
				if off.endLine >= viewBottom {
					// Comment extends below viewport, scroll within it.
					m.viewport.SetYOffset(m.viewport.YOffset + scrollStep)
					return m, nil
				}
			}
			if m.selectedIdx < len(m.rows)-1 {
				m.selectedIdx++
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case key.Matches(msg, common.Keys.Up):
			if m.selectedIdx >= 0 && m.selectedIdx < len(m.offsets) {
				off := m.offsets[m.selectedIdx]
				if off.startLine < m.viewport.YOffset {
					newOff := m.viewport.YOffset - scrollStep
					if newOff < off.startLine {
						newOff = off.startLine
					}
					m.viewport.SetYOffset(newOff)
					return m, nil
				}
			}
			if m.selectedIdx > 0 {
				m.selectedIdx--
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case key.Matches(msg, common.Keys.Enter):
			return m.activate()
		case key.Matches(msg, common.Keys.Comment):
			if m.thread == nil {
				return m, nil
			}
			videoID := m.videoID
			return m, func() tea.Msg { return messages.OpenReplyMsg{VideoID: videoID} }
		case key.Matches(msg, common.Keys.Copy):
			row, ok := m.selectedRow()
			if !ok || row.Kind != comment.RowComment {
				return m, nil
			}
			if err := m.clip.WriteText(row.Comment.Content); err != nil {
				return m, status("Copy failed: "+err.Error(), true)
			}
			return m, status("Copied comment by "+row.Comment.AuthorName, false)
		case key.Matches(msg, common.Keys.Profile):
			row, ok := m.selectedRow()
			if !ok {
				return m, nil
			}
			if row.Comment.AuthorID == "" {
				return m, status(row.Comment.AuthorName+" has no profile page", true)
			}
			route := messages.UserRoute(row.Comment.AuthorID)
			return m, func() tea.Msg { return messages.NavigateMsg{Route: route} }
		case key.Matches(msg, common.Keys.Watch):
			if m.thread == nil {
				return m, nil
			}
			store := m.store
			videoID, title, watched := m.videoID, m.thread.Title, !m.watched
			return m, func() tea.Msg {
				err := store.SetWatched(videoID, title, watched)
				return messages.WatchToggledMsg{VideoID: videoID, Watched: watched, Err: err}
			}
		case key.Matches(msg, common.Keys.Parent):
			if idx := FindParentIndex(m.rows, m.selectedIdx); idx >= 0 {
				m.selectedIdx = idx
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case key.Matches(msg, common.Keys.NextSib):
			if idx := FindNextSiblingIndex(m.rows, m.selectedIdx); idx >= 0 {
				m.selectedIdx = idx
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case key.Matches(msg, common.Keys.Home):
			m.selectedIdx = 0
			m.rebuildContent()
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, common.Keys.End):
			if len(m.rows) > 0 {
				m.selectedIdx = len(m.rows) - 1
				m.rebuildContent()
				m.viewport.GotoBottom()
			}
			return m, nil
		case key.Matches(msg, common.Keys.Refresh):
			m.loading = true
			m.expansion = make(comment.Expansion)
			m.store.InvalidateThread(m.videoID)
			m.viewport.SetContent("  Refreshing...")
			return m, m.load(true)
		case key.Matches(msg, common.Keys.PageDown):
			m.viewport.HalfViewDown()
			return m, nil
		case key.Matches(msg, common.Keys.PageUp):
			m.viewport.HalfViewUp()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// activate handles enter: a comment row opens the reply composer, a
// disclosure row reveals the replies it stands for.
func (m Model) activate() (Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	if row.Kind == comment.RowDisclosure {
		m.expansion.Expand(row.Comment)
		m.relayout()
		// The first revealed reply takes the disclosure row's place.
		m.rebuildContent()
		m.scrollToCursor()
		return m, nil
	}
	videoID := m.videoID
	c := row.Comment
	return m, func() tea.Msg { return messages.OpenReplyMsg{VideoID: videoID, Comment: c} }
}

// View renders the thread view.
func (m Model) View() string {
	header := m.renderHeader()
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
}

// Thread returns the loaded thread, or nil.
func (m Model) Thread() *api.Thread {
	return m.thread
}

// Rows returns the laid-out rows.
func (m Model) Rows() []comment.Row {
	return m.rows
}

// Selected returns the cursor's row index.
func (m Model) Selected() int {
	return m.selectedIdx
}

func (m Model) selectedRow() (comment.Row, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.rows) {
		return comment.Row{}, false
	}
	return m.rows[m.selectedIdx], true
}

func (m *Model) relayout() {
	if m.thread == nil {
		m.rows = nil
		return
	}
	m.rows = comment.Layout(m.thread.Comments, m.expansion)
	if m.selectedIdx >= len(m.rows) {
		m.selectedIdx = len(m.rows) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

func (m *Model) rebuildContent() {
	if len(m.rows) == 0 {
		m.offsets = nil
		switch {
		case m.loading:
			m.viewport.SetContent("  Loading comments...")
		case m.err != "":
			m.viewport.SetContent("  Error loading comments: " + m.err)
		default:
			m.viewport.SetContent("  No comments yet.")
		}
		return
	}

	var sb strings.Builder
	m.offsets = make([]rowOffset, len(m.rows))
	availWidth := m.width - 4
	if availWidth < 20 {
		availWidth = 20
	}

	lineCount := 0
	for i, row := range m.rows {
		startLine := lineCount
		selected := i == m.selectedIdx

		var lines []string
		depth := row.Depth
		if row.Kind == comment.RowDisclosure {
			depth++
			lines = []string{common.DisclosureStyle.Render("▸ " + row.Label())}
		} else {
			lines = m.commentLines(row.Comment, availWidth-min(depth*2, maxIndent)-4)
		}

		indent := strings.Repeat(" ", min(depth*2, maxIndent))
		barColor := common.DepthColor(depth)
		if selected {
			barColor = common.Accent
		}
		bar := lipgloss.NewStyle().Foreground(barColor).Render("│")

		for _, line := range lines {
			out := indent + bar + " " + line
			if selected {
				out = common.SelectedStyle.Render(out)
			}
			sb.WriteString(out + "\n")
			lineCount++
		}
		if row.Kind == comment.RowComment && !m.followedByDisclosure(i) {
			sb.WriteString("\n")
			lineCount++
		}

		m.offsets[i] = rowOffset{startLine: startLine, endLine: lineCount - 1}
	}

	m.viewport.SetContent(sb.String())
}

// rowAt maps a screen line inside this view to a row index, or -1.
func (m Model) rowAt(y int) int {
	header := m.renderHeader()
	line := y - (strings.Count(header, "\n") + 1)
	if line < 0 || line >= m.viewport.Height {
		return -1
	}
	line += m.viewport.YOffset
	for i, off := range m.offsets {
		if line >= off.startLine && line <= off.endLine {
			return i
		}
	}
	return -1
}

func (m *Model) followedByDisclosure(i int) bool {
	return i+1 < len(m.rows) && m.rows[i+1].Kind == comment.RowDisclosure
}

// commentLines renders the header line (avatar, name, badges, date) and
// the wrapped body.
func (m *Model) commentLines(c comment.Comment, bodyWidth int) []string {
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	header := avatarStyle.Render(avatarGlyph(c.AuthorName)) + " " + common.AuthorStyle.Render(c.AuthorName)
	for _, b := range comment.Badges(c) {
		header += " " + common.RenderBadge(b)
	}
	if c.Date != "" {
		header += " " + common.MetaStyle.Render(c.Date)
	}

	lines := []string{header}
	if body := render.Wrap(c.Content, bodyWidth); body != "" {
		lines = append(lines, strings.Split(body, "\n")...)
	}
	return lines
}

func (m *Model) scrollToCursor() {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.offsets) {
		return
	}
	off := m.offsets[m.selectedIdx]
	if off.startLine < m.viewport.YOffset || off.startLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(off.startLine)
	}
}

func (m Model) renderHeader() string {
	if m.thread == nil {
		return common.HeaderStyle.Render("Loading " + m.videoID + "...")
	}

	var parts []string
	title := m.thread.Title
	if title == "" {
		title = m.videoID
	}
	if m.watched {
		title += " " + watchedStyle.Render("[watching]")
	}
	parts = append(parts, common.HeaderStyle.Render(title))

	meta := fmt.Sprintf("by %s | %d comments", m.thread.OwnerName, m.thread.CommentCount())
	if m.thread.PageCount > 1 {
		meta += fmt.Sprintf(" | %d pages", m.thread.PageCount)
	}
	parts = append(parts, common.MetaStyle.Padding(0, 1).Render(meta))

	parts = append(parts, common.SeparatorStyle.Render(strings.Repeat("─", m.width)))
	k := common.Keys
	parts = append(parts, common.MetaStyle.Render(common.Hint(k.Down, k.Enter, k.Comment, k.Copy, k.Profile, k.Watch, k.Parent, k.Refresh)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func status(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return messages.StatusMsg{Text: text, IsError: isError} }
}
