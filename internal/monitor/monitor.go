package monitor

import (
	"context"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fragmede/iwaraterm/internal/api"
	"github.com/fragmede/iwaraterm/internal/cache"
	"github.com/fragmede/iwaraterm/internal/comment"
	"github.com/fragmede/iwaraterm/internal/config"
	"github.com/fragmede/iwaraterm/internal/render"
	"github.com/fragmede/iwaraterm/internal/ui/messages"
)

const previewWidth = 120

// Fetcher loads a video's full comment thread.
type Fetcher interface {
	FetchThread(ctx context.Context, videoID string) (*api.Thread, error)
}

// Store is the slice of the cache the monitor reads and writes.
type Store interface {
	WatchedThreads(limit int) ([]cache.WatchedThread, error)
	MarkChecked(videoID string, at time.Time) error
	SeenComments(videoID string) (map[string]bool, error)
	MarkSeen(videoID string, ids []string) error
	AddNotification(n cache.Notification) error
	UnreadCount() int
	PutThread(t *api.Thread) error
}

// Sender delivers messages to the running program.
type Sender interface {
	Send(msg tea.Msg)
}

// Monitor polls watched threads for comments it has not seen before.
type Monitor struct {
	fetcher Fetcher
	store   Store
	cfg     config.Config
	log     *zap.Logger

	mu      sync.Mutex
	sender  Sender
	cancel  context.CancelFunc
	running bool
}

// New creates a new background monitor.
func New(cfg config.Config, fetcher Fetcher, store Store, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		log:     logger.Named("monitor"),
	}
}

// Start begins the background polling loop. Starting a running monitor
// is a no-op.
func (m *Monitor) Start(ctx context.Context, sender Sender) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.sender = sender
	m.running = true
	go m.loop(ctx)
}

// Stop halts the background polling. It is safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.running = false
}

func (m *Monitor) loop(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.MonitorInterval)
	defer ticker.Stop()

	m.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

type scan struct {
	watched cache.WatchedThread
	thread  *api.Thread
}

// Poll checks the threads that are due and returns how many new
// notifications were recorded.
func (m *Monitor) Poll(ctx context.Context) int {
	due, err := m.store.WatchedThreads(m.cfg.MonitorBatch)
	if err != nil {
		m.log.Warn("listing watched threads", zap.Error(err))
		return 0
	}
	if len(due) == 0 {
		return 0
	}

	scans := make([]scan, len(due))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, m.cfg.FetchConcurrency))
	for i, w := range due {
		g.Go(func() error {
			t, err := m.fetcher.FetchThread(gctx, w.VideoID)
			if err != nil {
				// One broken thread must not stall the others.
				m.log.Info("fetching watched thread", zap.String("video", w.VideoID), zap.Error(err))
				return nil
			}
			scans[i] = scan{watched: w, thread: t}
			return nil
		})
	}
	g.Wait()

	if ctx.Err() != nil {
		return 0
	}

	added := 0
	for _, s := range scans {
		if s.thread == nil {
			continue
		}
		n, err := m.record(s)
		if err != nil {
			m.log.Warn("recording thread scan", zap.String("video", s.watched.VideoID), zap.Error(err))
			continue
		}
		added += n
	}

	if added > 0 {
		m.mu.Lock()
		sender := m.sender
		m.mu.Unlock()
		if sender != nil {
			sender.Send(messages.NewNotificationMsg{UnreadCount: m.store.UnreadCount()})
		}
	}
	return added
}

// record diffs one fetched thread against its seen set. The first scan of
// a thread only seeds the set.
func (m *Monitor) record(s scan) (int, error) {
	videoID := s.watched.VideoID
	seen, err := m.store.SeenComments(videoID)
	if err != nil {
		return 0, err
	}
	firstScan := s.watched.LastChecked.IsZero()

	var fresh []string
	added := 0
	for _, c := range flatten(s.thread.Comments) {
		if seen[c.ID] {
			continue
		}
		fresh = append(fresh, c.ID)
		if firstScan || c.Poster == comment.PosterSelf {
			continue
		}
		err := m.store.AddNotification(cache.Notification{
			VideoID:     videoID,
			CommentID:   c.ID,
			VideoTitle:  s.thread.Title,
			AuthorName:  c.AuthorName,
			TextPreview: Preview(c.Content),
		})
		if err != nil {
			return added, err
		}
		added++
	}

	if err := m.store.MarkSeen(videoID, fresh); err != nil {
		return added, err
	}
	if err := m.store.PutThread(s.thread); err != nil {
		m.log.Debug("caching watched thread", zap.Error(err))
	}
	return added, m.store.MarkChecked(videoID, time.Now())
}

// flatten lists every comment of a thread, roots included.
func flatten(roots []comment.Comment) []comment.Comment {
	var out []comment.Comment
	for _, r := range roots {
		out = append(out, r)
		out = append(out, comment.AllReplies(r)...)
	}
	return out
}

// Preview squashes a comment body onto one line for the notification list.
func Preview(content string) string {
	return render.Truncate(strings.Join(strings.Fields(content), " "), previewWidth)
}
