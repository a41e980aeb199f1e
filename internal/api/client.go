package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	requestTimeout = 15 * time.Second
	userAgent      = "iwaraterm/1.0"
	maxPages       = 50
)

// Client scrapes video and user pages.
type Client struct {
	base        *url.URL
	http        *http.Client
	concurrency int
	log         *zap.Logger
}

// NewClient creates a scraper for baseURL. hc may carry a session cookie
// jar; nil gets a plain client.
func NewClient(baseURL string, hc *http.Client, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if hc == nil {
		hc = &http.Client{Timeout: requestTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:        u,
		http:        hc,
		concurrency: 4,
		log:         logger,
	}, nil
}

// SetConcurrency limits how many pages FetchThread loads at once.
func (c *Client) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	c.concurrency = n
}

// BaseURL returns the site root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// get fetches path relative to the base URL and returns the open body.
func (c *Client) get(ctx context.Context, path string) (io.ReadCloser, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing path %q: %w", path, err)
	}
	target := c.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	c.log.Debug("fetched page",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", target, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, target, strings.TrimSpace(string(body)))
	}
	return resp.Body, nil
}

// GetThreadPage fetches and parses a single comment page of a video.
func (c *Client) GetThreadPage(ctx context.Context, videoID string, page int) (*ThreadPage, error) {
	path := "/videos/" + url.PathEscape(videoID)
	if page > 0 {
		path += fmt.Sprintf("?page=%d", page)
	}
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	tp, err := ParseThreadPage(body, c.base, videoID, page)
	if err != nil {
		return nil, fmt.Errorf("parsing video %s page %d: %w", videoID, page, err)
	}
	return tp, nil
}

// FetchThread loads every comment page of a video. The first page tells
// how many pages exist; the rest are fetched concurrently and merged in
// page order.
func (c *Client) FetchThread(ctx context.Context, videoID string) (*Thread, error) {
	first, err := c.GetThreadPage(ctx, videoID, 0)
	if err != nil {
		return nil, err
	}

	count := first.PageCount
	if count > maxPages {
		c.log.Warn("thread truncated", zap.String("video", videoID), zap.Int("pages", count))
		count = maxPages
	}
	pages := make([]*ThreadPage, count)
	pages[0] = first

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for p := 1; p < count; p++ {
		p := p
		g.Go(func() error {
			tp, err := c.GetThreadPage(gctx, videoID, p)
			if err != nil {
				return err
			}
			pages[p] = tp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	thread := &Thread{
		VideoID:   videoID,
		Title:     first.Title,
		OwnerID:   first.OwnerID,
		OwnerName: first.OwnerName,
		PageCount: count,
	}
	for _, tp := range pages {
		thread.Comments = append(thread.Comments, tp.Comments...)
	}
	return thread, nil
}

// GetUser fetches an author profile.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	body, err := c.get(ctx, "/users/"+url.PathEscape(userID))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	user, err := ParseUserPage(body, c.base, userID)
	if err != nil {
		return nil, fmt.Errorf("parsing user %s: %w", userID, err)
	}
	return user, nil
}

// ParseVideoID accepts either a bare video id or a URL containing
// /videos/{id}.
func ParseVideoID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("empty video id")
	}
	if idx := strings.Index(s, "/videos/"); idx >= 0 {
		s = s[idx+len("/videos/"):]
		if end := strings.IndexAny(s, "/?#"); end >= 0 {
			s = s[:end]
		}
		if s == "" {
			return "", fmt.Errorf("no video id in %q", input)
		}
		return s, nil
	}
	if strings.ContainsAny(s, "/?# ") {
		return "", fmt.Errorf("not a video id or url: %q", input)
	}
	return s, nil
}
