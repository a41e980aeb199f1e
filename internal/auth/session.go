package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fragmede/iwaraterm/internal/comment"
)

const requestTimeout = 20 * time.Second

// ErrNotLoggedIn is returned by actions that need an authenticated session.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrNoFormToken means the login page carried no form_build_id, which
// happens when the site is down for maintenance or the form changed.
var ErrNoFormToken = errors.New("login form token missing")

// SiteError is a message the site rendered in a Drupal error block.
type SiteError struct {
	Message string
}

func (e *SiteError) Error() string {
	return "site error: " + e.Message
}

// Session manages the site's cookie-based login state.
type Session struct {
	base     *url.URL
	client   *http.Client
	jar      *cookiejar.Jar
	log      *zap.Logger
	sign     bool
	Username string
	LoggedIn bool
}

// NewSession creates a logged-out session for baseURL. When sign is set,
// posted replies carry comment.AppSignature.
func NewSession(baseURL string, sign bool, logger *zap.Logger) (*Session, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	jar, _ := cookiejar.New(nil)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		base: u,
		client: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
		jar:  jar,
		log:  logger,
		sign: sign,
	}, nil
}

// Client returns the cookie-carrying HTTP client. Pages fetched with it
// mark the viewer's own comments.
func (s *Session) Client() *http.Client {
	return s.client
}

func (s *Session) url(path string) string {
	ref, _ := url.Parse(path)
	return s.base.ResolveReference(ref).String()
}

func (s *Session) fetch(ctx context.Context, path string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(path), nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp, body, err
}

func (s *Session) postForm(ctx context.Context, path string, data url.Values) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url(path), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp, body, err
}

// Login authenticates with username and password.
func (s *Session) Login(ctx context.Context, username, password string) error {
	_, page, err := s.fetch(ctx, "/user/login")
	if err != nil {
		return fmt.Errorf("fetching login page: %w", err)
	}
	data := extractFormInputs(string(page))
	if data.Get("form_build_id") == "" {
		return fmt.Errorf("%w (%d bytes)", ErrNoFormToken, len(page))
	}
	data.Set("name", username)
	data.Set("pass", password)
	if data.Get("form_id") == "" {
		data.Set("form_id", "user_login")
	}

	resp, body, err := s.postForm(ctx, "/user/login", data)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	if err := checkResponse(resp.StatusCode, body); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// Validate: fetch the front page and check for the logout link.
	if err := s.validate(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	s.Username = username
	s.LoggedIn = true
	s.log.Info("logged in", zap.String("user", username))
	return nil
}

// savedSession is the JSON structure written to disk.
type savedSession struct {
	Username string        `json:"username"`
	Cookies  []savedCookie `json:"cookies"`
	SavedAt  time.Time     `json:"saved_at"`
}

type savedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HttpOnly bool      `json:"http_only"`
}

// Save persists the session cookies to a file.
func (s *Session) Save(path string) error {
	if !s.LoggedIn {
		return nil
	}

	cookies := s.jar.Cookies(s.base)
	sc := make([]savedCookie, len(cookies))
	for i, c := range cookies {
		sc[i] = savedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
	}

	data, err := json.MarshalIndent(savedSession{
		Username: s.Username,
		Cookies:  sc,
		SavedAt:  time.Now(),
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Load restores a session from a file and validates it's still good.
// Returns true if the session was restored successfully.
func (s *Session) Load(ctx context.Context, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var saved savedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		s.log.Warn("discarding unreadable session file", zap.Error(err))
		return false
	}
	if saved.Username == "" || len(saved.Cookies) == 0 {
		return false
	}

	cookies := make([]*http.Cookie, len(saved.Cookies))
	for i, sc := range saved.Cookies {
		cookies[i] = &http.Cookie{
			Name:     sc.Name,
			Value:    sc.Value,
			Domain:   sc.Domain,
			Path:     sc.Path,
			Expires:  sc.Expires,
			Secure:   sc.Secure,
			HttpOnly: sc.HttpOnly,
		}
	}
	s.jar.SetCookies(s.base, cookies)

	if err := s.validate(ctx); err != nil {
		// Stale session, clear it.
		s.log.Info("saved session expired", zap.String("user", saved.Username))
		os.Remove(path)
		return false
	}

	s.Username = saved.Username
	s.LoggedIn = true
	return true
}

func (s *Session) validate(ctx context.Context) error {
	_, body, err := s.fetch(ctx, "/")
	if err != nil {
		return err
	}
	if !strings.Contains(string(body), "/user/logout") {
		return fmt.Errorf("authentication failed - no logout link found")
	}
	return nil
}

// Reply posts a comment on a video. An empty parentID posts a top-level
// comment; otherwise the text replies to that comment.
func (s *Session) Reply(ctx context.Context, videoID, parentID, text string) error {
	if !s.LoggedIn {
		return ErrNotLoggedIn
	}

	formPath := "/comment/reply/" + url.PathEscape(videoID)
	if parentID != "" {
		formPath += "/" + url.PathEscape(parentID)
	}

	_, page, err := s.fetch(ctx, formPath)
	if err != nil {
		return fmt.Errorf("fetching reply form: %w", err)
	}
	data := extractFormInputs(string(page))
	if data.Get("form_build_id") == "" || data.Get("form_token") == "" {
		s.log.Debug("reply form without tokens", zap.Int("bytes", len(page)))
		return fmt.Errorf("could not extract reply tokens from reply form (%d bytes)", len(page))
	}
	if s.sign {
		text = strings.TrimRight(text, "\n") + "\n\n" + comment.AppSignature
	}
	data.Set("comment_body[und][0][value]", text)
	data.Set("op", "保存")

	resp, body, err := s.postForm(ctx, formPath, data)
	if err != nil {
		return fmt.Errorf("submitting reply: %w", err)
	}
	s.log.Info("reply posted",
		zap.String("video", videoID),
		zap.String("parent", parentID),
		zap.Int("status", resp.StatusCode))
	return checkResponse(resp.StatusCode, body)
}

// hiddenInputRe matches <input type="hidden" name="X" value="Y"> with
// attributes in any order. It captures name and value groups.
var hiddenInputRe = regexp.MustCompile(
	`<input[^>]*type=["']?hidden["']?[^>]*name=["']([^"']+)["'][^>]*value=["']([^"']*)["'][^>]*/?>` +
		`|` +
		`<input[^>]*value=["']([^"']*)["'][^>]*name=["']([^"']+)["'][^>]*type=["']?hidden["']?[^>]*/?>` +
		`|` +
		`<input[^>]*name=["']([^"']+)["'][^>]*value=["']([^"']*)["'][^>]*type=["']?hidden["']?[^>]*/?>`,
)

// extractFormInputs extracts all hidden input fields from HTML as url.Values.
func extractFormInputs(html string) url.Values {
	vals := url.Values{}
	for _, m := range hiddenInputRe.FindAllStringSubmatch(html, -1) {
		// Groups depend on which alternation matched.
		switch {
		case m[1] != "":
			vals.Set(m[1], m[2])
		case m[4] != "":
			vals.Set(m[4], m[3]) // value before name
		case m[5] != "":
			vals.Set(m[5], m[6]) // name before value, type last
		}
	}
	return vals
}

var drupalErrorRe = regexp.MustCompile(`(?s)<div class="messages error">(.*?)</div>`)
var tagRe = regexp.MustCompile(`<[^>]+>`)

// checkResponse checks a POST response for Drupal error messages.
func checkResponse(statusCode int, body []byte) error {
	if statusCode >= 400 {
		return fmt.Errorf("request failed with status %d", statusCode)
	}
	if m := drupalErrorRe.FindSubmatch(body); m != nil {
		msg := strings.Join(strings.Fields(tagRe.ReplaceAllString(string(m[1]), " ")), " ")
		if msg == "" {
			msg = "unknown error"
		}
		return &SiteError{Message: msg}
	}
	return nil
}
