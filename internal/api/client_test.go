package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/iwaraterm/internal/comment"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

// siteServer serves the fixture pages for video abc123 and user alice.
func siteServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/videos/abc123", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.URL.Query().Get("page") {
		case "":
			w.Write(fixture(t, "video_page0.html"))
		case "1":
			w.Write(fixture(t, "video_page1.html"))
		case "2":
			w.Write(fixture(t, "video_page2.html"))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/videos/broken", func(w http.ResponseWriter, r *http.Request) {
		w.Write(fixture(t, "maintenance.html"))
	})
	mux.HandleFunc("/videos/flaky", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "" {
			w.Write(fixture(t, "video_page0.html"))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, r *http.Request) {
		w.Write(fixture(t, "user.html"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(srv.URL, srv.Client(), nil)
	require.NoError(t, err)
	return c
}

func TestGetThreadPage_ParsesTree(t *testing.T) {
	srv, _ := siteServer(t)
	c := newTestClient(t, srv)

	tp, err := c.GetThreadPage(context.Background(), "abc123", 0)
	require.NoError(t, err)

	assert.Equal(t, "Dance cover", tp.Title)
	assert.Equal(t, "uploader", tp.OwnerID)
	assert.Equal(t, "Uploader", tp.OwnerName)
	assert.Equal(t, 3, tp.PageCount)
	require.Len(t, tp.Comments, 2, "form comment must be ignored")

	first := tp.Comments[0]
	assert.Equal(t, "101", first.ID)
	assert.Equal(t, "alice", first.AuthorID)
	assert.Equal(t, "Alice", first.AuthorName)
	assert.Equal(t, srv.URL+"/sites/default/files/pictures/alice.jpg", first.AuthorPic)
	assert.Equal(t, "2021-03-04 11:00", first.Date)
	assert.Equal(t, "Great *moves*!\n\nsecond paragraph", first.Content)
	assert.Equal(t, comment.PosterSelf, first.Poster)
	assert.False(t, first.FromApp)

	require.Len(t, first.Replies, 1)
	reply := first.Replies[0]
	assert.Equal(t, "102", reply.ID)
	assert.Equal(t, comment.PosterOwner, reply.Poster, "owner marker wins over viewer marker")
	assert.True(t, reply.FromApp)
	assert.Equal(t, "thanks", reply.Content)
	assert.Equal(t, "https://cdn.example/uploader.png", reply.AuthorPic)

	require.Len(t, reply.Replies, 2)
	assert.Equal(t, "ねこ", reply.Replies[0].AuthorID)
	assert.Equal(t, "同意", reply.Replies[0].Content)
	assert.Equal(t, "104", reply.Replies[1].ID)

	all := comment.AllReplies(first)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"102", "103", "104"}, []string{all[0].ID, all[1].ID, all[2].ID})

	guest := tp.Comments[1]
	assert.Equal(t, "105", guest.ID)
	assert.Equal(t, "Guest", guest.AuthorName)
	assert.Empty(t, guest.AuthorID)
	assert.Equal(t, "2021-03-05 09:00", guest.Date)
}

func TestFetchThread_MergesAllPages(t *testing.T) {
	srv, hits := siteServer(t)
	c := newTestClient(t, srv)
	c.SetConcurrency(2)

	thread, err := c.FetchThread(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
	assert.Equal(t, 3, thread.PageCount)
	require.Len(t, thread.Comments, 4)
	assert.Equal(t, "101", thread.Comments[0].ID)
	assert.Equal(t, "105", thread.Comments[1].ID)
	assert.Equal(t, "201", thread.Comments[2].ID)
	assert.Equal(t, "301", thread.Comments[3].ID)
	assert.Equal(t, 7, thread.CommentCount())
}

func TestFetchThread_PageErrorFailsWhole(t *testing.T) {
	srv, _ := siteServer(t)
	c := newTestClient(t, srv)

	_, err := c.FetchThread(context.Background(), "flaky")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestGetThreadPage_Errors(t *testing.T) {
	srv, _ := siteServer(t)
	c := newTestClient(t, srv)

	_, err := c.GetThreadPage(context.Background(), "missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetThreadPage(context.Background(), "broken", 0)
	assert.ErrorIs(t, err, ErrUnexpectedPage)
}

func TestGetUser(t *testing.T) {
	srv, _ := siteServer(t)
	c := newTestClient(t, srv)

	user, err := c.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "2019-01-02", user.Joined)
	assert.Equal(t, "I make **MMD** videos.", user.About)
	assert.Equal(t, srv.URL+"/sites/default/files/pictures/alice.jpg", user.AvatarURL)

	_, err = c.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"abc123", "abc123", false},
		{"  abc123 ", "abc123", false},
		{"https://ecchi.iwara.tv/videos/abc123", "abc123", false},
		{"https://ecchi.iwara.tv/videos/abc123?language=ja", "abc123", false},
		{"/videos/xyz/", "xyz", false},
		{"", "", true},
		{"https://ecchi.iwara.tv/videos/", "", true},
		{"https://ecchi.iwara.tv/users/alice", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVideoID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient("not a url", nil, nil)
	assert.Error(t, err)
}

func TestResolveAndUserID(t *testing.T) {
	base, _ := url.Parse("https://ecchi.iwara.tv")
	assert.Equal(t, "https://ecchi.iwara.tv/a.png", resolve(base, "/a.png"))
	assert.Equal(t, "", resolve(base, ""))
	assert.Equal(t, "bob", userIDFromHref("https://ecchi.iwara.tv/users/bob/"))
	assert.Equal(t, "", userIDFromHref("/videos/abc"))
}

func TestStripSignature(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		fromApp bool
	}{
		{"trailing", "thanks (via Iwara4a)", "thanks", true},
		{"own line", "thanks\n\n(via Iwara4a)\n", "thanks", true},
		{"quoted mid-text", "they wrote (via Iwara4a) above", "they wrote (via Iwara4a) above", false},
		{"plain", "nice", "nice", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fromApp := stripSignature(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.fromApp, fromApp)
		})
	}
}
