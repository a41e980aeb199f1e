package messages

import (
	"strings"

	"github.com/fragmede/iwaraterm/internal/api"
	"github.com/fragmede/iwaraterm/internal/comment"
)

// Route prefixes understood by NavigateMsg.
const (
	routeUser  = "user/"
	routeVideo = "video/"
)

// UserRoute is the navigation route of an author's profile page.
func UserRoute(authorID string) string { return routeUser + authorID }

// VideoRoute is the navigation route of a video's comment thread.
func VideoRoute(videoID string) string { return routeVideo + videoID }

// ParseRoute splits a route into its kind ("user" or "video") and id.
func ParseRoute(route string) (kind, id string, ok bool) {
	switch {
	case strings.HasPrefix(route, routeUser):
		kind, id = "user", strings.TrimPrefix(route, routeUser)
	case strings.HasPrefix(route, routeVideo):
		kind, id = "video", strings.TrimPrefix(route, routeVideo)
	default:
		return "", "", false
	}
	return kind, id, id != ""
}

// View transition messages.
type (
	NavigateMsg   struct{ Route string }
	OpenThreadMsg struct{ VideoID string }
	GoBackMsg     struct{}
	OpenLoginMsg  struct{}
	OpenNotifyMsg struct{}

	// OpenReplyMsg asks for the reply composer. A zero Comment starts a
	// top-level comment on the video.
	OpenReplyMsg struct {
		VideoID string
		Comment comment.Comment
	}
)

// Data messages.
type (
	ThreadLoadedMsg struct {
		VideoID string
		Thread  *api.Thread
		Err     error
	}

	UserLoadedMsg struct {
		User *api.User
		Err  error
	}

	LoginResultMsg struct {
		Username string
		Err      error
	}

	ReplyResultMsg struct {
		VideoID  string
		ParentID string
		Err      error
	}

	WatchToggledMsg struct {
		VideoID string
		Watched bool
		Err     error
	}

	NewNotificationMsg struct {
		UnreadCount int
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}

	SessionRestoredMsg struct {
		Username string
	}
)
