package api

import (
	"errors"

	"github.com/fragmede/iwaraterm/internal/comment"
)

var (
	// ErrNotFound is returned when the site answers 404.
	ErrNotFound = errors.New("not found")

	// ErrUnexpectedPage means the HTML did not have the expected layout,
	// usually a login wall or a maintenance page.
	ErrUnexpectedPage = errors.New("unexpected page layout")
)

// ThreadPage is one page of a video's comment thread.
type ThreadPage struct {
	VideoID   string
	Title     string
	OwnerID   string
	OwnerName string
	Page      int // 0-based, as in the site's ?page= parameter
	PageCount int
	Comments  []comment.Comment
}

// Thread is a video's full comment thread, all pages merged.
type Thread struct {
	VideoID   string            `json:"video_id"`
	Title     string            `json:"title"`
	OwnerID   string            `json:"owner_id"`
	OwnerName string            `json:"owner_name"`
	PageCount int               `json:"page_count"`
	Comments  []comment.Comment `json:"comments"`
}

// CommentCount returns the number of comments at every depth.
func (t *Thread) CommentCount() int {
	n := 0
	for _, c := range t.Comments {
		n += 1 + comment.CountReplies(c)
	}
	return n
}

// User is an author profile.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Joined    string `json:"joined"`
	About     string `json:"about"`
}
