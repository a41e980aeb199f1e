package comment

// PosterType classifies a comment's author relative to the thread.
type PosterType int

const (
	PosterNormal PosterType = iota
	PosterOwner             // uploaded the video the thread belongs to
	PosterSelf              // the logged-in viewer
)

func (p PosterType) String() string {
	switch p {
	case PosterOwner:
		return "owner"
	case PosterSelf:
		return "self"
	default:
		return "normal"
	}
}

// Comment is a single posted message with its nested replies.
// Values are built by the scraper and never mutated afterwards.
type Comment struct {
	ID         string     `json:"id"`
	AuthorID   string     `json:"author_id"`
	AuthorName string     `json:"author_name"`
	AuthorPic  string     `json:"author_pic"`
	Poster     PosterType `json:"poster"`
	FromApp    bool       `json:"from_app"`
	Date       string     `json:"date"`
	Content    string     `json:"content"`
	Replies    []Comment  `json:"replies,omitempty"`
}

// AllReplies returns every descendant of c, depth first with each parent
// ahead of its children.
func AllReplies(c Comment) []Comment {
	var out []Comment
	var walk func(Comment)
	walk = func(n Comment) {
		for _, r := range n.Replies {
			out = append(out, r)
			walk(r)
		}
	}
	walk(c)
	return out
}

// CountReplies is len(AllReplies(c)) without building the slice.
func CountReplies(c Comment) int {
	n := 0
	for _, r := range c.Replies {
		n += 1 + CountReplies(r)
	}
	return n
}

// InitiallyExpanded reports whether c's replies start out visible.
// Threads with at most one reply in total are shown open.
func InitiallyExpanded(c Comment) bool {
	return CountReplies(c) <= 1
}

// AppSignature is appended to replies posted from this client so they can
// be recognised when the thread is scraped again.
const AppSignature = "(via Iwara4a)"
