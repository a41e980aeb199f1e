package api

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/fragmede/iwaraterm/internal/comment"
	"github.com/fragmede/iwaraterm/internal/render"
)

// Labels the site puts in front of the comment date.
var datePrefixes = []string{"Submitted by", "作成日：", "作成日:", "投稿日：", "on"}

// ParseThreadPage extracts the video header and the comment tree from a
// video page. Comments are siblings inside div#comments; the replies of a
// comment live in the div.indented that immediately follows it.
func ParseThreadPage(r io.Reader, base *url.URL, videoID string, page int) (*ThreadPage, error) {
	doc, err := xhtml.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	tp := &ThreadPage{VideoID: videoID, Page: page}

	if h := findFirst(doc, byClass("h1", "title")); h != nil {
		tp.Title = textOf(h)
	}
	if info := findFirst(doc, byClass("", "node-info")); info != nil {
		if a := findFirst(info, byClass("a", "username")); a != nil {
			tp.OwnerID = userIDFromHref(attr(a, "href"))
			tp.OwnerName = textOf(a)
		}
	}

	box := findFirst(doc, byID("comments"))
	if tp.Title == "" && box == nil {
		return nil, ErrUnexpectedPage
	}
	if box != nil {
		p := &pageParser{base: base, page: page}
		tp.Comments = p.list(box)
	}
	tp.PageCount = pageCount(doc, page)
	return tp, nil
}

type pageParser struct {
	base *url.URL
	page int
	seq  int
}

func (p *pageParser) list(parent *xhtml.Node) []comment.Comment {
	var out []comment.Comment
	pendingID := ""
	for n := parent.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xhtml.ElementNode {
			continue
		}
		switch {
		case n.Data == "a" && strings.HasPrefix(attr(n, "id"), "comment-"):
			pendingID = strings.TrimPrefix(attr(n, "id"), "comment-")
		case n.Data == "div" && hasClass(n, "comment"):
			c := p.comment(n)
			if c.ID == "" {
				c.ID = pendingID
			}
			if c.ID == "" {
				p.seq++
				c.ID = fmt.Sprintf("p%d-n%d", p.page, p.seq)
			}
			pendingID = ""
			out = append(out, c)
		case n.Data == "div" && hasClass(n, "indented"):
			replies := p.list(n)
			if len(out) == 0 {
				// Orphaned replies (the parent is on a previous page).
				out = append(out, replies...)
				continue
			}
			last := &out[len(out)-1]
			last.Replies = append(last.Replies, replies...)
		case n.Data == "form":
		default:
			out = append(out, p.list(n)...)
		}
	}
	return out
}

func (p *pageParser) comment(n *xhtml.Node) comment.Comment {
	var c comment.Comment
	if id := attr(n, "id"); strings.HasPrefix(id, "comment-") {
		c.ID = strings.TrimPrefix(id, "comment-")
	}

	if a := findFirst(n, byClass("a", "username")); a != nil {
		c.AuthorID = userIDFromHref(attr(a, "href"))
		c.AuthorName = textOf(a)
	} else if s := findFirst(n, byClass("", "username")); s != nil {
		c.AuthorName = textOf(s)
	}

	if pic := findFirst(n, byClass("", "user-picture")); pic != nil {
		if img := findFirst(pic, byTag("img")); img != nil {
			c.AuthorPic = resolve(p.base, attr(img, "src"))
		}
	}

	if sub := findFirst(n, byClass("", "submitted")); sub != nil {
		c.Date = cleanDate(textOf(sub), c.AuthorName)
	}

	if body := findFirst(n, byClass("", "content")); body != nil {
		c.Content = render.HTMLToText(innerHTML(body), 0)
	}
	c.Content, c.FromApp = stripSignature(c.Content)

	c.Poster = comment.ClassifyPoster(
		hasClass(n, "comment-by-node-author"),
		hasClass(n, "comment-by-viewer"),
	)
	return c
}

// stripSignature removes the app signature when it ends the body. A
// signature quoted mid-text does not count.
func stripSignature(content string) (string, bool) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasSuffix(trimmed, comment.AppSignature) {
		return content, false
	}
	return strings.TrimSpace(strings.TrimSuffix(trimmed, comment.AppSignature)), true
}

func cleanDate(text, author string) string {
	if author != "" {
		text = strings.Replace(text, author, "", 1)
	}
	text = strings.TrimSpace(text)
	for _, prefix := range datePrefixes {
		text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
	}
	return text
}

// pageCount reads the pager. Links carry the 0-based page index.
func pageCount(doc *xhtml.Node, current int) int {
	highest := current
	pager := findFirst(doc, byClass("ul", "pager"))
	if pager == nil {
		return current + 1
	}
	for _, a := range findAll(pager, byTag("a")) {
		u, err := url.Parse(attr(a, "href"))
		if err != nil {
			continue
		}
		if n, err := strconv.Atoi(u.Query().Get("page")); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

func userIDFromHref(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	path := strings.TrimSuffix(u.Path, "/")
	idx := strings.Index(path, "/users/")
	if idx < 0 {
		return ""
	}
	return path[idx+len("/users/"):]
}

func resolve(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}

// ParseUserPage extracts an author profile.
func ParseUserPage(r io.Reader, base *url.URL, userID string) (*User, error) {
	doc, err := xhtml.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	root := findFirst(doc, byClass("", "profile"))
	if root == nil {
		root = doc
	}

	user := &User{ID: userID}
	if h := findFirst(root, byTag("h2")); h != nil {
		user.Name = textOf(h)
	} else if h := findFirst(doc, byClass("h1", "title")); h != nil {
		user.Name = textOf(h)
	}
	if user.Name == "" {
		return nil, ErrUnexpectedPage
	}

	if pic := findFirst(root, byClass("", "user-picture")); pic != nil {
		if img := findFirst(pic, byTag("img")); img != nil {
			user.AvatarURL = resolve(base, attr(img, "src"))
		}
	}
	if created := findFirst(root, byClass("", "views-field-created")); created != nil {
		if v := findFirst(created, byClass("", "field-content")); v != nil {
			user.Joined = textOf(v)
		} else {
			user.Joined = textOf(created)
		}
	}
	if about := findFirst(root, byClass("", "field-name-field-about")); about != nil {
		user.About = render.HTMLToText(innerHTML(about), 0)
	}
	return user, nil
}
